package model

import (
	"encoding/json"
	"sort"
)

// InstallInfo records the options a package was installed with. The detection
// engine treats it as an opaque payload and forwards it unchanged so the
// installer can replay the same options. Fields this version does not know
// about are kept verbatim in Extra and survive a round-trip.
type InstallInfo struct {
	VersionReq        *string
	Bins              []string
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
	Profile           string
	Target            string
	// Rustc is the raw output of `rustc -V --verbose` at install time.
	Rustc string

	// Extra holds unrecognized fields, preserved losslessly.
	Extra map[string]json.RawMessage
}

type installInfoKnown struct {
	VersionReq        *string  `json:"version_req"`
	Bins              []string `json:"bins"`
	Features          []string `json:"features"`
	AllFeatures       bool     `json:"all_features"`
	NoDefaultFeatures bool     `json:"no_default_features"`
	Profile           string   `json:"profile"`
	Target            string   `json:"target"`
	Rustc             string   `json:"rustc"`
}

var installInfoFields = map[string]struct{}{
	"version_req": {}, "bins": {}, "features": {}, "all_features": {},
	"no_default_features": {}, "profile": {}, "target": {}, "rustc": {},
}

func (i *InstallInfo) UnmarshalJSON(data []byte) error {
	var known installInfoKnown
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if _, ok := installInfoFields[k]; ok {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}

	// The writer stores bins and features as ordered sets.
	sort.Strings(known.Bins)
	sort.Strings(known.Features)

	*i = InstallInfo{
		VersionReq:        known.VersionReq,
		Bins:              known.Bins,
		Features:          known.Features,
		AllFeatures:       known.AllFeatures,
		NoDefaultFeatures: known.NoDefaultFeatures,
		Profile:           known.Profile,
		Target:            known.Target,
		Rustc:             known.Rustc,
		Extra:             raw,
	}
	return nil
}

func (i InstallInfo) MarshalJSON() ([]byte, error) {
	merged := make(map[string]json.RawMessage, len(installInfoFields)+len(i.Extra))
	for k, v := range i.Extra {
		merged[k] = v
	}

	known, err := json.Marshal(installInfoKnown{
		VersionReq:        i.VersionReq,
		Bins:              i.Bins,
		Features:          i.Features,
		AllFeatures:       i.AllFeatures,
		NoDefaultFeatures: i.NoDefaultFeatures,
		Profile:           i.Profile,
		Target:            i.Target,
		Rustc:             i.Rustc,
	})
	if err != nil {
		return nil, err
	}
	var knownRaw map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownRaw); err != nil {
		return nil, err
	}
	for k, v := range knownRaw {
		merged[k] = v
	}

	return json.Marshal(merged)
}
