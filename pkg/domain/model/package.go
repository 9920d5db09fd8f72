package model

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/types"
)

// PackageID identifies one installed binary package: its name, the installed
// version and the source it was installed from. Rebuilt fresh on every run
// from the install-state file, never persisted back.
type PackageID struct {
	Name     string
	Version  *semver.Version
	SourceID SourceID
}

// ParsePackageID parses the serialized identifier form used as keys in the
// install-state file:
//
//	<name> <version> (<kind>+<url>)
//
// Names and URLs cannot contain spaces, so splitting on the first two spaces
// is sufficient.
func ParsePackageID(s string) (PackageID, error) {
	name, rest, ok := strings.Cut(s, " ")
	if !ok {
		return PackageID{}, goerr.Wrap(types.ErrMalformedIdentifier,
			"identifier needs three space-delimited parts", goerr.V("identifier", s))
	}
	versionStr, sourceStr, ok := strings.Cut(rest, " ")
	if !ok {
		return PackageID{}, goerr.Wrap(types.ErrMalformedIdentifier,
			"identifier needs three space-delimited parts", goerr.V("identifier", s))
	}

	version, err := semver.StrictNewVersion(strings.TrimSpace(versionStr))
	if err != nil {
		return PackageID{}, goerr.Wrap(types.ErrMalformedIdentifier,
			"version is not valid semver", goerr.V("identifier", s), goerr.V("version", versionStr))
	}

	inner, found := strings.CutPrefix(sourceStr, "(")
	if found {
		inner, found = strings.CutSuffix(inner, ")")
	}
	if !found {
		return PackageID{}, goerr.Wrap(types.ErrMalformedIdentifier,
			"source segment is not parenthesized", goerr.V("identifier", s))
	}

	sourceID, err := ParseSourceID(inner)
	if err != nil {
		return PackageID{}, goerr.Wrap(err, "invalid source in identifier", goerr.V("identifier", s))
	}

	return PackageID{Name: name, Version: version, SourceID: sourceID}, nil
}

// String renders the identifier back into its serialized form.
func (p PackageID) String() string {
	return fmt.Sprintf("%s %s (%s)", p.Name, p.Version, p.SourceID)
}

// Compare orders package ids by (name, version, source id).
func (p PackageID) Compare(o PackageID) int {
	if c := strings.Compare(p.Name, o.Name); c != 0 {
		return c
	}
	if c := p.Version.Compare(o.Version); c != 0 {
		return c
	}
	return p.SourceID.Compare(o.SourceID)
}

// IsCommitID reports whether s looks like a full git commit id (40 hex
// characters).
func IsCommitID(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
