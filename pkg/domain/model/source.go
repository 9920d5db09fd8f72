package model

import (
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/types"
)

// Well-known endpoints of the one supported default registry (crates.io). The
// git URL is what older install records carry; newer ones record the sparse
// protocol form verbatim, including the specifier.
const (
	CratesIOGitIndexURL    = "https://github.com/rust-lang/crates.io-index"
	CratesIOSparseIndexURL = "sparse+https://index.crates.io/"
)

// PreciseLocked marks registry sources as exactly pinned at the recorded
// version.
const PreciseLocked = "locked"

// SourceKind is the class of origin a package was installed from.
type SourceKind int

const (
	SourceKindRegistry SourceKind = iota
	SourceKindGit
	SourceKindPath
)

func (k SourceKind) String() string {
	switch k {
	case SourceKindRegistry:
		return "registry"
	case SourceKindGit:
		return "git"
	case SourceKindPath:
		return "path"
	}
	return "unknown"
}

// GitRefKind is how a git source pins its code.
type GitRefKind int

const (
	GitRefDefaultBranch GitRefKind = iota
	GitRefBranch
	GitRefTag
	GitRefRev
)

// GitReference names a specific point in a git repository. Name is empty for
// the default branch.
type GitReference struct {
	Kind GitRefKind
	Name string
}

// SourceID identifies where a package came from.
type SourceID struct {
	// URL is the origin as originally recorded.
	URL *url.URL
	// CanonicalURL is derived from URL; equal canonical URLs mean the same
	// underlying origin even when the recorded URLs differ.
	CanonicalURL CanonicalURL
	Kind         SourceKind
	// GitRef is meaningful only when Kind is SourceKindGit.
	GitRef GitReference
	// Precise pins an exact resolved point: a commit id for git sources,
	// PreciseLocked for registries. Empty means unpinned.
	Precise string
	// Name of the registry for alternate registries; not always known.
	Name string
}

// NewSourceID builds a fully-valid source id, computing the canonical URL.
// Precise and name are optional (empty = absent).
func NewSourceID(kind SourceKind, gitRef GitReference, u *url.URL, precise, name string) (SourceID, error) {
	canonical, err := Canonicalize(u)
	if err != nil {
		return SourceID{}, err
	}
	return SourceID{
		URL:          u,
		CanonicalURL: canonical,
		Kind:         kind,
		GitRef:       gitRef,
		Precise:      precise,
		Name:         name,
	}, nil
}

// ParseSourceID decodes the "<kind>+<url>" form used inside serialized package
// identifiers.
func ParseSourceID(s string) (SourceID, error) {
	kind, rest, ok := strings.Cut(s, "+")
	if !ok {
		return SourceID{}, goerr.Wrap(types.ErrUnsupportedSourceKind,
			"source has no protocol specifier", goerr.V("source", s))
	}

	switch kind {
	case "git":
		u, err := url.Parse(rest)
		if err != nil {
			return SourceID{}, goerr.Wrap(types.ErrUnsupportedSourceKind,
				"invalid git source URL", goerr.V("url", rest))
		}

		ref := GitReference{Kind: GitRefDefaultBranch}
		for k, vs := range u.Query() {
			if len(vs) == 0 {
				continue
			}
			v := vs[len(vs)-1]
			switch k {
			case "branch", "ref":
				ref = GitReference{Kind: GitRefBranch, Name: v}
			case "rev":
				ref = GitReference{Kind: GitRefRev, Name: v}
			case "tag":
				ref = GitReference{Kind: GitRefTag, Name: v}
			}
		}

		precise := u.Fragment
		u.Fragment = ""
		u.RawQuery = ""
		return NewSourceID(SourceKindGit, ref, u, precise, "")

	case "registry":
		u, err := url.Parse(rest)
		if err != nil {
			return SourceID{}, goerr.Wrap(types.ErrUnsupportedSourceKind,
				"invalid registry URL", goerr.V("url", rest))
		}
		return NewSourceID(SourceKindRegistry, GitReference{}, u, PreciseLocked, "")

	case "sparse":
		// The whole string, specifier included, is the recorded URL.
		u, err := url.Parse(s)
		if err != nil {
			return SourceID{}, goerr.Wrap(types.ErrUnsupportedSourceKind,
				"invalid sparse registry URL", goerr.V("url", s))
		}
		return NewSourceID(SourceKindRegistry, GitReference{}, u, PreciseLocked, "")

	case "path":
		u, err := url.Parse(rest)
		if err != nil {
			return SourceID{}, goerr.Wrap(types.ErrUnsupportedSourceKind,
				"invalid path URL", goerr.V("url", rest))
		}
		return NewSourceID(SourceKindPath, GitReference{}, u, "", "")
	}

	return SourceID{}, goerr.Wrap(types.ErrUnsupportedSourceKind,
		"unsupported source protocol", goerr.V("kind", kind))
}

// String renders the source in its "<kind>+<url>" form. Sparse registry URLs
// already carry their specifier and are rendered verbatim.
func (s SourceID) String() string {
	u := s.URL.String()
	if s.Kind == SourceKindRegistry && strings.HasPrefix(u, "sparse+") {
		return u
	}
	return s.Kind.String() + "+" + u
}

// Compare provides the total order used for deterministic iteration.
func (s SourceID) Compare(o SourceID) int {
	if c := strings.Compare(s.URL.String(), o.URL.String()); c != 0 {
		return c
	}
	if s.Kind != o.Kind {
		if s.Kind < o.Kind {
			return -1
		}
		return 1
	}
	return strings.Compare(s.Precise, o.Precise)
}
