package model

import (
	"encoding/binary"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/dchest/siphash"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/types"
)

// CanonicalURL is a sanitized form of a source URL. It is stable across runs
// and is the value cargo hashes to name its on-disk git caches, so the
// normalization below has to match cargo byte for byte.
type CanonicalURL struct {
	u url.URL
}

// Canonicalize normalizes a source URL. The steps run in a fixed order; later
// steps assume the earlier ones already applied.
func Canonicalize(src *url.URL) (CanonicalURL, error) {
	u := *src

	// scheme:opaque forms (e.g. "github.com:rust-lang/rustfmt.git") have no
	// hierarchical path and cannot be normalized.
	if u.Opaque != "" || (u.Host == "" && !strings.HasPrefix(u.Path, "/")) {
		return CanonicalURL{}, goerr.Wrap(types.ErrUnsupportedURLShape,
			"cannot-be-a-base URLs are not supported", goerr.V("url", src.String()))
	}

	// The host URL parser lowercases hosts at parse time; net/url does not.
	if host := u.Hostname(); host != strings.ToLower(host) {
		if port := u.Port(); port != "" {
			u.Host = strings.ToLower(host) + ":" + port
		} else {
			u.Host = strings.ToLower(host)
		}
	}

	// Strip one trailing slash.
	u.Path = strings.TrimSuffix(u.Path, "/")

	// GitHub treats paths case-insensitively, but differently-cased URLs would
	// hash to different cache directories. Pin the scheme and fold the path.
	if strings.EqualFold(src.Hostname(), "github.com") {
		u.Scheme = "https"
		u.Path = strings.ToLower(u.Path)
	}

	// Repositories are reachable with or without the ".git" extension.
	u.Path = strings.TrimSuffix(u.Path, ".git")

	// Drop a "sparse+" protocol specifier. This goes through a full
	// strip-and-reparse of the serialized URL: swapping the scheme in place is
	// not equivalent for the consumers that key transport behavior off it.
	if strings.HasPrefix(u.Scheme, "sparse+") {
		stripped := strings.TrimPrefix(u.String(), "sparse+")
		reparsed, err := url.Parse(stripped)
		if err != nil {
			return CanonicalURL{}, goerr.Wrap(types.ErrUnsupportedURLShape,
				"invalid URL after stripping sparse+ specifier", goerr.V("url", stripped))
		}
		u = *reparsed
	}

	return CanonicalURL{u: u}, nil
}

// String returns the serialized canonical form. Two canonical URLs are equal
// iff their strings are byte-identical.
func (c CanonicalURL) String() string {
	return c.u.String()
}

// Equal reports whether two canonical URLs denote the same origin.
func (c CanonicalURL) Equal(o CanonicalURL) bool {
	return c.String() == o.String()
}

// Ident returns the last non-empty path segment, or "_empty" when the path has
// no segments. Used as the human-readable half of cache directory names.
func (c CanonicalURL) Ident() string {
	segs := strings.Split(strings.Trim(c.u.Path, "/"), "/")
	ident := segs[len(segs)-1]
	if ident == "" {
		return "_empty"
	}
	return ident
}

// Hash returns the lower-case hex encoding of the 64-bit SipHash-2-4 of the
// canonical URL, serialized little-endian. The hasher runs with zero keys over
// the serialized URL followed by a single 0xff terminator byte, which is how
// the host toolchain hashes the value; the terminator is load-bearing.
func (c CanonicalURL) Hash() string {
	h := siphash.New(make([]byte, 16))
	h.Write([]byte(c.String()))
	h.Write([]byte{0xff})

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], h.Sum64())
	return hex.EncodeToString(buf[:])
}
