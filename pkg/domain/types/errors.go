package types

import "github.com/m-mizutani/goerr/v2"

// Error tags group failures by the subsystem that raised them.
var (
	TagParse    = goerr.NewTag("parse")
	TagRegistry = goerr.NewTag("registry")
	TagGit      = goerr.NewTag("git")
	TagNetwork  = goerr.NewTag("network")
)

// Sentinel errors for every failure class the engine can produce. Call sites
// wrap these with goerr.Wrap and attach the offending package via
// goerr.V("package", name) so callers can branch with errors.Is and still
// attribute the failure.
var (
	ErrMalformedIdentifier    = goerr.New("malformed package identifier", goerr.T(TagParse))
	ErrUnsupportedSourceKind  = goerr.New("unsupported source kind", goerr.T(TagParse))
	ErrUnsupportedURLShape    = goerr.New("URL has no hierarchical structure", goerr.T(TagParse))
	ErrPackageNotFound        = goerr.New("package not found in registry", goerr.T(TagRegistry))
	ErrInvalidUpstreamVersion = goerr.New("invalid upstream version", goerr.T(TagRegistry))
	ErrRepositoryAccess       = goerr.New("repository access failed", goerr.T(TagGit))
	ErrNetwork                = goerr.New("network failure", goerr.T(TagNetwork))
)
