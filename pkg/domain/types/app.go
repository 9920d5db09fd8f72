package types

// AppName is the binary name used for logs, user agents and env prefixes.
const AppName = "binup"

// Version is the application version. Overridden at build time via
// -ldflags "-X github.com/binup-dev/binup/pkg/domain/types.Version=...".
var Version = "0.3.0"
