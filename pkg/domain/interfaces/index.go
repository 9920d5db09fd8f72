package interfaces

import "context"

// VersionIndex answers "which versions of this package does the registry
// know". Versions returns published version strings ordered newest-first,
// yanked releases excluded. Implementations are not safe for concurrent use;
// each worker owns its own handle.
type VersionIndex interface {
	Versions(ctx context.Context, name string) ([]string, error)
}
