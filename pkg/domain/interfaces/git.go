package interfaces

import (
	"context"

	"github.com/binup-dev/binup/pkg/domain/model"
)

// GitCache opens the local bare-repository cache for a canonical origin URL,
// initializing it when the external package manager has not created it yet.
type GitCache interface {
	Open(u model.CanonicalURL) (GitRepo, error)
}

// GitRepo drives one cached repository against its remote.
type GitRepo interface {
	// Fetch configures an anonymous remote at remoteURL, fetches refspec and
	// returns the commit id the tracking ref resolved to afterwards.
	Fetch(ctx context.Context, remoteURL, refspec, trackingRef string) (string, error)

	// Changes counts the commits strictly between oldCommit and newCommit
	// along newCommit's ancestry and computes tree-to-tree diff stats. The
	// second result is how far oldCommit is ahead of newCommit, which should
	// be zero for a well-behaved remote.
	Changes(ctx context.Context, oldCommit, newCommit string) (model.GitChanges, int, error)
}
