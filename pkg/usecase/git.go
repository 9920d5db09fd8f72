package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/interfaces"
	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
)

// GitOptions tunes the git detector.
type GitOptions struct {
	// StrictHistory treats a pinned commit that is ahead of the freshly
	// fetched remote ref as an error instead of a logged anomaly. Ahead
	// usually means a force-pushed or rewritten remote history.
	StrictHistory bool
}

// CheckGit updates the local cache of a git-installed package against its
// remote and reports what changed.
//
// Freshness can only be determined from a pinned starting commit, so packages
// without a parsable precise commit yield no result. Tags and pinned
// revisions are never treated as movable; only branches and the default
// branch are checked.
func CheckGit(ctx context.Context, cache interfaces.GitCache, pkg model.PackageID, opts GitOptions) (*model.GitInfo, error) {
	src := pkg.SourceID
	if !model.IsCommitID(src.Precise) {
		return nil, nil
	}

	var refspec, target, label string
	switch src.GitRef.Kind {
	case model.GitRefTag, model.GitRefRev:
		return nil, nil
	case model.GitRefBranch:
		b := src.GitRef.Name
		refspec = fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", b, b)
		target = "refs/remotes/origin/" + b
		label = "branch " + b
	case model.GitRefDefaultBranch:
		refspec = "+HEAD:refs/remotes/origin/HEAD"
		target = "refs/remotes/origin/HEAD"
		label = "HEAD"
	}

	repo, err := cache.Open(src.CanonicalURL)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot open git cache", goerr.V("package", pkg.Name))
	}

	newCommit, err := repo.Fetch(ctx, src.URL.String(), refspec, target)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot fetch remote", goerr.V("package", pkg.Name))
	}

	changes, ahead, err := repo.Changes(ctx, src.Precise, newCommit)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot diff commits", goerr.V("package", pkg.Name))
	}

	if ahead > 0 {
		if opts.StrictHistory {
			return nil, goerr.Wrap(types.ErrRepositoryAccess,
				"pinned commit is ahead of the remote ref",
				goerr.V("package", pkg.Name), goerr.V("ahead", ahead))
		}
		ctxlog.From(ctx).Warn("pinned commit is ahead of the remote ref",
			"package", pkg.Name,
			"ahead", ahead,
			"old", src.Precise,
			"new", newCommit)
	}

	if changes.Commits == 0 {
		return nil, nil
	}

	return &model.GitInfo{
		Type:      label,
		OldCommit: src.Precise,
		NewCommit: newCommit,
		Changes:   changes,
		Target:    target,
	}, nil
}
