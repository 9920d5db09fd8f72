package gitrepo

import (
	"context"
	"errors"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/revlist"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
)

// Repo wraps one cached bare repository.
type Repo struct {
	repo *git.Repository
}

// Fetch pulls refspec from an anonymous remote at remoteURL and returns the
// commit the tracking ref points at afterwards. "Already up to date" is a
// success.
func (r *Repo) Fetch(ctx context.Context, remoteURL, refspec, trackingRef string) (string, error) {
	remote, err := r.repo.CreateRemoteAnonymous(&config.RemoteConfig{
		Name:  "anonymous",
		URLs:  []string{remoteURL},
		Fetch: []config.RefSpec{config.RefSpec(refspec)},
	})
	if err != nil {
		return "", goerr.Wrap(types.ErrRepositoryAccess, "cannot configure remote",
			goerr.V("url", remoteURL), goerr.V("cause", err.Error()))
	}

	err = remote.FetchContext(ctx, &git.FetchOptions{
		RefSpecs: []config.RefSpec{config.RefSpec(refspec)},
		Tags:     git.NoTags,
		Force:    true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", goerr.Wrap(types.ErrNetwork, "fetch failed",
			goerr.V("url", remoteURL), goerr.V("refspec", refspec), goerr.V("cause", err.Error()))
	}

	ref, err := r.repo.Reference(plumbing.ReferenceName(trackingRef), true)
	if err != nil {
		return "", goerr.Wrap(types.ErrRepositoryAccess, "fetched tracking ref missing",
			goerr.V("ref", trackingRef), goerr.V("cause", err.Error()))
	}

	return ref.Hash().String(), nil
}

// Changes computes the commit count strictly between oldCommit and newCommit
// along newCommit's ancestry plus tree-to-tree diff stats, and reports how far
// oldCommit is ahead of newCommit.
func (r *Repo) Changes(ctx context.Context, oldCommit, newCommit string) (model.GitChanges, int, error) {
	oldHash := plumbing.NewHash(oldCommit)
	newHash := plumbing.NewHash(newCommit)

	if oldHash == newHash {
		return model.GitChanges{}, 0, nil
	}

	old, err := r.repo.CommitObject(oldHash)
	if err != nil {
		return model.GitChanges{}, 0, goerr.Wrap(types.ErrRepositoryAccess,
			"pinned commit not in cache", goerr.V("commit", oldCommit), goerr.V("cause", err.Error()))
	}
	latest, err := r.repo.CommitObject(newHash)
	if err != nil {
		return model.GitChanges{}, 0, goerr.Wrap(types.ErrRepositoryAccess,
			"fetched commit not in cache", goerr.V("commit", newCommit), goerr.V("cause", err.Error()))
	}

	behind, err := r.countCommits(newHash, oldHash)
	if err != nil {
		return model.GitChanges{}, 0, err
	}
	ahead, err := r.countCommits(oldHash, newHash)
	if err != nil {
		return model.GitChanges{}, 0, err
	}

	changes := model.GitChanges{Commits: behind}
	if behind == 0 {
		return changes, ahead, nil
	}

	oldTree, err := old.Tree()
	if err != nil {
		return model.GitChanges{}, 0, goerr.Wrap(types.ErrRepositoryAccess,
			"cannot load tree", goerr.V("commit", oldCommit), goerr.V("cause", err.Error()))
	}
	newTree, err := latest.Tree()
	if err != nil {
		return model.GitChanges{}, 0, goerr.Wrap(types.ErrRepositoryAccess,
			"cannot load tree", goerr.V("commit", newCommit), goerr.V("cause", err.Error()))
	}

	diff, err := object.DiffTreeWithOptions(ctx, oldTree, newTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return model.GitChanges{}, 0, goerr.Wrap(types.ErrRepositoryAccess,
			"tree diff failed", goerr.V("cause", err.Error()))
	}
	patch, err := diff.PatchContext(ctx)
	if err != nil {
		return model.GitChanges{}, 0, goerr.Wrap(types.ErrRepositoryAccess,
			"diff stats failed", goerr.V("cause", err.Error()))
	}

	for _, stat := range patch.Stats() {
		changes.FilesChanged++
		changes.Insertions += stat.Addition
		changes.Deletions += stat.Deletion
	}

	return changes, ahead, nil
}

// countCommits counts commits reachable from start but not from exclude.
func (r *Repo) countCommits(start, exclude plumbing.Hash) (int, error) {
	hashes, err := revlist.Objects(r.repo.Storer, []plumbing.Hash{start}, []plumbing.Hash{exclude})
	if err != nil {
		return 0, goerr.Wrap(types.ErrRepositoryAccess, "commit graph walk failed",
			goerr.V("cause", err.Error()))
	}

	count := 0
	for _, h := range hashes {
		obj, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return 0, goerr.Wrap(types.ErrRepositoryAccess, "object lookup failed",
				goerr.V("cause", err.Error()))
		}
		if obj.Type() == plumbing.CommitObject {
			count++
		}
	}
	return count, nil
}
