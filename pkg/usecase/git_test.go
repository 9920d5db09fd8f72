package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/binup-dev/binup/pkg/domain/interfaces"
	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
	"github.com/binup-dev/binup/pkg/usecase"
)

const (
	oldCommit = "0123456789abcdef0123456789abcdef01234567"
	newCommit = "fedcba9876543210fedcba9876543210fedcba98"
)

type mockRepo struct {
	fetchFunc   func(ctx context.Context, remoteURL, refspec, trackingRef string) (string, error)
	changesFunc func(ctx context.Context, old, new string) (model.GitChanges, int, error)

	fetchedRefspec string
	fetchedTarget  string
}

func (m *mockRepo) Fetch(ctx context.Context, remoteURL, refspec, trackingRef string) (string, error) {
	m.fetchedRefspec = refspec
	m.fetchedTarget = trackingRef
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, remoteURL, refspec, trackingRef)
	}
	return newCommit, nil
}

func (m *mockRepo) Changes(ctx context.Context, old, new string) (model.GitChanges, int, error) {
	if m.changesFunc != nil {
		return m.changesFunc(ctx, old, new)
	}
	return model.GitChanges{Commits: 4, FilesChanged: 2, Insertions: 10, Deletions: 3}, 0, nil
}

type mockCache struct {
	repo *mockRepo
	err  error
}

func (m *mockCache) Open(u model.CanonicalURL) (interfaces.GitRepo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.repo, nil
}

func gitPkg(t *testing.T, id string) model.PackageID {
	t.Helper()
	pkg, err := model.ParsePackageID(id)
	gt.NoError(t, err)
	return pkg
}

func TestCheckGit(t *testing.T) {
	ctx := context.Background()

	t.Run("branch with new commits", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main#"+oldCommit+")")
		repo := &mockRepo{}
		info, err := usecase.CheckGit(ctx, &mockCache{repo: repo}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).NotNil()
		gt.Equal(t, info.Type, "branch main")
		gt.Equal(t, info.OldCommit, oldCommit)
		gt.Equal(t, info.NewCommit, newCommit)
		gt.Equal(t, info.Changes.Commits, 4)
		gt.Equal(t, repo.fetchedRefspec, "+refs/heads/main:refs/remotes/origin/main")
		gt.Equal(t, repo.fetchedTarget, "refs/remotes/origin/main")
	})

	t.Run("default branch fetches HEAD", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool#"+oldCommit+")")
		repo := &mockRepo{}
		info, err := usecase.CheckGit(ctx, &mockCache{repo: repo}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).NotNil()
		gt.Equal(t, info.Type, "HEAD")
		gt.Equal(t, repo.fetchedRefspec, "+HEAD:refs/remotes/origin/HEAD")
	})

	t.Run("tag pins are never movable", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?tag=v0.1.0#"+oldCommit+")")
		info, err := usecase.CheckGit(ctx, &mockCache{repo: &mockRepo{}}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).Nil()
	})

	t.Run("rev pins are never movable", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?rev="+oldCommit+"#"+oldCommit+")")
		info, err := usecase.CheckGit(ctx, &mockCache{repo: &mockRepo{}}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).Nil()
	})

	t.Run("no pinned commit", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main)")
		info, err := usecase.CheckGit(ctx, &mockCache{repo: &mockRepo{}}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).Nil()
	})

	t.Run("up to date remote yields nothing", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main#"+oldCommit+")")
		repo := &mockRepo{changesFunc: func(ctx context.Context, old, new string) (model.GitChanges, int, error) {
			return model.GitChanges{}, 0, nil
		}}
		info, err := usecase.CheckGit(ctx, &mockCache{repo: repo}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).Nil()
	})

	t.Run("ahead of remote logs by default", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main#"+oldCommit+")")
		repo := &mockRepo{changesFunc: func(ctx context.Context, old, new string) (model.GitChanges, int, error) {
			return model.GitChanges{Commits: 1}, 2, nil
		}}
		info, err := usecase.CheckGit(ctx, &mockCache{repo: repo}, pkg, usecase.GitOptions{})
		gt.NoError(t, err)
		gt.V(t, info).NotNil()
	})

	t.Run("ahead of remote fails under strict history", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main#"+oldCommit+")")
		repo := &mockRepo{changesFunc: func(ctx context.Context, old, new string) (model.GitChanges, int, error) {
			return model.GitChanges{Commits: 1}, 2, nil
		}}
		_, err := usecase.CheckGit(ctx, &mockCache{repo: repo}, pkg, usecase.GitOptions{StrictHistory: true})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrRepositoryAccess))
	})

	t.Run("cache open failure propagates", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main#"+oldCommit+")")
		boom := errors.New("disk full")
		_, err := usecase.CheckGit(ctx, &mockCache{err: boom}, pkg, usecase.GitOptions{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, boom))
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		pkg := gitPkg(t, "tool 0.1.0 (git+https://github.com/acme/tool?branch=main#"+oldCommit+")")
		repo := &mockRepo{fetchFunc: func(ctx context.Context, remoteURL, refspec, trackingRef string) (string, error) {
			return "", types.ErrNetwork
		}}
		_, err := usecase.CheckGit(ctx, &mockCache{repo: repo}, pkg, usecase.GitOptions{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrNetwork))
	})
}

func TestCheckPath(t *testing.T) {
	pkg := gitPkg(t, "local 0.1.0 (path+file:///home/user/src/local)")

	gt.V(t, usecase.CheckPath(pkg, false)).Nil()
	gt.V(t, usecase.CheckPath(pkg, true)).NotNil()
}
