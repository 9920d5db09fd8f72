// Package gitrepo drives the on-disk bare repository caches shared with the
// host package manager.
package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/interfaces"
	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
)

// CacheDirName derives the directory name the host package manager uses for a
// repository cache. Opening the same logical repository must hit the same
// directory the external tool already created, so the naming scheme cannot
// drift.
func CacheDirName(u model.CanonicalURL) string {
	return fmt.Sprintf("%s-%s", u.Ident(), u.Hash())
}

// Cache locates bare repositories under root (usually $CARGO_HOME/git/db).
type Cache struct {
	root string
}

// NewCache creates a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{root: dir}
}

// Open opens the cached bare repository for u, initializing an empty one when
// the directory does not exist yet.
func (c *Cache) Open(u model.CanonicalURL) (interfaces.GitRepo, error) {
	path := filepath.Join(c.root, CacheDirName(u))

	var repo *git.Repository
	var err error
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		repo, err = git.PlainOpen(path)
	} else {
		repo, err = git.PlainInit(path, true)
	}
	if err != nil {
		return nil, goerr.Wrap(types.ErrRepositoryAccess, "cannot open repository cache",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	return &Repo{repo: repo}, nil
}
