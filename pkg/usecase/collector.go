package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/binup-dev/binup/pkg/domain/interfaces"
	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/utils/pool"
)

// Options selects which update categories to check and how.
type Options struct {
	IncludePrerelease bool
	CheckGit          bool
	CheckPath         bool
	StrictHistory     bool
	// Workers is the fan-out width. Values below 1 mean sequential.
	Workers int
	// Timeout bounds a single package's detector call; zero means unbounded.
	Timeout time.Duration
}

// Collector dispatches every installed package to the detector matching its
// source kind and merges the results into ordered per-kind mappings.
type Collector struct {
	newIndex func() interfaces.VersionIndex
	gitCache interfaces.GitCache
	opts     Options
}

// NewCollector builds a collector. newIndex is called at most once per worker:
// the index handle keeps connection state that is not meant for concurrent
// reentrant use, so every worker lazily constructs and owns its own.
func NewCollector(newIndex func() interfaces.VersionIndex, gitCache interfaces.GitCache, opts Options) *Collector {
	return &Collector{newIndex: newIndex, gitCache: gitCache, opts: opts}
}

type workerState struct {
	index interfaces.VersionIndex
}

// Collect implements interfaces.UpdateCollector. Every package is visited
// exactly once; detectors that find nothing leave no entry, detector failures
// land in Updates.Failures and do not stop the remaining packages. The result
// mappings are ordered by package id regardless of worker interleaving.
func (c *Collector) Collect(ctx context.Context, installs *model.PackageMap[model.InstallInfo]) (*model.Updates, error) {
	updates := &model.Updates{}
	var mu sync.Mutex

	pool.ForEach(ctx, c.opts.Workers, installs.Entries(),
		func() *workerState { return &workerState{} },
		func(ctx context.Context, state *workerState, entry model.PackageEntry[model.InstallInfo]) {
			c.collectOne(ctx, state, entry, updates, &mu)
		})

	updates.SortFailures()
	return updates, ctx.Err()
}

func (c *Collector) collectOne(ctx context.Context, state *workerState, entry model.PackageEntry[model.InstallInfo], updates *model.Updates, mu *sync.Mutex) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	pkg, install := entry.Package, entry.Value

	switch pkg.SourceID.Kind {
	case model.SourceKindGit:
		if !c.opts.CheckGit {
			return
		}
		info, err := CheckGit(ctx, c.gitCache, pkg, GitOptions{StrictHistory: c.opts.StrictHistory})
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			updates.Failures = append(updates.Failures, model.Failure{Package: pkg, Err: err})
		} else if info != nil {
			updates.Git.Insert(pkg, model.UpdateInfo[model.GitInfo]{Install: install, Extra: *info})
		}

	case model.SourceKindPath:
		if info := CheckPath(pkg, c.opts.CheckPath); info != nil {
			mu.Lock()
			defer mu.Unlock()
			updates.Path.Insert(pkg, model.UpdateInfo[model.PathInfo]{Install: install, Extra: *info})
		}

	case model.SourceKindRegistry:
		if state.index == nil {
			state.index = c.newIndex()
		}
		info, err := CheckRegistry(ctx, state.index, pkg, c.opts.IncludePrerelease)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			updates.Failures = append(updates.Failures, model.Failure{Package: pkg, Err: err})
		} else if info != nil {
			updates.Registry.Insert(pkg, model.UpdateInfo[model.RegistryInfo]{Install: install, Extra: *info})
		}
	}
}
