package model

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// RegistryInfo describes an available registry update.
type RegistryInfo struct {
	Version *semver.Version
}

// GitChanges is the result of diffing two commits. Commits == 0 means the
// remote holds nothing new and no update is emitted.
type GitChanges struct {
	Commits      int
	FilesChanged int
	Insertions   int
	Deletions    int
}

// GitInfo describes an available git update.
type GitInfo struct {
	// Type is the human label of what was checked, e.g. "branch main" or
	// "HEAD".
	Type      string
	OldCommit string
	NewCommit string
	Changes   GitChanges
	// Target is the local tracking ref the new commit was resolved from.
	Target string
}

// PathInfo marks a local-path package as eligible for a refresh. Local paths
// carry no freshness signal, so there is nothing else to record.
type PathInfo struct{}

// UpdateInfo pairs the original install options with kind-specific update
// data. Created once per package with an available update, never mutated.
type UpdateInfo[T any] struct {
	Install InstallInfo
	Extra   T
}

// PackageEntry is one entry of a PackageMap.
type PackageEntry[T any] struct {
	Package PackageID
	Value   T
}

// PackageMap is an ordered mapping keyed by PackageID total order. Insertion
// keeps entries sorted, so iteration order is deterministic regardless of the
// order results arrive in.
type PackageMap[T any] struct {
	entries []PackageEntry[T]
}

// Insert adds or replaces the value for pkg.
func (m *PackageMap[T]) Insert(pkg PackageID, value T) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Package.Compare(pkg) >= 0
	})
	if i < len(m.entries) && m.entries[i].Package.Compare(pkg) == 0 {
		m.entries[i].Value = value
		return
	}
	m.entries = append(m.entries, PackageEntry[T]{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = PackageEntry[T]{Package: pkg, Value: value}
}

// Get returns the value for pkg, if present.
func (m *PackageMap[T]) Get(pkg PackageID) (T, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Package.Compare(pkg) >= 0
	})
	if i < len(m.entries) && m.entries[i].Package.Compare(pkg) == 0 {
		return m.entries[i].Value, true
	}
	var zero T
	return zero, false
}

// Len returns the number of entries.
func (m *PackageMap[T]) Len() int {
	return len(m.entries)
}

// Entries returns the entries in key order. The slice is shared; callers must
// not mutate it.
func (m *PackageMap[T]) Entries() []PackageEntry[T] {
	return m.entries
}

// Failure attributes a per-package detection error to its package.
type Failure struct {
	Package PackageID
	Err     error
}

// Updates partitions detection results by source kind. Packages whose detector
// found nothing are simply absent; packages whose detector failed appear in
// Failures instead.
type Updates struct {
	Registry PackageMap[UpdateInfo[RegistryInfo]]
	Git      PackageMap[UpdateInfo[GitInfo]]
	Path     PackageMap[UpdateInfo[PathInfo]]
	Failures []Failure
}

// SortFailures orders failures by package id for deterministic output.
func (u *Updates) SortFailures() {
	sort.Slice(u.Failures, func(i, j int) bool {
		return u.Failures[i].Package.Compare(u.Failures[j].Package) < 0
	})
}
