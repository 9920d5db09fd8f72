package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/binup-dev/binup/pkg/domain/model"
)

func TestPackageMap_OrderedInsert(t *testing.T) {
	mustParse := func(id string) model.PackageID {
		pkg, err := model.ParsePackageID(id)
		gt.NoError(t, err)
		return pkg
	}

	var m model.PackageMap[int]
	src := "(registry+https://github.com/rust-lang/crates.io-index)"
	m.Insert(mustParse("zz 1.0.0 "+src), 1)
	m.Insert(mustParse("aa 1.0.0 "+src), 2)
	m.Insert(mustParse("mm 1.0.0 "+src), 3)

	gt.Equal(t, m.Len(), 3)
	entries := m.Entries()
	gt.Equal(t, entries[0].Package.Name, "aa")
	gt.Equal(t, entries[1].Package.Name, "mm")
	gt.Equal(t, entries[2].Package.Name, "zz")

	// Inserting an existing key replaces the value without growing the map.
	m.Insert(mustParse("mm 1.0.0 "+src), 30)
	gt.Equal(t, m.Len(), 3)
	v, ok := m.Get(mustParse("mm 1.0.0 " + src))
	gt.True(t, ok)
	gt.Equal(t, v, 30)

	_, ok = m.Get(mustParse("absent 1.0.0 " + src))
	gt.False(t, ok)
}

func TestUpdates_SortFailures(t *testing.T) {
	mustParse := func(id string) model.PackageID {
		pkg, err := model.ParsePackageID(id)
		gt.NoError(t, err)
		return pkg
	}

	src := "(registry+https://github.com/rust-lang/crates.io-index)"
	u := &model.Updates{Failures: []model.Failure{
		{Package: mustParse("zz 1.0.0 " + src), Err: errors.New("z")},
		{Package: mustParse("aa 1.0.0 " + src), Err: errors.New("a")},
	}}
	u.SortFailures()
	gt.Equal(t, u.Failures[0].Package.Name, "aa")
	gt.Equal(t, u.Failures[1].Package.Name, "zz")
}
