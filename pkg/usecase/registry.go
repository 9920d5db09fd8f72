package usecase

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/interfaces"
	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
)

// CheckRegistry looks up a registry-installed package in the version index and
// reports whether a newer version was published.
//
// Only the default crates.io registry is supported; packages from any other
// registry endpoint yield no result rather than an error. A package that
// vanished from the registry IS an error: an installed name the index no
// longer knows is worth surfacing.
func CheckRegistry(ctx context.Context, index interfaces.VersionIndex, pkg model.PackageID, includePrerelease bool) (*model.RegistryInfo, error) {
	recorded := pkg.SourceID.URL.String()
	if recorded != model.CratesIOGitIndexURL && recorded != model.CratesIOSparseIndexURL {
		return nil, nil
	}

	versions, err := index.Versions(ctx, pkg.Name)
	if err != nil {
		return nil, goerr.Wrap(err, "registry lookup failed", goerr.V("package", pkg.Name))
	}
	if len(versions) == 0 {
		return nil, goerr.Wrap(types.ErrPackageNotFound, "registry lists no versions",
			goerr.V("package", pkg.Name))
	}

	latest, err := semver.StrictNewVersion(versions[0])
	if err != nil {
		return nil, goerr.Wrap(types.ErrInvalidUpstreamVersion, "latest version is not semver",
			goerr.V("package", pkg.Name), goerr.V("version", versions[0]))
	}

	if latest.Prerelease() != "" && !includePrerelease {
		return nil, nil
	}

	if !latest.GreaterThan(pkg.Version) {
		return nil, nil
	}
	return &model.RegistryInfo{Version: latest}, nil
}
