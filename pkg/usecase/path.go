package usecase

import "github.com/binup-dev/binup/pkg/domain/model"

// CheckPath handles packages installed from local filesystem paths. There is
// no freshness signal for a local path short of re-running the install, so
// enabling the category marks every path package as eligible for a refresh.
func CheckPath(pkg model.PackageID, enabled bool) *model.PathInfo {
	if !enabled {
		return nil
	}
	return &model.PathInfo{}
}
