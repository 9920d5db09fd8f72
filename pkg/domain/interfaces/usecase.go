package interfaces

import (
	"context"

	"github.com/binup-dev/binup/pkg/domain/model"
)

// UpdateCollector fans the full install set out across the per-kind detectors
// and partitions the results.
type UpdateCollector interface {
	// Collect visits every installed package exactly once. Per-package
	// detector failures are surfaced in the result, not returned as an error.
	Collect(ctx context.Context, installs *model.PackageMap[model.InstallInfo]) (*model.Updates, error)
}
