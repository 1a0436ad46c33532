package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"turbo-ncu/internal/adapters"
	"turbo-ncu/internal/core"
	"turbo-ncu/internal/shared"
	"turbo-ncu/internal/types"
)

const defaultPackageFile = "package.json"

// Check reads a manifest, resolves its selected dependencies and
// optionally writes the new ranges back.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	opts, err := s.resolutionOptions(ctx, req.Options)
	if err != nil {
		return CheckResult{}, err
	}
	packageFile := strings.TrimSpace(req.PackageFile)
	if packageFile == "" {
		packageFile = defaultPackageFile
	}
	if abs, err := filepath.Abs(packageFile); err == nil {
		packageFile = abs
	}

	manifest, err := s.Manifest.ReadManifest(packageFile)
	if err != nil {
		return CheckResult{}, err
	}
	packages := adapters.ExtractPackages(manifest, adapters.ParseDepTypes(req.DepTypes))
	packages, err = core.ApplyFilters(packages, req.Filter, req.Reject)
	if err != nil {
		return CheckResult{}, err
	}

	result := CheckResult{
		PackageFile: packageFile,
		Checked:     len(packages),
		Report:      types.ResolutionReport{Updates: []types.UpdateRecord{}},
	}
	if len(packages) == 0 {
		log.Info().Str("package_file", packageFile).Msg("no packages to check")
		return result, nil
	}

	report, err := s.Resolve(ctx, packages, opts)
	if err != nil {
		return CheckResult{}, err
	}
	result.Report = report

	if req.Upgrade && len(report.Updates) > 0 {
		if err := s.Manifest.WriteUpdates(packageFile, report.Updates); err != nil {
			return CheckResult{}, err
		}
		result.Upgraded = true
		result.PackageManager = shared.DetectPackageManager(filepath.Dir(packageFile))
		log.Info().
			Str("package_file", packageFile).
			Int("updates", len(report.Updates)).
			Msg("package file upgraded")
	}
	return result, nil
}
