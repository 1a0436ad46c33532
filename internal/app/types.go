package app

import "turbo-ncu/internal/types"

type CheckRequest struct {
	PackageFile string
	Options     types.ResolutionOptions
	DepTypes    []string
	Filter      string
	Reject      string
	Upgrade     bool
}

type CheckResult struct {
	PackageFile string
	// Checked counts the packages sent to resolution after filtering.
	Checked        int
	Report         types.ResolutionReport
	Upgraded       bool
	PackageManager string
}

type ClearCacheRequest struct {
	CacheFile string
}

type ClearCacheResult struct {
	CacheFile string
}

type LoadProjectConfigRequest struct {
	ConfigFile string
	SearchDir  string
}

type LoadProjectConfigResult struct {
	Config types.ProjectConfig
	Path   string
}
