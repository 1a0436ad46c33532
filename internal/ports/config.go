package ports

import "turbo-ncu/internal/types"

type ProjectConfigPort interface {
	// LoadProjectConfig returns the parsed config and the path it came
	// from. An empty path means no config file was found.
	LoadProjectConfig(configFile string, searchDir string) (types.ProjectConfig, string, error)
}
