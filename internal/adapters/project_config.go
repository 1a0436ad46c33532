package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/types"
)

// projectConfigNames are searched in order; the first existing file wins.
var projectConfigNames = []string{".ncurc.json", ".ncurc.yml", ".ncurc.yaml"}

type ProjectConfigAdapter struct{}

func NewProjectConfigAdapter() ProjectConfigAdapter {
	return ProjectConfigAdapter{}
}

func (a ProjectConfigAdapter) LoadProjectConfig(configFile string, searchDir string) (types.ProjectConfig, string, error) {
	if strings.TrimSpace(configFile) != "" {
		if _, err := os.Stat(configFile); err != nil {
			return types.ProjectConfig{}, "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("config file %s not found", configFile)).
				WithCause(err)
		}
		cfg, err := loadProjectConfigFile(configFile)
		return cfg, configFile, err
	}
	if searchDir == "" {
		searchDir = "."
	}
	for _, name := range projectConfigNames {
		path := filepath.Join(searchDir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		cfg, err := loadProjectConfigFile(path)
		return cfg, path, err
	}
	return types.ProjectConfig{}, "", nil
}

func loadProjectConfigFile(path string) (types.ProjectConfig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yml", ".yaml":
	default:
		return types.ProjectConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported config file %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read config file %s", path)).
			WithCause(err)
	}
	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.ProjectConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse config file %s", path)).
			WithCause(err)
	}
	return cfg, nil
}

var _ ports.ProjectConfigPort = ProjectConfigAdapter{}
