package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// LoadProjectConfig finds and parses the .ncurc file for a project.
func (s Service) LoadProjectConfig(_ context.Context, req LoadProjectConfigRequest) (LoadProjectConfigResult, error) {
	if s.ProjectConfig == nil {
		return LoadProjectConfigResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("service is missing project config loader")
	}
	cfg, path, err := s.ProjectConfig.LoadProjectConfig(req.ConfigFile, req.SearchDir)
	if err != nil {
		return LoadProjectConfigResult{}, err
	}
	return LoadProjectConfigResult{Config: cfg, Path: path}, nil
}
