package app

import (
	"os"
	"time"

	"turbo-ncu/internal/adapters"
	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/types"
)

// RegistryFactory builds a registry client for one resolution batch.
type RegistryFactory func(opts types.ResolutionOptions, metrics ports.MetricsPort) ports.RegistryPort

// CacheFactory opens the version cache backing one resolution batch.
type CacheFactory func(path string, ttl time.Duration) ports.CachePort

type Service struct {
	Manifest      ports.ManifestPort
	ProjectConfig ports.ProjectConfigPort
	Metrics       ports.MetricsPort
	NewRegistry   RegistryFactory
	OpenCache     CacheFactory
	HomeDir       func() (string, error)
	Clock         func() time.Time
}

func NewService() Service {
	return Service{
		Manifest:      adapters.NewPackageJSONAdapter(),
		ProjectConfig: adapters.NewProjectConfigAdapter(),
		NewRegistry:   newNpmRegistry,
		OpenCache:     openFileCache,
		HomeDir:       os.UserHomeDir,
		Clock:         time.Now,
	}
}

func newNpmRegistry(opts types.ResolutionOptions, metrics ports.MetricsPort) ports.RegistryPort {
	registry := adapters.NewNpmRegistryAdapter(opts.RegistryURL, opts.Concurrency, opts.Timeout, *opts.Retries)
	registry.Metrics = metrics
	return registry
}

func openFileCache(path string, ttl time.Duration) ports.CachePort {
	return adapters.OpenFileCache(path, ttl)
}
