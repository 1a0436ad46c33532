package app

import (
	"path/filepath"
	"strings"

	"turbo-ncu/internal/types"
)

// applyResolutionDefaults fills unset options. A nil TTL or retry count
// takes the default, while an explicit zero is kept.
func applyResolutionDefaults(opts types.ResolutionOptions, homeDir func() (string, error)) types.ResolutionOptions {
	if strings.TrimSpace(opts.RegistryURL) == "" {
		opts.RegistryURL = types.DefaultRegistryURL
	}
	if strings.TrimSpace(string(opts.Target)) == "" {
		opts.Target = types.DefaultTarget
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = types.DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = types.DefaultTimeout
	}
	if opts.CacheTTL == nil {
		opts.CacheTTL = types.Ptr(types.DefaultCacheTTL)
	}
	if opts.Retries == nil {
		opts.Retries = types.Ptr[uint](types.DefaultRetries)
	}
	if strings.TrimSpace(opts.CacheFile) == "" {
		opts.CacheFile = defaultCacheFile(homeDir)
	}
	return opts
}

// defaultCacheFile places the cache in the user's home directory, or in
// the working directory when no home is available.
func defaultCacheFile(homeDir func() (string, error)) string {
	if homeDir != nil {
		if home, err := homeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, types.CacheFileName)
		}
	}
	return filepath.Join(".", types.CacheFileName)
}
