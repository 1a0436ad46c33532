package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ClearCache empties the cache file at req.CacheFile or the default path.
func (s Service) ClearCache(_ context.Context, req ClearCacheRequest) (ClearCacheResult, error) {
	path := strings.TrimSpace(req.CacheFile)
	if path == "" {
		path = defaultCacheFile(s.HomeDir)
	}
	if s.OpenCache == nil {
		return ClearCacheResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("service is missing cache factory")
	}
	s.OpenCache(path, 0).Clear()
	return ClearCacheResult{CacheFile: path}, nil
}
