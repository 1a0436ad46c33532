package app

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"turbo-ncu/internal/core"
	"turbo-ncu/internal/types"
)

// Resolve runs one resolution batch for packages. Unset fields of opts,
// including a nil CacheTTL or Retries, take the package defaults.
func (s Service) Resolve(ctx context.Context, packages []types.PackageDeclaration, opts types.ResolutionOptions) (types.ResolutionReport, error) {
	opts, err := s.resolutionOptions(ctx, opts)
	if err != nil {
		return types.ResolutionReport{}, err
	}
	if s.NewRegistry == nil || s.OpenCache == nil {
		return types.ResolutionReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("service is missing registry or cache factory")
	}
	resolver := core.NewResolverCore(
		s.NewRegistry(opts, s.Metrics),
		s.OpenCache(opts.CacheFile, *opts.CacheTTL),
	)
	resolver.Metrics = s.Metrics
	if s.Clock != nil {
		resolver.Clock = s.Clock
	}
	return resolver.Resolve(ctx, packages, opts)
}

func (s Service) resolutionOptions(ctx context.Context, opts types.ResolutionOptions) (types.ResolutionOptions, error) {
	opts = applyResolutionDefaults(opts, s.HomeDir)
	if !opts.Target.Valid() {
		return types.ResolutionOptions{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid target %q (want latest, minor, patch or semver)", opts.Target))
	}
	assert.NotEmpty(ctx, opts.RegistryURL, "registry url must be set")
	assert.NotEmpty(ctx, opts.CacheFile, "cache file must be set")
	return opts, nil
}
