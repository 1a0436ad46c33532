package core

import (
	"context"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/types"
)

// ResolverCore runs one resolution batch: cache partition, fetch of the
// misses, cache update, and version matching in input order.
type ResolverCore struct {
	Registry ports.RegistryPort
	Cache    ports.CachePort
	Metrics  ports.MetricsPort
	Clock    func() time.Time
}

type indexedVersions struct {
	index    int
	versions []string
}

func NewResolverCore(registry ports.RegistryPort, cache ports.CachePort) ResolverCore {
	return ResolverCore{
		Registry: registry,
		Cache:    cache,
		Clock:    time.Now,
	}
}

func (r ResolverCore) Resolve(ctx context.Context, packages []types.PackageDeclaration, opts types.ResolutionOptions) (types.ResolutionReport, error) {
	if r.Registry == nil || r.Cache == nil {
		return types.ResolutionReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires registry and cache ports")
	}
	totalStart := r.now()
	report := types.ResolutionReport{Updates: []types.UpdateRecord{}}

	var resolved []indexedVersions
	var missIndexes []int
	var missNames []string
	for i, pkg := range packages {
		info, ok := r.Cache.Get(pkg.Name)
		r.observeCacheLookup(ok)
		if ok {
			resolved = append(resolved, indexedVersions{index: i, versions: info.Versions})
			report.CacheHits++
			continue
		}
		missIndexes = append(missIndexes, i)
		missNames = append(missNames, pkg.Name)
		report.CacheMisses++
	}

	fetchStart := r.now()
	var results []types.FetchResult
	if len(missNames) > 0 {
		results = r.Registry.FetchMany(ctx, missNames)
	}
	report.FetchDuration = r.now().Sub(fetchStart)
	if r.Metrics != nil {
		r.Metrics.ObserveFetchDuration(report.FetchDuration)
	}

	for j, result := range results {
		if j >= len(missIndexes) {
			break
		}
		name := missNames[j]
		if result.Err != nil {
			log.Warn().
				Str("package", name).
				Err(result.Err).
				Msg("registry fetch failed, package skipped")
			continue
		}
		r.Cache.Set(name, result.Info.Versions)
		resolved = append(resolved, indexedVersions{index: missIndexes[j], versions: result.Info.Versions})
	}

	r.Cache.Prune()
	if err := r.Cache.Persist(); err != nil {
		log.Warn().Err(err).Msg("failed to persist registry cache")
		report.CacheErr = err
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].index < resolved[j].index
	})
	for _, entry := range resolved {
		if record, ok := buildUpdateRecord(packages[entry.index], entry.versions, opts); ok {
			report.Updates = append(report.Updates, record)
		}
	}

	report.TotalDuration = r.now().Sub(totalStart)
	if r.Metrics != nil {
		r.Metrics.ObserveTotalDuration(report.TotalDuration)
	}
	log.Debug().
		Int("packages", len(packages)).
		Uint("cache_hits", report.CacheHits).
		Uint("cache_misses", report.CacheMisses).
		Int("updates", len(report.Updates)).
		Dur("fetch", report.FetchDuration).
		Dur("total", report.TotalDuration).
		Msg("resolution finished")
	return report, nil
}

func buildUpdateRecord(pkg types.PackageDeclaration, versions []string, opts types.ResolutionOptions) (types.UpdateRecord, bool) {
	target, ok := ResolveTargetVersion(pkg.VersionRange, versions, opts.Target, opts.IncludePrerelease)
	if !ok {
		return types.UpdateRecord{}, false
	}
	current, ok := ParseBaseVersion(pkg.VersionRange)
	if !ok {
		return types.UpdateRecord{}, false
	}
	return types.UpdateRecord{
		Name:           pkg.Name,
		Current:        pkg.VersionRange,
		CurrentVersion: current.String(),
		Latest:         target.String(),
		NewRange:       ConstructNewRange(pkg.VersionRange, target),
		UpdateType:     ClassifyUpdate(current, target),
		DepType:        pkg.DepType,
	}, true
}

func (r ResolverCore) observeCacheLookup(hit bool) {
	if r.Metrics != nil {
		r.Metrics.CacheLookup(hit)
	}
}

func (r ResolverCore) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}
