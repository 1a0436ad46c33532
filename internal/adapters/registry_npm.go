package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"turbo-ncu/internal/core"
	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/shared"
	"turbo-ncu/internal/types"
)

// abbreviatedMetadataAccept requests the install-time packument, which
// carries only name and version keys.
const abbreviatedMetadataAccept = "application/vnd.npm.install-v1+json"

// NpmRegistryAdapter fetches version lists from an npm-compatible
// registry. All fetches share one slot pool sized to Concurrency.
type NpmRegistryAdapter struct {
	Registry    string
	Concurrency int
	Timeout     time.Duration
	Retry       core.RetryPolicy
	Client      *http.Client
	Metrics     ports.MetricsPort

	slots *semaphore.Weighted
}

type abbreviatedPackument struct {
	Name     *string                    `json:"name"`
	Versions map[string]json.RawMessage `json:"versions"`
}

func NewNpmRegistryAdapter(registry string, concurrency uint, timeout time.Duration, retries uint) *NpmRegistryAdapter {
	workers := normalizeRegistryConcurrency(concurrency)
	timeout = normalizeRegistryTimeout(timeout)
	return &NpmRegistryAdapter{
		Registry:    strings.TrimRight(strings.TrimSpace(registry), "/"),
		Concurrency: workers,
		Timeout:     timeout,
		Retry:       core.NewRetryPolicy(retries, types.DefaultRetryDelay),
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        workers,
				MaxIdleConnsPerHost: workers,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		slots: semaphore.NewWeighted(int64(workers)),
	}
}

func normalizeRegistryConcurrency(value uint) int {
	if value == 0 {
		return types.DefaultConcurrency
	}
	return int(value)
}

func normalizeRegistryTimeout(value time.Duration) time.Duration {
	if value <= 0 {
		return types.DefaultTimeout
	}
	return value
}

// FetchMany fetches every name concurrently and returns one result per
// name in input order. A failed name never cancels the others.
func (a *NpmRegistryAdapter) FetchMany(ctx context.Context, names []string) []types.FetchResult {
	results := make([]types.FetchResult, len(names))
	var group errgroup.Group
	for i, name := range names {
		group.Go(func() error {
			info, err := a.FetchOne(ctx, name)
			results[i] = types.FetchResult{Info: info, Err: err}
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// FetchOne holds one concurrency slot for the whole retry sequence of name.
func (a *NpmRegistryAdapter) FetchOne(ctx context.Context, name string) (types.RegistryVersionInfo, error) {
	if err := a.slots.Acquire(ctx, 1); err != nil {
		return types.RegistryVersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to acquire registry slot for %s", name)).
			WithCause(err)
	}
	defer a.slots.Release(1)

	url := a.packageURL(name)
	var info types.RegistryVersionInfo
	attempts, err := a.Retry.Do(ctx, func(ctx context.Context, attempt int) error {
		if attempt > 0 && a.Metrics != nil {
			a.Metrics.RegistryRetry()
		}
		fetched, err := a.fetchOnce(ctx, url)
		if err != nil {
			log.Debug().
				Str("package", name).
				Int("attempt", attempt+1).
				Err(err).
				Msg("registry request failed")
			a.observeRequest("error")
			return err
		}
		a.observeRequest("success")
		info = fetched
		return nil
	})
	if err != nil {
		return types.RegistryVersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to fetch %s after %d attempts", name, attempts)).
			WithCause(err)
	}
	if info.PackageName == "" {
		info.PackageName = name
	}
	return info, nil
}

// packageURL escapes the scope separator of scoped names; the registry
// expects "@scope%2fname" as a single path segment.
func (a *NpmRegistryAdapter) packageURL(name string) string {
	encoded := name
	if strings.HasPrefix(name, "@") {
		encoded = strings.Replace(name, "/", "%2f", 1)
	}
	return a.Registry + "/" + encoded
}

func (a *NpmRegistryAdapter) fetchOnce(ctx context.Context, url string) (types.RegistryVersionInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.RegistryVersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry request").
			WithCause(err)
	}
	req.Header.Set("Accept", abbreviatedMetadataAccept)
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return types.RegistryVersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return types.RegistryVersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry returned non-success status").
			WithCause(shared.HTTPStatusError(resp.StatusCode, url))
	}
	var packument abbreviatedPackument
	if err := json.NewDecoder(resp.Body).Decode(&packument); err != nil {
		return types.RegistryVersionInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse registry response").
			WithCause(err)
	}
	versions := make([]string, 0, len(packument.Versions))
	for version := range packument.Versions {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	info := types.RegistryVersionInfo{Versions: versions}
	if packument.Name != nil {
		info.PackageName = *packument.Name
	}
	return info, nil
}

func (a *NpmRegistryAdapter) observeRequest(outcome string) {
	if a.Metrics != nil {
		a.Metrics.RegistryRequest(outcome)
	}
}

var _ ports.RegistryPort = (*NpmRegistryAdapter)(nil)
