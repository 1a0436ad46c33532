package types

import "time"

const (
	DefaultRegistryURL = "https://registry.npmjs.org"
	DefaultTarget      = TargetLatest
	DefaultConcurrency = 24
	DefaultTimeout     = 30 * time.Second
	DefaultCacheTTL    = 600 * time.Second
	DefaultRetries     = 3
	DefaultRetryDelay  = 100 * time.Millisecond
	CacheFileName      = ".turbo-ncu-cache.json"
)

// ResolutionOptions configures one resolution batch. The core expects a
// fully populated value; the app layer fills in defaults. CacheTTL and
// Retries are pointers because zero is a meaningful setting for both; nil
// means unset.
type ResolutionOptions struct {
	RegistryURL       string
	Target            TargetPolicy
	Concurrency       uint
	Timeout           time.Duration
	CacheFile         string
	CacheTTL          *time.Duration
	IncludePrerelease bool
	Retries           *uint
}

// DefaultResolutionOptions returns the documented defaults. CacheFile is
// left empty because it depends on the caller's home directory.
func DefaultResolutionOptions() ResolutionOptions {
	return ResolutionOptions{
		RegistryURL: DefaultRegistryURL,
		Target:      DefaultTarget,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		CacheTTL:    Ptr(DefaultCacheTTL),
		Retries:     Ptr[uint](DefaultRetries),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
