package ports

import "turbo-ncu/internal/types"

// CachePort is a durable, expiring store of package version lists. All
// methods must be safe for concurrent use.
type CachePort interface {
	Get(name string) (types.RegistryVersionInfo, bool)
	Set(name string, versions []string)
	Prune()
	Persist() error
	Clear()
}
