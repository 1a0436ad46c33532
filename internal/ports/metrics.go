package ports

import "time"

type MetricsPort interface {
	RegistryRequest(outcome string)
	RegistryRetry()
	CacheLookup(hit bool)
	ObserveFetchDuration(d time.Duration)
	ObserveTotalDuration(d time.Duration)
}
