package types

import "time"

type UpdateRecord struct {
	Name           string      `json:"name"`
	Current        string      `json:"current"`
	CurrentVersion string      `json:"currentVersion"`
	Latest         string      `json:"latest"`
	NewRange       string      `json:"newRange"`
	UpdateType     UpdateClass `json:"updateType"`
	DepType        DepType     `json:"depType"`
}

// ResolutionReport lists updates in input order. CacheErr carries a failed
// cache persist; it never invalidates the updates.
type ResolutionReport struct {
	Updates       []UpdateRecord
	CacheHits     uint
	CacheMisses   uint
	FetchDuration time.Duration
	TotalDuration time.Duration
	CacheErr      error
}
