package ports

import "turbo-ncu/internal/types"

type ManifestPort interface {
	ReadManifest(path string) (types.Manifest, error)
	WriteUpdates(path string, updates []types.UpdateRecord) error
}
