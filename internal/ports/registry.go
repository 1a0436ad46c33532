package ports

import (
	"context"

	"turbo-ncu/internal/types"
)

// RegistryPort fetches published versions for a batch of package names.
// Results are returned in input order, one per name.
type RegistryPort interface {
	FetchMany(ctx context.Context, names []string) []types.FetchResult
}
