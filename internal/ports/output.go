package ports

import (
	"time"

	"turbo-ncu/internal/types"
)

type ReportPort interface {
	WriteTable(updates []types.UpdateRecord) error
	WriteJSON(updates []types.UpdateRecord) error
	WriteJSONAll(updates []types.UpdateRecord) error
	WriteSummary(checked int, updates int, elapsed time.Duration, hits uint, misses uint) error
	WriteUpgraded(path string, packageManager string) error
	WriteUpgradeHint() error
}
