// Package store persists the dashboard memory.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// MemoryKey is the key the memory record is stored under.
const MemoryKey = "campaign_tracker_memory_v3"

// ErrNotFound indicates nothing has been stored yet.
var ErrNotFound = errors.New("memory not found")

// Store loads and saves the whole memory record.
// Save replaces the stored record wholesale.
type Store interface {
	Load(ctx context.Context) (*models.AppMemory, error)
	Save(ctx context.Context, m *models.AppMemory) error
	Close() error
}

// Open creates the Store for driver. target is a file path for "file" and
// "sqlite3", a DSN for "mysql", and ignored for "memory".
func Open(driver, target string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemStore(), nil
	case "file":
		return NewFileStore(target)
	case DriverSQLite, DriverMySQL:
		return NewSQLStore(driver, target)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
