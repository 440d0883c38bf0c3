package sheetwatch

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/fetch"
)

// ErrNoSheetID indicates no spreadsheet has been configured yet.
var ErrNoSheetID = fetch.ErrNoSheetID

// ErrInvalidSheetURL indicates a URL without a spreadsheet document ID.
var ErrInvalidSheetURL = errors.New("invalid sheet url")

// ErrUnknownTab indicates a tab name with no range configuration.
var ErrUnknownTab = errors.New("unknown tab")

// ErrTabHidden indicates a tab switched off in its configuration.
var ErrTabHidden = errors.New("tab is hidden")

// Sync stages reported by SyncError.
const (
	StageConfig = "config"
	StageFetch  = "fetch"
	StageStore  = "store"
)

// SyncError represents a failure while refreshing a tab.
type SyncError struct {
	Tab   string
	Stage string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error in tab %q (%s): %v", e.Tab, e.Stage, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError.
func NewSyncError(tab, stage string, err error) *SyncError {
	return &SyncError{
		Tab:   tab,
		Stage: stage,
		Err:   err,
	}
}
