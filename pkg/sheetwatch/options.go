// Package sheetwatch mirrors spreadsheet tabs into cached table views and
// product block lists.
package sheetwatch

import (
	"time"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/parser"
	"go.uber.org/zap"
)

// DefaultExpandRows is how many extra rows an expanding refresh requests.
const DefaultExpandRows = 5

// Options configures a Dashboard.
type Options struct {
	// Logger receives sync and scan logs. If nil, logging is disabled.
	Logger *zap.Logger
	// ExtractParams holds the product block layout.
	// If nil, parser.DefaultExtractParams is used.
	ExtractParams *parser.ExtractParams
	// ExpandRows is the row increment of an expanding refresh.
	// If zero, DefaultExpandRows is used.
	ExpandRows int
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
}

// DefaultOptions returns default dashboard options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) extractParams() parser.ExtractParams {
	if o.ExtractParams != nil {
		return *o.ExtractParams
	}
	return parser.DefaultExtractParams()
}

func (o Options) expandRows() int {
	if o.ExpandRows > 0 {
		return o.ExpandRows
	}
	return DefaultExpandRows
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
