package models

import (
	"fmt"
	"strings"
)

// Tab names of the tracked spreadsheet.
const (
	TabHourly    = "BC_GIỜ"
	TabAds       = "Việt_Ads"
	TabKnowledge = "%Hòa_TT"
)

// TabNames lists the tracked tabs in display order.
var TabNames = []string{TabHourly, TabAds, TabKnowledge}

// SheetConfig describes which range of a tab is fetched.
type SheetConfig struct {
	// SheetName is the tab name as shown in the spreadsheet.
	SheetName string `json:"sheetName" toml:"sheet_name"`
	// RangeStart is the top-left cell of the range (e.g. "A1").
	RangeStart string `json:"rangeStart" toml:"range_start"`
	// RangeEndCol is the last column of the range (e.g. "J").
	RangeEndCol string `json:"rangeEndCol" toml:"range_end_col"`
	// LastRow is the last row of the range (1-based, inclusive).
	LastRow int `json:"lastRow" toml:"last_row"`
	// IsVisible controls whether the tab is fetched at all.
	// If nil, the tab is visible.
	IsVisible *bool `json:"isVisible,omitempty" toml:"is_visible,omitempty"`
}

// Range returns the A1 range string used by the export endpoint, e.g. "A1:J10".
func (c SheetConfig) Range() string {
	return fmt.Sprintf("%s:%s%d", strings.ToUpper(c.RangeStart), strings.ToUpper(c.RangeEndCol), c.LastRow)
}

// IsShown reports whether the tab should be fetched.
func (c SheetConfig) IsShown() bool {
	return c.IsVisible == nil || *c.IsVisible
}

// Expanded returns a copy of c reaching extra rows further down.
func (c SheetConfig) Expanded(extra int) SheetConfig {
	c.LastRow += extra
	return c
}

// Merge overlays the non-zero fields of patch on c.
func (c SheetConfig) Merge(patch SheetConfig) SheetConfig {
	if patch.SheetName != "" {
		c.SheetName = patch.SheetName
	}
	if patch.RangeStart != "" {
		c.RangeStart = patch.RangeStart
	}
	if patch.RangeEndCol != "" {
		c.RangeEndCol = patch.RangeEndCol
	}
	if patch.LastRow > 0 {
		c.LastRow = patch.LastRow
	}
	if patch.IsVisible != nil {
		v := *patch.IsVisible
		c.IsVisible = &v
	}
	return c
}

// DefaultSheetConfigs returns the initial range configuration of each tab.
func DefaultSheetConfigs() map[string]SheetConfig {
	visible := func() *bool { v := true; return &v }
	return map[string]SheetConfig{
		TabHourly: {
			SheetName:   TabHourly,
			RangeStart:  "A1",
			RangeEndCol: "J",
			LastRow:     10,
			IsVisible:   visible(),
		},
		TabAds: {
			SheetName:   TabAds,
			RangeStart:  "A1",
			RangeEndCol: "P",
			LastRow:     12,
			IsVisible:   visible(),
		},
		TabKnowledge: {
			SheetName:   TabKnowledge,
			RangeStart:  "A1",
			RangeEndCol: "O",
			LastRow:     32,
			IsVisible:   visible(),
		},
	}
}
