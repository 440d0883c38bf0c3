package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidRange indicates a tab config that does not describe a range.
var ErrInvalidRange = errors.New("invalid range")

// ConfigArea resolves a tab config to its cell bounds.
// It fails when the start cell or end column is not a valid reference or the
// range is inverted.
func ConfigArea(cfg models.SheetConfig) (models.SheetRange, error) {
	startCol, startRow, err := excelize.CellNameToCoordinates(strings.ToUpper(cfg.RangeStart))
	if err != nil {
		// A bare column such as "A" starts at row 1.
		col, colErr := excelize.ColumnNameToNumber(strings.ToUpper(cfg.RangeStart))
		if colErr != nil {
			return models.SheetRange{}, fmt.Errorf("%w: start %q: %v", ErrInvalidRange, cfg.RangeStart, err)
		}
		startCol, startRow = col, 1
	}

	endCol, err := excelize.ColumnNameToNumber(strings.ToUpper(cfg.RangeEndCol))
	if err != nil {
		return models.SheetRange{}, fmt.Errorf("%w: end column %q: %v", ErrInvalidRange, cfg.RangeEndCol, err)
	}

	if cfg.LastRow < startRow || endCol < startCol {
		return models.SheetRange{}, fmt.Errorf("%w: %s is inverted", ErrInvalidRange, cfg.Range())
	}

	return models.SheetRange{
		R1: startRow,
		C1: startCol,
		R2: cfg.LastRow,
		C2: endCol,
	}, nil
}

// ParseRange parses a range string like $A$1:$D$10 to a SheetRange.
func ParseRange(rangeStr string) (models.SheetRange, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return models.SheetRange{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.SheetRange{}, false
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.SheetRange{}, false
	}

	return models.SheetRange{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}, true
}

// ConfigFromRange builds a tab config from a range string such as "A1:J20".
func ConfigFromRange(sheetName, rangeStr string) (models.SheetConfig, bool) {
	area, ok := ParseRange(rangeStr)
	if !ok {
		return models.SheetConfig{}, false
	}
	start, err := excelize.CoordinatesToCellName(area.C1, area.R1)
	if err != nil {
		return models.SheetConfig{}, false
	}
	endCol, err := excelize.ColumnNumberToName(area.C2)
	if err != nil {
		return models.SheetConfig{}, false
	}
	return models.SheetConfig{
		SheetName:   sheetName,
		RangeStart:  start,
		RangeEndCol: endCol,
		LastRow:     area.R2,
	}, true
}
