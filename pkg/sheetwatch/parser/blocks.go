package parser

import (
	"strings"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

// AnchorLabel is the normalized text of a product block's anchor cell.
const AnchorLabel = "giá bán"

// MissingValue stands in for absent or empty block cells.
const MissingValue = "-"

// ExtractParams holds parameters for block extraction.
type ExtractParams struct {
	Name   NameParams
	Locale language.Tag
}

// DefaultExtractParams returns the layout defaults with DefaultLocale.
func DefaultExtractParams() ExtractParams {
	return ExtractParams{
		Name:   DefaultNameParams(),
		Locale: DefaultLocale,
	}
}

// normalizeLabel trims, composes and lower-cases a label so that
// differently encoded Vietnamese diacritics compare equal.
func normalizeLabel(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// IsAnchor reports whether a cell value is the block anchor label.
func IsAnchor(value string) bool {
	return normalizeLabel(value) == AnchorLabel
}

// ExtractAt reads the product block anchored at (row, col).
// It returns false when that cell does not hold the anchor label.
func ExtractAt(grid models.Grid, row, col int, params ExtractParams) (*models.ProductRecord, bool) {
	return newBlockReader(params).extractAt(grid, row, col)
}

// blockReader carries the per-scan number printer.
type blockReader struct {
	names   NameParams
	printer *message.Printer
}

func newBlockReader(params ExtractParams) *blockReader {
	return &blockReader{
		names:   params.Name,
		printer: NewNumberPrinter(params.Locale),
	}
}

func (b *blockReader) extractAt(grid models.Grid, row, col int) (*models.ProductRecord, bool) {
	anchor, ok := Cell(grid, row, col)
	if !ok || !IsAnchor(anchor) {
		return nil, false
	}

	return &models.ProductRecord{
		Name:          ResolveName(grid, row, col, b.names),
		AvgOrderValue: blockValue(grid, row, col+2),
		ImportPrice:   ScaleThousands(blockValue(grid, row+1, col+1), b.printer),
		AvgQuantity:   blockValue(grid, row+1, col+2),
		BreakEven:     blockValue(grid, row+2, col+1),
		AdsCost:       ScaleThousands(blockValue(grid, row+2, col+2), b.printer),
		ReturnRate:    blockValue(grid, row+3, col+1),
	}, true
}

func blockValue(grid models.Grid, row, col int) string {
	v := CellText(grid, row, col)
	if v == "" {
		return MissingValue
	}
	return v
}
