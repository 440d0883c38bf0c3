package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// UnknownProductName is used when no caption is found near an anchor.
const UnknownProductName = "Unknown Product"

var categoryLabel = regexp.MustCompile(`(?i)danh mục`)

// Offset is a position relative to an anchor cell.
type Offset struct {
	DR int `json:"dr" toml:"dr"`
	DC int `json:"dc" toml:"dc"`
}

// NameParams holds parameters for product name resolution.
type NameParams struct {
	// Offsets are tried in order; the first qualifying cell wins.
	Offsets []Offset
	// Stoplist holds lower-case structural labels that are never names.
	Stoplist []string
}

// DefaultNameParams returns the offsets and labels of the knowledge tab layout:
// the caption sits two to five rows above the anchor, possibly one column off.
func DefaultNameParams() NameParams {
	return NameParams{
		Offsets: []Offset{
			{-2, 0}, {-2, -1}, {-2, 1},
			{-3, 0}, {-3, -1}, {-3, 1},
			{-4, 0}, {-4, -1}, {-4, 1},
			{-5, 0},
			{-1, 0},
		},
		Stoplist: []string{
			"danh mục",
			"giá bán",
			"phần trăm",
			"thành tiền",
			"giá nhập",
			"chi phí ads",
			"tỷ lệ hoàn",
			"chi phí khác",
			"ship",
			"lợi nhuận",
			"sản phẩm",
			"tên sản phẩm",
		},
	}
}

// ResolveName returns the most plausible product caption around the anchor at
// (row, col), or UnknownProductName.
func ResolveName(grid models.Grid, row, col int, params NameParams) string {
	for _, off := range params.Offsets {
		if name, ok := nameCandidate(CellText(grid, row+off.DR, col+off.DC), params.Stoplist); ok {
			return name
		}
	}
	return UnknownProductName
}

func nameCandidate(raw string, stoplist []string) (string, bool) {
	val := strings.TrimSpace(raw)
	if utf8.RuneCountInString(val) <= 1 {
		return "", false
	}
	if strings.Contains(val, "%") || isStopLabel(val, stoplist) {
		return "", false
	}
	val = strings.TrimSpace(categoryLabel.ReplaceAllString(val, ""))
	if utf8.RuneCountInString(val) <= 1 {
		return "", false
	}
	return val, true
}

func isStopLabel(val string, stoplist []string) bool {
	lower := normalizeLabel(val)
	for _, label := range stoplist {
		if lower == normalizeLabel(label) {
			return true
		}
	}
	return false
}
