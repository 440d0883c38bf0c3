package server

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilterRows returns a copy of t keeping rows with a cell containing q,
// ignoring case. An empty q keeps every row.
func FilterRows(t models.Table, q string) models.Table {
	out := t
	out.Rows = make([]models.RowData, 0, len(t.Rows))
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q))
	for _, row := range t.Rows {
		if needle == "" || rowContains(fold, row, needle) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func rowContains(fold cases.Caser, row models.RowData, needle string) bool {
	for _, v := range row {
		if strings.Contains(fold.String(v), needle) {
			return true
		}
	}
	return false
}

// SortRows orders t.Rows in place by column. Cells that read as numbers
// ("1,200", "8%") compare numerically; others compare as text. The sort is
// stable and an unknown column leaves the order untouched.
func SortRows(t models.Table, column string, desc bool) {
	if column == "" || !hasHeader(t.Headers, column) {
		return
	}
	collate := cases.Lower(language.Und)
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i][column], t.Rows[j][column]
		if desc {
			a, b = b, a
		}
		na, okA := numeric(a)
		nb, okB := numeric(b)
		if okA && okB {
			return na < nb
		}
		return collate.String(a) < collate.String(b)
	})
}

func hasHeader(headers []string, column string) bool {
	for _, h := range headers {
		if h == column {
			return true
		}
	}
	return false
}

func numeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
