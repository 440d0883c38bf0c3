package parser

import (
	"reflect"
	"testing"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

func TestParseTable(t *testing.T) {
	grid := models.Grid{
		{" Tên chiến dịch ", "", "Trạng thái", "Updated at", "Ghi chú"},
		{"Camp 1", "x", "ON", "10:30", "ok"},
		{"Camp 2"},
	}

	table := ParseTable(grid)

	expectedHeaders := []string{"Tên chiến dịch", "Col_1", "Trạng thái", "Updated at", "Ghi chú"}
	if !reflect.DeepEqual(table.Headers, expectedHeaders) {
		t.Errorf("Headers = %q, expected %q", table.Headers, expectedHeaders)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["Col_1"] != "x" {
		t.Errorf("Col_1 = %q, expected %q", table.Rows[0]["Col_1"], "x")
	}
	if v, ok := table.Rows[1]["Ghi chú"]; !ok || v != "" {
		t.Errorf("short row Ghi chú = (%q, %v), expected empty and present", v, ok)
	}

	expectedRoles := models.ColumnRoles{
		Name:    "Tên chiến dịch",
		Status:  "Trạng thái",
		Updated: "Updated at",
		Note:    "Ghi chú",
	}
	if table.Roles != expectedRoles {
		t.Errorf("Roles = %+v, expected %+v", table.Roles, expectedRoles)
	}
	if table.DataRange != "A1:E3" {
		t.Errorf("DataRange = %q, expected %q", table.DataRange, "A1:E3")
	}
	if got := table.SheetUpdatedAt(); got != "10:30" {
		t.Errorf("SheetUpdatedAt() = %q, expected %q", got, "10:30")
	}
}

func TestParseTableEmpty(t *testing.T) {
	table := ParseTable(nil)
	if len(table.Headers) != 0 || len(table.Rows) != 0 {
		t.Errorf("ParseTable(nil) = %+v, expected empty", table)
	}
}

func TestDetectColumnRoles(t *testing.T) {
	tests := []struct {
		headers  []string
		expected models.ColumnRoles
	}{
		{
			headers:  []string{"Name", "Status", "Spend"},
			expected: models.ColumnRoles{Name: "Name", Status: "Status", Note: "Spend"},
		},
		{
			// The campaign name keyword beats a generic name column.
			headers:  []string{"Account name", "Tên chiến dịch", "Lỗi"},
			expected: models.ColumnRoles{Name: "Tên chiến dịch", Note: "Lỗi"},
		},
		{
			headers:  []string{"Giờ", "Cập nhật lúc"},
			expected: models.ColumnRoles{Updated: "Cập nhật lúc", Note: "Cập nhật lúc"},
		},
		{
			headers:  nil,
			expected: models.ColumnRoles{},
		},
	}

	for _, tt := range tests {
		result := DetectColumnRoles(tt.headers)
		if result != tt.expected {
			t.Errorf("DetectColumnRoles(%q) = %+v, expected %+v", tt.headers, result, tt.expected)
		}
	}
}

func TestTypedRows(t *testing.T) {
	table := ParseTable(models.Grid{
		{"Giờ", "Spend", "ROI", "Note"},
		{"10", "1500.5", "x", ""},
	})

	rows := TypedRows(table)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].R != 2 {
		t.Errorf("R = %d, expected 2", rows[0].R)
	}
	if rows[0].C["Giờ"] != int64(10) {
		t.Errorf("Giờ = %v (type: %T), expected int64(10)", rows[0].C["Giờ"], rows[0].C["Giờ"])
	}
	if rows[0].C["Spend"] != 1500.5 {
		t.Errorf("Spend = %v, expected 1500.5", rows[0].C["Spend"])
	}
	if rows[0].C["ROI"] != "x" {
		t.Errorf("ROI = %v, expected x", rows[0].C["ROI"])
	}
	if _, ok := rows[0].C["Note"]; ok {
		t.Error("empty Note should be left out")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{" 7 ", int64(7)},
		{"hello", "hello"},
		{"200,000", "200,000"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestDetectTableRange(t *testing.T) {
	grid := models.Grid{
		{"", "", ""},
		{"", "a", "b"},
		{"", "c", "d"},
	}
	if got := DetectTableRange(grid, DefaultTableParams()); got != "B2:C3" {
		t.Errorf("DetectTableRange() = %q, expected %q", got, "B2:C3")
	}
	if got := DetectTableRange(models.Grid{{"a"}}, DefaultTableParams()); got != "" {
		t.Errorf("DetectTableRange() on one cell = %q, expected empty", got)
	}
	if got := DetectTableRange(nil, DefaultTableParams()); got != "" {
		t.Errorf("DetectTableRange(nil) = %q, expected empty", got)
	}
}
