package parser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGridFromWorkbook(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "C9", "Widget A")
	f.SetCellValue(sheetName, "C11", "Giá bán")
	f.SetCellValue(sheetName, "D12", "50")

	tmpFile := filepath.Join(t.TempDir(), "knowledge.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	grid, err := GridFromWorkbook(f2, "")
	if err != nil {
		t.Fatalf("GridFromWorkbook failed: %v", err)
	}

	if len(grid) != 12 {
		t.Errorf("Expected 12 rows, got %d", len(grid))
	}
	if got := CellText(grid, 10, 2); got != "Giá bán" {
		t.Errorf("Expected 'Giá bán' at (10, 2), got %q", got)
	}

	p, ok := ExtractAt(grid, 10, 2, DefaultExtractParams())
	if !ok {
		t.Fatal("ExtractAt did not find the anchor")
	}
	if p.Name != "Widget A" || p.ImportPrice != "50,000" {
		t.Errorf("unexpected record %+v", *p)
	}

	if _, err := GridFromWorkbook(f2, "Missing"); err == nil {
		t.Error("Expected an error for a missing sheet")
	}
}
