package parser

import (
	"testing"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

func TestConfigArea(t *testing.T) {
	tests := []struct {
		cfg      models.SheetConfig
		expected models.SheetRange
		wantErr  bool
	}{
		{models.SheetConfig{RangeStart: "A1", RangeEndCol: "J", LastRow: 10}, models.SheetRange{R1: 1, C1: 1, R2: 10, C2: 10}, false},
		{models.SheetConfig{RangeStart: "b3", RangeEndCol: "p", LastRow: 12}, models.SheetRange{R1: 3, C1: 2, R2: 12, C2: 16}, false},
		{models.SheetConfig{RangeStart: "C", RangeEndCol: "O", LastRow: 32}, models.SheetRange{R1: 1, C1: 3, R2: 32, C2: 15}, false},
		{models.SheetConfig{RangeStart: "A1", RangeEndCol: "1", LastRow: 10}, models.SheetRange{}, true},
		{models.SheetConfig{RangeStart: "!!", RangeEndCol: "J", LastRow: 10}, models.SheetRange{}, true},
		{models.SheetConfig{RangeStart: "A5", RangeEndCol: "J", LastRow: 2}, models.SheetRange{}, true},
		{models.SheetConfig{RangeStart: "K1", RangeEndCol: "J", LastRow: 2}, models.SheetRange{}, true},
	}

	for _, tt := range tests {
		result, err := ConfigArea(tt.cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("ConfigArea(%s) error = %v, wantErr %v", tt.cfg.Range(), err, tt.wantErr)
			continue
		}
		if result != tt.expected {
			t.Errorf("ConfigArea(%s) = %+v, expected %+v", tt.cfg.Range(), result, tt.expected)
		}
	}
}

func TestParseRange(t *testing.T) {
	area, ok := ParseRange("$A$1:$D$10")
	if !ok {
		t.Fatal("ParseRange failed")
	}
	if area != (models.SheetRange{R1: 1, C1: 1, R2: 10, C2: 4}) {
		t.Errorf("ParseRange() = %+v", area)
	}
	if _, ok := ParseRange("A1"); ok {
		t.Error("ParseRange(A1) should fail")
	}
}

func TestConfigFromRange(t *testing.T) {
	cfg, ok := ConfigFromRange(models.TabAds, "A1:P17")
	if !ok {
		t.Fatal("ConfigFromRange failed")
	}
	if cfg.RangeStart != "A1" || cfg.RangeEndCol != "P" || cfg.LastRow != 17 {
		t.Errorf("ConfigFromRange() = %+v", cfg)
	}
	if cfg.Range() != "A1:P17" {
		t.Errorf("Range() = %q, expected %q", cfg.Range(), "A1:P17")
	}
}
