package models

// CellRow represents a single table row with typed cell values.
type CellRow struct {
	// R is the sheet row index (1-based, header is row 1).
	R int `json:"r"`
	// C maps header to cell value (int64, float64 or string).
	C map[string]interface{} `json:"c"`
}
