package models

// TabSnapshot is the cached view of one tab.
type TabSnapshot struct {
	// Name is the tab name.
	Name string `json:"name"`
	// Range is the A1 range that was fetched.
	Range string `json:"range"`
	// Visible reports whether the tab is fetched.
	Visible bool `json:"visible"`
	// UpdatedAt is the fetch time in Unix milliseconds (0 if never).
	UpdatedAt int64 `json:"updatedAt"`
	// SheetUpdatedAt is the update time written inside the sheet, if any.
	SheetUpdatedAt string `json:"sheetUpdatedAt,omitempty"`
	// Table is the parsed table (nil for the knowledge tab).
	Table *Table `json:"table,omitempty"`
	// Products holds the scanned product blocks (knowledge tab only).
	Products []ProductRecord `json:"products,omitempty"`
}
