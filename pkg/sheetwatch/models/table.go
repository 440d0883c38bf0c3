package models

// RowData maps a header to the cell text of one data row.
type RowData map[string]string

// ColumnRoles names the columns that carry special meaning in a table view.
// Empty fields mean no such column was found.
type ColumnRoles struct {
	// Name is the campaign or item name column.
	Name string `json:"name,omitempty"`
	// Status is the status column.
	Status string `json:"status,omitempty"`
	// Updated is the column holding the sheet-side update time.
	Updated string `json:"updated,omitempty"`
	// Note is the error, warning or note column.
	Note string `json:"note,omitempty"`
}

// Table is a header-keyed view over a grid.
type Table struct {
	// Headers holds the column keys in sheet order.
	Headers []string `json:"headers"`
	// Rows holds one entry per data row.
	Rows []RowData `json:"rows"`
	// Roles holds detected special columns.
	Roles ColumnRoles `json:"roles"`
	// DataRange bounds the non-empty cells of the fetched grid (e.g.
	// "A1:D10"), or is empty when they are too sparse to be a table.
	DataRange string `json:"dataRange,omitempty"`
}

// SheetUpdatedAt returns the update time written in the first data row,
// or "" when the table has no such column.
func (t Table) SheetUpdatedAt() string {
	if t.Roles.Updated == "" || len(t.Rows) == 0 {
		return ""
	}
	return t.Rows[0][t.Roles.Updated]
}
