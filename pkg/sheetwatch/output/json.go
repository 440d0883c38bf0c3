// Package output serializes dashboard views to JSON.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// ToJSON serializes v. Non-ASCII text is written as is, so Vietnamese
// labels stay readable.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ProductsToJSON serializes a product list. A nil list is written as [].
func ProductsToJSON(products []models.ProductRecord, pretty bool) ([]byte, error) {
	if products == nil {
		products = []models.ProductRecord{}
	}
	return ToJSON(products, pretty)
}

// TabToJSON serializes one tab view.
func TabToJSON(tab *models.TabSnapshot, pretty bool) ([]byte, error) {
	return ToJSON(tab, pretty)
}

// TableRowsToJSON serializes table rows as objects with keys in header order.
func TableRowsToJSON(table models.Table, pretty bool) ([]byte, error) {
	rows := make([]orderedRow, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = orderedRow{headers: table.Headers, data: row}
	}
	return ToJSON(rows, pretty)
}

// orderedRow marshals a RowData keeping the sheet's column order.
type orderedRow struct {
	headers []string
	data    models.RowData
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.data[h])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
