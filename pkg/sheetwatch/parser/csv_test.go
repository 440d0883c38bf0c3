package parser

import (
	"reflect"
	"testing"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.Grid
	}{
		{"empty", "", nil},
		{"single", "a", models.Grid{{"a"}}},
		{"rows", "a,b\nc,d", models.Grid{{"a", "b"}, {"c", "d"}}},
		{"trailing newline", "a,b\n", models.Grid{{"a", "b"}}},
		{"crlf", "a,b\r\nc\r\n", models.Grid{{"a", "b"}, {"c"}}},
		{"lone cr", "a\rb", models.Grid{{"a"}, {"b"}}},
		{"ragged", "a,b,c\nd\n,e", models.Grid{{"a", "b", "c"}, {"d"}, {"", "e"}}},
		{"quoted comma", `"200,000",x`, models.Grid{{"200,000", "x"}}},
		{"escaped quote", `"say ""hi"""`, models.Grid{{`say "hi"`}}},
		{"quoted newline", "\"a\nb\",c", models.Grid{{"a\nb", "c"}}},
		{"unicode", "Giá bán,15.5", models.Grid{{"Giá bán", "15.5"}}},
		{"empty fields", ",,", models.Grid{{"", "", ""}}},
	}

	for _, tt := range tests {
		result := ParseCSV(tt.input)
		if !reflect.DeepEqual(result, tt.expected) {
			t.Errorf("%s: ParseCSV(%q) = %q, expected %q", tt.name, tt.input, result, tt.expected)
		}
	}
}
