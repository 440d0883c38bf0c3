package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"golang.org/x/text/encoding/charmap"
)

func TestExtractSheetID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"https://docs.google.com/spreadsheets/d/1Luw0KU1-Hy_Vn/edit?usp=drivesdk", "1Luw0KU1-Hy_Vn", true},
		{"https://docs.google.com/spreadsheets/d/abc", "abc", true},
		{"https://example.com/sheet", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		id, ok := ExtractSheetID(tt.input)
		if id != tt.expected || ok != tt.ok {
			t.Errorf("ExtractSheetID(%q) = (%q, %v), expected (%q, %v)", tt.input, id, ok, tt.expected, tt.ok)
		}
	}
}

func TestExportURL(t *testing.T) {
	c := New(WithBaseURL("https://sheets.example/"))
	cfg := models.DefaultSheetConfigs()[models.TabKnowledge]

	u := c.ExportURL("abc", cfg)
	assert.True(t, strings.HasPrefix(u, "https://sheets.example/spreadsheets/d/abc/gviz/tq?"), u)
	assert.Contains(t, u, "tqx=out%3Acsv")
	assert.Contains(t, u, "range=A1%3AO32")
	assert.Contains(t, u, "sheet=%25H%C3%B2a_TT")
}

func TestFetchGrid(t *testing.T) {
	var gotPath, gotSheet, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSheet = r.URL.Query().Get("sheet")
		gotRange = r.URL.Query().Get("range")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte("\"Giờ\",\"Spend\"\n\"10\",\"1,500\"\n"))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLimiter(NewLimiter(0)))
	cfg := models.DefaultSheetConfigs()[models.TabHourly]

	grid, err := c.FetchGrid(context.Background(), "abc", cfg)
	require.NoError(t, err)

	assert.Equal(t, "/spreadsheets/d/abc/gviz/tq", gotPath)
	assert.Equal(t, models.TabHourly, gotSheet)
	assert.Equal(t, "A1:J10", gotRange)
	assert.Equal(t, models.Grid{{"Giờ", "Spend"}, {"10", "1,500"}}, grid)
}

func TestFetchGridDecodesCharset(t *testing.T) {
	body, err := charmap.Windows1258.NewEncoder().String("Giá")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=windows-1258")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	grid, err := New(WithBaseURL(srv.URL)).FetchGrid(context.Background(), "abc", models.DefaultSheetConfigs()[models.TabAds])
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"Giá"}}, grid)
}

func TestFetchGridErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	cfg := models.DefaultSheetConfigs()[models.TabAds]

	_, err := c.FetchGrid(context.Background(), "", cfg)
	assert.ErrorIs(t, err, ErrNoSheetID)

	_, err = c.FetchGrid(context.Background(), "abc", cfg)
	assert.ErrorIs(t, err, ErrNotShared)

	bad := cfg
	bad.RangeEndCol = "9"
	_, err = c.FetchGrid(context.Background(), "abc", bad)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotShared))
}

func TestFetchGridCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(WithBaseURL("http://127.0.0.1:1"), WithLimiter(NewLimiter(1)))
	_, err := c.FetchGrid(ctx, "abc", models.DefaultSheetConfigs()[models.TabAds])
	assert.Error(t, err)
}
