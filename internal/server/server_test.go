package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/store"
)

type stubFetcher struct {
	grids map[string]models.Grid
}

func (f *stubFetcher) FetchGrid(ctx context.Context, sheetID string, cfg models.SheetConfig) (models.Grid, error) {
	return f.grids[cfg.SheetName], nil
}

type stubPoller struct {
	active string
}

func (p *stubPoller) SetActive(tab string) { p.active = tab }
func (p *stubPoller) Active() string       { return p.active }

func newTestServer(t *testing.T) (*Server, *stubPoller) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	knowledge := make(models.Grid, 6)
	for r := range knowledge {
		knowledge[r] = make([]string, 4)
	}
	knowledge[0][0] = "Bình giữ nhiệt"
	knowledge[2][0] = "Giá bán"
	knowledge[2][2] = "120,000"
	knowledge[3][1] = "40"

	fetcher := &stubFetcher{grids: map[string]models.Grid{
		models.TabAds: {
			{"Tên chiến dịch", "Chi tiêu", "Trạng thái"},
			{"Beta", "1,200", "ON"},
			{"alpha", "300", "OFF"},
			{"Gamma", "25", "ON"},
		},
		models.TabKnowledge: knowledge,
	}}
	repo := store.NewRepository(store.NewMemStore(),
		models.DefaultMemory("https://docs.google.com/spreadsheets/d/sheet1/edit", "sheet1", nil))
	dash := sheetwatch.New(repo, fetcher, sheetwatch.DefaultOptions())
	poller := &stubPoller{active: models.TabHourly}
	return New(dash, poller, nil, true), poller
}

func do(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func tabPath(name string, suffix string) string {
	return "/api/tabs/" + url.PathEscape(name) + suffix
}

func TestRefreshAndGetTab(t *testing.T) {
	s, poller := newTestServer(t)

	w := do(t, s, http.MethodPost, tabPath(models.TabAds, "/refresh"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, tabPath(models.TabAds, "?sort=Chi+ti%C3%AAu&desc=1"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.TabAds, poller.active)

	var snap models.TabSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotNil(t, snap.Table)
	require.Len(t, snap.Table.Rows, 3)
	assert.Equal(t, "Beta", snap.Table.Rows[0]["Tên chiến dịch"])
	assert.Equal(t, "Gamma", snap.Table.Rows[2]["Tên chiến dịch"])

	w = do(t, s, http.MethodGet, tabPath(models.TabAds, "?q=ALPHA"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Table.Rows, 1)
	assert.Equal(t, "alpha", snap.Table.Rows[0]["Tên chiến dịch"])
}

func TestProducts(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, tabPath(models.TabKnowledge, "/refresh"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items  []models.ProductRecord `json:"items"`
		Total  int                    `json:"total"`
		Source string                 `json:"source"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Bình giữ nhiệt", body.Items[0].Name)
	assert.Equal(t, "120,000", body.Items[0].AvgOrderValue)
	assert.Equal(t, "40,000", body.Items[0].ImportPrice)
	assert.Equal(t, "cache", body.Source)
}

func TestSettings(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPut, "/api/settings/url", map[string]string{"url": "not a sheet"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	next := "https://docs.google.com/spreadsheets/d/sheet2/edit"
	w = do(t, s, http.MethodPut, "/api/settings/url", map[string]string{"url": next})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var settings SettingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "sheet2", settings.SheetID)
	assert.Equal(t, next, settings.URLHistory[0])

	w = do(t, s, http.MethodPut, "/api/settings/tabs/"+url.PathEscape(models.TabHourly),
		map[string]interface{}{"lastRow": 25})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/settings", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, 25, settings.Configs[models.TabHourly].LastRow)

	w = do(t, s, http.MethodPut, "/api/settings/tabs/"+url.PathEscape(models.TabHourly),
		map[string]interface{}{"rangeEndCol": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/tabs/Nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/api/tabs/Nope/refresh", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Configured)
	assert.Len(t, status.Tabs, len(models.TabNames))
	assert.Equal(t, models.TabHourly, status.ActiveTab)
}

func TestSortRows(t *testing.T) {
	table := models.Table{
		Headers: []string{"v"},
		Rows:    []models.RowData{{"v": "10%"}, {"v": "1,500"}, {"v": "2%"}},
	}
	SortRows(table, "v", false)

	var got []string
	for _, r := range table.Rows {
		got = append(got, r["v"])
	}
	assert.Equal(t, []string{"2%", "10%", "1,500"}, got)

	before := append([]models.RowData(nil), table.Rows...)
	SortRows(table, "missing", true)
	assert.Equal(t, before, table.Rows)
}
