package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/fetch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/parser"
	"go.uber.org/zap"
)

// Handler serves the dashboard API.
type Handler struct {
	dash   *sheetwatch.Dashboard
	poller ActiveTabSetter
	logger *zap.Logger
}

// NewHandler creates a Handler. poller may be nil.
func NewHandler(dash *sheetwatch.Dashboard, poller ActiveTabSetter, logger *zap.Logger) *Handler {
	return &Handler{dash: dash, poller: poller, logger: logger}
}

// RegisterRoutes registers the API routes on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.GET("/tabs", h.ListTabs)
	router.GET("/tabs/:name", h.GetTab)
	router.POST("/tabs/:name/refresh", h.RefreshTab)

	router.GET("/products", h.ListProducts)

	router.GET("/settings", h.GetSettings)
	router.PUT("/settings/url", h.UpdateSheetURL)
	router.PUT("/settings/tabs/:name", h.UpdateTab)
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Configured bool                `json:"configured"`
	SheetID    string              `json:"sheetId"`
	ActiveTab  string              `json:"activeTab,omitempty"`
	Tabs       []sheetwatch.Status `json:"tabs"`
}

// GetStatus reports the sync state of every tab.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	mem, err := h.dash.Memory(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := StatusResponse{
		Configured: mem.SheetID != "",
		SheetID:    mem.SheetID,
		Tabs:       make([]sheetwatch.Status, 0, len(models.TabNames)),
	}
	for _, name := range models.TabNames {
		resp.Tabs = append(resp.Tabs, h.dash.Status(name))
	}
	if h.poller != nil {
		resp.ActiveTab = h.poller.Active()
	}
	c.JSON(http.StatusOK, resp)
}

// ListTabs returns the cached view of every tab.
// GET /api/tabs
func (h *Handler) ListTabs(c *gin.Context) {
	tabs, err := h.dash.Tabs(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tabs})
}

// GetTab returns one tab, optionally sorted and filtered, and makes it the
// polled tab.
// GET /api/tabs/:name?sort=<column>&desc=1&q=<text>
func (h *Handler) GetTab(c *gin.Context) {
	name := c.Param("name")
	snap, err := h.dash.Tab(c.Request.Context(), name)
	if err != nil {
		h.fail(c, err)
		return
	}
	if snap.Table != nil {
		view := FilterRows(*snap.Table, c.Query("q"))
		SortRows(view, c.Query("sort"), queryBool(c, "desc"))
		snap.Table = &view
	}
	if h.poller != nil {
		h.poller.SetActive(name)
	}
	c.JSON(http.StatusOK, snap)
}

// RefreshTab fetches one tab now. With expand=1 the range grows downward.
// POST /api/tabs/:name/refresh
func (h *Handler) RefreshTab(c *gin.Context) {
	name := c.Param("name")
	if err := h.dash.Refresh(c.Request.Context(), name, queryBool(c, "expand")); err != nil {
		h.fail(c, err)
		return
	}
	snap, err := h.dash.Tab(c.Request.Context(), name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ListProducts returns the product blocks of the knowledge tab.
// GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	result, err := h.dash.Products(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if result.CacheErr != nil {
		h.logger.Warn("anchor cache unavailable", zap.Error(result.CacheErr))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":  result.Products,
		"total":  len(result.Products),
		"source": result.Source,
	})
}

// SettingsResponse is the body of GET /api/settings.
type SettingsResponse struct {
	SheetURL   string                        `json:"sheetUrl"`
	SheetID    string                        `json:"sheetId"`
	URLHistory []string                      `json:"urlHistory"`
	Configs    map[string]models.SheetConfig `json:"configs"`
}

// GetSettings returns the sheet link and the tab ranges.
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	mem, err := h.dash.Memory(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsOf(mem))
}

type updateURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// UpdateSheetURL switches to another spreadsheet.
// PUT /api/settings/url
func (h *Handler) UpdateSheetURL(c *gin.Context) {
	var req updateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	mem, err := h.dash.SetSheetURL(c.Request.Context(), req.URL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsOf(mem))
}

// UpdateTab changes the range configuration of one tab.
// PUT /api/settings/tabs/:name
func (h *Handler) UpdateTab(c *gin.Context) {
	var patch models.SheetConfig
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cfg, err := h.dash.UpdateSheetConfig(c.Request.Context(), c.Param("name"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func settingsOf(mem *models.AppMemory) SettingsResponse {
	history := mem.URLHistory
	if history == nil {
		history = []string{}
	}
	return SettingsResponse{
		SheetURL:   mem.SheetURL,
		SheetID:    mem.SheetID,
		URLHistory: history,
		Configs:    mem.Configs,
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, sheetwatch.ErrUnknownTab):
		return http.StatusNotFound
	case errors.Is(err, sheetwatch.ErrTabHidden),
		errors.Is(err, sheetwatch.ErrNoSheetID),
		errors.Is(err, sheetwatch.ErrInvalidSheetURL),
		errors.Is(err, parser.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrNotShared):
		return http.StatusBadGateway
	}
	var syncErr *sheetwatch.SyncError
	if errors.As(err, &syncErr) && syncErr.Stage == sheetwatch.StageConfig {
		return http.StatusBadRequest
	}
	if errors.As(err, &syncErr) && syncErr.Stage == sheetwatch.StageFetch {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
