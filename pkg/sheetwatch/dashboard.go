package sheetwatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/fetch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/parser"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/store"
	"go.uber.org/zap"
)

// SyncState is the state of a tab's last refresh.
type SyncState string

const (
	StateIdle    SyncState = "idle"
	StateSyncing SyncState = "syncing"
	StateSuccess SyncState = "success"
	StateError   SyncState = "error"
)

// Status describes the last refresh of one tab.
type Status struct {
	Tab       string    `json:"tab"`
	State     SyncState `json:"state"`
	RunID     string    `json:"runId,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	LastSync  time.Time `json:"lastSync,omitempty"`
}

// Dashboard keeps the tab caches of one spreadsheet up to date.
type Dashboard struct {
	repo    *store.Repository
	fetcher fetch.Fetcher
	opts    Options
	logger  *zap.Logger
	params  parser.ExtractParams

	mu     sync.RWMutex
	status map[string]Status
	tables map[string]models.Table
}

// New creates a Dashboard persisting through repo and fetching with fetcher.
func New(repo *store.Repository, fetcher fetch.Fetcher, opts Options) *Dashboard {
	return &Dashboard{
		repo:    repo,
		fetcher: fetcher,
		opts:    opts,
		logger:  opts.logger(),
		params:  opts.extractParams(),
		status:  make(map[string]Status),
		tables:  make(map[string]models.Table),
	}
}

// Memory returns the persisted dashboard state.
func (d *Dashboard) Memory(ctx context.Context) (*models.AppMemory, error) {
	return d.repo.Get(ctx)
}

// Refresh fetches one tab and updates its cache. With expand, the range
// reaches further down and the tab's LastRow grows to cover what was found.
func (d *Dashboard) Refresh(ctx context.Context, tab string, expand bool) error {
	mem, err := d.repo.Get(ctx)
	if err != nil {
		return NewSyncError(tab, StageStore, err)
	}
	if mem.SheetID == "" {
		d.setStatus(Status{Tab: tab, State: StateIdle})
		return NewSyncError(tab, StageConfig, ErrNoSheetID)
	}
	cfg, ok := mem.Configs[tab]
	if !ok {
		return NewSyncError(tab, StageConfig, ErrUnknownTab)
	}
	if !cfg.IsShown() {
		return NewSyncError(tab, StageConfig, ErrTabHidden)
	}

	runID := uuid.NewString()
	logger := d.logger.With(zap.String("tab", tab), zap.String("run", runID))
	d.setStatus(Status{Tab: tab, State: StateSyncing, RunID: runID})

	fetchCfg := cfg
	if expand {
		fetchCfg = cfg.Expanded(d.opts.expandRows())
	}

	grid, err := d.fetcher.FetchGrid(ctx, mem.SheetID, fetchCfg)
	if err != nil {
		logger.Error("fetch failed", zap.Error(err))
		return d.fail(tab, runID, NewSyncError(tab, StageFetch, err))
	}

	now := d.opts.now()
	grow := 0
	if expand && len(grid) > cfg.LastRow {
		grow = len(grid)
	}
	if tab == models.TabKnowledge {
		err = d.storeKnowledge(ctx, grid, grow, now)
	} else {
		err = d.storeTable(ctx, tab, grid, grow, now)
	}
	if err != nil {
		logger.Error("store failed", zap.Error(err))
		return d.fail(tab, runID, NewSyncError(tab, StageStore, err))
	}

	logger.Debug("tab refreshed", zap.Int("rows", len(grid)), zap.Bool("expand", expand))
	d.setStatus(Status{Tab: tab, State: StateSuccess, RunID: runID, LastSync: now})
	return nil
}

func (d *Dashboard) storeKnowledge(ctx context.Context, grid models.Grid, lastRow int, now time.Time) error {
	_, err := d.repo.Update(ctx, func(m *models.AppMemory) error {
		d.growRange(m, models.TabKnowledge, lastRow)
		m.ProductKnowledgeCache = grid
		m.LastKnowledgeUpdate = now.UnixMilli()
		return nil
	})
	if err != nil {
		return err
	}
	// Scan right away so the anchor cache follows the new grid.
	result := d.scan(ctx, grid)
	return result.CacheErr
}

func (d *Dashboard) storeTable(ctx context.Context, tab string, grid models.Grid, lastRow int, now time.Time) error {
	table := parser.ParseTable(grid)

	_, err := d.repo.Update(ctx, func(m *models.AppMemory) error {
		d.growRange(m, tab, lastRow)
		switch tab {
		case models.TabHourly:
			m.HourlyCache = table.Rows
			m.LastHourlyUpdate = now.UnixMilli()
		case models.TabAds:
			m.AdsCache = table.Rows
			m.LastAdsUpdate = now.UnixMilli()
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.tables[tab] = table
	d.mu.Unlock()
	return nil
}

// growRange raises the tab's LastRow to lastRow when that reaches further.
func (d *Dashboard) growRange(m *models.AppMemory, tab string, lastRow int) {
	cfg, ok := m.Configs[tab]
	if !ok || lastRow <= cfg.LastRow {
		return
	}
	cfg.LastRow = lastRow
	m.Configs[tab] = cfg
	d.logger.Info("expanded tab range", zap.String("tab", tab), zap.String("range", cfg.Range()))
}

// Products scans the cached knowledge grid for product blocks.
func (d *Dashboard) Products(ctx context.Context) (parser.ScanResult, error) {
	mem, err := d.repo.Get(ctx)
	if err != nil {
		return parser.ScanResult{}, err
	}
	return d.scan(ctx, mem.ProductKnowledgeCache), nil
}

// ScanGrid scans a grid obtained elsewhere, sharing the anchor cache.
func (d *Dashboard) ScanGrid(ctx context.Context, grid models.Grid) parser.ScanResult {
	return d.scan(ctx, grid)
}

func (d *Dashboard) scan(ctx context.Context, grid models.Grid) parser.ScanResult {
	scanner := parser.NewScanner(d.repo.AnchorCache(ctx),
		parser.WithLogger(d.logger),
		parser.WithExtractParams(d.params))
	return scanner.Products(grid)
}

// Tab returns the cached view of one tab.
func (d *Dashboard) Tab(ctx context.Context, tab string) (models.TabSnapshot, error) {
	mem, err := d.repo.Get(ctx)
	if err != nil {
		return models.TabSnapshot{}, err
	}
	return d.snapshot(ctx, mem, tab)
}

// Tabs returns the cached views of every configured tab in display order.
func (d *Dashboard) Tabs(ctx context.Context) ([]models.TabSnapshot, error) {
	mem, err := d.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]models.TabSnapshot, 0, len(mem.Configs))
	for _, name := range tabOrder(mem.Configs) {
		s, err := d.snapshot(ctx, mem, name)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

func (d *Dashboard) snapshot(ctx context.Context, mem *models.AppMemory, tab string) (models.TabSnapshot, error) {
	cfg, ok := mem.Configs[tab]
	if !ok {
		return models.TabSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
	s := models.TabSnapshot{
		Name:    tab,
		Range:   cfg.Range(),
		Visible: cfg.IsShown(),
	}

	switch tab {
	case models.TabKnowledge:
		s.UpdatedAt = mem.LastKnowledgeUpdate
		s.Products = d.scan(ctx, mem.ProductKnowledgeCache).Products
		return s, nil
	case models.TabHourly:
		s.UpdatedAt = mem.LastHourlyUpdate
	case models.TabAds:
		s.UpdatedAt = mem.LastAdsUpdate
	}

	table := d.cachedTable(tab, mem)
	s.Table = &table
	s.SheetUpdatedAt = table.SheetUpdatedAt()
	return s, nil
}

// cachedTable prefers the table parsed in this process; after a restart
// the persisted rows are used and headers come back in sorted order.
func (d *Dashboard) cachedTable(tab string, mem *models.AppMemory) models.Table {
	d.mu.RLock()
	table, ok := d.tables[tab]
	d.mu.RUnlock()
	if ok {
		return table
	}

	var rows []models.RowData
	switch tab {
	case models.TabHourly:
		rows = mem.HourlyCache
	case models.TabAds:
		rows = mem.AdsCache
	}
	if rows == nil {
		rows = []models.RowData{}
	}
	headers := []string{}
	if len(rows) > 0 {
		for k := range rows[0] {
			headers = append(headers, k)
		}
		sort.Strings(headers)
	}
	return models.Table{
		Headers: headers,
		Rows:    rows,
		Roles:   parser.DetectColumnRoles(headers),
	}
}

// SetSheetURL switches the dashboard to another spreadsheet. Cached tab
// payloads are dropped; the anchor cache is kept and revalidated by the
// next scan.
func (d *Dashboard) SetSheetURL(ctx context.Context, sheetURL string) (*models.AppMemory, error) {
	id, ok := fetch.ExtractSheetID(sheetURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSheetURL, sheetURL)
	}
	mem, err := d.repo.Update(ctx, func(m *models.AppMemory) error {
		m.SheetURL = sheetURL
		m.SheetID = id
		m.RememberURL(sheetURL)
		m.ClearCaches()
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.tables = make(map[string]models.Table)
	d.status = make(map[string]Status)
	d.mu.Unlock()

	d.logger.Info("sheet changed", zap.String("sheet_id", id))
	return mem, nil
}

// UpdateSheetConfig overlays patch on a tab's range configuration.
func (d *Dashboard) UpdateSheetConfig(ctx context.Context, tab string, patch models.SheetConfig) (models.SheetConfig, error) {
	var updated models.SheetConfig
	_, err := d.repo.Update(ctx, func(m *models.AppMemory) error {
		cfg, ok := m.Configs[tab]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
		}
		cfg = cfg.Merge(patch)
		if _, err := parser.ConfigArea(cfg); err != nil {
			return err
		}
		m.Configs[tab] = cfg
		updated = cfg
		return nil
	})
	return updated, err
}

// Status returns the refresh status of tab.
func (d *Dashboard) Status(tab string) Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if s, ok := d.status[tab]; ok {
		return s
	}
	return Status{Tab: tab, State: StateIdle}
}

func (d *Dashboard) setStatus(s Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.LastSync.IsZero() {
		s.LastSync = d.status[s.Tab].LastSync
	}
	d.status[s.Tab] = s
}

func (d *Dashboard) fail(tab, runID string, err error) error {
	d.setStatus(Status{Tab: tab, State: StateError, RunID: runID, LastError: err.Error()})
	return err
}

// IsConfigError reports whether err comes from missing or hidden tab setup
// rather than from the network or the store.
func IsConfigError(err error) bool {
	var syncErr *SyncError
	return errors.As(err, &syncErr) && syncErr.Stage == StageConfig
}

// tabOrder lists the known tabs first, then any others alphabetically.
func tabOrder(configs map[string]models.SheetConfig) []string {
	order := make([]string, 0, len(configs))
	known := make(map[string]bool, len(models.TabNames))
	for _, name := range models.TabNames {
		known[name] = true
		if _, ok := configs[name]; ok {
			order = append(order, name)
		}
	}
	var extra []string
	for name := range configs {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}
