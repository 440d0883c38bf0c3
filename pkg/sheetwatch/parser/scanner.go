package parser

import (
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MinGridRows is the smallest grid worth scanning; shorter grids are treated
// as not loaded yet.
const MinGridRows = 5

// AnchorCache persists the anchor coordinates found by a scan.
type AnchorCache interface {
	Anchors() (models.AnchorCoordinateSet, error)
	SetAnchors(models.AnchorCoordinateSet) error
}

// ScanSource tells which path produced a ScanResult.
type ScanSource string

const (
	// SourceNone means the grid was too short to scan.
	SourceNone ScanSource = "none"
	// SourceCache means every cached anchor still resolved.
	SourceCache ScanSource = "cache"
	// SourceScan means the whole grid was searched.
	SourceScan ScanSource = "scan"
)

// ScanResult is the outcome of one Scanner.Products call.
type ScanResult struct {
	// Products holds the records in cache or discovery order.
	Products []models.ProductRecord `json:"products"`
	// Anchors holds the coordinates the products were read from.
	Anchors models.AnchorCoordinateSet `json:"anchors"`
	// Source is the path that produced Products.
	Source ScanSource `json:"source"`
	// CacheUpdated reports whether Anchors were written to the cache.
	CacheUpdated bool `json:"cacheUpdated"`
	// CacheErr holds a cache read or write failure. The scan itself still
	// succeeded.
	CacheErr error `json:"-"`
}

// Scanner finds product blocks in knowledge tab grids, reusing cached anchor
// coordinates when they still resolve.
type Scanner struct {
	cache  AnchorCache
	params ExtractParams
	logger *zap.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(s *Scanner)

// WithLogger sets the scanner logger.
func WithLogger(logger *zap.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithExtractParams overrides the block layout parameters.
func WithExtractParams(params ExtractParams) ScannerOption {
	return func(s *Scanner) {
		s.params = params
	}
}

// NewScanner creates a Scanner backed by cache.
// A nil cache makes every call a full scan with nothing remembered.
func NewScanner(cache AnchorCache, opts ...ScannerOption) *Scanner {
	if cache == nil {
		cache = &discardCache{}
	}
	s := &Scanner{
		cache:  cache,
		params: DefaultExtractParams(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type discardCache struct{}

func (*discardCache) Anchors() (models.AnchorCoordinateSet, error) { return nil, nil }

func (*discardCache) SetAnchors(models.AnchorCoordinateSet) error { return nil }

// ShouldUpdate reports whether a freshly scanned set must replace the stored
// one. An empty scan never replaces anything.
func ShouldUpdate(old, fresh models.AnchorCoordinateSet) bool {
	return len(fresh) > 0 && !old.Equal(fresh)
}

// Products extracts every product block of grid.
// The cache is read once at the start and written at most once, before
// Products returns.
func (s *Scanner) Products(grid models.Grid) ScanResult {
	if grid.Rows() < MinGridRows {
		return ScanResult{Products: []models.ProductRecord{}, Source: SourceNone}
	}

	reader := newBlockReader(s.params)

	cached, err := s.cache.Anchors()
	if err != nil {
		s.logger.Warn("read anchor cache failed, scanning grid", zap.Error(err))
		cached = nil
	}

	if products, ok := s.fromCache(reader, grid, cached); ok {
		s.logger.Debug("used cached product locations", zap.Int("blocks", len(products)))
		return ScanResult{
			Products: products,
			Anchors:  cached.Clone(),
			Source:   SourceCache,
			CacheErr: err,
		}
	}
	if len(cached) > 0 {
		s.logger.Info("anchor cache stale, rescanning", zap.Int("cached", len(cached)))
	}

	products, anchors := s.fullScan(reader, grid)
	result := ScanResult{
		Products: products,
		Anchors:  anchors,
		Source:   SourceScan,
		CacheErr: err,
	}

	if ShouldUpdate(cached, anchors) {
		if werr := s.cache.SetAnchors(anchors.Clone()); werr != nil {
			s.logger.Error("write anchor cache failed", zap.Error(werr))
			result.CacheErr = werr
		} else {
			s.logger.Info("updated product location cache",
				zap.Int("blocks", len(anchors)),
				zap.Strings("cells", anchorCellNames(anchors)))
			result.CacheUpdated = true
		}
	}
	return result
}

func (s *Scanner) fromCache(reader *blockReader, grid models.Grid, cached models.AnchorCoordinateSet) ([]models.ProductRecord, bool) {
	if len(cached) == 0 {
		return nil, false
	}
	products := make([]models.ProductRecord, 0, len(cached))
	for _, loc := range cached {
		p, ok := reader.extractAt(grid, loc.R, loc.C)
		if !ok {
			return nil, false
		}
		products = append(products, *p)
	}
	return products, true
}

func (s *Scanner) fullScan(reader *blockReader, grid models.Grid) ([]models.ProductRecord, models.AnchorCoordinateSet) {
	products := []models.ProductRecord{}
	var anchors models.AnchorCoordinateSet
	for r, row := range grid {
		for c, value := range row {
			if !IsAnchor(value) {
				continue
			}
			p, ok := reader.extractAt(grid, r, c)
			if !ok {
				continue
			}
			products = append(products, *p)
			anchors = append(anchors, models.AnchorCoordinate{R: r, C: c})
		}
	}
	return products, anchors
}

// anchorCellNames renders anchors as A1 references for logs.
func anchorCellNames(anchors models.AnchorCoordinateSet) []string {
	names := make([]string, 0, len(anchors))
	for _, a := range anchors {
		name, err := excelize.CoordinatesToCellName(a.C+1, a.R+1)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names
}
