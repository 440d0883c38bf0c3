package store

import (
	"context"
	"errors"
	"sync"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"go.uber.org/zap"
)

// Repository reads and modifies the memory record held by a Store, filling
// absent fields from defaults.
type Repository struct {
	mu       sync.Mutex
	store    Store
	defaults *models.AppMemory
	logger   *zap.Logger
}

// Option configures a Repository.
type Option func(r *Repository)

// WithLogger sets the repository logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository wraps s. A nil defaults means an unconfigured dashboard.
func NewRepository(s Store, defaults *models.AppMemory, opts ...Option) *Repository {
	if defaults == nil {
		defaults = models.DefaultMemory("", "", nil)
	}
	r := &Repository{
		store:    s,
		defaults: defaults,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the current memory, or the defaults when nothing is stored.
func (r *Repository) Get(ctx context.Context) (*models.AppMemory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Update applies fn to the current memory and saves the result.
// Nothing is saved when fn fails.
func (r *Repository) Update(ctx context.Context, fn func(m *models.AppMemory) error) (*models.AppMemory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Repository) load(ctx context.Context) (*models.AppMemory, error) {
	m, err := r.store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		r.logger.Debug("no stored memory, using defaults")
		m = &models.AppMemory{}
	} else if err != nil {
		return nil, err
	}
	m.Normalize(r.defaults)
	return m, nil
}

// AnchorCache exposes the stored product block locations to a scanner.
// Store calls made through it use ctx.
func (r *Repository) AnchorCache(ctx context.Context) *AnchorCache {
	return &AnchorCache{repo: r, ctx: ctx}
}

// AnchorCache adapts a Repository to parser.AnchorCache.
type AnchorCache struct {
	repo *Repository
	ctx  context.Context
}

// Anchors returns the stored anchor set, nil when none is stored.
func (c *AnchorCache) Anchors() (models.AnchorCoordinateSet, error) {
	m, err := c.repo.Get(c.ctx)
	if err != nil {
		return nil, err
	}
	return m.ProductBlockLocations, nil
}

// SetAnchors replaces the stored anchor set.
func (c *AnchorCache) SetAnchors(set models.AnchorCoordinateSet) error {
	_, err := c.repo.Update(c.ctx, func(m *models.AppMemory) error {
		m.ProductBlockLocations = set
		return nil
	})
	return err
}
