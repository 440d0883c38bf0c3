// Package poller keeps the active tab of a dashboard fresh.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"go.uber.org/zap"
)

// DefaultInterval is the refresh period of the active tab.
const DefaultInterval = 3 * time.Second

// Refresher is the part of a dashboard the poller drives.
type Refresher interface {
	Refresh(ctx context.Context, tab string, expand bool) error
	Memory(ctx context.Context) (*models.AppMemory, error)
}

// Poller refreshes the active tab on every tick. The knowledge tab is
// never polled; it is fetched once at start when nothing is cached.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	active string
	kick   chan struct{}
}

// Option configures a Poller.
type Option func(p *Poller)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the poller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// New creates a Poller starting on the first tracked tab.
func New(r Refresher, opts ...Option) *Poller {
	p := &Poller{
		refresher: r,
		interval:  DefaultInterval,
		logger:    zap.NewNop(),
		active:    models.TabNames[0],
		kick:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Active returns the tab being polled.
func (p *Poller) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// SetActive switches polling to tab. A non-knowledge tab is refreshed
// right away instead of waiting for the next tick.
func (p *Poller) SetActive(tab string) {
	p.mu.Lock()
	p.active = tab
	p.mu.Unlock()

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	p.warmKnowledge(ctx)
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		case <-p.kick:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	tab := p.Active()
	if tab == models.TabKnowledge {
		return
	}
	err := p.refresher.Refresh(ctx, tab, false)
	switch {
	case err == nil, ctx.Err() != nil:
	case sheetwatch.IsConfigError(err):
		p.logger.Debug("tab not pollable", zap.String("tab", tab), zap.Error(err))
	default:
		p.logger.Warn("poll failed", zap.String("tab", tab), zap.Error(err))
	}
}

func (p *Poller) warmKnowledge(ctx context.Context) {
	mem, err := p.refresher.Memory(ctx)
	if err != nil {
		p.logger.Warn("cannot read memory", zap.Error(err))
		return
	}
	if len(mem.ProductKnowledgeCache) > 0 || mem.SheetID == "" {
		return
	}
	if cfg, ok := mem.Configs[models.TabKnowledge]; ok && !cfg.IsShown() {
		return
	}
	if err := p.refresher.Refresh(ctx, models.TabKnowledge, false); err != nil {
		p.logger.Warn("initial knowledge fetch failed", zap.Error(err))
	}
}
