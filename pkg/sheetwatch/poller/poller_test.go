package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

type fakeRefresher struct {
	mu    sync.Mutex
	mem   *models.AppMemory
	calls []string
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, tab string, expand bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tab)
	return f.err
}

func (f *fakeRefresher) Memory(ctx context.Context) (*models.AppMemory, error) {
	return f.mem, nil
}

func (f *fakeRefresher) count(tab string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == tab {
			n++
		}
	}
	return n
}

func runPoller(t *testing.T, p *Poller) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Error("poller did not stop")
		}
	})
	return cancel
}

func TestPollerRefreshesActiveTab(t *testing.T) {
	r := &fakeRefresher{mem: models.DefaultMemory("u", "id", nil)}
	p := New(r, WithInterval(5*time.Millisecond))
	runPoller(t, p)

	require.Eventually(t, func() bool { return r.count(models.TabHourly) >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, r.count(models.TabKnowledge))
}

func TestPollerSkipsKnowledgeTab(t *testing.T) {
	mem := models.DefaultMemory("u", "id", nil)
	mem.ProductKnowledgeCache = models.Grid{{"x"}}
	r := &fakeRefresher{mem: mem}
	p := New(r, WithInterval(5*time.Millisecond))
	p.SetActive(models.TabKnowledge)
	runPoller(t, p)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, r.count(models.TabKnowledge))

	p.SetActive(models.TabAds)
	require.Eventually(t, func() bool { return r.count(models.TabAds) >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.TabAds, p.Active())
}

func TestPollerKeepsGoingAfterErrors(t *testing.T) {
	r := &fakeRefresher{mem: models.DefaultMemory("", "", nil), err: errors.New("offline")}
	p := New(r, WithInterval(5*time.Millisecond))
	runPoller(t, p)

	require.Eventually(t, func() bool { return r.count(models.TabHourly) >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.count(models.TabKnowledge))
}
