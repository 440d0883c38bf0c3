package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// MemStore keeps the memory in process. Records are deep-copied on the way
// in and out so callers never share state with the store.
type MemStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(ctx context.Context) (*models.AppMemory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNotFound
	}
	return decode(s.data)
}

func (s *MemStore) Save(ctx context.Context, m *models.AppMemory) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Close() error {
	return nil
}

func decode(data []byte) (*models.AppMemory, error) {
	var m models.AppMemory
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
