package memory

import (
	"context"
	"sync"

	"github.com/chrisdamba/besteats/internal/repositories"
)

// SlotRepository keeps slots in process memory. State is lost when the process exits.
type SlotRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{slots: make(map[string][]byte)}
}

func (r *SlotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.slots[key]
	if !ok {
		return nil, repositories.ErrSlotNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (r *SlotRepository) Save(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	r.slots[key] = stored
	return nil
}
