package baseline

import (
	"bytes"
	"context"
	"sync"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	body, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(body), nil
}

func (r *MemoryRepository) Set(ctx context.Context, id string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = bytes.Clone(body)
	return nil
}

func (r *MemoryRepository) SetIfAbsent(ctx context.Context, id string, body []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		return false, nil
	}
	r.items[id] = bytes.Clone(body)
	return true, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.items)
	return nil
}

// Len returns the number of stored baselines.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
