package memory

import (
	"context"
	"sort"
	"sync"

	"vocab-progress-backend/internal/features/progress/repository"
)

// Repository keeps profile documents in process memory. It backs local runs
// without Postgres and the service tests.
type Repository struct {
	mu   sync.RWMutex
	name string
	docs map[string][]byte
}

func NewRepository(name string) *Repository {
	return &Repository{name: name, docs: make(map[string][]byte)}
}

func (r *Repository) Name() string { return r.name }

func (r *Repository) Load(_ context.Context, learnerID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[learnerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (r *Repository) Save(_ context.Context, learnerID string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[learnerID] = append([]byte(nil), payload...)
	return nil
}

func (r *Repository) Delete(_ context.Context, learnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, learnerID)
	return nil
}

func (r *Repository) ListLearners(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.docs))
	for id := range r.docs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
