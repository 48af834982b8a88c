package service

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"vocab-progress-backend/internal/common/logger"
)

const DefaultRegistrySize = 1024

// StoreFactory builds the backend set for one learner's store.
type StoreFactory func(ctx context.Context, learnerID string) (*Store, error)

type registryEntry struct {
	learnerID string
	ready     chan struct{}
	store     *Store
	err       error
	elem      *list.Element
	// gone is closed once an evicted store has been retired and removed.
	gone chan struct{}
}

// Registry keeps the most recently used stores in memory. Each learner is
// opened at most once at a time; concurrent callers wait for the same open.
// An evicted store is retired before the learner can be opened again, so two
// stores never hold the same learner.
type Registry struct {
	mu      sync.Mutex
	open    StoreFactory
	size    int
	entries map[string]*registryEntry
	lru     *list.List

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func NewRegistry(open StoreFactory, size int) *Registry {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	return &Registry{
		open:    open,
		size:    size,
		entries: make(map[string]*registryEntry),
		lru:     list.New(),
		subs:    make(map[int]func(Event)),
	}
}

// Get returns the learner's store, opening it on first use.
func (r *Registry) Get(ctx context.Context, learnerID string) (*Store, error) {
	for {
		r.mu.Lock()
		e, ok := r.entries[learnerID]
		if !ok {
			break
		}
		if e.gone != nil {
			r.mu.Unlock()
			select {
			case <-e.gone:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if e.elem != nil {
			r.lru.MoveToFront(e.elem)
		}
		r.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return e.store, e.err
	}
	e := &registryEntry{learnerID: learnerID, ready: make(chan struct{})}
	r.entries[learnerID] = e
	r.mu.Unlock()

	e.store, e.err = r.openStore(ctx, learnerID)
	if e.err == nil {
		e.store.Subscribe(r.publish)
	}

	var evicted []*registryEntry
	r.mu.Lock()
	if e.err != nil {
		// failed opens are retried on the next call
		delete(r.entries, learnerID)
	} else {
		e.elem = r.lru.PushFront(e)
		evicted = r.evictLocked()
	}
	r.mu.Unlock()
	close(e.ready)

	r.retire(evicted)
	return e.store, e.err
}

// openStore turns a panicking factory into an error so waiters are released.
func (r *Registry) openStore(ctx context.Context, learnerID string) (st *Store, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Str("learner_id", learnerID).Interface("panic", rec).Msg("Store open panicked")
			st, err = nil, fmt.Errorf("open store for %s: panic: %v", learnerID, rec)
		}
	}()
	return r.open(ctx, learnerID)
}

// evictLocked detaches the least recently used entries. They stay in
// r.entries, marked gone, until retire has finished with them.
func (r *Registry) evictLocked() []*registryEntry {
	var evicted []*registryEntry
	for r.lru.Len() > r.size {
		back := r.lru.Back()
		e := back.Value.(*registryEntry)
		r.lru.Remove(back)
		e.elem = nil
		e.gone = make(chan struct{})
		evicted = append(evicted, e)
	}
	return evicted
}

// retire waits for in-flight transitions of evicted stores, then lets the
// learners be opened again.
func (r *Registry) retire(evicted []*registryEntry) {
	for _, e := range evicted {
		e.store.retire()
		r.mu.Lock()
		if r.entries[e.learnerID] == e {
			delete(r.entries, e.learnerID)
		}
		r.mu.Unlock()
		close(e.gone)
	}
}

// Evict drops the cached store so the next Get reloads it from storage.
func (r *Registry) Evict(learnerID string) {
	r.mu.Lock()
	e, ok := r.entries[learnerID]
	if !ok || e.elem == nil || e.gone != nil {
		r.mu.Unlock()
		return
	}
	r.lru.Remove(e.elem)
	e.elem = nil
	e.gone = make(chan struct{})
	r.mu.Unlock()

	r.retire([]*registryEntry{e})
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}

// Subscribe registers fn for events from every store the registry opens.
func (r *Registry) Subscribe(fn func(Event)) func() {
	r.subMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}
}

func (r *Registry) publish(ev Event) {
	r.subMu.Lock()
	fns := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
