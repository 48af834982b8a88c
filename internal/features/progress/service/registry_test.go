package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/repository"
	"vocab-progress-backend/internal/features/progress/repository/memory"
)

func memoryFactory(backends ...repository.Backend) (StoreFactory, *atomic.Int32) {
	var opened atomic.Int32
	return func(ctx context.Context, learnerID string) (*Store, error) {
		opened.Add(1)
		return Open(ctx, learnerID, testOptions(backends...))
	}, &opened
}

func TestRegistryOpensOncePerLearner(t *testing.T) {
	factory, opened := memoryFactory(memory.NewRepository("session"))
	reg := NewRegistry(factory, 8)
	ctx := context.Background()

	var wg sync.WaitGroup
	stores := make([]*Store, 20)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := reg.Get(ctx, "learner-1")
			assert.NoError(t, err)
			stores[i] = s
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, opened.Load())
	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	factory, opened := memoryFactory(memory.NewRepository("session"))
	reg := NewRegistry(factory, 2)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a", "c"} {
		_, err := reg.Get(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, reg.Len())
	assert.EqualValues(t, 3, opened.Load())

	// "b" was the oldest and has to be reopened
	_, err := reg.Get(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 4, opened.Load())
}

func TestRegistryEvictReloadsFromStorage(t *testing.T) {
	session := memory.NewRepository("session")
	factory, _ := memoryFactory(session)
	reg := NewRegistry(factory, 8)
	ctx := context.Background()

	s, err := reg.Get(ctx, "learner-1")
	require.NoError(t, err)
	_, err = s.SubmitResult(ctx, models.LevelQuiz, 7)
	require.NoError(t, err)

	reg.Evict("learner-1")
	reloaded, err := reg.Get(ctx, "learner-1")
	require.NoError(t, err)
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, 7, reloaded.Profile().Coins)
}

func TestRegistryRetriesFailedOpen(t *testing.T) {
	calls := 0
	reg := NewRegistry(func(ctx context.Context, learnerID string) (*Store, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return Open(ctx, learnerID, testOptions(memory.NewRepository("session")))
	}, 8)

	_, err := reg.Get(context.Background(), "learner-1")
	require.Error(t, err)
	_, err = reg.Get(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRegistrySubscribeSeesEveryStore(t *testing.T) {
	factory, _ := memoryFactory(memory.NewRepository("session"))
	reg := NewRegistry(factory, 8)
	ctx := context.Background()

	var mu sync.Mutex
	seen := map[string]int{}
	reg.Subscribe(func(ev Event) {
		mu.Lock()
		seen[ev.LearnerID]++
		mu.Unlock()
	})

	for _, id := range []string{"a", "b"} {
		s, err := reg.Get(ctx, id)
		require.NoError(t, err)
		_, err = s.SubmitResult(ctx, models.LevelMemory, 3)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, seen)
}

func TestRegistryRecoversPanickingOpen(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	reg := NewRegistry(func(ctx context.Context, learnerID string) (*Store, error) {
		if calls.Add(1) == 1 {
			<-release
			panic("decoder blew up")
		}
		return Open(ctx, learnerID, testOptions(memory.NewRepository("session")))
	}, 8)
	ctx := context.Background()

	results := make(chan error, 5)
	for i := 0; i < cap(results); i++ {
		go func() {
			_, err := reg.Get(ctx, "learner-1")
			results <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)

	failed := 0
	for i := 0; i < cap(results); i++ {
		select {
		case err := <-results:
			if err != nil {
				failed++
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Get stayed blocked after the open panicked")
		}
	}
	assert.GreaterOrEqual(t, failed, 1)

	s, err := reg.Get(ctx, "learner-1")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestRegistryOpensHugeVersionAsFresh(t *testing.T) {
	session := memory.NewRepository("session")
	require.NoError(t, session.Save(context.Background(), "learner-1", []byte(`{"version":1e30,"coins":3}`)))
	factory, _ := memoryFactory(session)
	reg := NewRegistry(factory, 8)

	s, err := reg.Get(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Profile().Coins)
}

func TestRegistryEvictedStoreKeepsCommits(t *testing.T) {
	session := memory.NewRepository("session")
	factory, _ := memoryFactory(session)
	reg := NewRegistry(factory, 1)
	ctx := context.Background()

	s1, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	_, err = s1.SubmitResult(ctx, models.LevelMemory, 40)
	require.NoError(t, err)

	_, err = reg.Get(ctx, "b")
	require.NoError(t, err)

	s2, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	require.NotSame(t, s1, s2)
	assert.Equal(t, 40, s2.Profile().Coins)

	_, err = s2.Purchase(ctx, models.CategoryColor, "bg-pink-400", 20)
	require.NoError(t, err)

	_, err = s1.Purchase(ctx, models.CategoryColor, "bg-sky-400", 20)
	assert.ErrorIs(t, err, ErrStoreRetired)
	_, err = s1.Snapshot()
	assert.ErrorIs(t, err, ErrStoreRetired)

	stored := decodeStored(t, session, "a")
	assert.Equal(t, 20, stored.Coins)
	assert.True(t, stored.PurchasedItems.Owns(models.CategoryColor, "bg-pink-400"))
	assert.False(t, stored.PurchasedItems.Owns(models.CategoryColor, "bg-sky-400"))
}

// gatedBackend blocks saves for one learner until the gate is opened.
type gatedBackend struct {
	*memory.Repository
	learnerID string
	armed     atomic.Bool
	entered   chan struct{}
	gate      chan struct{}
}

func (g *gatedBackend) Save(ctx context.Context, learnerID string, payload []byte) error {
	if learnerID == g.learnerID && g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.gate
	}
	return g.Repository.Save(ctx, learnerID, payload)
}

func TestRegistryReopenWaitsForInFlightTransition(t *testing.T) {
	backend := &gatedBackend{
		Repository: memory.NewRepository("session"),
		learnerID:  "a",
		entered:    make(chan struct{}),
		gate:       make(chan struct{}),
	}
	factory, _ := memoryFactory(backend)
	reg := NewRegistry(factory, 1)
	ctx := context.Background()

	s1, err := reg.Get(ctx, "a")
	require.NoError(t, err)

	backend.armed.Store(true)
	submitted := make(chan error, 1)
	go func() {
		_, err := s1.SubmitResult(ctx, models.LevelMemory, 9)
		submitted <- err
	}()
	<-backend.entered

	// evicts "a" while its write is still running
	evicted := make(chan error, 1)
	go func() {
		_, err := reg.Get(ctx, "b")
		evicted <- err
	}()

	require.Eventually(t, func() bool {
		reg.mu.Lock()
		defer reg.mu.Unlock()
		e, ok := reg.entries["a"]
		return ok && e.gone != nil
	}, time.Second, 5*time.Millisecond)

	reopened := make(chan *Store, 1)
	go func() {
		s, err := reg.Get(ctx, "a")
		assert.NoError(t, err)
		reopened <- s
	}()

	select {
	case <-reopened:
		t.Fatal("learner reopened while a transition was still being written")
	case <-time.After(50 * time.Millisecond):
	}

	close(backend.gate)
	require.NoError(t, <-submitted)
	require.NoError(t, <-evicted)

	select {
	case s2 := <-reopened:
		require.NotNil(t, s2)
		assert.NotSame(t, s1, s2)
		assert.Equal(t, 9, s2.Profile().Coins)
	case <-time.After(2 * time.Second):
		t.Fatal("reopen never finished")
	}
}
