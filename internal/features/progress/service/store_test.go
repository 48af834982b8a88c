package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/repository"
	"vocab-progress-backend/internal/features/progress/repository/memory"
)

// flakyBackend fails every call while down is set.
type flakyBackend struct {
	*memory.Repository
	mu   sync.Mutex
	down bool
}

func newFlaky(name string) *flakyBackend {
	return &flakyBackend{Repository: memory.NewRepository(name)}
}

func (f *flakyBackend) setDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *flakyBackend) isDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.down
}

func (f *flakyBackend) Load(ctx context.Context, learnerID string) ([]byte, error) {
	if f.isDown() {
		return nil, errors.New("connection refused")
	}
	return f.Repository.Load(ctx, learnerID)
}

func (f *flakyBackend) Save(ctx context.Context, learnerID string, payload []byte) error {
	if f.isDown() {
		return errors.New("connection refused")
	}
	return f.Repository.Save(ctx, learnerID, payload)
}

func testOptions(backends ...repository.Backend) Options {
	return Options{
		Policy:   DefaultRewardPolicy(),
		Catalog:  models.DefaultCatalog,
		Backends: backends,
	}
}

func decodeStored(t *testing.T, b repository.Backend, learnerID string) models.Profile {
	t.Helper()
	payload, err := b.Load(context.Background(), learnerID)
	require.NoError(t, err)
	p, _, err := testCodec().Decode(payload)
	require.NoError(t, err)
	return p
}

func TestOpenFreshWritesDefaults(t *testing.T) {
	session, durable := memory.NewRepository("session"), memory.NewRepository("durable")

	s, err := Open(context.Background(), "learner-1", testOptions(session, durable))
	require.NoError(t, err)

	p := s.Profile()
	assert.Equal(t, 0, p.Coins)
	assert.Equal(t, []models.LevelID{models.LevelFlashcards}, p.UnlockedLevels)
	assert.Equal(t, models.DefaultCatalog.DefaultAvatar(), p.Avatar)

	assert.Equal(t, p, decodeStored(t, session, "learner-1"))
	assert.Equal(t, p, decodeStored(t, durable, "learner-1"))
}

func TestStoreWritesThroughEveryBackend(t *testing.T) {
	ctx := context.Background()
	session, durable := memory.NewRepository("session"), memory.NewRepository("durable")

	s, err := Open(ctx, "learner-1", testOptions(session, durable))
	require.NoError(t, err)

	_, err = s.SubmitResult(ctx, models.LevelFlashcards, 9)
	require.NoError(t, err)
	_, err = s.Purchase(ctx, models.CategoryAccessory, "🦸", 5)
	require.NoError(t, err)

	for _, b := range []repository.Backend{session, durable} {
		stored := decodeStored(t, b, "learner-1")
		assert.Equal(t, 4, stored.Coins, b.Name())
		assert.Equal(t, "🦸", stored.Avatar.Accessory, b.Name())
	}
}

func TestOpenPrefersFirstBackend(t *testing.T) {
	ctx := context.Background()
	session, durable := memory.NewRepository("session"), memory.NewRepository("durable")

	newer := freshProfile()
	newer.Coins = 30
	older := freshProfile()
	older.Coins = 10
	require.NoError(t, session.Save(ctx, "learner-1", mustEncode(t, newer)))
	require.NoError(t, durable.Save(ctx, "learner-1", mustEncode(t, older)))

	s, err := Open(ctx, "learner-1", testOptions(session, durable))
	require.NoError(t, err)
	assert.Equal(t, 30, s.Profile().Coins)

	// the divergent copy is brought in line
	assert.Equal(t, 30, decodeStored(t, durable, "learner-1").Coins)
}

func TestOpenFallsBackToDurableAfterSessionExpiry(t *testing.T) {
	ctx := context.Background()
	session, durable := memory.NewRepository("session"), memory.NewRepository("durable")

	saved := freshProfile()
	saved.Coins = 17
	require.NoError(t, durable.Save(ctx, "learner-1", mustEncode(t, saved)))

	s, err := Open(ctx, "learner-1", testOptions(session, durable))
	require.NoError(t, err)
	assert.Equal(t, 17, s.Profile().Coins)
	assert.Equal(t, 17, decodeStored(t, session, "learner-1").Coins)
}

func TestOpenCorruptPayloadStartsFresh(t *testing.T) {
	ctx := context.Background()
	session := memory.NewRepository("session")
	require.NoError(t, session.Save(ctx, "learner-1", []byte(`{"coins": 12, "levelSc`)))

	s, err := Open(ctx, "learner-1", testOptions(session))
	require.NoError(t, err)
	assert.Equal(t, freshProfile(), s.Profile())
	assert.Equal(t, 0, decodeStored(t, session, "learner-1").Coins)
}

func TestOpenMigratesLegacyDocument(t *testing.T) {
	ctx := context.Background()
	session := memory.NewRepository("session")
	require.NoError(t, session.Save(ctx, "learner-1", []byte(`{"coins":21,"levelScores":{"FLASHCARDS":6}}`)))

	s, err := Open(ctx, "learner-1", testOptions(session))
	require.NoError(t, err)
	assert.Equal(t, 21, s.Profile().Coins)

	payload, err := session.Load(ctx, "learner-1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"version":3`)
}

func TestOpenFailsWhenNoBackendCanRead(t *testing.T) {
	session := newFlaky("session")
	session.setDown(true)

	_, err := Open(context.Background(), "learner-1", testOptions(session))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestOpenToleratesOneFailingBackend(t *testing.T) {
	ctx := context.Background()
	session, durable := newFlaky("session"), memory.NewRepository("durable")

	saved := freshProfile()
	saved.Coins = 8
	require.NoError(t, durable.Save(ctx, "learner-1", mustEncode(t, saved)))
	session.setDown(true)

	s, err := Open(ctx, "learner-1", testOptions(session, durable))
	require.NoError(t, err)
	assert.Equal(t, 8, s.Profile().Coins)
}

func TestTransitionCommitsWhileOneBackendIsDown(t *testing.T) {
	ctx := context.Background()
	session, durable := newFlaky("session"), memory.NewRepository("durable")

	s, err := Open(ctx, "learner-1", testOptions(session, durable))
	require.NoError(t, err)

	session.setDown(true)
	_, err = s.SubmitResult(ctx, models.LevelQuiz, 6)
	require.NoError(t, err)

	assert.Equal(t, 6, s.Profile().Coins)
	assert.Equal(t, 6, decodeStored(t, durable, "learner-1").Coins)
}

func TestTransitionRollsBackWhenEveryBackendFails(t *testing.T) {
	ctx := context.Background()
	session := newFlaky("session")

	s, err := Open(ctx, "learner-1", testOptions(session))
	require.NoError(t, err)

	session.setDown(true)
	_, err = s.SubmitResult(ctx, models.LevelQuiz, 6)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 0, s.Profile().Coins)
}

func TestRejectedTransitionPublishesNothing(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "learner-1", testOptions(memory.NewRepository("session")))
	require.NoError(t, err)

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err = s.Purchase(ctx, models.CategoryAura, "fire", 120)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Empty(t, events)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "learner-1", testOptions(memory.NewRepository("session")))
	require.NoError(t, err)

	var events []Event
	cancel := s.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err = s.SubmitResult(ctx, models.LevelFlashcards, 5)
	require.NoError(t, err)
	require.NoError(t, s.Select(ctx, models.CategoryColor, "bg-amber-400"))

	require.Len(t, events, 2)
	assert.Equal(t, EventLevelResult, events[0].Type)
	assert.Equal(t, "learner-1", events[0].LearnerID)
	assert.Equal(t, models.LevelImageQuiz, events[0].Outcome.Unlocked)
	assert.True(t, events[0].Profile.IsUnlocked(models.LevelImageQuiz))
	assert.Equal(t, EventSelect, events[1].Type)

	cancel()
	_, err = s.SubmitResult(ctx, models.LevelFlashcards, 5)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestStoreSerializesConcurrentPurchases(t *testing.T) {
	ctx := context.Background()
	session := memory.NewRepository("session")
	seed := freshProfile()
	seed.Coins = 100
	require.NoError(t, session.Save(ctx, "learner-1", mustEncode(t, seed)))

	s, err := Open(ctx, "learner-1", testOptions(session))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Purchase(ctx, models.CategoryColor, "bg-sky-400", 20); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, s.Profile().Coins)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	session := memory.NewRepository("session")
	s, err := Open(ctx, "learner-1", testOptions(session))
	require.NoError(t, err)

	_, err = s.SubmitResult(ctx, models.LevelFlashcards, 9)
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))

	assert.Equal(t, freshProfile(), s.Profile())
	assert.Equal(t, 0, decodeStored(t, session, "learner-1").Coins)
}

func mustEncode(t *testing.T, p models.Profile) []byte {
	t.Helper()
	payload, err := Encode(p)
	require.NoError(t, err)
	return payload
}
