package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vocab-progress-backend/internal/common/logger"
	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/repository"
)

// ErrStorageUnavailable is returned when no backend could serve a read or accept a write.
var ErrStorageUnavailable = errors.New("progress storage unavailable")

// ErrStoreRetired is returned by a store the registry has evicted. The caller
// should fetch the learner's store again.
var ErrStoreRetired = errors.New("progress store retired")

// Options configures a Store.
type Options struct {
	Policy  RewardPolicy
	Catalog models.Catalog
	// Backends are consulted in order on load; every backend receives every write.
	Backends []repository.Backend
	Now      func() time.Time
}

// Store owns one learner's profile. Transitions are serialized and written
// through to every backend before they become visible.
type Store struct {
	mu        sync.Mutex
	retired   bool
	learnerID string
	profile   models.Profile
	codec     Codec
	backends  []repository.Backend
	now       func() time.Time
	log       zerolog.Logger

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Open loads the learner's profile, falling back to a fresh one when nothing
// usable is stored.
func Open(ctx context.Context, learnerID string, opts Options) (*Store, error) {
	if opts.Catalog == nil {
		opts.Catalog = models.DefaultCatalog
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		learnerID: learnerID,
		codec:     Codec{Policy: opts.Policy, Catalog: opts.Catalog},
		backends:  opts.Backends,
		now:       opts.Now,
		log:       logger.With("progress_store").With().Str("learner_id", learnerID).Logger(),
		subs:      make(map[int]func(Event)),
	}

	payload, source, complete, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	writeBack := !complete
	switch {
	case payload == nil:
		s.profile = models.NewProfile(opts.Policy.Order, opts.Catalog)
		writeBack = true
	default:
		p, report, err := s.codec.Decode(payload)
		if err != nil {
			s.log.Warn().Err(err).Str("backend", source).Msg("Discarding unreadable profile")
			p = models.NewProfile(opts.Policy.Order, opts.Catalog)
			writeBack = true
		}
		if report.Migrated {
			s.log.Info().Int("from_version", report.FromVersion).Msg("Profile migrated")
			writeBack = true
		}
		if report.Future {
			s.log.Warn().Int("version", report.FromVersion).Msg("Profile written by a newer schema")
		}
		s.profile = p
	}

	if writeBack {
		if err := s.writeThrough(ctx, s.profile); err != nil {
			s.log.Warn().Err(err).Msg("Initial write-back failed")
		}
	}
	return s, nil
}

// read returns the first stored payload in backend order. complete reports
// whether every backend answered with the same document, so Open knows when
// the copies need to converge.
func (s *Store) read(ctx context.Context) (payload []byte, source string, complete bool, err error) {
	var failures []error
	complete = true
	for _, b := range s.backends {
		data, lerr := b.Load(ctx, s.learnerID)
		switch {
		case lerr == nil:
			if payload == nil {
				payload, source = data, b.Name()
			} else if string(data) != string(payload) {
				complete = false
			}
		case errors.Is(lerr, repository.ErrNotFound):
			complete = false
		default:
			complete = false
			s.log.Warn().Err(lerr).Str("backend", b.Name()).Msg("Profile read failed")
			failures = append(failures, fmt.Errorf("%s: %w", b.Name(), lerr))
		}
	}
	// A miss is only trusted when every backend answered; otherwise a fresh
	// profile could shadow one a failing backend still holds.
	if payload == nil && len(failures) > 0 {
		return nil, "", false, fmt.Errorf("%w: %w", ErrStorageUnavailable, errors.Join(failures...))
	}
	return payload, source, complete, nil
}

// writeThrough persists p to all backends. It succeeds when at least one accepted it.
func (s *Store) writeThrough(ctx context.Context, p models.Profile) error {
	payload, err := Encode(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	var failures []error
	for _, b := range s.backends {
		if err := b.Save(ctx, s.learnerID, payload); err != nil {
			s.log.Warn().Err(err).Str("backend", b.Name()).Msg("Profile write failed")
			failures = append(failures, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	if len(s.backends) > 0 && len(failures) == len(s.backends) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, errors.Join(failures...))
	}
	return nil
}

func (s *Store) LearnerID() string { return s.learnerID }

// Profile returns a copy of the committed profile.
func (s *Store) Profile() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Snapshot is Profile for callers that must not read a retired store.
func (s *Store) Snapshot() (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired {
		return models.Profile{}, ErrStoreRetired
	}
	return s.profile.Clone(), nil
}

// Subscribe registers fn for committed events and returns its cancel func.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// retire waits for the running transition and rejects every later one.
func (s *Store) retire() {
	s.mu.Lock()
	s.retired = true
	s.mu.Unlock()
}

// commit persists next and makes it the current profile.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next models.Profile) error {
	if s.retired {
		return ErrStoreRetired
	}
	if err := s.writeThrough(ctx, next); err != nil {
		return err
	}
	s.profile = next
	return nil
}

// SubmitResult records a finished mini-game round.
func (s *Store) SubmitResult(ctx context.Context, level models.LevelID, score int) (models.Outcome, error) {
	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return models.Outcome{}, ErrStoreRetired
	}
	next, out, err := ApplyResult(s.profile, s.codec.Policy, level, score)
	if err == nil {
		err = s.commit(ctx, next)
	}
	s.mu.Unlock()
	if err != nil {
		return models.Outcome{}, err
	}

	s.log.Debug().
		Str("level", string(level)).
		Int("score", score).
		Int("coins_awarded", out.CoinsAwarded).
		Str("unlocked", string(out.Unlocked)).
		Msg("Level result recorded")

	s.publish(Event{
		Type:      EventLevelResult,
		LearnerID: s.learnerID,
		At:        s.now(),
		Outcome:   &out,
		Profile:   next.Clone(),
	})
	return out, nil
}

// Purchase buys and equips an item. With too few coins nothing changes and
// ErrInsufficientFunds is returned.
func (s *Store) Purchase(ctx context.Context, category models.Category, itemID string, cost int) (models.PurchaseOutcome, error) {
	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return models.PurchaseOutcome{}, ErrStoreRetired
	}
	next, out, err := ApplyPurchase(s.profile, category, itemID, cost)
	if err == nil {
		err = s.commit(ctx, next)
	}
	s.mu.Unlock()
	if err != nil {
		return models.PurchaseOutcome{}, err
	}

	s.log.Debug().Str("category", string(category)).Str("item_id", itemID).Int("cost", cost).Msg("Item purchased")

	s.publish(Event{
		Type:      EventPurchase,
		LearnerID: s.learnerID,
		At:        s.now(),
		Purchase:  &out,
		Profile:   next.Clone(),
	})
	return out, nil
}

// Select equips an item without charging for it.
func (s *Store) Select(ctx context.Context, category models.Category, itemID string) error {
	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return ErrStoreRetired
	}
	next, err := ApplySelect(s.profile, category, itemID)
	if err == nil {
		err = s.commit(ctx, next)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(Event{
		Type:      EventSelect,
		LearnerID: s.learnerID,
		At:        s.now(),
		Category:  category,
		ItemID:    itemID,
		Profile:   next.Clone(),
	})
	return nil
}

// Reset replaces the profile with a fresh one.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, models.NewProfile(s.codec.Policy.Order, s.codec.Catalog))
}

// Resave rewrites the current profile to every backend in the current schema.
func (s *Store) Resave(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired {
		return ErrStoreRetired
	}
	return s.writeThrough(ctx, s.profile)
}
