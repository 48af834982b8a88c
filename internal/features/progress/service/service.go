package service

import (
	"context"
	"errors"

	apperrors "vocab-progress-backend/internal/common/errors"
	"vocab-progress-backend/internal/features/progress/models"
)

type progressService struct {
	registry *Registry
	policy   RewardPolicy
	catalog  models.Catalog
}

func NewProgressService(registry *Registry, policy RewardPolicy, catalog models.Catalog) ProgressService {
	if catalog == nil {
		catalog = models.DefaultCatalog
	}
	return &progressService{
		registry: registry,
		policy:   policy,
		catalog:  catalog,
	}
}

func (s *progressService) Catalog() models.Catalog { return s.catalog }

func (s *progressService) Policy() RewardPolicy { return s.policy }

// maxRetiredRetries bounds how often a call follows an evicted store.
const maxRetiredRetries = 3

func (s *progressService) store(ctx context.Context, learnerID string) (*Store, error) {
	st, err := s.registry.Get(ctx, learnerID)
	if err != nil {
		return nil, translate(err).WithLearnerID(learnerID)
	}
	return st, nil
}

// withStore runs fn against the learner's store, fetching it again when the
// registry retired the one fn was given.
func (s *progressService) withStore(ctx context.Context, learnerID string, fn func(st *Store) error) error {
	for attempt := 0; ; attempt++ {
		st, err := s.store(ctx, learnerID)
		if err != nil {
			return err
		}
		err = fn(st)
		if !errors.Is(err, ErrStoreRetired) || attempt == maxRetiredRetries {
			return err
		}
	}
}

func (s *progressService) GetProfile(ctx context.Context, learnerID string) (models.Profile, error) {
	var p models.Profile
	err := s.withStore(ctx, learnerID, func(st *Store) error {
		var err error
		p, err = st.Snapshot()
		return err
	})
	if err != nil {
		return models.Profile{}, translate(err).WithLearnerID(learnerID)
	}
	return p, nil
}

func (s *progressService) SubmitResult(ctx context.Context, learnerID string, level models.LevelID, score int) (models.Outcome, models.Profile, error) {
	var (
		out models.Outcome
		p   models.Profile
	)
	err := s.withStore(ctx, learnerID, func(st *Store) error {
		var err error
		if out, err = st.SubmitResult(ctx, level, score); err != nil {
			return err
		}
		p = st.Profile()
		return nil
	})
	if err != nil {
		appErr := translate(err).
			WithLearnerID(learnerID).
			WithDetail("level", string(level))
		if errors.Is(err, ErrInvalidScore) {
			appErr = appErr.WithDetail("max_score", s.policy.MaxScore)
		}
		return models.Outcome{}, models.Profile{}, appErr
	}
	return out, p, nil
}

// Purchase prices the item from the catalog. Buying an owned item just equips it.
func (s *progressService) Purchase(ctx context.Context, learnerID string, category models.Category, itemID string) (models.PurchaseOutcome, models.Profile, error) {
	if !category.Valid() {
		return models.PurchaseOutcome{}, models.Profile{}, translate(ErrUnknownCategory).WithDetail("category", string(category))
	}
	item, ok := s.catalog.Find(category, itemID)
	if !ok {
		return models.PurchaseOutcome{}, models.Profile{}, apperrors.New(apperrors.ErrCodeUnknownItem, "Item is not in the catalog").
			WithDetail("category", string(category)).
			WithDetail("item_id", itemID)
	}

	var (
		out   models.PurchaseOutcome
		p     models.Profile
		coins int
	)
	err := s.withStore(ctx, learnerID, func(st *Store) error {
		current, err := st.Snapshot()
		if err != nil {
			return err
		}
		if current.PurchasedItems.Owns(category, item.ID) {
			if err := st.Select(ctx, category, item.ID); err != nil {
				return err
			}
			p = st.Profile()
			out = models.PurchaseOutcome{
				Category:     category,
				ItemID:       item.ID,
				Balance:      p.Coins,
				AlreadyOwned: true,
			}
			return nil
		}

		out, err = st.Purchase(ctx, category, item.ID, item.Cost)
		if err != nil {
			coins = current.Coins
			return err
		}
		p = st.Profile()
		return nil
	})
	if err != nil {
		appErr := translate(err).WithLearnerID(learnerID)
		if errors.Is(err, ErrInsufficientFunds) {
			appErr = appErr.WithDetail("cost", item.Cost).WithDetail("coins", coins)
		}
		return models.PurchaseOutcome{}, models.Profile{}, appErr
	}
	return out, p, nil
}

func (s *progressService) Equip(ctx context.Context, learnerID string, category models.Category, itemID string) (models.Profile, error) {
	if !category.Valid() {
		return models.Profile{}, translate(ErrUnknownCategory).WithDetail("category", string(category))
	}
	var p models.Profile
	err := s.withStore(ctx, learnerID, func(st *Store) error {
		current, err := st.Snapshot()
		if err != nil {
			return err
		}
		if !current.PurchasedItems.Owns(category, itemID) {
			return apperrors.New(apperrors.ErrCodeItemNotOwned, "Item must be purchased before it can be equipped").
				WithDetail("category", string(category)).
				WithDetail("item_id", itemID)
		}
		if err := st.Select(ctx, category, itemID); err != nil {
			return err
		}
		p = st.Profile()
		return nil
	})
	if err != nil {
		return models.Profile{}, translate(err).WithLearnerID(learnerID)
	}
	return p, nil
}

// translate maps transition and storage failures to application errors.
func translate(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, ErrInvalidLevel):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidLevel, "Unknown level")
	case errors.Is(err, ErrInvalidScore):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidScore, "Score is out of range")
	case errors.Is(err, ErrInsufficientFunds):
		return apperrors.Wrap(err, apperrors.ErrCodeInsufficientFunds, "Not enough coins")
	case errors.Is(err, ErrUnknownCategory):
		return apperrors.Wrap(err, apperrors.ErrCodeUnknownCategory, "Unknown cosmetic category")
	case errors.Is(err, ErrInvalidItem), errors.Is(err, ErrInvalidCost):
		return apperrors.Wrap(err, apperrors.ErrCodeBadRequest, err.Error())
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrStoreRetired):
		return apperrors.NewStorageError("persist profile", err)
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}
}
