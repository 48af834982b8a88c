package service

import (
	"context"

	"vocab-progress-backend/internal/features/progress/models"
)

type ProgressService interface {
	GetProfile(ctx context.Context, learnerID string) (models.Profile, error)
	SubmitResult(ctx context.Context, learnerID string, level models.LevelID, score int) (models.Outcome, models.Profile, error)
	Purchase(ctx context.Context, learnerID string, category models.Category, itemID string) (models.PurchaseOutcome, models.Profile, error)
	Equip(ctx context.Context, learnerID string, category models.Category, itemID string) (models.Profile, error)
	Catalog() models.Catalog
	Policy() RewardPolicy
}
