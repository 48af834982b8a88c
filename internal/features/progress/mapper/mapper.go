package mapper

import (
	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/models/dto"
	"vocab-progress-backend/internal/features/progress/service"
)

// ToLevelViews lays the level map out in policy order.
func ToLevelViews(p models.Profile, policy service.RewardPolicy) []dto.LevelView {
	views := make([]dto.LevelView, 0, len(policy.Order))
	for i, level := range policy.Order {
		v := dto.LevelView{
			ID:             level,
			Position:       i + 1,
			Unlocked:       p.IsUnlocked(level),
			BestScore:      p.LevelScores[level],
			Multiplier:     policy.Multiplier(level),
			RewardsGranted: p.LevelRewards[level],
		}
		if limit, ok := policy.Cap(level); ok {
			v.LifetimeCap = &limit
		}
		views = append(views, v)
	}
	return views
}

func ToLevelMap(p models.Profile, policy service.RewardPolicy) dto.LevelMapResponse {
	return dto.LevelMapResponse{
		Levels:                 ToLevelViews(p, policy),
		PassThreshold:          policy.PassThreshold,
		FirstClearBonusMinutes: policy.FirstClearBonusMinutes,
	}
}

// ToProfileResponse maps Profile to the client view
func ToProfileResponse(learnerID string, p models.Profile, policy service.RewardPolicy) dto.ProfileResponse {
	items := make(map[models.Category][]string, len(p.PurchasedItems))
	for cat, ids := range p.PurchasedItems {
		items[cat] = append([]string{}, ids...)
	}
	return dto.ProfileResponse{
		LearnerID:              learnerID,
		Coins:                  p.Coins,
		EarnedMinutes:          p.EarnedMinutes,
		ReceivedFirstLevelTime: p.ReceivedFirstLevelTime,
		UnlockedLevels:         append([]models.LevelID{}, p.UnlockedLevels...),
		LevelScores:            p.LevelScores,
		PurchasedItems:         items,
		Avatar:                 p.Avatar,
		Levels:                 ToLevelViews(p, policy),
	}
}

func ToCatalogResponse(p models.Profile, catalog models.Catalog) dto.CatalogResponse {
	resp := dto.CatalogResponse{
		Coins:      p.Coins,
		Categories: make([]dto.CategoryView, 0, len(models.Categories)),
	}
	for _, cat := range models.Categories {
		view := dto.CategoryView{Category: cat, Items: make([]dto.ItemView, 0, len(catalog[cat]))}
		for _, it := range catalog[cat] {
			owned := p.PurchasedItems.Owns(cat, it.ID)
			view.Items = append(view.Items, dto.ItemView{
				ID:         it.ID,
				Name:       it.Name,
				Cost:       it.Cost,
				Owned:      owned,
				Equipped:   p.Avatar.Get(cat) == it.ID,
				Affordable: owned || p.Coins >= it.Cost,
			})
		}
		resp.Categories = append(resp.Categories, view)
	}
	return resp
}
