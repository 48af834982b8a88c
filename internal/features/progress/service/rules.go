package service

import (
	"vocab-progress-backend/internal/features/progress/models"
)

// ApplyResult is the score-submission transition. It never mutates p.
func ApplyResult(p models.Profile, policy RewardPolicy, level models.LevelID, score int) (models.Profile, models.Outcome, error) {
	if !policy.Order.Contains(level) {
		return p, models.Outcome{}, ErrInvalidLevel
	}
	if !policy.ValidScore(score) {
		return p, models.Outcome{}, ErrInvalidScore
	}

	next := p.Clone()
	out := models.Outcome{
		Level:        level,
		Score:        score,
		PreviousBest: next.LevelScores[level],
		Passed:       score >= policy.PassThreshold,
	}

	out.CoinsAwarded = policy.Reward(level, score, next.LevelRewards[level])
	next.Coins = addSaturating(next.Coins, out.CoinsAwarded)
	if _, capped := policy.Cap(level); capped {
		next.LevelRewards[level] = addSaturating(next.LevelRewards[level], out.CoinsAwarded)
	}

	if score > out.PreviousBest {
		next.LevelScores[level] = score
		out.NewBest = true
	}

	if out.Passed {
		if succ, ok := policy.Order.Next(level); ok && !next.IsUnlocked(succ) {
			next.UnlockedLevels = append(next.UnlockedLevels, succ)
			out.Unlocked = succ
		}
		if level == policy.Order.First() && !next.ReceivedFirstLevelTime {
			next.EarnedMinutes = addSaturating(next.EarnedMinutes, policy.FirstClearBonusMinutes)
			next.ReceivedFirstLevelTime = true
			out.BonusMinutes = policy.FirstClearBonusMinutes
		}
	}

	return next, out, nil
}

// ApplyPurchase deducts cost, records ownership and equips the item in one step.
// The cost is trusted; callers look it up in the catalog.
func ApplyPurchase(p models.Profile, category models.Category, itemID string, cost int) (models.Profile, models.PurchaseOutcome, error) {
	if !category.Valid() {
		return p, models.PurchaseOutcome{}, ErrUnknownCategory
	}
	if itemID == "" {
		return p, models.PurchaseOutcome{}, ErrInvalidItem
	}
	if cost < 0 {
		return p, models.PurchaseOutcome{}, ErrInvalidCost
	}
	if p.Coins < cost {
		return p, models.PurchaseOutcome{}, ErrInsufficientFunds
	}

	next := p.Clone()
	next.Coins -= cost
	next.PurchasedItems.Add(category, itemID)
	next.Avatar.Set(category, itemID)

	return next, models.PurchaseOutcome{
		Category: category,
		ItemID:   itemID,
		Cost:     cost,
		Balance:  next.Coins,
	}, nil
}

// ApplySelect equips an item. Ownership is the caller's concern.
func ApplySelect(p models.Profile, category models.Category, itemID string) (models.Profile, error) {
	if !category.Valid() {
		return p, ErrUnknownCategory
	}
	if itemID == "" {
		return p, ErrInvalidItem
	}
	next := p.Clone()
	next.Avatar.Set(category, itemID)
	return next, nil
}
