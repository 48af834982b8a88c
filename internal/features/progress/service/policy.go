package service

import (
	"math"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/features/progress/models"
)

const (
	DefaultPassThreshold          = 5
	DefaultFirstLevelCap          = 10
	DefaultFirstClearBonusMinutes = 10
	DefaultMaxScore               = 1000
)

// RewardPolicy holds the per-deployment reward and unlock rules.
type RewardPolicy struct {
	Order                  models.LevelOrder
	PassThreshold          int
	// MaxScore is the largest raw score a single round may report; zero disables the bound.
	MaxScore               int
	DefaultMultiplier      int
	Multipliers            map[models.LevelID]int
	LifetimeCaps           map[models.LevelID]int
	FirstClearBonusMinutes int
}

func DefaultRewardPolicy() RewardPolicy {
	order := models.LevelOrder(models.DefaultLevelOrder)
	return RewardPolicy{
		Order:                  order,
		PassThreshold:          DefaultPassThreshold,
		MaxScore:               DefaultMaxScore,
		DefaultMultiplier:      1,
		Multipliers:            map[models.LevelID]int{},
		LifetimeCaps:           map[models.LevelID]int{order.First(): DefaultFirstLevelCap},
		FirstClearBonusMinutes: DefaultFirstClearBonusMinutes,
	}
}

func NewRewardPolicy(cfg config.RewardsConfig) RewardPolicy {
	p := RewardPolicy{
		Order:                  models.ParseLevelOrder(cfg.LevelOrder),
		PassThreshold:          cfg.PassThreshold,
		MaxScore:               cfg.MaxScore,
		DefaultMultiplier:      cfg.DefaultMultiplier,
		Multipliers:            make(map[models.LevelID]int, len(cfg.Multipliers)),
		LifetimeCaps:           make(map[models.LevelID]int, len(cfg.LifetimeCaps)),
		FirstClearBonusMinutes: cfg.FirstClearBonusMinutes,
	}
	for level, m := range cfg.Multipliers {
		p.Multipliers[models.LevelID(level)] = m
	}
	for level, c := range cfg.LifetimeCaps {
		p.LifetimeCaps[models.LevelID(level)] = c
	}
	return p
}

func (p RewardPolicy) Multiplier(level models.LevelID) int {
	if m, ok := p.Multipliers[level]; ok {
		return m
	}
	return p.DefaultMultiplier
}

// Cap returns the lifetime coin ceiling of a level, if it has one.
func (p RewardPolicy) Cap(level models.LevelID) (int, bool) {
	c, ok := p.LifetimeCaps[level]
	return c, ok
}

// Reward computes the coins granted for score given what the level already paid out.
// Capped levels never pay more than their ceiling in total.
func (p RewardPolicy) Reward(level models.LevelID, score, granted int) int {
	value := mulSaturating(score, p.Multiplier(level))
	limit, capped := p.Cap(level)
	if !capped {
		return value
	}
	if value > limit {
		value = limit
	}
	if value <= granted {
		return 0
	}
	return value - granted
}

// ValidScore reports whether score is a round result the policy accepts.
func (p RewardPolicy) ValidScore(score int) bool {
	if score < 0 {
		return false
	}
	return p.MaxScore <= 0 || score <= p.MaxScore
}

// addSaturating and mulSaturating clamp at math.MaxInt for non-negative operands.
func addSaturating(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func mulSaturating(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
