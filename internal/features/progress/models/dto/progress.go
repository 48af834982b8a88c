package dto

import "vocab-progress-backend/internal/features/progress/models"

// SubmitResultRequest is the body of a finished round.
type SubmitResultRequest struct {
	Score *int `json:"score" binding:"required"`
}

type PurchaseRequest struct {
	Category models.Category `json:"category" binding:"required"`
	ItemID   string          `json:"itemId" binding:"required"`
}

type EquipRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

type LevelView struct {
	ID        models.LevelID `json:"id"`
	Position  int            `json:"position"`
	Unlocked  bool           `json:"unlocked"`
	BestScore int            `json:"bestScore"`
	// Multiplier and cap of the level's coin reward.
	Multiplier     int  `json:"multiplier"`
	LifetimeCap    *int `json:"lifetimeCap,omitempty"`
	RewardsGranted int  `json:"rewardsGranted"`
}

type LevelMapResponse struct {
	Levels                 []LevelView `json:"levels"`
	PassThreshold          int         `json:"passThreshold"`
	FirstClearBonusMinutes int         `json:"firstClearBonusMinutes"`
}

type ProfileResponse struct {
	LearnerID              string                       `json:"learnerId"`
	Coins                  int                          `json:"coins"`
	EarnedMinutes          int                          `json:"earnedMinutes"`
	ReceivedFirstLevelTime bool                         `json:"receivedFirstLevelTime"`
	UnlockedLevels         []models.LevelID             `json:"unlockedLevels"`
	LevelScores            map[models.LevelID]int       `json:"levelScores"`
	PurchasedItems         map[models.Category][]string `json:"purchasedItems"`
	Avatar                 models.Avatar                `json:"avatar"`
	Levels                 []LevelView                  `json:"levels"`
}

type ResultResponse struct {
	Outcome models.Outcome  `json:"outcome"`
	Profile ProfileResponse `json:"profile"`
}

type PurchaseResponse struct {
	Purchase models.PurchaseOutcome `json:"purchase"`
	Profile  ProfileResponse        `json:"profile"`
}

type ItemView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Cost       int    `json:"cost"`
	Owned      bool   `json:"owned"`
	Equipped   bool   `json:"equipped"`
	Affordable bool   `json:"affordable"`
}

type CategoryView struct {
	Category models.Category `json:"category"`
	Items    []ItemView      `json:"items"`
}

type CatalogResponse struct {
	Coins      int            `json:"coins"`
	Categories []CategoryView `json:"categories"`
}
