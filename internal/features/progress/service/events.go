package service

import (
	"time"

	"vocab-progress-backend/internal/features/progress/models"
)

type EventType string

const (
	EventLevelResult EventType = "level_result"
	EventPurchase    EventType = "purchase"
	EventSelect      EventType = "select"
)

// Event is emitted after a transition has been committed.
type Event struct {
	Type      EventType               `json:"type"`
	LearnerID string                  `json:"learner_id"`
	At        time.Time               `json:"at"`
	Outcome   *models.Outcome         `json:"outcome,omitempty"`
	Purchase  *models.PurchaseOutcome `json:"purchase,omitempty"`
	Category  models.Category         `json:"category,omitempty"`
	ItemID    string                  `json:"item_id,omitempty"`
	// Profile is the committed state after the transition.
	Profile models.Profile `json:"-"`
}
