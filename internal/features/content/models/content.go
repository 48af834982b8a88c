package models

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"
)

type QuestionType string

const (
	QuestionTranslation        QuestionType = "translation"
	QuestionSentenceCompletion QuestionType = "sentence-completion"
)

type QuizQuestion struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Type          QuestionType `json:"type"`
}

type OddOneOutQuestion struct {
	ID      string   `json:"id"`
	Words   []string `json:"words"`
	OddWord string   `json:"oddWord"`
	Reason  string   `json:"reason"`
}

// Countdown is the time left until the exam, split the way the client shows it.
type Countdown struct {
	Target           time.Time `json:"target"`
	Days             int       `json:"days"`
	Hours            int       `json:"hours"`
	Minutes          int       `json:"minutes"`
	Seconds          int       `json:"seconds"`
	RemainingSeconds int64     `json:"remainingSeconds"`
	Passed           bool      `json:"passed"`
}

func NewCountdown(target, now time.Time) Countdown {
	c := Countdown{Target: target}
	left := target.Sub(now)
	if left <= 0 {
		c.Passed = true
		return c
	}
	secs := int64(left / time.Second)
	c.RemainingSeconds = secs
	c.Days = int(secs / 86400)
	c.Hours = int(secs / 3600 % 24)
	c.Minutes = int(secs / 60 % 60)
	c.Seconds = int(secs % 60)
	return c
}

// Bank holds the static question seed.
type Bank struct {
	Quiz      []QuizQuestion      `json:"quiz"`
	OddOneOut []OddOneOutQuestion `json:"oddOneOut"`
}

//go:embed seed.json
var seed []byte

// DefaultBank parses the embedded seed.
func DefaultBank() (Bank, error) {
	var b Bank
	if err := json.Unmarshal(seed, &b); err != nil {
		return Bank{}, fmt.Errorf("parse question seed: %w", err)
	}
	return b, nil
}
