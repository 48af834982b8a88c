package service

import (
	"context"
	"time"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/common/errors"
	"vocab-progress-backend/internal/features/content/models"
	"vocab-progress-backend/internal/utils/random"
)

type ContentService interface {
	Quiz(ctx context.Context) ([]models.QuizQuestion, error)
	OddOneOut(ctx context.Context) ([]models.OddOneOutQuestion, error)
	Countdown(ctx context.Context) models.Countdown
}

type contentService struct {
	bank models.Bank
	cfg  config.ContentConfig
	now  func() time.Time
}

func NewContentService(bank models.Bank, cfg config.ContentConfig) ContentService {
	return &contentService{bank: bank, cfg: cfg, now: time.Now}
}

// Quiz returns a fresh random round of quiz questions.
func (s *contentService) Quiz(_ context.Context) ([]models.QuizQuestion, error) {
	out, err := random.Sample(s.bank.Quiz, s.cfg.QuizSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to draw quiz questions")
	}
	return out, nil
}

func (s *contentService) OddOneOut(_ context.Context) ([]models.OddOneOutQuestion, error) {
	out, err := random.Sample(s.bank.OddOneOut, s.cfg.OddOneOutSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to draw odd-one-out puzzles")
	}
	return out, nil
}

func (s *contentService) Countdown(_ context.Context) models.Countdown {
	return models.NewCountdown(s.cfg.ExamDate, s.now())
}
