package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend that holds no payload for the learner.
var ErrNotFound = errors.New("profile not found")

// Backend stores one serialized profile document per learner.
type Backend interface {
	Name() string
	Load(ctx context.Context, learnerID string) ([]byte, error)
	Save(ctx context.Context, learnerID string, payload []byte) error
}

// Lister is implemented by backends that can enumerate stored learners.
type Lister interface {
	ListLearners(ctx context.Context) ([]string, error)
}

// Deleter is implemented by backends that can drop a learner's document.
type Deleter interface {
	Delete(ctx context.Context, learnerID string) error
}
