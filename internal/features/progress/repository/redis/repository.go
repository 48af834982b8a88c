package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"vocab-progress-backend/internal/features/progress/repository"
)

// sessionRepository keeps the short-lived copy of each profile. Every write
// refreshes the TTL, so an active learner never loses the session copy.
type sessionRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSessionRepository(client redis.UniversalClient, prefix string, ttl time.Duration) repository.Backend {
	return &sessionRepository{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *sessionRepository) Name() string { return "redis" }

func (r *sessionRepository) key(learnerID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, learnerID)
}

func (r *sessionRepository) Load(ctx context.Context, learnerID string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.key(learnerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (r *sessionRepository) Save(ctx context.Context, learnerID string, payload []byte) error {
	return r.client.Set(ctx, r.key(learnerID), payload, r.ttl).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, learnerID string) error {
	return r.client.Del(ctx, r.key(learnerID)).Err()
}

func (r *sessionRepository) ListLearners(ctx context.Context) ([]string, error) {
	var learners []string
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		learners = append(learners, strings.TrimPrefix(iter.Val(), r.prefix+":"))
	}
	return learners, iter.Err()
}
