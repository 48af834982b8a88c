package postgres

import (
	"context"
	"database/sql"
	"errors"

	"vocab-progress-backend/internal/features/progress/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS learner_profiles (
	learner_id TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// ProfileRepository is the durable copy of each learner's profile document.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// EnsureSchema creates the profiles table when it does not exist yet.
func (r *ProfileRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *ProfileRepository) Name() string { return "postgres" }

func (r *ProfileRepository) Load(ctx context.Context, learnerID string) ([]byte, error) {
	const q = `SELECT payload FROM learner_profiles WHERE learner_id = $1`
	var payload []byte
	if err := r.db.QueryRowContext(ctx, q, learnerID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

// Save upserts the whole document; the row is replaced, never merged.
func (r *ProfileRepository) Save(ctx context.Context, learnerID string, payload []byte) error {
	const q = `
INSERT INTO learner_profiles (learner_id, payload, created_at, updated_at)
VALUES ($1, $2, now(), now())
ON CONFLICT (learner_id) DO UPDATE SET
	payload = EXCLUDED.payload,
	updated_at = now()`
	_, err := r.db.ExecContext(ctx, q, learnerID, string(payload))
	return err
}

func (r *ProfileRepository) Delete(ctx context.Context, learnerID string) error {
	const q = `DELETE FROM learner_profiles WHERE learner_id = $1`
	_, err := r.db.ExecContext(ctx, q, learnerID)
	return err
}

// ListLearners returns every stored learner id ordered by last update.
func (r *ProfileRepository) ListLearners(ctx context.Context) ([]string, error) {
	const q = `SELECT learner_id FROM learner_profiles ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var learners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		learners = append(learners, id)
	}
	return learners, rows.Err()
}
