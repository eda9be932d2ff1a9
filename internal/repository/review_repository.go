package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
)

// ReviewRepository owns word_review_items (one row per attempt) and the
// word_reviews rollup derived from them.
type ReviewRepository interface {
	AddItem(ctx context.Context, item *models.WordReviewItem) error
	Increment(ctx context.Context, wordID int64, correct bool) error
	Rebuild(ctx context.Context) error
}

type reviewRepository struct {
	*SQLRepository
}

func NewReviewRepository(db *sqlx.DB, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		SQLRepository: NewSQLRepository(db, logger),
	}
}

func (r *reviewRepository) AddItem(ctx context.Context, item *models.WordReviewItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO word_review_items (word_id, study_session_id, correct, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	id, err := r.insertReturningID(ctx, query, item.WordID, item.StudySessionID, item.Correct, item.CreatedAt)
	if err != nil {
		return err
	}

	item.ID = id
	return nil
}

func (r *reviewRepository) Increment(ctx context.Context, wordID int64, correct bool) error {
	correctDelta, wrongDelta := 0, 1
	if correct {
		correctDelta, wrongDelta = 1, 0
	}

	query := `
		INSERT INTO word_reviews (word_id, correct_count, wrong_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (word_id) DO UPDATE SET
			correct_count = word_reviews.correct_count + excluded.correct_count,
			wrong_count = word_reviews.wrong_count + excluded.wrong_count,
			updated_at = excluded.updated_at
	`

	_, err := r.q(ctx).ExecContext(ctx, r.rebind(query), wordID, correctDelta, wrongDelta, time.Now().UTC())
	return err
}

// Rebuild replaces word_reviews with counts recomputed from word_review_items.
func (r *reviewRepository) Rebuild(ctx context.Context) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := r.q(ctx).ExecContext(ctx, `DELETE FROM word_reviews`); err != nil {
			return err
		}

		query := `
			INSERT INTO word_reviews (word_id, correct_count, wrong_count, updated_at)
			SELECT
				word_id,
				SUM(CASE WHEN correct THEN 1 ELSE 0 END),
				SUM(CASE WHEN correct THEN 0 ELSE 1 END),
				?
			FROM word_review_items
			GROUP BY word_id
		`

		_, err := r.q(ctx).ExecContext(ctx, r.rebind(query), time.Now().UTC())
		return err
	})
}
