package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
)

type ReviewTotals struct {
	Correct int `db:"correct"`
	Total   int `db:"total"`
}

type DashboardRepository interface {
	CountWords(ctx context.Context) (int, error)
	CountStudiedWords(ctx context.Context) (int, error)
	CountMasteredWords(ctx context.Context) (int, error)
	ReviewTotals(ctx context.Context) (ReviewTotals, error)
	CountSessions(ctx context.Context) (int, error)
	CountActiveGroups(ctx context.Context, since time.Time) (int, error)
}

type dashboardRepository struct {
	*SQLRepository
}

func NewDashboardRepository(db *sqlx.DB, logger zerolog.Logger) DashboardRepository {
	return &dashboardRepository{
		SQLRepository: NewSQLRepository(db, logger),
	}
}

func (r *dashboardRepository) CountWords(ctx context.Context) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, `SELECT COUNT(*) FROM words`)
	return total, err
}

func (r *dashboardRepository) CountStudiedWords(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(DISTINCT wri.word_id)
		FROM word_review_items wri
		JOIN study_sessions s ON s.id = wri.study_session_id
	`

	var total int
	err := r.q(ctx).GetContext(ctx, &total, query)
	return total, err
}

func (r *dashboardRepository) CountMasteredWords(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT word_id
			FROM word_review_items
			GROUP BY word_id
			HAVING COUNT(*) >= ?
				AND SUM(CASE WHEN correct THEN 1 ELSE 0 END) * 100 >= COUNT(*) * ?
		) mastered
	`

	var total int
	err := r.q(ctx).GetContext(ctx, &total, r.rebind(query), models.MasteryMinAttempts, models.MasteryMinRatePercent)
	return total, err
}

func (r *dashboardRepository) ReviewTotals(ctx context.Context) (ReviewTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct,
			COUNT(*) AS total
		FROM word_review_items
	`

	var totals ReviewTotals
	err := r.q(ctx).GetContext(ctx, &totals, query)
	return totals, err
}

func (r *dashboardRepository) CountSessions(ctx context.Context) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, `SELECT COUNT(*) FROM study_sessions`)
	return total, err
}

func (r *dashboardRepository) CountActiveGroups(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT group_id)
		FROM study_sessions
		WHERE studied_at >= ?
	`

	var total int
	err := r.q(ctx).GetContext(ctx, &total, r.rebind(query), since.UTC())
	return total, err
}
