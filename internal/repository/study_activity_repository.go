package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
)

type StudyActivityRepository interface {
	Create(ctx context.Context, activity *models.StudyActivity) error
	GetByID(ctx context.Context, id int64) (*models.StudyActivity, error)
	GetByName(ctx context.Context, name string) (*models.StudyActivity, error)
	GetAll(ctx context.Context) ([]models.StudyActivity, error)
	URLs(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type studyActivityRepository struct {
	*SQLRepository
}

func NewStudyActivityRepository(db *sqlx.DB, logger zerolog.Logger) StudyActivityRepository {
	return &studyActivityRepository{
		SQLRepository: NewSQLRepository(db, logger),
	}
}

func (r *studyActivityRepository) Create(ctx context.Context, activity *models.StudyActivity) error {
	query := `
		INSERT INTO study_activities (name, url, preview_url, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	id, err := r.insertReturningID(ctx, query,
		activity.Name,
		activity.URL,
		activity.PreviewURL,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	activity.ID = id
	return nil
}

func (r *studyActivityRepository) GetByID(ctx context.Context, id int64) (*models.StudyActivity, error) {
	query := `
		SELECT id, name, url, preview_url
		FROM study_activities
		WHERE id = ?
	`

	activity := &models.StudyActivity{}
	err := r.q(ctx).GetContext(ctx, activity, r.rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return activity, err
}

func (r *studyActivityRepository) GetByName(ctx context.Context, name string) (*models.StudyActivity, error) {
	query := `
		SELECT id, name, url, preview_url
		FROM study_activities
		WHERE name = ?
		ORDER BY id
		LIMIT 1
	`

	activity := &models.StudyActivity{}
	err := r.q(ctx).GetContext(ctx, activity, r.rebind(query), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return activity, err
}

func (r *studyActivityRepository) GetAll(ctx context.Context) ([]models.StudyActivity, error) {
	query := `
		SELECT id, name, url, preview_url
		FROM study_activities
		ORDER BY id
	`

	activities := []models.StudyActivity{}
	if err := r.q(ctx).SelectContext(ctx, &activities, query); err != nil {
		return nil, err
	}

	return activities, nil
}

// URLs returns the distinct non-empty launch URLs of all activities.
func (r *studyActivityRepository) URLs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT url
		FROM study_activities
		WHERE url <> ''
		ORDER BY url
	`

	urls := []string{}
	if err := r.q(ctx).SelectContext(ctx, &urls, query); err != nil {
		return nil, err
	}

	return urls, nil
}

func (r *studyActivityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q(ctx).GetContext(ctx, &exists, r.rebind(`SELECT EXISTS(SELECT 1 FROM study_activities WHERE id = ?)`), id)
	return exists, err
}
