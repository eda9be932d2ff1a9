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

type StudySessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	GetByID(ctx context.Context, id int64) (*models.StudySessionWithDetails, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.StudySessionWithDetails, error)
	Count(ctx context.Context) (int, error)
	GetByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]models.StudySessionWithDetails, error)
	CountByGroupID(ctx context.Context, groupID int64) (int, error)
	GetByActivityID(ctx context.Context, activityID int64, limit, offset int) ([]models.StudySessionWithDetails, error)
	CountByActivityID(ctx context.Context, activityID int64) (int, error)
	GetRecent(ctx context.Context) (*models.RecentSession, error)
	StudyTimes(ctx context.Context) ([]time.Time, error)
}

type studySessionRepository struct {
	*SQLRepository
}

func NewStudySessionRepository(db *sqlx.DB, logger zerolog.Logger) StudySessionRepository {
	return &studySessionRepository{
		SQLRepository: NewSQLRepository(db, logger),
	}
}

const studySessionDetailsSelect = `
	SELECT
		s.id, s.word_id, s.group_id, s.activity_id, s.correct, s.studied_at,
		w.english AS word_english,
		g.name AS group_name,
		a.name AS activity_name
	FROM study_sessions s
	JOIN words w ON w.id = s.word_id
	JOIN groups g ON g.id = s.group_id
	JOIN study_activities a ON a.id = s.activity_id
`

const studySessionOrder = `ORDER BY s.studied_at DESC, s.id DESC`

func (r *studySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.StudiedAt.IsZero() {
		session.StudiedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO study_sessions (word_id, group_id, activity_id, correct, studied_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	id, err := r.insertReturningID(ctx, query,
		session.WordID,
		session.GroupID,
		session.ActivityID,
		session.Correct,
		session.StudiedAt.UTC(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	session.ID = id
	return nil
}

func (r *studySessionRepository) GetByID(ctx context.Context, id int64) (*models.StudySessionWithDetails, error) {
	query := studySessionDetailsSelect + ` WHERE s.id = ?`

	session := &models.StudySessionWithDetails{}
	err := r.q(ctx).GetContext(ctx, session, r.rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return session, err
}

func (r *studySessionRepository) GetAll(ctx context.Context, limit, offset int) ([]models.StudySessionWithDetails, error) {
	query := studySessionDetailsSelect + studySessionOrder + ` LIMIT ? OFFSET ?`
	return r.selectSessions(ctx, query, limit, offset)
}

func (r *studySessionRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, `SELECT COUNT(*) FROM study_sessions`)
	return total, err
}

func (r *studySessionRepository) GetByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]models.StudySessionWithDetails, error) {
	query := studySessionDetailsSelect + ` WHERE s.group_id = ? ` + studySessionOrder + ` LIMIT ? OFFSET ?`
	return r.selectSessions(ctx, query, groupID, limit, offset)
}

func (r *studySessionRepository) CountByGroupID(ctx context.Context, groupID int64) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, r.rebind(`SELECT COUNT(*) FROM study_sessions WHERE group_id = ?`), groupID)
	return total, err
}

func (r *studySessionRepository) GetByActivityID(ctx context.Context, activityID int64, limit, offset int) ([]models.StudySessionWithDetails, error) {
	query := studySessionDetailsSelect + ` WHERE s.activity_id = ? ` + studySessionOrder + ` LIMIT ? OFFSET ?`
	return r.selectSessions(ctx, query, activityID, limit, offset)
}

func (r *studySessionRepository) CountByActivityID(ctx context.Context, activityID int64) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, r.rebind(`SELECT COUNT(*) FROM study_sessions WHERE activity_id = ?`), activityID)
	return total, err
}

func (r *studySessionRepository) selectSessions(ctx context.Context, query string, args ...interface{}) ([]models.StudySessionWithDetails, error) {
	sessions := []models.StudySessionWithDetails{}
	if err := r.q(ctx).SelectContext(ctx, &sessions, r.rebind(query), args...); err != nil {
		return nil, err
	}
	return sessions, nil
}

type recentSessionRow struct {
	ID           int64     `db:"id"`
	Correct      bool      `db:"correct"`
	StudiedAt    time.Time `db:"studied_at"`
	WordID       int64     `db:"word_id"`
	WordEnglish  string    `db:"word_english"`
	CorrectCount int       `db:"correct_count"`
	WrongCount   int       `db:"wrong_count"`
	GroupID      int64     `db:"group_id"`
	GroupName    string    `db:"group_name"`
	ActivityID   int64     `db:"activity_id"`
	ActivityName string    `db:"activity_name"`
}

// GetRecent returns the latest session, or nil when none has been recorded.
func (r *studySessionRepository) GetRecent(ctx context.Context) (*models.RecentSession, error) {
	query := `
		SELECT
			s.id, s.correct, s.studied_at,
			w.id AS word_id, w.english AS word_english,
			COALESCE(wr.correct_count, 0) AS correct_count,
			COALESCE(wr.wrong_count, 0) AS wrong_count,
			g.id AS group_id, g.name AS group_name,
			a.id AS activity_id, a.name AS activity_name
		FROM study_sessions s
		JOIN words w ON w.id = s.word_id
		JOIN groups g ON g.id = s.group_id
		JOIN study_activities a ON a.id = s.activity_id
		LEFT JOIN word_reviews wr ON wr.word_id = w.id
		` + studySessionOrder + `
		LIMIT 1
	`

	var row recentSessionRow
	err := r.q(ctx).GetContext(ctx, &row, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.RecentSession{
		ID: row.ID,
		Word: models.RecentSessionWord{
			ID:           row.WordID,
			English:      row.WordEnglish,
			CorrectCount: row.CorrectCount,
			WrongCount:   row.WrongCount,
		},
		Group: models.GroupRef{
			ID:   row.GroupID,
			Name: row.GroupName,
		},
		Activity: models.RecentSessionEntry{
			ID:   row.ActivityID,
			Name: row.ActivityName,
		},
		Correct:   row.Correct,
		Timestamp: row.StudiedAt,
	}, nil
}

// StudyTimes returns every session timestamp, newest first.
func (r *studySessionRepository) StudyTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := r.q(ctx).QueryxContext(ctx, `SELECT studied_at FROM study_sessions ORDER BY studied_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}

	return times, rows.Err()
}
