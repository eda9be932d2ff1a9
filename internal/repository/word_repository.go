package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
)

type WordRepository interface {
	Create(ctx context.Context, word *models.Word) error
	Update(ctx context.Context, word *models.Word) error
	GetByID(ctx context.Context, id int64) (*models.WordWithReviews, error)
	GetByEnglish(ctx context.Context, english string) (*models.Word, error)
	GetAll(ctx context.Context, sortBy, order string, limit, offset int) ([]models.WordWithReviews, error)
	Count(ctx context.Context) (int, error)
	GetByGroupID(ctx context.Context, groupID int64, sortBy, order string, limit, offset int) ([]models.WordWithReviews, error)
	CountByGroupID(ctx context.Context, groupID int64) (int, error)
	GetGroups(ctx context.Context, wordID int64) ([]models.GroupRef, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type wordRepository struct {
	*SQLRepository
}

func NewWordRepository(db *sqlx.DB, logger zerolog.Logger) WordRepository {
	return &wordRepository{
		SQLRepository: NewSQLRepository(db, logger),
	}
}

// Sort keys are validated by models.NormalizeWordSort; this map is the only
// place they are turned into SQL.
var wordOrderExpressions = map[string]string{
	"english":       "w.english",
	"arabic":        "w.arabic",
	"root":          "w.root",
	"correct_count": "correct_count",
	"wrong_count":   "wrong_count",
}

func wordOrderBy(sortBy, order string) string {
	sortBy, order = models.NormalizeWordSort(sortBy, order)
	return fmt.Sprintf("%s %s, w.id ASC", wordOrderExpressions[sortBy], strings.ToUpper(order))
}

const wordWithReviewsColumns = `
	w.id, w.english, w.arabic, w.root, w.transliteration, w.parts, w.parts_of_speech,
	w.created_at, w.updated_at,
	COALESCE(r.correct_count, 0) AS correct_count,
	COALESCE(r.wrong_count, 0) AS wrong_count
`

func (r *wordRepository) Create(ctx context.Context, word *models.Word) error {
	now := time.Now().UTC()
	word.CreatedAt = now
	word.UpdatedAt = now

	query := `
		INSERT INTO words (english, arabic, root, transliteration, parts, parts_of_speech, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	id, err := r.insertReturningID(ctx, query,
		word.English,
		word.Arabic,
		word.Root,
		word.Transliteration,
		word.Parts,
		word.PartsOfSpeech,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if err != nil {
		return err
	}

	word.ID = id
	return nil
}

func (r *wordRepository) Update(ctx context.Context, word *models.Word) error {
	word.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE words
		SET english = ?, arabic = ?, root = ?, transliteration = ?, parts = ?, parts_of_speech = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.q(ctx).ExecContext(ctx, r.rebind(query),
		word.English,
		word.Arabic,
		word.Root,
		word.Transliteration,
		word.Parts,
		word.PartsOfSpeech,
		word.UpdatedAt,
		word.ID,
	)

	return classify(err)
}

func (r *wordRepository) GetByID(ctx context.Context, id int64) (*models.WordWithReviews, error) {
	query := `
		SELECT ` + wordWithReviewsColumns + `
		FROM words w
		LEFT JOIN word_reviews r ON w.id = r.word_id
		WHERE w.id = ?
	`

	word := &models.WordWithReviews{}
	err := r.q(ctx).GetContext(ctx, word, r.rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return word, err
}

func (r *wordRepository) GetByEnglish(ctx context.Context, english string) (*models.Word, error) {
	query := `
		SELECT id, english, arabic, root, transliteration, parts, parts_of_speech, created_at, updated_at
		FROM words
		WHERE english = ?
	`

	word := &models.Word{}
	err := r.q(ctx).GetContext(ctx, word, r.rebind(query), english)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return word, err
}

func (r *wordRepository) GetAll(ctx context.Context, sortBy, order string, limit, offset int) ([]models.WordWithReviews, error) {
	query := `
		SELECT ` + wordWithReviewsColumns + `
		FROM words w
		LEFT JOIN word_reviews r ON w.id = r.word_id
		ORDER BY ` + wordOrderBy(sortBy, order) + `
		LIMIT ? OFFSET ?
	`

	words := []models.WordWithReviews{}
	if err := r.q(ctx).SelectContext(ctx, &words, r.rebind(query), limit, offset); err != nil {
		return nil, err
	}

	return words, nil
}

func (r *wordRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, `SELECT COUNT(*) FROM words`)
	return total, err
}

func (r *wordRepository) GetByGroupID(ctx context.Context, groupID int64, sortBy, order string, limit, offset int) ([]models.WordWithReviews, error) {
	query := `
		SELECT ` + wordWithReviewsColumns + `
		FROM words w
		JOIN word_groups wg ON wg.word_id = w.id
		LEFT JOIN word_reviews r ON w.id = r.word_id
		WHERE wg.group_id = ?
		ORDER BY ` + wordOrderBy(sortBy, order) + `
		LIMIT ? OFFSET ?
	`

	words := []models.WordWithReviews{}
	if err := r.q(ctx).SelectContext(ctx, &words, r.rebind(query), groupID, limit, offset); err != nil {
		return nil, err
	}

	return words, nil
}

func (r *wordRepository) CountByGroupID(ctx context.Context, groupID int64) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, r.rebind(`SELECT COUNT(*) FROM word_groups WHERE group_id = ?`), groupID)
	return total, err
}

func (r *wordRepository) GetGroups(ctx context.Context, wordID int64) ([]models.GroupRef, error) {
	query := `
		SELECT g.id, g.name
		FROM groups g
		JOIN word_groups wg ON wg.group_id = g.id
		WHERE wg.word_id = ?
		ORDER BY g.name
	`

	groups := []models.GroupRef{}
	if err := r.q(ctx).SelectContext(ctx, &groups, r.rebind(query), wordID); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *wordRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q(ctx).GetContext(ctx, &exists, r.rebind(`SELECT EXISTS(SELECT 1 FROM words WHERE id = ?)`), id)
	return exists, err
}
