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

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetByName(ctx context.Context, name string) (*models.Group, error)
	GetAll(ctx context.Context, sortBy, order string, limit, offset int) ([]models.Group, error)
	Count(ctx context.Context) (int, error)
	AddWords(ctx context.Context, groupID int64, wordIDs []int64) error
	RecountWords(ctx context.Context, groupID int64) error
	RecountAll(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type groupRepository struct {
	*SQLRepository
}

func NewGroupRepository(db *sqlx.DB, logger zerolog.Logger) GroupRepository {
	return &groupRepository{
		SQLRepository: NewSQLRepository(db, logger),
	}
}

var groupOrderExpressions = map[string]string{
	"name":        "g.name",
	"words_count": "g.words_count",
}

func groupOrderBy(sortBy, order string) string {
	sortBy, order = models.NormalizeGroupSort(sortBy, order)
	return fmt.Sprintf("%s %s, g.id ASC", groupOrderExpressions[sortBy], strings.ToUpper(order))
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	group.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO groups (name, words_count, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`

	id, err := r.insertReturningID(ctx, query, group.Name, group.WordsCount, group.CreatedAt)
	if err != nil {
		return err
	}

	group.ID = id
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	query := `
		SELECT id, name, words_count, created_at
		FROM groups
		WHERE id = ?
	`

	group := &models.Group{}
	err := r.q(ctx).GetContext(ctx, group, r.rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return group, err
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	query := `
		SELECT id, name, words_count, created_at
		FROM groups
		WHERE name = ?
	`

	group := &models.Group{}
	err := r.q(ctx).GetContext(ctx, group, r.rebind(query), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return group, err
}

func (r *groupRepository) GetAll(ctx context.Context, sortBy, order string, limit, offset int) ([]models.Group, error) {
	query := `
		SELECT g.id, g.name, g.words_count, g.created_at
		FROM groups g
		ORDER BY ` + groupOrderBy(sortBy, order) + `
		LIMIT ? OFFSET ?
	`

	groups := []models.Group{}
	if err := r.q(ctx).SelectContext(ctx, &groups, r.rebind(query), limit, offset); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *groupRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.q(ctx).GetContext(ctx, &total, `SELECT COUNT(*) FROM groups`)
	return total, err
}

// AddWords links the words to the group. Existing links are left untouched.
func (r *groupRepository) AddWords(ctx context.Context, groupID int64, wordIDs []int64) error {
	query := r.rebind(`
		INSERT INTO word_groups (word_id, group_id)
		VALUES (?, ?)
		ON CONFLICT (word_id, group_id) DO NOTHING
	`)

	for _, wordID := range wordIDs {
		if _, err := r.q(ctx).ExecContext(ctx, query, wordID, groupID); err != nil {
			return fmt.Errorf("failed to link word %d: %w", wordID, err)
		}
	}

	return nil
}

func (r *groupRepository) RecountWords(ctx context.Context, groupID int64) error {
	query := `
		UPDATE groups
		SET words_count = (SELECT COUNT(*) FROM word_groups WHERE group_id = ?)
		WHERE id = ?
	`

	_, err := r.q(ctx).ExecContext(ctx, r.rebind(query), groupID, groupID)
	return err
}

// RecountAll recomputes words_count for every group and returns the number
// of groups whose cached value changed.
func (r *groupRepository) RecountAll(ctx context.Context) (int64, error) {
	query := `
		UPDATE groups
		SET words_count = (SELECT COUNT(*) FROM word_groups wg WHERE wg.group_id = groups.id)
		WHERE words_count <> (SELECT COUNT(*) FROM word_groups wg WHERE wg.group_id = groups.id)
	`

	result, err := r.q(ctx).ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *groupRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q(ctx).GetContext(ctx, &exists, r.rebind(`SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)`), id)
	return exists, err
}
