package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/pkg/utils"
)

type GroupService interface {
	ListGroups(ctx context.Context, page int, sortBy, order string) (*models.GroupsPage, error)
	GetGroup(ctx context.Context, id int64) (*models.Group, error)
	CreateGroup(ctx context.Context, req *models.CreateGroupRequest) (*models.Group, error)
	ListGroupWords(ctx context.Context, groupID int64, page int, sortBy, order string) (*models.WordsPage, error)
	ListGroupStudySessions(ctx context.Context, groupID int64, page, perPage int) (*models.StudySessionsPage, error)
	AddWordsToGroup(ctx context.Context, groupID int64, req *models.AddGroupWordsRequest) (*models.Group, error)
}

type groupService struct {
	groupRepo   repository.GroupRepository
	wordRepo    repository.WordRepository
	sessionRepo repository.StudySessionRepository
	tx          repository.Transactor
	logger      zerolog.Logger
}

func NewGroupService(
	groupRepo repository.GroupRepository,
	wordRepo repository.WordRepository,
	sessionRepo repository.StudySessionRepository,
	tx repository.Transactor,
	logger zerolog.Logger,
) GroupService {
	return &groupService{
		groupRepo:   groupRepo,
		wordRepo:    wordRepo,
		sessionRepo: sessionRepo,
		tx:          tx,
		logger:      logger,
	}
}

func (s *groupService) ListGroups(ctx context.Context, page int, sortBy, order string) (*models.GroupsPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.groupRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count groups: %w", err)
	}

	groups := []models.Group{}
	if !utils.PastLastPage(page, models.GroupsPerPage, total) {
		groups, err = s.groupRepo.GetAll(ctx, sortBy, order, models.GroupsPerPage, utils.Offset(page, models.GroupsPerPage))
		if err != nil {
			return nil, fmt.Errorf("failed to list groups: %w", err)
		}
	}

	return &models.GroupsPage{
		Groups:      groups,
		TotalPages:  utils.TotalPages(total, models.GroupsPerPage),
		CurrentPage: page,
		TotalGroups: total,
	}, nil
}

func (s *groupService) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return group, nil
}

func (s *groupService) CreateGroup(ctx context.Context, req *models.CreateGroupRequest) (*models.Group, error) {
	name := strings.TrimSpace(req.Name)

	existing, err := s.groupRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing group: %w", err)
	}
	if existing != nil {
		return nil, ErrGroupExists
	}

	group := &models.Group{Name: name}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info().
		Int64("group_id", group.ID).
		Str("name", group.Name).
		Msg("Group created")

	return group, nil
}

func (s *groupService) ListGroupWords(ctx context.Context, groupID int64, page int, sortBy, order string) (*models.WordsPage, error) {
	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	total, err := s.wordRepo.CountByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count group words: %w", err)
	}

	words := []models.WordWithReviews{}
	if !utils.PastLastPage(page, models.WordsPerPage, total) {
		words, err = s.wordRepo.GetByGroupID(ctx, groupID, sortBy, order, models.WordsPerPage, utils.Offset(page, models.WordsPerPage))
		if err != nil {
			return nil, fmt.Errorf("failed to list group words: %w", err)
		}
	}

	return &models.WordsPage{
		Words:       words,
		TotalPages:  utils.TotalPages(total, models.WordsPerPage),
		CurrentPage: page,
		TotalWords:  total,
	}, nil
}

func (s *groupService) ListGroupStudySessions(ctx context.Context, groupID int64, page, perPage int) (*models.StudySessionsPage, error) {
	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}

	page, perPage = normalizeSessionPaging(page, perPage)

	total, err := s.sessionRepo.CountByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count group sessions: %w", err)
	}

	sessions := []models.StudySessionWithDetails{}
	if !utils.PastLastPage(page, perPage, total) {
		sessions, err = s.sessionRepo.GetByGroupID(ctx, groupID, perPage, utils.Offset(page, perPage))
		if err != nil {
			return nil, fmt.Errorf("failed to list group sessions: %w", err)
		}
	}

	return newStudySessionsPage(sessions, total, page, perPage), nil
}

// AddWordsToGroup links the words and refreshes the cached words_count in
// the same transaction.
func (s *groupService) AddWordsToGroup(ctx context.Context, groupID int64, req *models.AddGroupWordsRequest) (*models.Group, error) {
	var group *models.Group

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureGroup(ctx, groupID); err != nil {
			return err
		}

		for _, wordID := range req.WordIDs {
			exists, err := s.wordRepo.Exists(ctx, wordID)
			if err != nil {
				return fmt.Errorf("failed to check word existence: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: %d", ErrWordNotFound, wordID)
			}
		}

		if err := s.groupRepo.AddWords(ctx, groupID, req.WordIDs); err != nil {
			return fmt.Errorf("failed to add words to group: %w", err)
		}
		if err := s.groupRepo.RecountWords(ctx, groupID); err != nil {
			return fmt.Errorf("failed to recount group words: %w", err)
		}

		var err error
		group, err = s.groupRepo.GetByID(ctx, groupID)
		if err != nil {
			return fmt.Errorf("failed to get group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("group_id", groupID).
		Int("words", len(req.WordIDs)).
		Int("words_count", group.WordsCount).
		Msg("Words added to group")

	return group, nil
}

func (s *groupService) ensureGroup(ctx context.Context, groupID int64) error {
	exists, err := s.groupRepo.Exists(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	if !exists {
		return ErrGroupNotFound
	}
	return nil
}
