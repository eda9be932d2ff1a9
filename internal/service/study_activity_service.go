package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/pkg/utils"
)

type StudyActivityService interface {
	ListStudyActivities(ctx context.Context) ([]models.StudyActivity, error)
	GetStudyActivity(ctx context.Context, id int64) (*models.StudyActivity, error)
	ListActivityStudySessions(ctx context.Context, activityID int64, page, perPage int) (*models.StudySessionsPage, error)
	ActivityURLs(ctx context.Context) ([]string, error)
}

type studyActivityService struct {
	activityRepo repository.StudyActivityRepository
	sessionRepo  repository.StudySessionRepository
	logger       zerolog.Logger
}

func NewStudyActivityService(
	activityRepo repository.StudyActivityRepository,
	sessionRepo repository.StudySessionRepository,
	logger zerolog.Logger,
) StudyActivityService {
	return &studyActivityService{
		activityRepo: activityRepo,
		sessionRepo:  sessionRepo,
		logger:       logger,
	}
}

func (s *studyActivityService) ListStudyActivities(ctx context.Context) ([]models.StudyActivity, error) {
	activities, err := s.activityRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list study activities: %w", err)
	}
	return activities, nil
}

func (s *studyActivityService) GetStudyActivity(ctx context.Context, id int64) (*models.StudyActivity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get study activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

func (s *studyActivityService) ListActivityStudySessions(ctx context.Context, activityID int64, page, perPage int) (*models.StudySessionsPage, error) {
	exists, err := s.activityRepo.Exists(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check activity existence: %w", err)
	}
	if !exists {
		return nil, ErrActivityNotFound
	}

	page, perPage = normalizeSessionPaging(page, perPage)

	total, err := s.sessionRepo.CountByActivityID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity sessions: %w", err)
	}

	sessions := []models.StudySessionWithDetails{}
	if !utils.PastLastPage(page, perPage, total) {
		sessions, err = s.sessionRepo.GetByActivityID(ctx, activityID, perPage, utils.Offset(page, perPage))
		if err != nil {
			return nil, fmt.Errorf("failed to list activity sessions: %w", err)
		}
	}

	return newStudySessionsPage(sessions, total, page, perPage), nil
}

// ActivityURLs returns the origins of every activity launch URL, without
// duplicates. URLs that cannot be parsed are skipped.
func (s *studyActivityService) ActivityURLs(ctx context.Context) ([]string, error) {
	urls, err := s.activityRepo.URLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity urls: %w", err)
	}

	seen := make(map[string]bool, len(urls))
	origins := make([]string, 0, len(urls))
	for _, raw := range urls {
		origin, err := utils.Origin(raw)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", raw).Msg("Skipping invalid activity url")
			continue
		}
		if !seen[origin] {
			seen[origin] = true
			origins = append(origins, origin)
		}
	}

	return origins, nil
}
