package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/service/integration"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/pkg/utils"
)

var studySessionsRecorded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lang_portal_study_sessions_recorded_total",
		Help: "Number of recorded study sessions by outcome",
	},
	[]string{"outcome"},
)

type StudySessionService interface {
	ListStudySessions(ctx context.Context, page, perPage int) (*models.StudySessionsPage, error)
	GetStudySession(ctx context.Context, id int64) (*models.StudySessionWithDetails, error)
	GetRecentSession(ctx context.Context) (*models.RecentSession, error)
	RecordStudySession(ctx context.Context, req *models.RecordStudySessionRequest) (*models.StudySession, error)
}

type studySessionService struct {
	sessionRepo  repository.StudySessionRepository
	reviewRepo   repository.ReviewRepository
	wordRepo     repository.WordRepository
	groupRepo    repository.GroupRepository
	activityRepo repository.StudyActivityRepository
	tx           repository.Transactor
	publisher    integration.EventPublisher
	logger       zerolog.Logger
	now          func() time.Time
}

func NewStudySessionService(
	sessionRepo repository.StudySessionRepository,
	reviewRepo repository.ReviewRepository,
	wordRepo repository.WordRepository,
	groupRepo repository.GroupRepository,
	activityRepo repository.StudyActivityRepository,
	tx repository.Transactor,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) StudySessionService {
	if publisher == nil {
		publisher = integration.NopPublisher{}
	}
	return &studySessionService{
		sessionRepo:  sessionRepo,
		reviewRepo:   reviewRepo,
		wordRepo:     wordRepo,
		groupRepo:    groupRepo,
		activityRepo: activityRepo,
		tx:           tx,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *studySessionService) ListStudySessions(ctx context.Context, page, perPage int) (*models.StudySessionsPage, error) {
	page, perPage = normalizeSessionPaging(page, perPage)

	total, err := s.sessionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count study sessions: %w", err)
	}

	sessions := []models.StudySessionWithDetails{}
	if !utils.PastLastPage(page, perPage, total) {
		sessions, err = s.sessionRepo.GetAll(ctx, perPage, utils.Offset(page, perPage))
		if err != nil {
			return nil, fmt.Errorf("failed to list study sessions: %w", err)
		}
	}

	return newStudySessionsPage(sessions, total, page, perPage), nil
}

func (s *studySessionService) GetStudySession(ctx context.Context, id int64) (*models.StudySessionWithDetails, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get study session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *studySessionService) GetRecentSession(ctx context.Context) (*models.RecentSession, error) {
	recent, err := s.sessionRepo.GetRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent session: %w", err)
	}
	if recent == nil {
		return nil, ErrNoStudySessions
	}

	return recent, nil
}

// RecordStudySession stores the attempt, its review item and the word_reviews
// rollup in one transaction, then publishes a study_session.recorded event.
// Publishing is best effort.
func (s *studySessionService) RecordStudySession(ctx context.Context, req *models.RecordStudySessionRequest) (*models.StudySession, error) {
	session := &models.StudySession{
		WordID:     req.WordID,
		GroupID:    req.GroupID,
		ActivityID: req.ActivityID,
		Correct:    req.Correct != nil && *req.Correct,
		StudiedAt:  s.now().UTC(),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, session); err != nil {
			return err
		}

		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return fmt.Errorf("failed to create study session: %w", err)
		}

		item := &models.WordReviewItem{
			WordID:         session.WordID,
			StudySessionID: session.ID,
			Correct:        session.Correct,
			CreatedAt:      session.StudiedAt,
		}
		if err := s.reviewRepo.AddItem(ctx, item); err != nil {
			return fmt.Errorf("failed to create review item: %w", err)
		}

		if err := s.reviewRepo.Increment(ctx, session.WordID, session.Correct); err != nil {
			return fmt.Errorf("failed to update word review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "wrong"
	if session.Correct {
		outcome = "correct"
	}
	studySessionsRecorded.WithLabelValues(outcome).Inc()

	s.logger.Info().
		Int64("session_id", session.ID).
		Int64("word_id", session.WordID).
		Int64("group_id", session.GroupID).
		Int64("activity_id", session.ActivityID).
		Bool("correct", session.Correct).
		Msg("Study session recorded")

	event := &models.StudySessionRecordedEvent{
		EventID:    uuid.New().String(),
		SessionID:  session.ID,
		WordID:     session.WordID,
		GroupID:    session.GroupID,
		ActivityID: session.ActivityID,
		Correct:    session.Correct,
		Timestamp:  session.StudiedAt.Unix(),
	}
	if err := s.publisher.PublishStudySessionRecorded(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error().Err(err).Int64("session_id", session.ID).Msg("Failed to publish study session event")
	}

	return session, nil
}

func (s *studySessionService) checkReferences(ctx context.Context, session *models.StudySession) error {
	exists, err := s.wordRepo.Exists(ctx, session.WordID)
	if err != nil {
		return fmt.Errorf("failed to check word existence: %w", err)
	}
	if !exists {
		return ErrWordNotFound
	}

	exists, err = s.groupRepo.Exists(ctx, session.GroupID)
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	if !exists {
		return ErrGroupNotFound
	}

	exists, err = s.activityRepo.Exists(ctx, session.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to check activity existence: %w", err)
	}
	if !exists {
		return ErrActivityNotFound
	}

	return nil
}

func normalizeSessionPaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = models.DefaultSessionsPerPage
	}
	if perPage > models.MaxSessionsPerPage {
		perPage = models.MaxSessionsPerPage
	}
	return page, perPage
}

func newStudySessionsPage(sessions []models.StudySessionWithDetails, total, page, perPage int) *models.StudySessionsPage {
	return &models.StudySessionsPage{
		Sessions:   sessions,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: utils.TotalPages(total, perPage),
	}
}
