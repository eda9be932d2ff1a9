package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
)

// MaintenanceService recomputes the cached aggregates from their sources of
// truth: groups.words_count from word_groups and word_reviews from
// word_review_items.
type MaintenanceService interface {
	RecountGroupWords(ctx context.Context) error
	RebuildWordReviews(ctx context.Context) error
}

type maintenanceService struct {
	groupRepo  repository.GroupRepository
	reviewRepo repository.ReviewRepository
	logger     zerolog.Logger
}

func NewMaintenanceService(
	groupRepo repository.GroupRepository,
	reviewRepo repository.ReviewRepository,
	logger zerolog.Logger,
) MaintenanceService {
	return &maintenanceService{
		groupRepo:  groupRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

func (s *maintenanceService) RecountGroupWords(ctx context.Context) error {
	start := time.Now()

	changed, err := s.groupRepo.RecountAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to recount group words: %w", err)
	}

	s.logger.Info().
		Int64("groups_updated", changed).
		Dur("took", time.Since(start)).
		Msg("Group word counts recomputed")

	return nil
}

func (s *maintenanceService) RebuildWordReviews(ctx context.Context) error {
	start := time.Now()

	if err := s.reviewRepo.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild word reviews: %w", err)
	}

	s.logger.Info().
		Dur("took", time.Since(start)).
		Msg("Word reviews rebuilt")

	return nil
}
