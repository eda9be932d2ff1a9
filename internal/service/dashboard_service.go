package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	sessionRepo   repository.StudySessionRepository
	logger        zerolog.Logger
	now           func() time.Time
}

func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	sessionRepo repository.StudySessionRepository,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		sessionRepo:   sessionRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// GetStats runs every sub-query concurrently. Any failure fails the whole
// result.
func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats  models.DashboardStats
		totals repository.ReviewTotals
		times  []time.Time
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalVocabulary, err = s.dashboardRepo.CountWords(ctx)
		return wrap("count words", err)
	})
	g.Go(func() (err error) {
		stats.TotalWordsStudied, err = s.dashboardRepo.CountStudiedWords(ctx)
		return wrap("count studied words", err)
	})
	g.Go(func() (err error) {
		stats.MasteredWords, err = s.dashboardRepo.CountMasteredWords(ctx)
		return wrap("count mastered words", err)
	})
	g.Go(func() (err error) {
		totals, err = s.dashboardRepo.ReviewTotals(ctx)
		return wrap("load review totals", err)
	})
	g.Go(func() (err error) {
		stats.TotalSessions, err = s.dashboardRepo.CountSessions(ctx)
		return wrap("count sessions", err)
	})
	g.Go(func() (err error) {
		since := s.now().UTC().AddDate(0, 0, -models.ActiveGroupWindowDays)
		stats.ActiveGroups, err = s.dashboardRepo.CountActiveGroups(ctx, since)
		return wrap("count active groups", err)
	})
	g.Go(func() (err error) {
		times, err = s.sessionRepo.StudyTimes(ctx)
		return wrap("load study dates", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.SuccessRate = SuccessRate(totals.Correct, totals.Total)
	stats.CurrentStreak = CurrentStreak(times)

	return &stats, nil
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}

// SuccessRate returns correct/total, or 0 when there are no attempts.
func SuccessRate(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// CurrentStreak counts consecutive UTC calendar days with at least one
// session, starting at the most recent study date and walking backwards.
// times may be in any order.
func CurrentStreak(times []time.Time) int {
	if len(times) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(times))
	latest := truncateDay(times[0])
	for _, t := range times {
		day := truncateDay(t)
		days[day] = true
		if day.After(latest) {
			latest = day
		}
	}

	streak := 0
	for day := latest; days[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
