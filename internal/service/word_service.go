package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/pkg/utils"
)

type WordService interface {
	ListWords(ctx context.Context, page int, sortBy, order string) (*models.WordsPage, error)
	GetWord(ctx context.Context, id int64) (*models.WordDetail, error)
	CreateWord(ctx context.Context, req *models.CreateWordRequest) (*models.WordWithReviews, error)
	UpdateWord(ctx context.Context, id int64, req *models.UpdateWordRequest) (*models.WordWithReviews, error)
}

type wordService struct {
	wordRepo repository.WordRepository
	logger   zerolog.Logger
}

func NewWordService(wordRepo repository.WordRepository, logger zerolog.Logger) WordService {
	return &wordService{
		wordRepo: wordRepo,
		logger:   logger,
	}
}

func (s *wordService) ListWords(ctx context.Context, page int, sortBy, order string) (*models.WordsPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.wordRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count words: %w", err)
	}

	words := []models.WordWithReviews{}
	if !utils.PastLastPage(page, models.WordsPerPage, total) {
		words, err = s.wordRepo.GetAll(ctx, sortBy, order, models.WordsPerPage, utils.Offset(page, models.WordsPerPage))
		if err != nil {
			return nil, fmt.Errorf("failed to list words: %w", err)
		}
	}

	return &models.WordsPage{
		Words:       words,
		TotalPages:  utils.TotalPages(total, models.WordsPerPage),
		CurrentPage: page,
		TotalWords:  total,
	}, nil
}

func (s *wordService) GetWord(ctx context.Context, id int64) (*models.WordDetail, error) {
	word, err := s.wordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	if word == nil {
		return nil, ErrWordNotFound
	}

	groups, err := s.wordRepo.GetGroups(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word groups: %w", err)
	}

	return &models.WordDetail{
		WordWithReviews: *word,
		Groups:          groups,
	}, nil
}

func (s *wordService) CreateWord(ctx context.Context, req *models.CreateWordRequest) (*models.WordWithReviews, error) {
	english := strings.TrimSpace(req.Word)

	existing, err := s.wordRepo.GetByEnglish(ctx, english)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing word: %w", err)
	}
	if existing != nil {
		return nil, ErrWordExists
	}

	word := &models.Word{
		English:         english,
		Arabic:          strings.TrimSpace(req.Meaning),
		Root:            req.Root,
		Transliteration: req.Transliteration,
		Parts:           normalizeParts(req.Parts),
		PartsOfSpeech:   req.PartsOfSpeech,
	}

	if err := s.wordRepo.Create(ctx, word); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWordExists
		}
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	s.logger.Info().
		Int64("word_id", word.ID).
		Str("english", word.English).
		Msg("Word created")

	return &models.WordWithReviews{Word: *word}, nil
}

func (s *wordService) UpdateWord(ctx context.Context, id int64, req *models.UpdateWordRequest) (*models.WordWithReviews, error) {
	current, err := s.wordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	if current == nil {
		return nil, ErrWordNotFound
	}

	english := strings.TrimSpace(req.English)
	if english != current.English {
		other, err := s.wordRepo.GetByEnglish(ctx, english)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing word: %w", err)
		}
		if other != nil {
			return nil, ErrWordExists
		}
	}

	current.English = english
	current.Arabic = strings.TrimSpace(req.Arabic)
	current.Root = req.Root
	current.Transliteration = req.Transliteration
	current.Parts = normalizeParts(req.Parts)
	current.PartsOfSpeech = req.PartsOfSpeech

	if err := s.wordRepo.Update(ctx, &current.Word); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWordExists
		}
		return nil, fmt.Errorf("failed to update word: %w", err)
	}

	s.logger.Info().
		Int64("word_id", id).
		Str("english", current.English).
		Msg("Word updated")

	return current, nil
}

// normalizeParts drops JSON null so it is stored as an empty value.
func normalizeParts(raw json.RawMessage) models.WordParts {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return models.WordParts(trimmed)
}
