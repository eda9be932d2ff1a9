// Package importer loads seed vocabulary and study activities into the
// database. Every import runs in a single transaction.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
)

// SeedWord is one entry of a word list. Older lists call the parts "letters".
type SeedWord struct {
	English         string          `json:"english"`
	Arabic          string          `json:"arabic"`
	Root            string          `json:"root"`
	Transliteration string          `json:"transliteration"`
	Parts           json.RawMessage `json:"parts"`
	Letters         json.RawMessage `json:"letters"`
	PartsOfSpeech   string          `json:"parts_of_speech"`
}

type SeedActivity struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

type Result struct {
	Group        string `json:"group,omitempty"`
	GroupID      int64  `json:"group_id,omitempty"`
	WordsCreated int    `json:"words_created"`
	WordsReused  int    `json:"words_reused"`
	WordsCount   int    `json:"words_count"`
	Activities   int    `json:"activities_created"`
	Skipped      int    `json:"skipped"`
}

type Importer struct {
	tx           repository.Transactor
	wordRepo     repository.WordRepository
	groupRepo    repository.GroupRepository
	activityRepo repository.StudyActivityRepository
	logger       zerolog.Logger
}

func New(
	tx repository.Transactor,
	wordRepo repository.WordRepository,
	groupRepo repository.GroupRepository,
	activityRepo repository.StudyActivityRepository,
	logger zerolog.Logger,
) *Importer {
	return &Importer{
		tx:           tx,
		wordRepo:     wordRepo,
		groupRepo:    groupRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// ImportWordsJSON reads the array stored under key in the JSON object at path
// and imports it into the named group.
func (i *Importer) ImportWordsJSON(ctx context.Context, groupName, path, key string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	raw, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("key %q not found in %s", key, path)
	}

	var words []SeedWord
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("failed to parse %q in %s: %w", key, path, err)
	}

	return i.ImportWords(ctx, groupName, words)
}

// ImportWordsXLSX reads columns A to E (english, arabic, root,
// transliteration, parts) of sheet, skipping the header row. An empty sheet
// name selects the first sheet.
func (i *Importer) ImportWordsXLSX(ctx context.Context, groupName, path, sheet string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			i.logger.Warn().Err(err).Str("file", path).Msg("Failed to close workbook")
		}
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	words := make([]SeedWord, 0, len(rows))
	for n, row := range rows {
		if n == 0 {
			continue
		}
		word := SeedWord{
			English:         cell(row, 0),
			Arabic:          cell(row, 1),
			Root:            cell(row, 2),
			Transliteration: cell(row, 3),
			Parts:           partsFromCell(cell(row, 4)),
		}
		if word.English == "" && word.Arabic == "" {
			continue
		}
		words = append(words, word)
	}

	return i.ImportWords(ctx, groupName, words)
}

// ImportWords creates the group when missing, inserts new words, reuses
// words whose English gloss already exists and links all of them to the
// group before recounting its words_count.
func (i *Importer) ImportWords(ctx context.Context, groupName string, words []SeedWord) (*Result, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" {
		return nil, errors.New("group name is required")
	}

	result := &Result{Group: groupName}

	err := i.tx.WithinTx(ctx, func(ctx context.Context) error {
		group, err := i.groupRepo.GetByName(ctx, groupName)
		if err != nil {
			return fmt.Errorf("failed to look up group: %w", err)
		}
		if group == nil {
			group = &models.Group{Name: groupName}
			if err := i.groupRepo.Create(ctx, group); err != nil {
				return fmt.Errorf("failed to create group: %w", err)
			}
		}
		result.GroupID = group.ID

		ids := make([]int64, 0, len(words))
		for n, sw := range words {
			english := strings.TrimSpace(sw.English)
			arabic := strings.TrimSpace(sw.Arabic)
			if english == "" || arabic == "" {
				i.logger.Warn().Int("index", n).Msg("Skipping seed word without english or arabic")
				result.Skipped++
				continue
			}

			existing, err := i.wordRepo.GetByEnglish(ctx, english)
			if err != nil {
				return fmt.Errorf("failed to look up word %q: %w", english, err)
			}
			if existing != nil {
				ids = append(ids, existing.ID)
				result.WordsReused++
				continue
			}

			word := &models.Word{
				English:         english,
				Arabic:          arabic,
				Root:            sw.Root,
				Transliteration: sw.Transliteration,
				Parts:           sw.parts(),
				PartsOfSpeech:   sw.PartsOfSpeech,
			}
			if err := i.wordRepo.Create(ctx, word); err != nil {
				return fmt.Errorf("failed to create word %q: %w", english, err)
			}
			ids = append(ids, word.ID)
			result.WordsCreated++
		}

		if len(ids) > 0 {
			if err := i.groupRepo.AddWords(ctx, group.ID, ids); err != nil {
				return err
			}
		}
		if err := i.groupRepo.RecountWords(ctx, group.ID); err != nil {
			return fmt.Errorf("failed to recount group words: %w", err)
		}

		updated, err := i.groupRepo.GetByID(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("failed to reload group: %w", err)
		}
		result.WordsCount = updated.WordsCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info().
		Str("group", result.Group).
		Int("created", result.WordsCreated).
		Int("reused", result.WordsReused).
		Int("skipped", result.Skipped).
		Int("words_count", result.WordsCount).
		Msg("Words imported")

	return result, nil
}

// ImportActivitiesJSON reads a JSON array of activities. Activities whose name
// already exists are skipped.
func (i *Importer) ImportActivitiesJSON(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var activities []SeedActivity
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	result := &Result{}
	err = i.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, sa := range activities {
			name := strings.TrimSpace(sa.Name)
			if name == "" {
				result.Skipped++
				continue
			}

			existing, err := i.activityRepo.GetByName(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to look up activity %q: %w", name, err)
			}
			if existing != nil {
				result.Skipped++
				continue
			}

			activity := &models.StudyActivity{Name: name, URL: sa.URL, PreviewURL: sa.PreviewURL}
			if err := i.activityRepo.Create(ctx, activity); err != nil {
				return fmt.Errorf("failed to create activity %q: %w", name, err)
			}
			result.Activities++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info().
		Int("created", result.Activities).
		Int("skipped", result.Skipped).
		Msg("Study activities imported")

	return result, nil
}

func (w SeedWord) parts() models.WordParts {
	for _, raw := range []json.RawMessage{w.Parts, w.Letters} {
		trimmed := strings.TrimSpace(string(raw))
		if trimmed != "" && trimmed != "null" {
			return models.WordParts(trimmed)
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// partsFromCell accepts either a JSON value or a comma separated list.
func partsFromCell(value string) json.RawMessage {
	if value == "" {
		return nil
	}
	if json.Valid([]byte(value)) {
		return json.RawMessage(value)
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return nil
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return encoded
}
