package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const WordsPerPage = 50

type Word struct {
	ID              int64     `json:"id" db:"id"`
	English         string    `json:"english" db:"english"`
	Arabic          string    `json:"arabic" db:"arabic"`
	Root            string    `json:"root" db:"root"`
	Transliteration string    `json:"transliteration" db:"transliteration"`
	Parts           WordParts `json:"parts" db:"parts"`
	PartsOfSpeech   string    `json:"parts_of_speech" db:"parts_of_speech"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type WordWithReviews struct {
	Word
	CorrectCount int `json:"correct_count" db:"correct_count"`
	WrongCount   int `json:"wrong_count" db:"wrong_count"`
}

type WordDetail struct {
	WordWithReviews
	Groups []GroupRef `json:"groups"`
}

// WordParts holds the decomposed parts of a word as raw JSON. An empty value
// is rendered as {}.
type WordParts json.RawMessage

func (p WordParts) IsEmpty() bool {
	return len(bytes.TrimSpace(p)) == 0
}

func (p WordParts) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("{}"), nil
	}
	if !json.Valid(p) {
		return json.Marshal(string(p))
	}
	return []byte(p), nil
}

func (p *WordParts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	*p = append((*p)[:0], data...)
	return nil
}

func (p WordParts) Value() (driver.Value, error) {
	if p.IsEmpty() {
		return "", nil
	}
	return string(p), nil
}

func (p *WordParts) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(WordParts(nil), v...)
	case string:
		*p = WordParts(v)
	default:
		return fmt.Errorf("cannot scan %T into WordParts", src)
	}
	return nil
}

var wordSortColumns = map[string]bool{
	"english":       true,
	"arabic":        true,
	"root":          true,
	"correct_count": true,
	"wrong_count":   true,
}

// NormalizeWordSort restricts sortBy and order to the supported values,
// falling back to english/asc for anything else.
func NormalizeWordSort(sortBy, order string) (string, string) {
	if !wordSortColumns[sortBy] {
		sortBy = "english"
	}
	return sortBy, NormalizeOrder(order)
}

func NormalizeOrder(order string) string {
	switch strings.ToLower(order) {
	case "desc":
		return "desc"
	default:
		return "asc"
	}
}
