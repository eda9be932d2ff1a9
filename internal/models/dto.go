package models

import "encoding/json"

// Data Transfer Objects

type CreateWordRequest struct {
	Word            string          `json:"word" validate:"required,notblank"`
	Meaning         string          `json:"meaning" validate:"required,notblank"`
	Root            string          `json:"root"`
	Transliteration string          `json:"transliteration"`
	Parts           json.RawMessage `json:"parts"`
	PartsOfSpeech   string          `json:"parts_of_speech"`
}

type UpdateWordRequest struct {
	English         string          `json:"english" validate:"required,notblank"`
	Arabic          string          `json:"arabic" validate:"required,notblank"`
	Root            string          `json:"root"`
	Transliteration string          `json:"transliteration"`
	Parts           json.RawMessage `json:"parts"`
	PartsOfSpeech   string          `json:"parts_of_speech"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type AddGroupWordsRequest struct {
	WordIDs []int64 `json:"word_ids" validate:"required,min=1,dive,gt=0"`
}

type RecordStudySessionRequest struct {
	WordID     int64 `json:"word_id" validate:"required,gt=0"`
	GroupID    int64 `json:"group_id" validate:"required,gt=0"`
	ActivityID int64 `json:"activity_id" validate:"required,gt=0"`
	Correct    *bool `json:"correct" validate:"required"`
}

type WordsPage struct {
	Words       []WordWithReviews `json:"words"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
	TotalWords  int               `json:"total_words"`
}

type GroupsPage struct {
	Groups      []Group `json:"groups"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
	TotalGroups int     `json:"total_groups"`
}

type StudySessionsPage struct {
	Sessions   []StudySessionWithDetails `json:"sessions"`
	Total      int                       `json:"total"`
	Page       int                       `json:"page"`
	PerPage    int                       `json:"per_page"`
	TotalPages int                       `json:"total_pages"`
}
