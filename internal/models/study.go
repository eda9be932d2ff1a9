package models

import "time"

const (
	DefaultSessionsPerPage = 10
	MaxSessionsPerPage     = 100
)

type StudyActivity struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"title" db:"name"`
	URL        string `json:"launch_url" db:"url"`
	PreviewURL string `json:"preview_url" db:"preview_url"`
}

type StudySession struct {
	ID         int64     `json:"id" db:"id"`
	WordID     int64     `json:"word_id" db:"word_id"`
	GroupID    int64     `json:"group_id" db:"group_id"`
	ActivityID int64     `json:"activity_id" db:"activity_id"`
	Correct    bool      `json:"correct" db:"correct"`
	StudiedAt  time.Time `json:"timestamp" db:"studied_at"`
}

type StudySessionWithDetails struct {
	StudySession
	WordEnglish  string `json:"word_english" db:"word_english"`
	GroupName    string `json:"group_name" db:"group_name"`
	ActivityName string `json:"activity_name" db:"activity_name"`
}

type WordReviewItem struct {
	ID             int64     `json:"id" db:"id"`
	WordID         int64     `json:"word_id" db:"word_id"`
	StudySessionID int64     `json:"study_session_id" db:"study_session_id"`
	Correct        bool      `json:"correct" db:"correct"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RecentSession is the dashboard view of the latest study session.
type RecentSession struct {
	ID        int64              `json:"id"`
	Word      RecentSessionWord  `json:"word"`
	Group     GroupRef           `json:"group"`
	Activity  RecentSessionEntry `json:"activity"`
	Correct   bool               `json:"correct"`
	Timestamp time.Time          `json:"timestamp"`
}

// RecentSessionResponse is the body of GET /dashboard/recent-session.
type RecentSessionResponse struct {
	Session *RecentSession `json:"session"`
}

type RecentSessionWord struct {
	ID           int64  `json:"id"`
	English      string `json:"english"`
	CorrectCount int    `json:"correct_count"`
	WrongCount   int    `json:"wrong_count"`
}

type RecentSessionEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
