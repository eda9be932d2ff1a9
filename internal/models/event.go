package models

type StudySessionRecordedEvent struct {
	EventID    string `json:"event_id"`
	SessionID  int64  `json:"session_id"`
	WordID     int64  `json:"word_id"`
	GroupID    int64  `json:"group_id"`
	ActivityID int64  `json:"activity_id"`
	Correct    bool   `json:"correct"`
	Timestamp  int64  `json:"timestamp"`
}
