package models

const (
	MasteryMinAttempts    = 5
	MasteryMinRatePercent = 80
	ActiveGroupWindowDays = 30
)

type DashboardStats struct {
	TotalVocabulary   int     `json:"total_vocabulary"`
	TotalWordsStudied int     `json:"total_words_studied"`
	MasteredWords     int     `json:"mastered_words"`
	SuccessRate       float64 `json:"success_rate"`
	TotalSessions     int     `json:"total_sessions"`
	ActiveGroups      int     `json:"active_groups"`
	CurrentStreak     int     `json:"current_streak"`
}
