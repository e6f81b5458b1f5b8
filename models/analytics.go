package models

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type UserAnalytics struct {
	TotalSessions      int              `json:"total_sessions"`
	TotalInteractions  int              `json:"total_interactions"`
	AverageImprovement float64          `json:"average_proficiency_improvement"`
	FavoriteSubjects   []SubjectCount   `json:"favorite_subjects"`
	RecentSessions     []SessionSummary `json:"recent_sessions"`
	// LearningTrend holds the most recent improvements, oldest first.
	LearningTrend []int `json:"learning_trend"`
}

type UserAnalyticsResponse struct {
	UserID    string        `json:"user_id"`
	Analytics UserAnalytics `json:"analytics"`
}

type ExperienceRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Feedback
}

type MessageResponse struct {
	Message string `json:"message"`
}
