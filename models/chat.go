package models

type CreateSessionRequest struct {
	UserData map[string]any `json:"user_data"`
	Subject  string         `json:"subject,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type SessionResponse struct {
	SessionID        string        `json:"session_id"`
	DifficultyLevel  Level         `json:"difficulty_level"`
	ProficiencyScore int           `json:"proficiency_score"`
	Subject          string        `json:"subject"`
	InteractionCount int           `json:"interaction_count"`
	Status           SessionStatus `json:"session_status"`
}

type EndSessionRequest struct {
	UserExperience *Feedback `json:"user_experience"`
}

type HistoryResponse struct {
	SessionID         string        `json:"session_id"`
	Turns             []Turn        `json:"conversation_history"`
	TotalInteractions int           `json:"total_interactions"`
	Status            SessionStatus `json:"session_status"`
}

type ChangeSubjectRequest struct {
	Subject string `json:"subject"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type Reply struct {
	Response         string   `json:"response"`
	SessionID        string   `json:"session_id"`
	DifficultyLevel  Level    `json:"difficulty_level"`
	ProficiencyScore int      `json:"proficiency_score"`
	Strategy         Strategy `json:"teaching_strategy"`
	InteractionCount int      `json:"interaction_count"`
	SnippetsUsed     int      `json:"search_results_used"`
}

type SearchRequest struct {
	Query           string `json:"query"`
	Subject         string `json:"subject,omitempty"`
	DifficultyLevel Level  `json:"difficulty_level,omitempty"`
	ContentType     string `json:"content_type,omitempty"`
	Limit           int    `json:"limit,omitempty"`
}

type SearchResponse struct {
	Query        string    `json:"query"`
	ResultsCount int       `json:"results_count"`
	Results      []Snippet `json:"results"`
}

type UserSessionsResponse struct {
	UserID        string           `json:"user_id"`
	Sessions      []SessionSummary `json:"sessions"`
	TotalSessions int              `json:"total_sessions"`
}
