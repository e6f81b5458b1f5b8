package models

import "time"

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

type Strategy string

const (
	StrategyAssessment      Strategy = "assessment"
	StrategyTestPrep        Strategy = "test_prep"
	StrategyConceptTeaching Strategy = "concept_teaching"
	StrategySessionEnding   Strategy = "session_ending"
	StrategyGeneralTeaching Strategy = "general_teaching"
)

const (
	DefaultScore   = 50
	DefaultSubject = "english"
	MinScore       = 0
	MaxScore       = 100

	advancedThreshold     = 75
	intermediateThreshold = 40
)

type Session struct {
	ID               string         `json:"session_id"`
	UserID           string         `json:"user_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UserData         map[string]any `json:"user_data,omitempty"`
	Subject          string         `json:"subject"`
	Level            Level          `json:"difficulty_level"`
	Score            int            `json:"proficiency_score"`
	InitialScore     int            `json:"initial_proficiency"`
	InteractionCount int            `json:"interaction_count"`
	Turns            []Turn         `json:"conversation_history"`
	Status           SessionStatus  `json:"session_status"`
}

type Turn struct {
	Role         Role      `json:"type"`
	Text         string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Level        Level     `json:"proficiency_level,omitempty"`
	Score        int       `json:"proficiency_score,omitempty"`
	Strategy     Strategy  `json:"teaching_strategy,omitempty"`
	SnippetsUsed int       `json:"search_results_used,omitempty"`
}

type SessionSummary struct {
	SessionID         string        `json:"session_id" db:"session_id"`
	UserID            string        `json:"user_id" db:"user_id"`
	Subject           string        `json:"subject" db:"subject"`
	InitialScore      int           `json:"initial_proficiency_score" db:"initial_proficiency_score"`
	FinalScore        int           `json:"final_proficiency_score" db:"final_proficiency_score"`
	Improvement       int           `json:"proficiency_improvement" db:"proficiency_improvement"`
	InitialLevel      Level         `json:"initial_difficulty_level" db:"initial_difficulty_level"`
	FinalLevel        Level         `json:"final_difficulty_level" db:"final_difficulty_level"`
	TotalInteractions int           `json:"total_interactions" db:"total_interactions"`
	MessageCount      int           `json:"message_count" db:"message_count"`
	DurationMinutes   float64       `json:"session_duration_minutes" db:"session_duration_minutes"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	EndedAt           time.Time     `json:"ended_at" db:"ended_at"`
	Status            SessionStatus `json:"session_status" db:"session_status"`
}

// EndedSession is the durable record handed to the history sink.
type EndedSession struct {
	Summary  SessionSummary
	Turns    []Turn
	Feedback *Feedback
}

type Feedback struct {
	Rating                 *int     `json:"rating,omitempty"`
	Feedback               string   `json:"feedback,omitempty"`
	UsefulnessRating       *int     `json:"usefulness_rating,omitempty"`
	DifficultyAppropriate  *bool    `json:"difficulty_appropriate,omitempty"`
	WouldRecommend         *bool    `json:"would_recommend,omitempty"`
	ImprovementSuggestions string   `json:"improvement_suggestions,omitempty"`
	FavoriteFeatures       []string `json:"favorite_features,omitempty"`
}

// ClampScore bounds a proficiency score to [MinScore, MaxScore].
func ClampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// LevelForScore maps a score to exactly one difficulty level. The score is
// clamped first.
func LevelForScore(score int) Level {
	score = ClampScore(score)
	switch {
	case score >= advancedThreshold:
		return LevelAdvanced
	case score >= intermediateThreshold:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func (s *Session) Active() bool {
	return s != nil && s.Status == SessionActive
}

// Clone returns a deep copy so callers can derive a new snapshot without
// touching the original.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Turns = append([]Turn(nil), s.Turns...)
	if s.UserData != nil {
		c.UserData = make(map[string]any, len(s.UserData))
		for k, v := range s.UserData {
			c.UserData[k] = v
		}
	}
	return &c
}

func (f *Feedback) Validate() error {
	if f == nil {
		return nil
	}
	for _, r := range []*int{f.Rating, f.UsefulnessRating} {
		if r != nil && (*r < 1 || *r > 5) {
			return ErrInvalidInput
		}
	}
	return nil
}
