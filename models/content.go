package models

import "time"

const (
	DefaultContentType = "lesson"
	LevelAuto          = "auto"
)

type ContentItem struct {
	ID          string    `json:"id" db:"id"`
	Content     string    `json:"content" db:"content"`
	Embedding   []float32 `json:"-" db:"embedding"`
	Subject     string    `json:"subject" db:"subject"`
	Level       Level     `json:"difficulty_level" db:"difficulty_level"`
	ContentType string    `json:"content_type" db:"content_type"`
	Source      string    `json:"source,omitempty" db:"source"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Snippet struct {
	Content     string  `json:"content"`
	Subject     string  `json:"subject"`
	Level       Level   `json:"difficulty_level"`
	ContentType string  `json:"content_type"`
	Score       float64 `json:"score"`
}

// SearchFilters are exact-match predicates; empty fields do not filter.
type SearchFilters struct {
	Subject     string `json:"subject,omitempty"`
	Level       Level  `json:"difficulty_level,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

func (f SearchFilters) Matches(item ContentItem) bool {
	if f.Subject != "" && item.Subject != f.Subject {
		return false
	}
	if f.Level != "" && item.Level != f.Level {
		return false
	}
	if f.ContentType != "" && item.ContentType != f.ContentType {
		return false
	}
	return true
}

type Document struct {
	Content     string `json:"content"`
	Subject     string `json:"subject"`
	Level       string `json:"difficulty_level"`
	ContentType string `json:"content_type"`
	Source      string `json:"source"`
}

type IndexResult struct {
	ChunksStored int   `json:"chunks_stored"`
	Level        Level `json:"difficulty_level"`
}
