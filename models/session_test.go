package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampScoreAndLevel(t *testing.T) {
	for s := -200; s <= 300; s++ {
		clamped := ClampScore(s)
		assert.GreaterOrEqual(t, clamped, MinScore)
		assert.LessOrEqual(t, clamped, MaxScore)

		level := LevelForScore(s)
		matches := 0
		if clamped >= 75 && level == LevelAdvanced {
			matches++
		}
		if clamped >= 40 && clamped < 75 && level == LevelIntermediate {
			matches++
		}
		if clamped < 40 && level == LevelBeginner {
			matches++
		}
		assert.Equal(t, 1, matches, "score %d mapped to %s", s, level)
	}
}

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelBeginner},
		{39, LevelBeginner},
		{40, LevelIntermediate},
		{50, LevelIntermediate},
		{74, LevelIntermediate},
		{75, LevelAdvanced},
		{100, LevelAdvanced},
		{150, LevelAdvanced},
		{-10, LevelBeginner},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestSessionCloneIsIndependent(t *testing.T) {
	s := &Session{
		ID:       "abc",
		Turns:    []Turn{{Role: RoleStudent, Text: "hi"}},
		UserData: map[string]any{"name": "sam"},
	}

	c := s.Clone()
	c.Turns = append(c.Turns, Turn{Role: RoleTeacher, Text: "hello"})
	c.Turns[0].Text = "changed"
	c.UserData["name"] = "alex"

	assert.Len(t, s.Turns, 1)
	assert.Equal(t, "hi", s.Turns[0].Text)
	assert.Equal(t, "sam", s.UserData["name"])
}

func TestSearchFiltersMatches(t *testing.T) {
	item := ContentItem{Subject: "english", Level: LevelBeginner, ContentType: "lesson"}

	assert.True(t, SearchFilters{}.Matches(item))
	assert.True(t, SearchFilters{Subject: "english", Level: LevelBeginner}.Matches(item))
	assert.False(t, SearchFilters{Subject: "math"}.Matches(item))
	assert.False(t, SearchFilters{Level: LevelAdvanced}.Matches(item))
	assert.False(t, SearchFilters{ContentType: "pdf_page"}.Matches(item))
	// Exact match only.
	assert.False(t, SearchFilters{Subject: "English"}.Matches(item))
}

func TestFeedbackValidate(t *testing.T) {
	good, bad := 4, 9
	assert.NoError(t, (*Feedback)(nil).Validate())
	assert.NoError(t, (&Feedback{Rating: &good}).Validate())
	assert.ErrorIs(t, (&Feedback{UsefulnessRating: &bad}).Validate(), ErrInvalidInput)
}
