package proficiency

import (
	"strings"
	"testing"

	"tutor/models"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	const (
		rich  = "Photosynthesis transforms luminous energy into chemical sustenance."
		long  = "I like to go to the park and I like to play with my dog and my cat"
		short = "Yes. No. Maybe."
		terse = "ok sure"
	)

	tests := []struct {
		name      string
		utterance string
		level     models.Level
		wantDelta int
		wantRule  Rule
	}{
		{"rich vocabulary beginner", rich, models.LevelBeginner, 5, RuleRichVocabulary},
		{"rich vocabulary intermediate", rich, models.LevelIntermediate, 3, RuleRichVocabulary},
		{"rich vocabulary advanced has no headroom", rich, models.LevelAdvanced, 0, RuleRichVocabulary},
		{"long sentences beginner", long, models.LevelBeginner, 3, RuleLongSentences},
		{"long sentences only count for beginners", long, models.LevelIntermediate, 0, RuleNone},
		{"short sentences advanced", short, models.LevelAdvanced, -2, RuleShortSentences},
		{"short sentences ignored below advanced", short, models.LevelBeginner, 0, RuleNone},
		{"terse reply intermediate", terse, models.LevelIntermediate, -1, RuleTerseReply},
		{"terse reply advanced hits short sentences first", terse, models.LevelAdvanced, -2, RuleShortSentences},
		{"terse reply beginner", terse, models.LevelBeginner, 0, RuleNone},
		{"punctuation only intermediate", "?!", models.LevelIntermediate, -1, RuleTerseReply},
		{"punctuation only advanced", "?!", models.LevelAdvanced, -2, RuleShortSentences},
		{"punctuation only beginner", "?!", models.LevelBeginner, 0, RuleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Estimate(tt.utterance, tt.level, models.DefaultScore)
			assert.Equal(t, tt.wantRule, res.Rule)
			assert.Equal(t, tt.wantDelta, res.Delta)
		})
	}
}

func TestEstimateEmptyUtterance(t *testing.T) {
	for _, level := range []models.Level{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced} {
		for _, utterance := range []string{"", "   ", "\n\t"} {
			res := Estimate(utterance, level, models.DefaultScore)
			assert.Equal(t, 0, res.Delta, "level %s utterance %q", level, utterance)
			assert.Equal(t, RuleNone, res.Rule)
		}
	}
}

func TestEstimateMisspelledBeginnerUtterance(t *testing.T) {
	res := Estimate("I dont no what too do", models.LevelBeginner, 50)

	assert.Equal(t, 6, res.Indicators.TokenCount)
	assert.InDelta(t, 1.0, res.Indicators.Diversity, 1e-9)
	assert.InDelta(t, 16.0/6.0, res.Indicators.MeanTokenLength, 1e-9)
	assert.InDelta(t, 6.0, res.Indicators.MeanSentenceLength, 1e-9)

	// Diverse but short words: the vocabulary rule needs both conditions.
	assert.Equal(t, RuleNone, res.Rule)
	assert.Equal(t, 0, res.Delta)

	score := models.ClampScore(50 + res.Delta)
	assert.Equal(t, 50, score)
	assert.Equal(t, models.LevelIntermediate, models.LevelForScore(score))
}

func TestAnalyze(t *testing.T) {
	ind := Analyze("Well, the test: is it hard? Yes; very hard!")

	assert.Equal(t, 9, ind.TokenCount)
	assert.Equal(t, 2, ind.SentenceCount)
	assert.Equal(t, 3, ind.GrammarComplexity)
	assert.Equal(t, 1, ind.QuestionComplexity)
	// "hard?" and "hard!" normalise to the same token.
	assert.Equal(t, 8, ind.UniqueTokens)
}

func TestDetectLevel(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   models.Level
		wantOK bool
	}{
		{
			name:   "too short to judge",
			text:   "A short note.",
			wantOK: false,
		},
		{
			name:   "simple sentences",
			text:   strings.Repeat("The cat sat. ", 20),
			want:   models.LevelBeginner,
			wantOK: true,
		},
		{
			name:   "moderate prose",
			text:   strings.Repeat("The students reviewed their notes before class. ", 9),
			want:   models.LevelIntermediate,
			wantOK: true,
		},
		{
			name:   "dense academic prose",
			text:   strings.Repeat("comprehensive architectural considerations necessitate meticulous evaluation ", 10),
			want:   models.LevelAdvanced,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectLevel(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
