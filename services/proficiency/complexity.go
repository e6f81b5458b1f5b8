package proficiency

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"tutor/models"
)

// Thresholds shared by the live estimator and content level detection.
const (
	RichDiversity     = 0.8
	LongTokenLength   = 5.0
	LongSentenceLen   = 10.0
	ShortSentenceLen  = 3.0
	TerseTokenCount   = 3
	minDetectedTokens = 50
)

type Indicators struct {
	TokenCount         int     `json:"token_count"`
	UniqueTokens       int     `json:"unique_tokens"`
	Diversity          float64 `json:"vocabulary_diversity"`
	MeanTokenLength    float64 `json:"average_word_length"`
	SentenceCount      int     `json:"sentence_count"`
	MeanSentenceLength float64 `json:"sentence_length"`
	GrammarComplexity  int     `json:"grammar_complexity"`
	QuestionComplexity int     `json:"question_complexity"`
}

// Analyze computes the complexity indicators for a piece of text. Tokens are
// whitespace-separated fields; uniqueness is judged on the lower-cased token
// with surrounding punctuation removed, so "Word," and "word" count once.
func Analyze(text string) Indicators {
	tokens := strings.Fields(text)

	ind := Indicators{
		TokenCount:         len(tokens),
		SentenceCount:      max(1, strings.Count(text, ".")+strings.Count(text, "!")+strings.Count(text, "?")),
		GrammarComplexity:  strings.Count(text, ",") + strings.Count(text, ";") + strings.Count(text, ":"),
		QuestionComplexity: strings.Count(text, "?"),
	}

	if len(tokens) == 0 {
		return ind
	}

	unique := make(map[string]struct{}, len(tokens))
	totalLen := 0
	for _, tok := range tokens {
		totalLen += utf8.RuneCountInString(tok)
		if norm := normalize(tok); norm != "" {
			unique[norm] = struct{}{}
		}
	}

	ind.UniqueTokens = len(unique)
	ind.Diversity = float64(len(unique)) / float64(len(tokens))
	ind.MeanTokenLength = float64(totalLen) / float64(len(tokens))
	ind.MeanSentenceLength = float64(len(tokens)) / float64(ind.SentenceCount)
	return ind
}

// DetectLevel classifies reference material on the same scale the estimator
// uses for learners. It reports false when the text is too short to judge.
func DetectLevel(text string) (models.Level, bool) {
	ind := Analyze(text)
	if ind.TokenCount < minDetectedTokens {
		return "", false
	}

	switch {
	case ind.MeanTokenLength > LongTokenLength && ind.MeanSentenceLength > LongSentenceLen:
		return models.LevelAdvanced, true
	case ind.MeanTokenLength <= LongTokenLength-1 && ind.MeanSentenceLength <= LongSentenceLen:
		return models.LevelBeginner, true
	default:
		return models.LevelIntermediate, true
	}
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimFunc(token, unicode.IsPunct))
}
