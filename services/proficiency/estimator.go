package proficiency

import (
	"tutor/models"
)

type Rule string

const (
	RuleNone           Rule = "none"
	RuleRichVocabulary Rule = "rich_vocabulary"
	RuleLongSentences  Rule = "long_sentences"
	RuleShortSentences Rule = "short_sentences"
	RuleTerseReply     Rule = "terse_reply"
)

type Result struct {
	Delta      int        `json:"score_change"`
	Rule       Rule       `json:"rule"`
	Indicators Indicators `json:"complexity_indicators"`
}

// Estimate scores an utterance and returns the proficiency delta to apply.
// The rules are evaluated in order and the first match wins. The current
// score is accepted for callers that track it but does not change the result.
func Estimate(utterance string, level models.Level, score int) Result {
	ind := Analyze(utterance)
	res := Result{Rule: RuleNone, Indicators: ind}

	if ind.TokenCount == 0 {
		return res
	}

	switch {
	case ind.Diversity > RichDiversity && ind.MeanTokenLength > LongTokenLength:
		res.Rule = RuleRichVocabulary
		switch level {
		case models.LevelBeginner:
			res.Delta = 5
		case models.LevelIntermediate:
			res.Delta = 3
		}
	case ind.MeanSentenceLength > LongSentenceLen && level == models.LevelBeginner:
		res.Rule = RuleLongSentences
		res.Delta = 3
	case ind.MeanSentenceLength < ShortSentenceLen && level == models.LevelAdvanced:
		res.Rule = RuleShortSentences
		res.Delta = -2
	case ind.TokenCount < TerseTokenCount && (level == models.LevelIntermediate || level == models.LevelAdvanced):
		res.Rule = RuleTerseReply
		res.Delta = -1
	}

	return res
}
