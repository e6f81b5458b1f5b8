package tutor

import (
	"strings"

	"tutor/models"
)

// assessmentTurns is how many exchanges are spent gauging a new student
// before keyword routing applies.
const assessmentTurns = 3

var (
	testPrepKeywords = []string{"test", "quiz", "exam", "practice"}
	questionKeywords = []string{"what", "how", "why", "when", "where"}
	endingKeywords   = []string{"bye", "goodbye", "end", "finish", "stop", "done"}
)

// SelectStrategy picks the teaching strategy for a reply. Rules are checked
// in order and keywords match as substrings of the lower-cased utterance.
func SelectStrategy(interactionCount int, utterance string) models.Strategy {
	text := strings.ToLower(utterance)

	switch {
	case interactionCount < assessmentTurns:
		return models.StrategyAssessment
	case containsAny(text, testPrepKeywords):
		return models.StrategyTestPrep
	case strings.Contains(text, "?") || containsAny(text, questionKeywords):
		return models.StrategyConceptTeaching
	case containsAny(text, endingKeywords):
		return models.StrategySessionEnding
	default:
		return models.StrategyGeneralTeaching
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
