package tutor

import (
	"fmt"
	"strings"

	"tutor/models"
)

const (
	contextSnippets      = 3
	snippetChars         = 200
	recentTurns          = 6
	turnChars            = 100
	noContextMessage     = "No specific context found."
	firstExchangeMessage = "This is the beginning of the conversation."
)

// BuildPrompt assembles the user message sent alongside the strategy
// instruction: reference material, the recent conversation and the
// student's standing.
func BuildPrompt(session *models.Session, utterance string, snippets []models.Snippet) string {
	return fmt.Sprintf(`Context from knowledge base:
%s

Recent conversation:
%s

Student's current level: %s
Student's proficiency score: %d/100
Total interactions in session: %d
Student's message: %s

Reply in a way that fits the student's proficiency level and learning needs.`,
		buildContext(snippets),
		buildConversation(session.Turns),
		session.Level,
		session.Score,
		session.InteractionCount,
		utterance)
}

func buildContext(snippets []models.Snippet) string {
	if len(snippets) == 0 {
		return noContextMessage
	}

	parts := make([]string, 0, contextSnippets)
	for _, s := range snippets[:min(contextSnippets, len(snippets))] {
		parts = append(parts, "- "+truncate(s.Content, snippetChars))
	}
	return strings.Join(parts, "\n")
}

func buildConversation(turns []models.Turn) string {
	if len(turns) == 0 {
		return firstExchangeMessage
	}

	recent := turns[max(0, len(turns)-recentTurns):]
	parts := make([]string, 0, len(recent))
	for _, t := range recent {
		speaker := "Teacher"
		if t.Role == models.RoleStudent {
			speaker = "Student"
		}
		parts = append(parts, speaker+": "+truncate(t.Text, turnChars))
	}
	return strings.Join(parts, "\n")
}

// truncate cuts s to n runes and marks the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
