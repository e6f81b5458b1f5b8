package session

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"tutor/models"

	"github.com/samber/lo"
)

const (
	analyticsSessionLimit = 50
	recentSessionCount    = 5
	learningTrendLength   = 10
)

// Analytics summarises the user's most recent ended sessions.
func (s *Service) Analytics(ctx context.Context, userID string) (*models.UserAnalytics, error) {
	log.Printf("[INFO] Starting analytics for user %s", userID)

	summaries, err := s.UserSessions(ctx, userID, analyticsSessionLimit)
	if err != nil {
		return nil, err
	}

	analytics := summarize(summaries)
	log.Printf("[INFO] Successfully computed analytics for user %s over %d sessions",
		userID, analytics.TotalSessions)
	return &analytics, nil
}

// RecordFeedback stores feedback for a session without ending it. The session
// does not need to be live.
func (s *Service) RecordFeedback(ctx context.Context, sessionID, userID string, feedback *models.Feedback) error {
	log.Printf("[INFO] Storing feedback for session %s", sessionID)

	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: session id and user id are required", models.ErrInvalidInput)
	}
	if feedback == nil {
		return fmt.Errorf("%w: feedback is required", models.ErrInvalidInput)
	}
	if err := feedback.Validate(); err != nil {
		return fmt.Errorf("%w: ratings must be between 1 and 5", err)
	}

	if err := s.history.SaveFeedback(ctx, sessionID, userID, feedback); err != nil {
		log.Printf("[ERROR] Failed to store feedback for session %s: %v", sessionID, err)
		return fmt.Errorf("%w: failed to store feedback: %w", models.ErrPersistence, err)
	}

	log.Printf("[INFO] Successfully stored feedback for session %s", sessionID)
	return nil
}

// summarize expects summaries newest first, as the history sink lists them.
func summarize(summaries []models.SessionSummary) models.UserAnalytics {
	analytics := models.UserAnalytics{
		TotalSessions: len(summaries),
		TotalInteractions: lo.SumBy(summaries, func(s models.SessionSummary) int {
			return s.TotalInteractions
		}),
		FavoriteSubjects: favoriteSubjects(summaries),
		RecentSessions:   append([]models.SessionSummary{}, summaries[:min(recentSessionCount, len(summaries))]...),
		LearningTrend:    learningTrend(summaries),
	}

	if len(summaries) > 0 {
		total := lo.SumBy(summaries, func(s models.SessionSummary) int { return s.Improvement })
		analytics.AverageImprovement = math.Round(float64(total)/float64(len(summaries))*100) / 100
	}

	return analytics
}

// favoriteSubjects orders subjects by session count; equal counts sort by name.
func favoriteSubjects(summaries []models.SessionSummary) []models.SubjectCount {
	subjects := lo.FilterMap(summaries, func(s models.SessionSummary, _ int) (string, bool) {
		return s.Subject, s.Subject != ""
	})

	counts := lo.CountValues(subjects)
	favorites := make([]models.SubjectCount, 0, len(counts))
	for subject, n := range counts {
		favorites = append(favorites, models.SubjectCount{Subject: subject, Count: n})
	}

	sort.Slice(favorites, func(i, j int) bool {
		if favorites[i].Count != favorites[j].Count {
			return favorites[i].Count > favorites[j].Count
		}
		return favorites[i].Subject < favorites[j].Subject
	})
	return favorites
}

func learningTrend(summaries []models.SessionSummary) []int {
	n := min(learningTrendLength, len(summaries))
	trend := make([]int, n)
	for i := 0; i < n; i++ {
		trend[n-1-i] = summaries[i].Improvement
	}
	return trend
}
