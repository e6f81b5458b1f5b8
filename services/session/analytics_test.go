package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tutor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	// Newest first.
	summaries := []models.SessionSummary{
		{SessionID: "s4", Subject: "grammar", TotalInteractions: 4, Improvement: 5},
		{SessionID: "s3", Subject: "english", TotalInteractions: 2, Improvement: -1},
		{SessionID: "s2", Subject: "grammar", TotalInteractions: 6, Improvement: 3},
		{SessionID: "s1", Subject: "english", TotalInteractions: 1, Improvement: 0},
		{SessionID: "s0", Subject: "vocabulary", TotalInteractions: 0, Improvement: 2},
		{SessionID: "s-1", Subject: "", TotalInteractions: 3, Improvement: 1},
	}

	got := summarize(summaries)

	assert.Equal(t, 6, got.TotalSessions)
	assert.Equal(t, 16, got.TotalInteractions)
	assert.InDelta(t, 1.67, got.AverageImprovement, 1e-9)
	assert.Equal(t, []models.SubjectCount{
		{Subject: "english", Count: 2},
		{Subject: "grammar", Count: 2},
		{Subject: "vocabulary", Count: 1},
	}, got.FavoriteSubjects)

	require.Len(t, got.RecentSessions, 5)
	assert.Equal(t, "s4", got.RecentSessions[0].SessionID)
	assert.Equal(t, "s0", got.RecentSessions[4].SessionID)

	assert.Equal(t, []int{1, 2, 0, 3, -1, 5}, got.LearningTrend)
}

func TestSummarizeCapsTrend(t *testing.T) {
	summaries := make([]models.SessionSummary, 0, 15)
	for i := 15; i > 0; i-- {
		summaries = append(summaries, models.SessionSummary{SessionID: fmt.Sprintf("s%d", i), Improvement: i})
	}

	got := summarize(summaries)
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, got.LearningTrend)
}

func TestSummarizeEmpty(t *testing.T) {
	got := summarize(nil)

	assert.Zero(t, got.TotalSessions)
	assert.Zero(t, got.TotalInteractions)
	assert.Zero(t, got.AverageImprovement)
	assert.NotNil(t, got.FavoriteSubjects)
	assert.Empty(t, got.FavoriteSubjects)
	assert.NotNil(t, got.RecentSessions)
	assert.Empty(t, got.RecentSessions)
	assert.NotNil(t, got.LearningTrend)
	assert.Empty(t, got.LearningTrend)
}

func TestAnalyticsUsesEndedSessions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, delta := range []int{4, -2} {
		sess, err := svc.Create(ctx, CreateParams{UserID: "learner"})
		require.NoError(t, err)
		_, err = svc.ApplyProficiencyDelta(ctx, sess.ID, delta)
		require.NoError(t, err)
		_, err = svc.AppendExchange(ctx, sess.ID, turn(models.RoleStudent, "a"), turn(models.RoleTeacher, "b"))
		require.NoError(t, err)
		_, err = svc.End(ctx, sess.ID, nil)
		require.NoError(t, err)
	}

	got, err := svc.Analytics(ctx, "learner")
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, 2, got.TotalInteractions)
	assert.InDelta(t, 1.0, got.AverageImprovement, 1e-9)
	assert.Equal(t, []models.SubjectCount{{Subject: models.DefaultSubject, Count: 2}}, got.FavoriteSubjects)

	_, err = svc.Analytics(ctx, " ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRecordFeedback(t *testing.T) {
	svc, _, history := newTestService(t)
	ctx := context.Background()

	rating, bad := 4, 0
	recommend := true
	err := svc.RecordFeedback(ctx, "session-1", "learner", &models.Feedback{Rating: &rating, WouldRecommend: &recommend})
	require.NoError(t, err)
	require.Len(t, history.feedback, 1)
	assert.Equal(t, "session-1", history.feedback[0].sessionID)
	assert.Equal(t, "learner", history.feedback[0].userID)
	assert.Equal(t, 4, *history.feedback[0].feedback.Rating)
	assert.Empty(t, history.saved)

	tests := []struct {
		name      string
		sessionID string
		userID    string
		feedback  *models.Feedback
	}{
		{"missing session", "", "learner", &models.Feedback{}},
		{"missing user", "session-1", "", &models.Feedback{}},
		{"missing feedback", "session-1", "learner", nil},
		{"rating out of range", "session-1", "learner", &models.Feedback{Rating: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.RecordFeedback(ctx, tt.sessionID, tt.userID, tt.feedback)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
	assert.Len(t, history.feedback, 1)

	history.failErr = errors.New("connection refused")
	err = svc.RecordFeedback(ctx, "session-1", "learner", &models.Feedback{Rating: &rating})
	assert.ErrorIs(t, err, models.ErrPersistence)
}
