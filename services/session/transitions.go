package session

import (
	"time"

	"tutor/models"
)

// The functions below never modify their input; each returns a new snapshot
// that the service writes back as a whole.

func newSession(id, userID, subject string, userData map[string]any, now time.Time) *models.Session {
	return &models.Session{
		ID:           id,
		UserID:       userID,
		CreatedAt:    now,
		UserData:     userData,
		Subject:      subject,
		Score:        models.DefaultScore,
		InitialScore: models.DefaultScore,
		Level:        models.LevelForScore(models.DefaultScore),
		Turns:        []models.Turn{},
		Status:       models.SessionActive,
	}
}

func withDelta(s *models.Session, delta int) *models.Session {
	next := s.Clone()
	next.Score = models.ClampScore(s.Score + delta)
	next.Level = models.LevelForScore(next.Score)
	return next
}

func withTurn(s *models.Session, turn models.Turn) *models.Session {
	next := s.Clone()
	next.Turns = append(next.Turns, turn)
	return next
}

// withExchange records one student/teacher exchange and counts it as a
// single interaction.
func withExchange(s *models.Session, student, teacher models.Turn) *models.Session {
	next := s.Clone()
	next.Turns = append(next.Turns, student, teacher)
	next.InteractionCount++
	return next
}

func withSubject(s *models.Session, subject string) *models.Session {
	next := s.Clone()
	next.Subject = subject
	return next
}

func ended(s *models.Session, now time.Time) (*models.Session, models.SessionSummary) {
	next := s.Clone()
	next.Status = models.SessionEnded

	summary := models.SessionSummary{
		SessionID:         s.ID,
		UserID:            s.UserID,
		Subject:           s.Subject,
		InitialScore:      s.InitialScore,
		FinalScore:        s.Score,
		Improvement:       s.Score - s.InitialScore,
		InitialLevel:      models.LevelForScore(s.InitialScore),
		FinalLevel:        s.Level,
		TotalInteractions: s.InteractionCount,
		MessageCount:      len(s.Turns),
		DurationMinutes:   now.Sub(s.CreatedAt).Minutes(),
		CreatedAt:         s.CreatedAt,
		EndedAt:           now,
		Status:            models.SessionEnded,
	}

	return next, summary
}
