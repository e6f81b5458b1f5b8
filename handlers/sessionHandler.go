package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"tutor/models"
	"tutor/services/session"

	"github.com/gorilla/mux"
)

type SessionHandler struct {
	service *session.Service
}

func NewSessionHandler(service *session.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/session/create", h.CreateSession).Methods("POST")
	router.HandleFunc("/session/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/session/{id}/end", h.EndSession).Methods("POST")
	router.HandleFunc("/session/{id}/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/session/{id}/subject", h.ChangeSubject).Methods("PUT")
	router.HandleFunc("/user/{id}/sessions", h.GetUserSessions).Methods("GET")
	router.HandleFunc("/analytics/user/{id}", h.GetUserAnalytics).Methods("GET")
	router.HandleFunc("/experience", h.StoreExperience).Methods("POST")
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sess, err := h.service.Create(r.Context(), session.CreateParams{
		Subject:  req.Subject,
		UserData: req.UserData,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create session")
		return
	}

	writeJSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		Message:   "Session created successfully",
	})
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve session")
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	var req models.EndSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	summary, err := h.service.End(r.Context(), mux.Vars(r)["id"], req.UserExperience)
	if err != nil {
		writeServiceError(w, err, "Failed to end session")
		return
	}

	writeJSONResponse(w, http.StatusOK, summary)
}

// GetHistory returns the full conversation, or only the matching turns when
// q carries comma-separated search terms.
func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var (
		turns []models.Turn
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		turns, err = h.service.SearchHistory(r.Context(), id, strings.Split(q, ","))
	} else {
		turns, err = h.service.History(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve history")
		return
	}

	writeJSONResponse(w, http.StatusOK, models.HistoryResponse{
		SessionID:         id,
		Turns:             turns,
		TotalInteractions: len(turns),
		Status:            models.SessionActive,
	})
}

func (h *SessionHandler) ChangeSubject(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sess, err := h.service.SetSubject(r.Context(), mux.Vars(r)["id"], req.Subject)
	if err != nil {
		writeServiceError(w, err, "Failed to change subject")
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) GetUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	summaries, err := h.service.UserSessions(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve user sessions")
		return
	}

	writeJSONResponse(w, http.StatusOK, models.UserSessionsResponse{
		UserID:        userID,
		Sessions:      summaries,
		TotalSessions: len(summaries),
	})
}

func (h *SessionHandler) GetUserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	analytics, err := h.service.Analytics(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to compute user analytics")
		return
	}

	writeJSONResponse(w, http.StatusOK, models.UserAnalyticsResponse{
		UserID:    userID,
		Analytics: *analytics,
	})
}

// StoreExperience records feedback without ending the session.
func (h *SessionHandler) StoreExperience(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.service.RecordFeedback(r.Context(), req.SessionID, req.UserID, &req.Feedback); err != nil {
		writeServiceError(w, err, "Failed to store user experience")
		return
	}

	writeJSONResponse(w, http.StatusCreated, models.MessageResponse{Message: "User experience stored successfully"})
}

func sessionResponse(sess *models.Session) models.SessionResponse {
	return models.SessionResponse{
		SessionID:        sess.ID,
		DifficultyLevel:  sess.Level,
		ProficiencyScore: sess.Score,
		Subject:          sess.Subject,
		InteractionCount: sess.InteractionCount,
		Status:           sess.Status,
	}
}
