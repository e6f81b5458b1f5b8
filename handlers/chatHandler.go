package handlers

import (
	"net/http"
	"strings"

	"tutor/models"
	"tutor/services/tutor"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	service *tutor.Service
}

func NewChatHandler(service *tutor.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat", h.Chat).Methods("POST")
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Message) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	reply, err := h.service.Respond(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeServiceError(w, err, "Failed to process message")
		return
	}

	writeJSONResponse(w, http.StatusOK, reply)
}
