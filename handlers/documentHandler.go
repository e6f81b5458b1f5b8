package handlers

import (
	"net/http"
	"strings"

	"tutor/models"
	"tutor/services/retrieval"

	"github.com/gorilla/mux"
)

type DocumentHandler struct {
	engine  *retrieval.Engine
	indexer *retrieval.Indexer
}

func NewDocumentHandler(engine *retrieval.Engine, indexer *retrieval.Indexer) *DocumentHandler {
	return &DocumentHandler{engine: engine, indexer: indexer}
}

func (h *DocumentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/documents/search", h.Search).Methods("POST")
	router.HandleFunc("/documents", h.AddDocument).Methods("POST")
}

func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.engine.Search(r.Context(), req.Query, models.SearchFilters{
		Subject:     req.Subject,
		Level:       req.DifficultyLevel,
		ContentType: req.ContentType,
	}, req.Limit)
	if err != nil {
		writeServiceError(w, err, "Failed to search documents")
		return
	}

	writeJSONResponse(w, http.StatusOK, models.SearchResponse{
		Query:        req.Query,
		ResultsCount: len(results),
		Results:      results,
	})
}

func (h *DocumentHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := decodeJSON(r, &doc); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	result, err := h.indexer.Index(r.Context(), doc)
	if err != nil {
		writeServiceError(w, err, "Failed to index document")
		return
	}

	writeJSONResponse(w, http.StatusCreated, result)
}
