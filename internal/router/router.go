package router

import (
	"net/http"

	"github.com/BerylCAtieno/document-summary-assistant/internal/handlers"
	"github.com/BerylCAtieno/document-summary-assistant/internal/middleware"
	"github.com/BerylCAtieno/document-summary-assistant/internal/services"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(summaryService services.SummaryService, logger *utils.Logger, maxFileSize int64) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	h := handlers.NewSummaryHandler(summaryService, logger, maxFileSize)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Session endpoints
	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/document", h.SelectDocument).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/document", h.ClearDocument).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/length", h.SetLength).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/generate", h.Generate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/summary", h.GetSessionSummary).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/history", h.GetSessionHistory).Methods(http.MethodGet)

	// One-shot summary endpoints
	api.HandleFunc("/summaries", h.Summarize).Methods(http.MethodPost)
	api.HandleFunc("/summaries", h.ListSummaries).Methods(http.MethodGet)
	api.HandleFunc("/summaries/{id}", h.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/summaries/{id}/document", h.GetSummaryDocument).Methods(http.MethodGet)

	// CORS wraps the whole router so preflights for any route are answered
	return middleware.CORS()(r)
}
