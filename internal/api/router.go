// Package api mounts the HTTP surface of the ingestion service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/finbuddy/smsledger/internal/api/handlers"
	"github.com/finbuddy/smsledger/internal/api/middleware"
	"github.com/finbuddy/smsledger/internal/jobs"
	"github.com/finbuddy/smsledger/internal/ledger"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	publisher jobs.Publisher,
	store jobs.JobStore,
	records ledger.RecordRepository,
	log zerolog.Logger,
) http.Handler {
	messagesHandler := handlers.NewMessagesHandler(publisher, log)
	recordsHandler := handlers.NewRecordsHandler(records, log)
	jobsHandler := handlers.NewJobsHandler(store, log)

	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Post("/messages", messagesHandler.SubmitMessage)
		r.Post("/messages/preview", messagesHandler.ExtractPreview)

		r.Get("/records", recordsHandler.ListRecords)

		r.Get("/jobs", jobsHandler.ListJobs)
		r.Get("/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
			jobsHandler.GetJob(w, req, chi.URLParam(req, "id"))
		})
	})

	return r
}
