// Package handlers implements the HTTP endpoints of the ingestion API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbuddy/smsledger/internal/api/middleware"
	"github.com/finbuddy/smsledger/internal/extract"
	"github.com/finbuddy/smsledger/internal/jobs"
	"github.com/finbuddy/smsledger/internal/ledger"
)

// MessagesHandler accepts inbound SMS messages for asynchronous ingestion.
type MessagesHandler struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(publisher jobs.Publisher, log zerolog.Logger) *MessagesHandler {
	return &MessagesHandler{publisher: publisher, log: log}
}

// SubmitMessage handles POST /api/v1/messages.
func (h *MessagesHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender     string    `json:"sender"`
		Body       string    `json:"body"`
		ReceivedAt time.Time `json:"received_at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Body == "" {
		middleware.WriteError(w, http.StatusBadRequest, "body is required")
		return
	}

	userID, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "missing user")
		return
	}

	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = time.Now()
	}

	job := &jobs.IngestMessageJob{
		UserID:     userID,
		Sender:     req.Sender,
		Body:       req.Body,
		ReceivedAt: req.ReceivedAt,
	}

	if err := h.publisher.PublishIngestMessage(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue message")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue message")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("user_id", userID).Msg("Message enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// ExtractPreview handles POST /api/v1/messages/preview. It runs
// classification and extraction synchronously without persisting
// anything, mainly for debugging message templates.
func (h *MessagesHandler) ExtractPreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Body == "" {
		middleware.WriteError(w, http.StatusBadRequest, "body is required")
		return
	}

	financial := extract.IsFinancial(req.Body)

	resp := map[string]interface{}{
		"financial": financial,
	}
	if financial {
		if rec, ok := extract.NewExtractor().Extract(req.Body); ok {
			resp["record"] = rec
		}
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// RecordsHandler serves persisted transaction records.
type RecordsHandler struct {
	repo ledger.RecordRepository
	log  zerolog.Logger
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(repo ledger.RecordRepository, log zerolog.Logger) *RecordsHandler {
	return &RecordsHandler{repo: repo, log: log}
}

// ListRecords handles GET /api/v1/records.
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "missing user")
		return
	}

	query := r.URL.Query()
	startDateStr := query.Get("start_date")
	endDateStr := query.Get("end_date")

	var startDate, endDate time.Time
	var err error

	if startDateStr != "" {
		startDate, err = time.Parse("2006-01-02", startDateStr)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid start_date format")
			return
		}
	} else {
		startDate = time.Now().AddDate(-1, 0, 0)
	}

	if endDateStr != "" {
		endDate, err = time.Parse("2006-01-02", endDateStr)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid end_date format")
			return
		}
	} else {
		endDate = time.Now()
	}

	records, err := h.repo.QueryRecordsByUser(ctx, userID, startDate, endDate)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query records")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query records")
		return
	}

	if records == nil {
		records = []*ledger.RecordRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// JobsHandler serves ingestion job status.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/v1/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	userID, _ := middleware.UserFromContext(ctx)
	if job.UserID != userID {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/v1/jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "missing user")
		return
	}

	query := r.URL.Query()
	filter := jobs.JobFilter{
		UserID: userID,
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
