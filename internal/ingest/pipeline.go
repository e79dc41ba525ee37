// Package ingest runs inbound messages through archival, dedup,
// classification, extraction and persistence.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finbuddy/smsledger/internal/extract"
	"github.com/finbuddy/smsledger/internal/jobs"
	"github.com/finbuddy/smsledger/internal/ledger"
)

// PipelineStep represents a single step in the ingestion pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Job         *jobs.IngestMessageJob
	MessageHash string
	ArchiveURI  string
	Record      *extract.TransactionRecord
	RecordID    string
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
	log   zerolog.Logger
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(log zerolog.Logger, steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps, log: log}
}

// Execute runs all steps sequentially. A step returning an error
// wrapping jobs.ErrSkip stops the pipeline without failing the job.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
	}
	return nil
}

// Handler adapts the pipeline to the job queue.
func (p *Pipeline) Handler() jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.(*jobs.IngestMessageJob)
		if !ok {
			return fmt.Errorf("unexpected job type %T", job)
		}

		state := &PipelineState{Job: msg}
		err := p.Execute(ctx, state)
		if err != nil {
			p.log.Warn().
				Str("job_id", msg.JobID).
				Str("user_id", msg.UserID).
				Err(err).
				Msg("message not recorded")
			return err
		}

		p.log.Info().
			Str("job_id", msg.JobID).
			Str("user_id", msg.UserID).
			Str("record_id", state.RecordID).
			Msg("message recorded")
		return nil
	}
}

// Deduper is the journal surface the pipeline needs.
type Deduper interface {
	Seen(ctx context.Context, userID, hash string) (bool, error)
	MarkProcessed(ctx context.Context, userID, hash, jobID string) error
}

// RawArchiver is the archive surface the pipeline needs.
type RawArchiver interface {
	Archive(ctx context.Context, userID string, receivedAt time.Time, body string) (string, error)
}

// Classifier decides whether a message is financial.
type Classifier interface {
	IsFinancial(text string) bool
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(text string) bool

// IsFinancial implements Classifier.
func (f ClassifierFunc) IsFinancial(text string) bool { return f(text) }

// RecordExtractor turns a message body into a transaction record.
type RecordExtractor interface {
	Extract(text string) (*extract.TransactionRecord, bool)
}

// NewMessagePipeline assembles the standard six-step ingestion pipeline.
// archiver may be nil when archival is disabled.
func NewMessagePipeline(
	log zerolog.Logger,
	archiver RawArchiver,
	journal Deduper,
	classifier Classifier,
	extractor RecordExtractor,
	records ledger.RecordRepository,
) *Pipeline {
	return NewPipeline(log,
		&DedupStep{Journal: journal},
		&ArchiveRawStep{Archiver: archiver, Log: log},
		&ClassifyStep{Classifier: classifier},
		&ExtractStep{Extractor: extractor},
		&PersistStep{Records: records},
		&JournalStep{Journal: journal},
	)
}

func newRecordID() string {
	return uuid.NewString()
}
