package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/finbuddy/smsledger/internal/jobs"
	"github.com/finbuddy/smsledger/internal/journal"
	"github.com/finbuddy/smsledger/internal/ledger"
)

// Step 1: DedupStep drops messages the journal has already seen.
type DedupStep struct {
	Journal Deduper
}

func (s *DedupStep) Execute(ctx context.Context, state *PipelineState) error {
	state.MessageHash = journal.Hash(state.Job.Body)

	seen, err := s.Journal.Seen(ctx, state.Job.UserID, state.MessageHash)
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if seen {
		return fmt.Errorf("duplicate message: %w", jobs.ErrSkip)
	}
	return nil
}

// Step 2: ArchiveRawStep stores the raw message body before any
// interpretation happens. Archival failure is logged, not fatal; losing
// the replay copy is preferable to losing the record.
type ArchiveRawStep struct {
	Archiver RawArchiver
	Log      zerolog.Logger
}

func (s *ArchiveRawStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Archiver == nil {
		return nil
	}

	uri, err := s.Archiver.Archive(ctx, state.Job.UserID, state.Job.ReceivedAt, state.Job.Body)
	if err != nil {
		s.Log.Warn().
			Str("job_id", state.Job.JobID).
			Err(err).
			Msg("raw message archival failed")
		return nil
	}

	state.ArchiveURI = uri
	state.Job.ArchiveURI = uri
	return nil
}

// Step 3: ClassifyStep skips non-financial messages.
type ClassifyStep struct {
	Classifier Classifier
}

func (s *ClassifyStep) Execute(ctx context.Context, state *PipelineState) error {
	if !s.Classifier.IsFinancial(state.Job.Body) {
		return fmt.Errorf("non-financial message: %w", jobs.ErrSkip)
	}
	return nil
}

// Step 4: ExtractStep parses the message into a transaction record.
// A financial message that yields no record (e.g. no amount) is skipped,
// not failed, since retrying cannot change the outcome.
type ExtractStep struct {
	Extractor RecordExtractor
}

func (s *ExtractStep) Execute(ctx context.Context, state *PipelineState) error {
	rec, ok := s.Extractor.Extract(state.Job.Body)
	if !ok {
		return fmt.Errorf("no extractable transaction: %w", jobs.ErrSkip)
	}

	if !state.Job.ReceivedAt.IsZero() {
		rec.ObservedAt = state.Job.ReceivedAt
	}
	state.Record = rec
	return nil
}

// Step 5: PersistStep writes the record to the ledger.
type PersistStep struct {
	Records ledger.RecordRepository
}

func (s *PersistStep) Execute(ctx context.Context, state *PipelineState) error {
	state.RecordID = newRecordID()

	row := ledger.FromTransaction(state.RecordID, state.Job.UserID, state.Job.JobID, state.ArchiveURI, state.Record)
	if err := s.Records.InsertRecord(ctx, row); err != nil {
		return fmt.Errorf("persist record: %w", err)
	}
	return nil
}

// Step 6: JournalStep marks the message processed so replays are dropped.
type JournalStep struct {
	Journal Deduper
}

func (s *JournalStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := s.Journal.MarkProcessed(ctx, state.Job.UserID, state.MessageHash, state.Job.JobID); err != nil {
		return fmt.Errorf("journal mark: %w", err)
	}
	return nil
}
