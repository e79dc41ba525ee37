package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbuddy/smsledger/internal/extract"
	"github.com/finbuddy/smsledger/internal/jobs"
	"github.com/finbuddy/smsledger/internal/ledger"
)

type mockDeduper struct {
	seenFn   func(ctx context.Context, userID, hash string) (bool, error)
	markFn   func(ctx context.Context, userID, hash, jobID string) error
	marked   int
	lastHash string
}

func (m *mockDeduper) Seen(ctx context.Context, userID, hash string) (bool, error) {
	if m.seenFn != nil {
		return m.seenFn(ctx, userID, hash)
	}
	return false, nil
}

func (m *mockDeduper) MarkProcessed(ctx context.Context, userID, hash, jobID string) error {
	m.marked++
	m.lastHash = hash
	if m.markFn != nil {
		return m.markFn(ctx, userID, hash, jobID)
	}
	return nil
}

type mockArchiver struct {
	archiveFn func(ctx context.Context, userID string, receivedAt time.Time, body string) (string, error)
	calls     int
}

func (m *mockArchiver) Archive(ctx context.Context, userID string, receivedAt time.Time, body string) (string, error) {
	m.calls++
	if m.archiveFn != nil {
		return m.archiveFn(ctx, userID, receivedAt, body)
	}
	return "gs://test-bucket/raw/" + userID + "/msg.txt", nil
}

type mockRecordRepo struct {
	insertFn func(ctx context.Context, row *ledger.RecordRow) error
	inserted []*ledger.RecordRow
}

func (m *mockRecordRepo) InsertRecord(ctx context.Context, row *ledger.RecordRow) error {
	m.inserted = append(m.inserted, row)
	if m.insertFn != nil {
		return m.insertFn(ctx, row)
	}
	return nil
}

func (m *mockRecordRepo) QueryRecordsByUser(ctx context.Context, userID string, startDate, endDate time.Time) ([]*ledger.RecordRow, error) {
	return nil, nil
}

func newTestPipeline(archiver RawArchiver, journal Deduper, repo ledger.RecordRepository) *Pipeline {
	return NewMessagePipeline(
		zerolog.Nop(),
		archiver,
		journal,
		ClassifierFunc(extract.IsFinancial),
		extract.NewExtractor(),
		repo,
	)
}

func testJob(body string) *jobs.IngestMessageJob {
	return &jobs.IngestMessageJob{
		JobID:      "job-1",
		UserID:     "user-1",
		Body:       body,
		ReceivedAt: time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC),
	}
}

func TestPipeline_RecordsFinancialMessage(t *testing.T) {
	journal := &mockDeduper{}
	archiver := &mockArchiver{}
	repo := &mockRecordRepo{}
	p := newTestPipeline(archiver, journal, repo)

	job := testJob("A/c XX1234 debited by Rs.500.00 to John Doe on 12-05-24 via UPI Ref 123456")
	state := &PipelineState{Job: job}

	if err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(repo.inserted))
	}
	row := repo.inserted[0]
	if row.Direction != "DEBIT" {
		t.Errorf("Direction = %q, want DEBIT", row.Direction)
	}
	if row.UserID != "user-1" || row.JobID != "job-1" {
		t.Errorf("row identifiers = %q/%q", row.UserID, row.JobID)
	}
	if !row.ArchiveURI.Valid {
		t.Error("expected archive URI on row")
	}
	if !row.ObservedTS.Equal(job.ReceivedAt) {
		t.Errorf("ObservedTS = %v, want receipt time %v", row.ObservedTS, job.ReceivedAt)
	}
	if journal.marked != 1 {
		t.Errorf("journal marked %d times, want 1", journal.marked)
	}
	if state.RecordID == "" {
		t.Error("expected a record ID in pipeline state")
	}
}

func TestPipeline_SkipsDuplicate(t *testing.T) {
	journal := &mockDeduper{
		seenFn: func(ctx context.Context, userID, hash string) (bool, error) { return true, nil },
	}
	archiver := &mockArchiver{}
	repo := &mockRecordRepo{}
	p := newTestPipeline(archiver, journal, repo)

	err := p.Execute(context.Background(), &PipelineState{Job: testJob("debited by Rs.500")})
	if !errors.Is(err, jobs.ErrSkip) {
		t.Fatalf("Execute() error = %v, want ErrSkip", err)
	}
	if archiver.calls != 0 {
		t.Error("archiver called for duplicate message")
	}
	if len(repo.inserted) != 0 {
		t.Error("duplicate message was persisted")
	}
}

func TestPipeline_SkipsNonFinancial(t *testing.T) {
	journal := &mockDeduper{}
	repo := &mockRecordRepo{}
	p := newTestPipeline(&mockArchiver{}, journal, repo)

	err := p.Execute(context.Background(), &PipelineState{Job: testJob("Your OTP is 459201. Do not share it.")})
	if !errors.Is(err, jobs.ErrSkip) {
		t.Fatalf("Execute() error = %v, want ErrSkip", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("non-financial message was persisted")
	}
	if journal.marked != 0 {
		t.Error("skipped message was journaled")
	}
}

func TestPipeline_SkipsFinancialWithoutAmount(t *testing.T) {
	repo := &mockRecordRepo{}
	p := newTestPipeline(&mockArchiver{}, &mockDeduper{}, repo)

	err := p.Execute(context.Background(), &PipelineState{Job: testJob("Your payment is pending")})
	if !errors.Is(err, jobs.ErrSkip) {
		t.Fatalf("Execute() error = %v, want ErrSkip", err)
	}
	if len(repo.inserted) != 0 {
		t.Error("amountless message was persisted")
	}
}

func TestPipeline_ArchiveFailureIsNotFatal(t *testing.T) {
	archiver := &mockArchiver{
		archiveFn: func(ctx context.Context, userID string, receivedAt time.Time, body string) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}
	repo := &mockRecordRepo{}
	p := newTestPipeline(archiver, &mockDeduper{}, repo)

	state := &PipelineState{Job: testJob("credited with Rs.2000 from merchant@upi via NEFT")}
	if err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatal("record not persisted after archive failure")
	}
	if repo.inserted[0].ArchiveURI.Valid {
		t.Error("archive URI set despite failed upload")
	}
}

func TestPipeline_PersistFailurePropagates(t *testing.T) {
	repo := &mockRecordRepo{
		insertFn: func(ctx context.Context, row *ledger.RecordRow) error {
			return errors.New("bigquery unavailable")
		},
	}
	journal := &mockDeduper{}
	p := newTestPipeline(&mockArchiver{}, journal, repo)

	err := p.Execute(context.Background(), &PipelineState{Job: testJob("debited by Rs.500")})
	if err == nil {
		t.Fatal("expected persist failure to propagate")
	}
	if errors.Is(err, jobs.ErrSkip) {
		t.Error("persist failure reported as skip")
	}
	if journal.marked != 0 {
		t.Error("failed message was journaled; retry would be deduped")
	}
}

func TestPipeline_Handler(t *testing.T) {
	repo := &mockRecordRepo{}
	p := newTestPipeline(&mockArchiver{}, &mockDeduper{}, repo)
	handler := p.Handler()

	if err := handler(context.Background(), testJob("debited by Rs.500")); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("inserted %d rows, want 1", len(repo.inserted))
	}
}
