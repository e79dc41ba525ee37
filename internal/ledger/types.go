// Package ledger persists extracted transaction records to BigQuery,
// split into debit and credit tables per user.
package ledger

import (
	"context"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/finbuddy/smsledger/internal/extract"
)

// RecordRow represents an extracted transaction record in BigQuery.
// The same schema is used for both the debit and credit tables.
type RecordRow struct {
	RecordID string `bigquery:"record_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED
	JobID  string `bigquery:"job_id"`  // NULLABLE

	Direction string `bigquery:"direction"` // REQUIRED

	Amount       *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC
	BalanceAfter *big.Rat `bigquery:"balance_after"`

	AccountReference  string              `bigquery:"account_reference"`
	CounterpartyName  string              `bigquery:"counterparty_name"`
	TransferMode      string              `bigquery:"transfer_mode"`
	PaymentIdentifier bigquery.NullString `bigquery:"payment_identifier"`
	ReferenceNumber   bigquery.NullString `bigquery:"reference_number"`

	ArchiveURI bigquery.NullString `bigquery:"archive_uri"`

	ObservedDate civil.Date `bigquery:"observed_date"` // partition column
	ObservedTS   time.Time  `bigquery:"observed_ts"`
	RecordedTS   time.Time  `bigquery:"recorded_ts"`
}

// RecordRepository provides an interface for record persistence, so the
// ingest pipeline can run against a fake in tests.
type RecordRepository interface {
	// InsertRecord writes a row to the debit or credit table chosen by
	// the row's direction.
	InsertRecord(ctx context.Context, row *RecordRow) error

	// QueryRecordsByUser returns the user's records within the date
	// range, both directions merged, ordered by observation time.
	QueryRecordsByUser(ctx context.Context, userID string, startDate, endDate time.Time) ([]*RecordRow, error)
}

// FromTransaction maps an extracted record to a BigQuery row.
func FromTransaction(recordID, userID, jobID, archiveURI string, rec *extract.TransactionRecord) *RecordRow {
	row := &RecordRow{
		RecordID:         recordID,
		UserID:           userID,
		JobID:            jobID,
		Direction:        string(rec.Direction),
		Amount:           new(big.Rat).SetFloat64(rec.Amount),
		AccountReference: rec.AccountReference,
		CounterpartyName: rec.CounterpartyName,
		TransferMode:     string(rec.TransferMode),
		ObservedDate:     civil.DateOf(rec.ObservedAt),
		ObservedTS:       rec.ObservedAt,
		RecordedTS:       rec.RecordedAt,
	}

	if rec.PaymentIdentifier != "" {
		row.PaymentIdentifier = bigquery.NullString{StringVal: rec.PaymentIdentifier, Valid: true}
	}
	if rec.ReferenceNumber != "" {
		row.ReferenceNumber = bigquery.NullString{StringVal: rec.ReferenceNumber, Valid: true}
	}
	if rec.BalanceAfter != nil {
		row.BalanceAfter = new(big.Rat).SetFloat64(*rec.BalanceAfter)
	}
	if archiveURI != "" {
		row.ArchiveURI = bigquery.NullString{StringVal: archiveURI, Valid: true}
	}

	return row
}
