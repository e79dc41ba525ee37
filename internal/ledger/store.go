package ledger

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/finbuddy/smsledger/internal/extract"
)

const (
	debitTable  = "debit_records"
	creditTable = "credit_records"
	dateFormat  = "2006-01-02"
)

// Store is the BigQuery-backed RecordRepository.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewStore creates a record store over an existing BigQuery client.
func NewStore(client *bigquery.Client, projectID, datasetID string) *Store {
	return &Store{client: client, projectID: projectID, datasetID: datasetID}
}

// tableForDirection maps a record direction to its destination table.
func tableForDirection(direction string) (string, error) {
	switch direction {
	case string(extract.DirectionDebit):
		return debitTable, nil
	case string(extract.DirectionCredit):
		return creditTable, nil
	default:
		return "", fmt.Errorf("unknown direction %q", direction)
	}
}

// InsertRecord implements RecordRepository.
func (s *Store) InsertRecord(ctx context.Context, row *RecordRow) error {
	tableName, err := tableForDirection(row.Direction)
	if err != nil {
		return fmt.Errorf("InsertRecord: %w", err)
	}

	table := s.client.DatasetInProject(s.projectID, s.datasetID).Table(tableName)
	inserter := table.Inserter()
	if err := inserter.Put(ctx, []*RecordRow{row}); err != nil {
		return fmt.Errorf("InsertRecord: inserting into %s: %w", tableName, err)
	}

	return nil
}

// QueryRecordsByUser implements RecordRepository. Debits and credits are
// merged and ordered by observation time.
func (s *Store) QueryRecordsByUser(ctx context.Context, userID string, startDate, endDate time.Time) ([]*RecordRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			record_id, user_id, job_id, direction, amount, balance_after,
			account_reference, counterparty_name, transfer_mode,
			payment_identifier, reference_number, archive_uri,
			observed_date, observed_ts, recorded_ts
		FROM %s.%s
		WHERE user_id = @user_id
		  AND observed_date >= @start_date
		  AND observed_date <= @end_date
		UNION ALL
		SELECT
			record_id, user_id, job_id, direction, amount, balance_after,
			account_reference, counterparty_name, transfer_mode,
			payment_identifier, reference_number, archive_uri,
			observed_date, observed_ts, recorded_ts
		FROM %s.%s
		WHERE user_id = @user_id
		  AND observed_date >= @start_date
		  AND observed_date <= @end_date
		ORDER BY observed_ts
	`, s.datasetID, debitTable, s.datasetID, creditTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "start_date", Value: startDate.Format(dateFormat)},
		{Name: "end_date", Value: endDate.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryRecordsByUser: query read: %w", err)
	}

	var rows []*RecordRow
	for {
		var r RecordRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryRecordsByUser: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

var _ RecordRepository = (*Store)(nil)
