package ledger

import (
	"math/big"
	"testing"
	"time"

	"github.com/finbuddy/smsledger/internal/extract"
)

func TestTableForDirection(t *testing.T) {
	tests := []struct {
		direction string
		want      string
		wantErr   bool
	}{
		{string(extract.DirectionDebit), debitTable, false},
		{string(extract.DirectionCredit), creditTable, false},
		{"SIDEWAYS", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			got, err := tableForDirection(tt.direction)
			if (err != nil) != tt.wantErr {
				t.Fatalf("tableForDirection(%q) error = %v, wantErr %v", tt.direction, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("tableForDirection(%q) = %q, want %q", tt.direction, got, tt.want)
			}
		})
	}
}

func TestFromTransaction(t *testing.T) {
	observed := time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC)
	balance := 4583.96
	rec := &extract.TransactionRecord{
		Direction:         extract.DirectionDebit,
		Amount:            500.00,
		AccountReference:  "XX1234",
		CounterpartyName:  "John Doe",
		TransferMode:      extract.ModeUPI,
		PaymentIdentifier: "john@okbank",
		ReferenceNumber:   "123456",
		BalanceAfter:      &balance,
		ObservedAt:        observed,
		RecordedAt:        observed,
	}

	row := FromTransaction("rec-1", "user-1", "job-1", "gs://bucket/raw/x", rec)

	if row.RecordID != "rec-1" || row.UserID != "user-1" || row.JobID != "job-1" {
		t.Errorf("identifiers not mapped: %+v", row)
	}
	if row.Direction != "DEBIT" {
		t.Errorf("Direction = %q, want DEBIT", row.Direction)
	}
	if want := new(big.Rat).SetFloat64(500.00); row.Amount.Cmp(want) != 0 {
		t.Errorf("Amount = %v, want %v", row.Amount, want)
	}
	if !row.PaymentIdentifier.Valid || row.PaymentIdentifier.StringVal != "john@okbank" {
		t.Errorf("PaymentIdentifier = %+v", row.PaymentIdentifier)
	}
	if !row.ReferenceNumber.Valid || row.ReferenceNumber.StringVal != "123456" {
		t.Errorf("ReferenceNumber = %+v", row.ReferenceNumber)
	}
	if row.BalanceAfter == nil {
		t.Fatal("BalanceAfter not mapped")
	}
	if !row.ArchiveURI.Valid || row.ArchiveURI.StringVal != "gs://bucket/raw/x" {
		t.Errorf("ArchiveURI = %+v", row.ArchiveURI)
	}
	if row.ObservedDate.Year != 2024 || row.ObservedDate.Month != time.May || row.ObservedDate.Day != 12 {
		t.Errorf("ObservedDate = %v", row.ObservedDate)
	}
}

func TestFromTransaction_OptionalFieldsStayNull(t *testing.T) {
	rec := &extract.TransactionRecord{
		Direction:        extract.DirectionCredit,
		Amount:           2000,
		CounterpartyName: extract.CounterpartyUnknown,
		TransferMode:     extract.ModeOther,
		ObservedAt:       time.Now(),
		RecordedAt:       time.Now(),
	}

	row := FromTransaction("rec-2", "user-1", "job-2", "", rec)

	if row.PaymentIdentifier.Valid {
		t.Error("PaymentIdentifier should be null")
	}
	if row.ReferenceNumber.Valid {
		t.Error("ReferenceNumber should be null")
	}
	if row.BalanceAfter != nil {
		t.Error("BalanceAfter should be nil")
	}
	if row.ArchiveURI.Valid {
		t.Error("ArchiveURI should be null")
	}
}
