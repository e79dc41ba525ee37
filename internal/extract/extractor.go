// Package extract turns free-form bank, wallet and payment-processor
// notification messages into structured transaction records.
//
// The package exposes two pure operations: IsFinancial, a cheap lexical
// classifier, and Extractor.Extract, a chain of independent pattern
// resolutions. Neither holds state between calls, performs I/O, or needs
// external coordination; invocations may run concurrently without limit.
package extract

import (
	"strings"
	"time"
)

// Extractor resolves structured transaction records from message text.
// The zero value is not usable; construct with NewExtractor. The clock
// is injectable so hosts and tests control record timestamps.
type Extractor struct {
	now func() time.Time
}

// NewExtractor returns an Extractor stamping records with time.Now.
func NewExtractor() *Extractor {
	return NewExtractorWithClock(time.Now)
}

// NewExtractorWithClock returns an Extractor using the given clock.
func NewExtractorWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract attempts to resolve a TransactionRecord from message text.
// It returns (nil, false) when no record can be produced: either the
// mandatory amount is missing or zero, or a resolver faulted on
// malformed input. Every other field degrades to its documented default
// instead of failing the call. Extract never panics and never errors;
// the caller gets a record or nothing.
func (e *Extractor) Extract(text string) (rec *TransactionRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rec, ok = nil, false
		}
	}()

	amount, found := resolveAmount(text)
	if !found {
		return nil, false
	}

	lower := strings.ToLower(text)
	paymentID := resolvePaymentIdentifier(text)
	now := e.now()

	rec = &TransactionRecord{
		Direction:         resolveDirection(lower),
		Amount:            amount,
		AccountReference:  resolveAccountReference(text),
		CounterpartyName:  resolveCounterparty(text, paymentID),
		TransferMode:      resolveTransferMode(text),
		PaymentIdentifier: paymentID,
		ReferenceNumber:   resolveReferenceNumber(text),
		BalanceAfter:      resolveBalance(text),
		ObservedAt:        now,
		RecordedAt:        now,
	}
	return rec, true
}
