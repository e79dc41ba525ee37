package extract

import (
	"time"
)

// Direction says whether funds left or entered the tracked account.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// TransferMode is the payment rail the message reports the transfer on.
type TransferMode string

const (
	ModeUPI   TransferMode = "UPI"
	ModeNEFT  TransferMode = "NEFT"
	ModeIMPS  TransferMode = "IMPS"
	ModeRTGS  TransferMode = "RTGS"
	ModeOther TransferMode = "OTHER"
)

// CounterpartyUnknown is the placeholder used when no counterparty
// resolution produced a value.
const CounterpartyUnknown = "Unknown"

// TransactionRecord is the structured result of a successful extraction.
// All fields are fixed at construction; the extractor never hands out a
// partially filled record.
type TransactionRecord struct {
	Direction         Direction    `json:"direction"`
	Amount            float64      `json:"amount"`
	AccountReference  string       `json:"account_reference,omitempty"`
	CounterpartyName  string       `json:"counterparty_name"`
	TransferMode      TransferMode `json:"transfer_mode"`
	PaymentIdentifier string       `json:"payment_identifier,omitempty"`
	ReferenceNumber   string       `json:"reference_number,omitempty"`
	BalanceAfter      *float64     `json:"balance_after,omitempty"`

	// ObservedAt is when the event textually occurred, RecordedAt when the
	// system processed it. The messages carry no usable timestamp, so both
	// are stamped with the extraction instant.
	ObservedAt time.Time `json:"observed_at"`
	RecordedAt time.Time `json:"recorded_at"`
}
