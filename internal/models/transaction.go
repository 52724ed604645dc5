// Package models holds the data structures shared across the ingestion and
// detection pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a statement does not declare one.
const DefaultCurrency = "EUR"

// CategorySubscription is the category assigned to transactions matching the
// merchant dictionary. It is what flags a transaction as recurring.
const CategorySubscription = "subscription"

// RawTransaction is the loosely typed record a format parser emits. The date
// stays a string because its format is locale-dependent; the normalizer owns
// date interpretation. Parsers must not emit records with an empty date or
// description.
type RawTransaction struct {
	Date        string
	Description string
	Amount      decimal.Decimal // major currency units, signed
	Currency    string
	Category    string
}

// ParseResult is the triple every format parser returns. Zero transactions
// with a non-empty Errors list is the canonical "nothing usable, here is why"
// outcome and is not an error condition.
type ParseResult struct {
	Transactions []RawTransaction
	Errors       []string
	FormatLabel  string
}

// StatementAccount carries the account metadata an OFX document declares.
type StatementAccount struct {
	BankID      string
	AccountID   string
	AccountType string
	Currency    string
}

// NormalizedTransaction is the canonical persisted transaction record.
// AmountCents is signed integer minor units: negative for debits, positive
// for credits.
type NormalizedTransaction struct {
	ID             string
	UserID         string
	Date           time.Time
	Description    string // cleaned
	RawDescription string // as parsed from the statement
	AmountCents    int64
	Currency       string
	Category       string // empty when undetected
	MerchantName   string // empty when undetected
	IsRecurring    bool
}

// IsDebit reports whether the transaction is an outgoing payment.
func (t *NormalizedTransaction) IsDebit() bool {
	return t.AmountCents < 0
}

// ToCents converts a major-unit decimal amount to integer cents, rounding
// half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CentsToDecimal converts integer cents back to a major-unit decimal.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}
