package models

import "time"

// Frequency is a recurrence class for a detected subscription.
type Frequency string

const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyBimonthly  Frequency = "bimonthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyAnnual     Frequency = "annual"
)

// ConfidenceConfirmed marks a subscription whose terms a human affirmed.
// The merge policy never alters the commercial terms of such a record.
const ConfidenceConfirmed = 100

// DetectedSubscription is one detection run's candidate for a merchant.
// It is recomputed from scratch on every run and never persisted directly;
// the merge policy reconciles it against the stored Subscription.
type DetectedSubscription struct {
	MerchantName       string
	AverageAmountCents int64 // positive magnitude
	Frequency          Frequency
	Confidence         int // 0-100
	NextChargeDate     *time.Time
	FirstChargeDate    time.Time
	LastChargeDate     time.Time
	TransactionIDs     []string
	Category           string // empty when none
	Occurrences        int
}

// Subscription is the store-of-record entity.
type Subscription struct {
	ID              string
	UserID          string
	MerchantName    string
	AmountCents     int64
	Frequency       Frequency
	Confidence      int
	NextChargeDate  *time.Time
	LastChargeDate  time.Time
	FirstChargeDate time.Time
	Category        string
	TransactionIDs  []string
}

// IsConfirmed reports whether a human affirmed this record's terms.
func (s *Subscription) IsConfirmed() bool {
	return s.Confidence >= ConfidenceConfirmed
}
