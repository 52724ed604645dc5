// Package merge reconciles detection candidates against the stored
// subscription records. The one rule that matters: a confirmed record's
// commercial terms (amount, frequency, confidence) are never altered by
// automated detection; only its temporal tracking fields are refreshed.
package merge

import (
	"context"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// SubscriptionStore is the external read/write boundary for stored
// subscriptions. FindByMerchant returns nil when no record exists. The store
// must serialize Create/Update per (user, merchant) pair so concurrent
// detection runs cannot create duplicates.
type SubscriptionStore interface {
	FindByMerchant(ctx context.Context, userID, merchantName string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Update(ctx context.Context, sub *models.Subscription) error
}

// Stats summarizes one merge pass.
type Stats struct {
	Created   int
	Updated   int
	Refreshed int // confirmed records whose tracking fields were brought current
	Unchanged int
}

// Merger applies detection candidates to the store.
type Merger struct {
	store  SubscriptionStore
	logger logging.Logger
}

// New creates a merger over the given store.
func New(store SubscriptionStore, logger logging.Logger) *Merger {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Merger{store: store, logger: logger}
}

// Apply reconciles each candidate in order. Store errors abort the pass:
// they are infrastructure failures, not data-quality problems.
func (m *Merger) Apply(ctx context.Context, userID string, candidates []models.DetectedSubscription) (Stats, error) {
	var stats Stats
	for _, candidate := range candidates {
		existing, err := m.store.FindByMerchant(ctx, userID, candidate.MerchantName)
		if err != nil {
			return stats, err
		}

		switch {
		case existing == nil:
			sub := subscriptionFromCandidate(userID, candidate)
			if err := m.store.Create(ctx, sub); err != nil {
				return stats, err
			}
			stats.Created++
			m.logger.WithFields(
				logging.F(logging.FieldUserID, userID),
				logging.F(logging.FieldMerchant, candidate.MerchantName),
				logging.F(logging.FieldFrequency, string(candidate.Frequency)),
			).Info("Created subscription")

		case existing.IsConfirmed():
			// Keep billing-date tracking current without undoing the
			// user's manual correction.
			existing.TransactionIDs = candidate.TransactionIDs
			existing.LastChargeDate = candidate.LastChargeDate
			existing.NextChargeDate = candidate.NextChargeDate
			if err := m.store.Update(ctx, existing); err != nil {
				return stats, err
			}
			stats.Refreshed++

		case differs(existing, candidate):
			existing.AmountCents = candidate.AverageAmountCents
			existing.Frequency = candidate.Frequency
			existing.NextChargeDate = candidate.NextChargeDate
			existing.LastChargeDate = candidate.LastChargeDate
			existing.Category = candidate.Category
			existing.TransactionIDs = candidate.TransactionIDs
			// Confidence is monotonically non-decreasing for unconfirmed
			// records.
			if candidate.Confidence > existing.Confidence {
				existing.Confidence = candidate.Confidence
			}
			if err := m.store.Update(ctx, existing); err != nil {
				return stats, err
			}
			stats.Updated++
			m.logger.WithFields(
				logging.F(logging.FieldUserID, userID),
				logging.F(logging.FieldMerchant, candidate.MerchantName),
			).Info("Updated subscription")

		default:
			stats.Unchanged++
		}
	}
	return stats, nil
}

// differs reports whether an unconfirmed record disagrees with the
// candidate on amount, frequency or confidence.
func differs(existing *models.Subscription, candidate models.DetectedSubscription) bool {
	return existing.AmountCents != candidate.AverageAmountCents ||
		existing.Frequency != candidate.Frequency ||
		existing.Confidence != candidate.Confidence
}

func subscriptionFromCandidate(userID string, candidate models.DetectedSubscription) *models.Subscription {
	return &models.Subscription{
		UserID:          userID,
		MerchantName:    candidate.MerchantName,
		AmountCents:     candidate.AverageAmountCents,
		Frequency:       candidate.Frequency,
		Confidence:      candidate.Confidence,
		NextChargeDate:  candidate.NextChargeDate,
		LastChargeDate:  candidate.LastChargeDate,
		FirstChargeDate: candidate.FirstChargeDate,
		Category:        candidate.Category,
		TransactionIDs:  candidate.TransactionIDs,
	}
}
