package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JordanBelfort38/noabo-sub000/internal/models"
	"github.com/JordanBelfort38/noabo-sub000/internal/parsererror"
)

// FindByMerchant returns the stored subscription for (user, merchant), or
// nil when none exists.
func (s *Store) FindByMerchant(ctx context.Context, userID, merchantName string) (*models.Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, merchant_name, amount_cents, frequency, confidence,
		       next_charge_date, last_charge_date, first_charge_date, category,
		       transaction_ids
		FROM subscriptions
		WHERE user_id = ? AND merchant_name = ?
	`, userID, merchantName)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Create inserts a new subscription record, assigning an id. The unique
// (user_id, merchant_name) index makes concurrent detection runs for the
// same merchant collide here instead of creating duplicates.
func (s *Store) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions
			(id, user_id, merchant_name, amount_cents, frequency, confidence,
			 next_charge_date, last_charge_date, first_charge_date, category,
			 transaction_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.UserID, sub.MerchantName, sub.AmountCents,
		string(sub.Frequency), sub.Confidence, nullableDate(sub.NextChargeDate),
		sub.LastChargeDate.Format(dateLayout), sub.FirstChargeDate.Format(dateLayout),
		sub.Category, strings.Join(sub.TransactionIDs, ","))
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// Update rewrites an existing subscription record.
func (s *Store) Update(ctx context.Context, sub *models.Subscription) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET amount_cents = ?, frequency = ?, confidence = ?,
		    next_charge_date = ?, last_charge_date = ?, first_charge_date = ?,
		    category = ?, transaction_ids = ?, updated_at = datetime('now')
		WHERE id = ?
	`, sub.AmountCents, string(sub.Frequency), sub.Confidence,
		nullableDate(sub.NextChargeDate), sub.LastChargeDate.Format(dateLayout),
		sub.FirstChargeDate.Format(dateLayout), sub.Category,
		strings.Join(sub.TransactionIDs, ","), sub.ID)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if affected == 0 {
		return &parsererror.NotFoundError{Entity: "subscription", ID: sub.ID}
	}
	return nil
}

// Confirm marks a subscription as manually confirmed (confidence 100).
// Acting on someone else's record or a missing id is a caller contract
// violation and fails hard.
func (s *Store) Confirm(ctx context.Context, userID, id string) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM subscriptions WHERE id = ?`, id)
	var owner string
	if err := row.Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &parsererror.NotFoundError{Entity: "subscription", ID: id}
		}
		return fmt.Errorf("lookup subscription: %w", err)
	}
	if owner != userID {
		return &parsererror.OwnershipError{Entity: "subscription", ID: id, UserID: userID}
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET confidence = ?, updated_at = datetime('now')
		WHERE id = ?
	`, models.ConfidenceConfirmed, id)
	if err != nil {
		return fmt.Errorf("confirm subscription: %w", err)
	}
	return nil
}

// ListSubscriptions returns a user's subscriptions ordered by confidence
// descending, then amount descending.
func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, merchant_name, amount_cents, frequency, confidence,
		       next_charge_date, last_charge_date, first_charge_date, category,
		       transaction_ids
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY confidence DESC, amount_cents DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var frequency, lastCharge, firstCharge, txIDs string
	var nextCharge sql.NullString
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.MerchantName, &sub.AmountCents,
		&frequency, &sub.Confidence, &nextCharge, &lastCharge, &firstCharge,
		&sub.Category, &txIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}

	sub.Frequency = models.Frequency(frequency)
	var err error
	if sub.LastChargeDate, err = time.Parse(dateLayout, lastCharge); err != nil {
		return nil, fmt.Errorf("stored date %q: %w", lastCharge, err)
	}
	if sub.FirstChargeDate, err = time.Parse(dateLayout, firstCharge); err != nil {
		return nil, fmt.Errorf("stored date %q: %w", firstCharge, err)
	}
	if nextCharge.Valid && nextCharge.String != "" {
		next, err := time.Parse(dateLayout, nextCharge.String)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", nextCharge.String, err)
		}
		sub.NextChargeDate = &next
	}
	if txIDs != "" {
		sub.TransactionIDs = strings.Split(txIDs, ",")
	}
	return &sub, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
