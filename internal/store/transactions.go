package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// InsertResult summarizes a batch insert.
type InsertResult struct {
	Inserted   int
	Duplicates int
}

// InsertTransactions appends a batch of normalized transactions for a user,
// assigning ids. Rows matching an already stored transaction on every
// identifying field are skipped and counted as duplicates. The batch runs in
// one database transaction so a failed import leaves nothing behind.
func (s *Store) InsertTransactions(ctx context.Context, userID string, txs []models.NormalizedTransaction) (InsertResult, error) {
	var result InsertResult

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions
			(id, user_id, date, description, raw_description, amount_cents,
			 currency, category, merchant_name, is_recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return result, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, tx := range txs {
		id := tx.ID
		if id == "" {
			id = uuid.NewString()
		}
		res, err := stmt.ExecContext(ctx,
			id, userID, tx.Date.Format(dateLayout), tx.Description,
			tx.RawDescription, tx.AmountCents, tx.Currency, tx.Category,
			tx.MerchantName, boolToInt(tx.IsRecurring))
		if err != nil {
			return result, fmt.Errorf("insert transaction: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return result, fmt.Errorf("insert transaction: %w", err)
		}
		if affected == 0 {
			result.Duplicates++
		} else {
			result.Inserted++
		}
	}

	if err := dbTx.Commit(); err != nil {
		return result, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

// ListDebitsWithMerchant returns a user's debit transactions that carry a
// merchant name, ordered by date ascending. This is the detector's input.
func (s *Store) ListDebitsWithMerchant(ctx context.Context, userID string) ([]models.NormalizedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, description, raw_description, amount_cents,
		       currency, category, merchant_name, is_recurring
		FROM transactions
		WHERE user_id = ? AND amount_cents < 0 AND merchant_name != ''
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var txs []models.NormalizedTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ListTransactions returns all of a user's transactions ordered by date.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]models.NormalizedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, description, raw_description, amount_cents,
		       currency, category, merchant_name, is_recurring
		FROM transactions
		WHERE user_id = ?
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var txs []models.NormalizedTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.NormalizedTransaction, error) {
	var tx models.NormalizedTransaction
	var date string
	var recurring int
	if err := row.Scan(&tx.ID, &tx.UserID, &date, &tx.Description,
		&tx.RawDescription, &tx.AmountCents, &tx.Currency, &tx.Category,
		&tx.MerchantName, &recurring); err != nil {
		return tx, fmt.Errorf("scan transaction: %w", err)
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return tx, fmt.Errorf("stored date %q: %w", date, err)
	}
	tx.Date = parsed
	tx.IsRecurring = recurring != 0
	return tx, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
