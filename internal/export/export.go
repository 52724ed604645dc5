// Package export writes normalized transactions and subscriptions to CSV
// files with a fixed column layout.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

const dateLayout = "2006-01-02"

// Delimiter used for CSV output. Configurable so exports can target
// spreadsheet locales that expect semicolons.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// transactionRow maps a normalized transaction to its CSV columns.
type transactionRow struct {
	ID           string `csv:"id"`
	Date         string `csv:"date"`
	Description  string `csv:"description"`
	Amount       string `csv:"amount"`
	Currency     string `csv:"currency"`
	Category     string `csv:"category"`
	MerchantName string `csv:"merchant"`
	IsRecurring  bool   `csv:"recurring"`
}

// subscriptionRow maps a stored subscription to its CSV columns.
type subscriptionRow struct {
	MerchantName   string `csv:"merchant"`
	Amount         string `csv:"amount"`
	Currency       string `csv:"currency"`
	Frequency      string `csv:"frequency"`
	Confidence     int    `csv:"confidence"`
	NextChargeDate string `csv:"next_charge_date"`
	LastChargeDate string `csv:"last_charge_date"`
	Category       string `csv:"category"`
	Occurrences    int    `csv:"occurrences"`
}

// WriteTransactions writes transactions to a CSV file, creating parent
// directories as needed. Amounts are written as decimal units, not cents.
func WriteTransactions(txs []models.NormalizedTransaction, csvFile string) error {
	rows := make([]transactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = transactionRow{
			ID:           tx.ID,
			Date:         tx.Date.Format(dateLayout),
			Description:  tx.Description,
			Amount:       centsToAmount(tx.AmountCents),
			Currency:     tx.Currency,
			Category:     tx.Category,
			MerchantName: tx.MerchantName,
			IsRecurring:  tx.IsRecurring,
		}
	}
	return writeRows(rows, csvFile)
}

// WriteSubscriptions writes detected or stored subscriptions to a CSV file.
func WriteSubscriptions(subs []models.Subscription, csvFile string) error {
	rows := make([]subscriptionRow, len(subs))
	for i, sub := range subs {
		next := ""
		if sub.NextChargeDate != nil {
			next = sub.NextChargeDate.Format(dateLayout)
		}
		rows[i] = subscriptionRow{
			MerchantName:   sub.MerchantName,
			Amount:         centsToAmount(sub.AmountCents),
			Currency:       models.DefaultCurrency,
			Frequency:      string(sub.Frequency),
			Confidence:     sub.Confidence,
			NextChargeDate: next,
			LastChargeDate: sub.LastChargeDate.Format(dateLayout),
			Category:       sub.Category,
			Occurrences:    len(sub.TransactionIDs),
		}
	}
	return writeRows(rows, csvFile)
}

func writeRows[TRow any](rows []TRow, csvFile string) error {
	log := logging.GetLogger()

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(rows)),
	).Info("Wrote CSV file")
	return nil
}

// centsToAmount renders integer cents as a decimal string with two places,
// e.g. -1299 -> "-12.99".
func centsToAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// MarshalTransactions renders transactions as a CSV string, for writing to
// stdout instead of a file.
func MarshalTransactions(txs []models.NormalizedTransaction) (string, error) {
	rows := make([]transactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = transactionRow{
			ID:           tx.ID,
			Date:         tx.Date.Format(dateLayout),
			Description:  tx.Description,
			Amount:       centsToAmount(tx.AmountCents),
			Currency:     tx.Currency,
			Category:     tx.Category,
			MerchantName: tx.MerchantName,
			IsRecurring:  tx.IsRecurring,
		}
	}
	var sb strings.Builder
	csvWriter := csv.NewWriter(&sb)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}
	return sb.String(), nil
}
