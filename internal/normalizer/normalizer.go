// Package normalizer converts raw parser output into canonical transaction
// records: dates become calendar dates, descriptions are cleaned, merchants
// and categories are detected against injected dictionary tables and amounts
// become signed integer cents.
//
// Records whose date cannot be interpreted are dropped without a per-record
// diagnostic; the parsers already reported row-level problems and the batch
// summary carries the drop count.
package normalizer

import (
	"strings"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
	"github.com/JordanBelfort38/noabo-sub000/internal/rules"
)

// Normalizer is a pure transformation; construct once and reuse. The
// dictionary tables are immutable injected data, never package state.
type Normalizer struct {
	table  rules.Table
	logger logging.Logger
}

// New creates a normalizer over the given dictionary tables.
func New(table rules.Table, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Normalizer{table: table, logger: logger}
}

// Normalize converts one raw transaction. ok is false when the date cannot
// be interpreted, in which case the record is dropped.
//
// The result carries no identifier: ids are a persistence concern, and
// leaving them out keeps Normalize deterministic for identical input.
func (n *Normalizer) Normalize(raw models.RawTransaction) (models.NormalizedTransaction, bool) {
	date, ok := ParseStatementDate(strings.TrimSpace(raw.Date))
	if !ok {
		n.logger.WithField("date", raw.Date).Debug("Dropping transaction with unparseable date")
		return models.NormalizedTransaction{}, false
	}

	cleaned := CleanDescription(raw.Description)
	merchant := n.detectMerchant(raw.Description, cleaned)

	category := raw.Category
	if category == "" {
		category = n.detectCategory(raw.Description, cleaned, merchant)
	}

	currency := raw.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return models.NormalizedTransaction{
		Date:           date,
		Description:    cleaned,
		RawDescription: raw.Description,
		AmountCents:    models.ToCents(raw.Amount),
		Currency:       currency,
		Category:       category,
		MerchantName:   merchant,
		IsRecurring:    category == models.CategorySubscription || merchant != "",
	}, true
}

// NormalizeAll converts a batch, returning the survivors and the number of
// records dropped for unparseable dates.
func (n *Normalizer) NormalizeAll(raws []models.RawTransaction) ([]models.NormalizedTransaction, int) {
	normalized := make([]models.NormalizedTransaction, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		tx, ok := n.Normalize(raw)
		if !ok {
			dropped++
			continue
		}
		normalized = append(normalized, tx)
	}
	return normalized, dropped
}

// detectMerchant matches the raw description first, then the cleaned one,
// against the ordered merchant dictionary. First match wins; the table order
// is significant because patterns overlap ("free mobile" vs "free").
func (n *Normalizer) detectMerchant(raw, cleaned string) string {
	rawLower := strings.ToLower(raw)
	for _, rule := range n.table.Merchants {
		if strings.Contains(rawLower, rule.Pattern) {
			return rule.Name
		}
	}
	cleanedLower := strings.ToLower(cleaned)
	for _, rule := range n.table.Merchants {
		if strings.Contains(cleanedLower, rule.Pattern) {
			return rule.Name
		}
	}
	return ""
}

// detectCategory returns "subscription" when the merchant dictionary
// matched, otherwise the first category whose pattern list matches.
func (n *Normalizer) detectCategory(raw, cleaned, merchant string) string {
	if merchant != "" {
		return models.CategorySubscription
	}

	rawLower := strings.ToLower(raw)
	cleanedLower := strings.ToLower(cleaned)
	for _, rule := range n.table.Categories {
		for _, pattern := range rule.Patterns {
			if strings.Contains(rawLower, pattern) || strings.Contains(cleanedLower, pattern) {
				return rule.Name
			}
		}
	}
	return ""
}
