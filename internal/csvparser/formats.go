package csvparser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// GenericFormatLabel is reported when no named bank layout matched and the
// column guesser was used instead.
const GenericFormatLabel = "generic format"

// columnIndex maps a lower-cased trimmed header name to its position.
type columnIndex map[string]int

func buildColumnIndex(headers []string) columnIndex {
	idx := make(columnIndex, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

func (c columnIndex) has(names ...string) bool {
	for _, name := range names {
		if _, ok := c[name]; ok {
			return true
		}
	}
	return false
}

// find returns the position of the first matching header name, or -1.
func (c columnIndex) find(names ...string) int {
	for _, name := range names {
		if i, ok := c[name]; ok {
			return i
		}
	}
	return -1
}

// findContaining returns the position of the first header containing any of
// the given tokens, scanning headers in column order, or -1.
func findContaining(headers []string, tokens ...string) int {
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, token := range tokens {
			if strings.Contains(key, token) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// bankFormat is one named bank column layout. Detect inspects the lower-cased
// trimmed header row; mapRow converts one data row. Formats are tested in the
// order of bankFormats, first match wins.
type bankFormat struct {
	name   string
	detect func(idx columnIndex) bool
	mapRow func(idx columnIndex, headers, row []string) (models.RawTransaction, error)
}

// bankFormats is the fixed priority-ordered list of known layouts. Specific
// layouts come before ones recognizable by fewer header tokens.
var bankFormats = []bankFormat{
	{
		// Boursorama: dateOp;dateVal;label;category;categoryParent;...;amount
		name: "Boursorama",
		detect: func(idx columnIndex) bool {
			return idx.has("dateop") && idx.has("amount")
		},
		mapRow: func(idx columnIndex, headers, row []string) (models.RawTransaction, error) {
			amount, err := ParseFrenchAmount(cell(row, idx.find("amount")))
			if err != nil {
				return models.RawTransaction{}, err
			}
			return models.RawTransaction{
				Date:        cell(row, idx.find("dateop")),
				Description: cell(row, idx.find("label")),
				Amount:      amount,
				Category:    cell(row, idx.find("categoryparent", "category")),
			}, nil
		},
	},
	{
		// Société Générale: Date de l'opération;Libellé;Détail;Montant;Devise
		name: "Société Générale",
		detect: func(idx columnIndex) bool {
			return idx.has("date de l'opération", "date de l'operation") &&
				idx.has("montant de l'opération", "montant de l'operation", "montant")
		},
		mapRow: func(idx columnIndex, headers, row []string) (models.RawTransaction, error) {
			amount, err := ParseFrenchAmount(cell(row, idx.find(
				"montant de l'opération", "montant de l'operation", "montant")))
			if err != nil {
				return models.RawTransaction{}, err
			}
			return models.RawTransaction{
				Date:        cell(row, idx.find("date de l'opération", "date de l'operation")),
				Description: cell(row, idx.find("libellé", "libelle")),
				Amount:      amount,
				Currency:    cell(row, idx.find("devise")),
			}, nil
		},
	},
	{
		// La Banque Postale: Date;Libellé;Montant(EUROS);Montant(FRANCS)
		name: "La Banque Postale",
		detect: func(idx columnIndex) bool {
			return idx.has("date") && idx.has("montant(euros)")
		},
		mapRow: func(idx columnIndex, headers, row []string) (models.RawTransaction, error) {
			amount, err := ParseFrenchAmount(cell(row, idx.find("montant(euros)")))
			if err != nil {
				return models.RawTransaction{}, err
			}
			return models.RawTransaction{
				Date:        cell(row, idx.find("date")),
				Description: cell(row, idx.find("libellé", "libelle")),
				Amount:      amount,
				Currency:    models.DefaultCurrency,
			}, nil
		},
	},
	{
		// Crédit Agricole: Date;Libellé;Débit euros;Crédit euros
		name: "Crédit Agricole",
		detect: func(idx columnIndex) bool {
			if !idx.has("date") {
				return false
			}
			return findContainingIdx(idx, "débit", "debit") >= 0
		},
		mapRow: func(idx columnIndex, headers, row []string) (models.RawTransaction, error) {
			debitCol := findContaining(headers, "débit", "debit")
			creditCol := findContaining(headers, "crédit", "credit")
			amount, err := combineDebitCredit(cell(row, debitCol), cell(row, creditCol))
			if err != nil {
				return models.RawTransaction{}, err
			}
			return models.RawTransaction{
				Date:        cell(row, idx.find("date")),
				Description: cell(row, idx.find("libellé", "libelle")),
				Amount:      amount,
				Currency:    models.DefaultCurrency,
			}, nil
		},
	},
}

// findContainingIdx scans the index keys for a header containing any token.
// Unlike findContaining it does not need the ordered header slice.
func findContainingIdx(idx columnIndex, tokens ...string) int {
	for key, i := range idx {
		for _, token := range tokens {
			if strings.Contains(key, token) {
				return i
			}
		}
	}
	return -1
}

// combineDebitCredit computes credit - debit. Blank cells count as zero and
// debit cells are taken by magnitude, so exports that pre-sign their debit
// column still come out negative.
func combineDebitCredit(debit, credit string) (decimal.Decimal, error) {
	d, err := parseOptionalCell(debit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit cell: %w", err)
	}
	c, err := parseOptionalCell(credit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit cell: %w", err)
	}
	return c.Sub(d.Abs()), nil
}

// genericColumns is the fallback guesser's view of an unknown header row.
type genericColumns struct {
	date        int
	description int
	amount      int // single signed column, -1 when using a pair
	debit       int
	credit      int
	category    int
}

// guessColumns inspects an unrecognized header row and picks the date,
// description, amount (or debit/credit pair) and optional category columns.
// It returns false when no usable layout could be inferred.
func guessColumns(headers []string) (genericColumns, bool) {
	cols := genericColumns{
		date:        findContaining(headers, "date"),
		description: findContaining(headers, "libell", "label", "description", "intitul", "motif", "nom"),
		amount:      findContaining(headers, "montant", "amount"),
		debit:       findContaining(headers, "débit", "debit"),
		credit:      findContaining(headers, "crédit", "credit"),
		category:    findContaining(headers, "catégorie", "categorie", "category"),
	}
	if cols.date < 0 || cols.description < 0 {
		return cols, false
	}
	if cols.amount < 0 && cols.debit < 0 && cols.credit < 0 {
		return cols, false
	}
	return cols, true
}

// mapGenericRow converts one data row using guessed columns.
func mapGenericRow(cols genericColumns, row []string) (models.RawTransaction, error) {
	var amount decimal.Decimal
	var err error
	if cols.amount >= 0 {
		amount, err = ParseFrenchAmount(cell(row, cols.amount))
	} else {
		amount, err = combineDebitCredit(cell(row, cols.debit), cell(row, cols.credit))
	}
	if err != nil {
		return models.RawTransaction{}, err
	}
	return models.RawTransaction{
		Date:        cell(row, cols.date),
		Description: cell(row, cols.description),
		Amount:      amount,
		Category:    cell(row, cols.category),
	}, nil
}
