package csvparser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JordanBelfort38/noabo-sub000/internal/textutils"
)

// ParseFrenchAmount parses a statement amount cell. See
// textutils.ParseFrenchAmount for the locale rules.
func ParseFrenchAmount(s string) (decimal.Decimal, error) {
	return textutils.ParseFrenchAmount(s)
}

// parseOptionalCell parses a debit or credit cell where blank means zero.
func parseOptionalCell(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return ParseFrenchAmount(s)
}
