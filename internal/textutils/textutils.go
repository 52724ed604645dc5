// Package textutils provides the text and number cleaning helpers shared by
// the format parsers and the normalizer.
package textutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims the string and collapses internal whitespace runs
// to single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ParseFrenchAmount parses a decimal amount tolerating French conventions:
// "1 234,56" and "1.234,56" both mean 1234.56. When a comma is present it is
// the decimal separator and any dots are thousands separators to strip;
// otherwise the string is parsed as a plain decimal.
func ParseFrenchAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	for _, sep := range []string{" ", " ", " ", "€"} {
		cleaned = strings.ReplaceAll(cleaned, sep, "")
	}

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q: %w", s, err)
	}
	return dec, nil
}
