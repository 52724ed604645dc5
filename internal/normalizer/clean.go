package normalizer

import (
	"regexp"
	"strings"

	"github.com/JordanBelfort38/noabo-sub000/internal/textutils"
)

// Payment boilerplate stripped from descriptions. French statements prefix
// the actual merchant with the payment channel and embed card masks and
// operation dates.
var (
	cardMaskRe = regexp.MustCompile(`(?i)\b(?:\d{4,6}[X*]{2,}\d{0,6}|[X*]{4,}\d{2,6}|\d{4}[X*]{4,})\b`)

	cardTokenRe = regexp.MustCompile(`(?i)\b(?:carte|cb)[:\s]*[0-9Xx*]+\b`)

	leadingPaymentRe = regexp.MustCompile(`(?i)^paiement\s+(?:par\s+)?(?:cb|carte)\s*`)

	leadingDirectDebitRe = regexp.MustCompile(`(?i)^pr[eé]l[eè]vement\s+`)

	leadingTransferRe = regexp.MustCompile(`(?i)^virement\s+(?:de\s+|pour\s+|sepa\s+)?`)

	embeddedDateRe = regexp.MustCompile(`\b\d{1,2}[/.]\d{1,2}(?:[/.]\d{2,4})?\b`)

	starRunRe = regexp.MustCompile(`\*+`)
)

// CleanDescription strips payment boilerplate from a raw statement
// description. If cleaning leaves nothing, the original string is kept: a
// wrong description beats an empty one.
func CleanDescription(raw string) string {
	s := textutils.CollapseWhitespace(raw)

	s = leadingPaymentRe.ReplaceAllString(s, "")
	s = leadingDirectDebitRe.ReplaceAllString(s, "")
	s = leadingTransferRe.ReplaceAllString(s, "")
	s = cardMaskRe.ReplaceAllString(s, " ")
	s = cardTokenRe.ReplaceAllString(s, " ")
	s = embeddedDateRe.ReplaceAllString(s, " ")
	s = starRunRe.ReplaceAllString(s, " ")

	s = textutils.CollapseWhitespace(s)
	if s == "" {
		return strings.TrimSpace(raw)
	}
	return s
}
