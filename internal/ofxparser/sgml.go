package ofxparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// tagMap holds the field values of one transaction block.
type tagMap map[string]string

var digitsRe = regexp.MustCompile(`^\d{8,}`)

// singleTagValue extracts the value of the first occurrence of <TAG> in an
// SGML document, where the value runs to the next '<' or end of line.
func singleTagValue(text, tag string) string {
	upper := strings.ToUpper(text)
	open := "<" + tag + ">"
	start := strings.Index(upper, open)
	if start < 0 {
		return ""
	}
	rest := text[start+len(open):]
	end := strings.IndexAny(rest, "<\r\n")
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimSpace(rest[:end])
}

// transactionBlocks returns the tag maps of all <STMTTRN> blocks. The close
// marker is optional in SGML; a new open marker also terminates a block.
func transactionBlocks(text string) []tagMap {
	upper := strings.ToUpper(text)
	var blocks []tagMap

	pos := 0
	for {
		start := strings.Index(upper[pos:], "<STMTTRN>")
		if start < 0 {
			break
		}
		start += pos + len("<STMTTRN>")

		end := len(text)
		if close := strings.Index(upper[start:], "</STMTTRN>"); close >= 0 {
			end = start + close
		}
		if next := strings.Index(upper[start:], "<STMTTRN>"); next >= 0 && start+next < end {
			end = start + next
		}

		block := tagMap{}
		for _, tag := range []string{"DTPOSTED", "TRNAMT", "NAME", "MEMO", "FITID", "TRNTYPE"} {
			block[tag] = singleTagValue(text[start:end], tag)
		}
		blocks = append(blocks, block)
		pos = end
	}
	return blocks
}

// reduceOFXDate reduces an OFX timestamp (YYYYMMDD or YYYYMMDDhhmmss,
// possibly with a timezone suffix) to an ISO calendar date by slicing the
// first 8 digits.
func reduceOFXDate(value string) (string, error) {
	digits := digitsRe.FindString(strings.TrimSpace(value))
	if len(digits) < 8 {
		return "", fmt.Errorf("unparseable posting date %q", value)
	}
	return fmt.Sprintf("%s-%s-%s", digits[0:4], digits[4:6], digits[6:8]), nil
}

// parseSignedAmount parses a directly signed decimal amount. OFX uses dot
// decimals but some exports sneak in commas.
func parseSignedAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q: %w", value, err)
	}
	return dec, nil
}
