// Package csvparser turns CSV bank statement exports into raw transactions.
// It sniffs the delimiter, recognizes known bank column layouts in a fixed
// priority order and falls back to a header-guessing generic mapping. Bad
// rows are skipped and recorded, never fatal.
package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// Parser parses CSV bank statements.
type Parser struct {
	logger logging.Logger

	// delimiter overrides sniffing when non-zero.
	delimiter rune
}

// New creates a CSV parser. A nil logger falls back to the default.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// NewWithDelimiter creates a CSV parser with a fixed delimiter, bypassing
// sniffing.
func NewWithDelimiter(logger logging.Logger, delimiter rune) *Parser {
	p := New(logger)
	p.delimiter = delimiter
	return p
}

// Parse reads the whole statement and returns the parse triple. The returned
// error is reserved for I/O failures on the reader; everything about the
// data itself lands in the result's Errors list.
func (p *Parser) Parse(r io.Reader) (models.ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.ParseResult{}, fmt.Errorf("error reading statement: %w", err)
	}

	text := string(data)
	delimiter := p.delimiter
	if delimiter == 0 {
		delimiter = SniffDelimiter(firstLine(text))
	}
	p.logger.WithField(logging.FieldDelimiter, string(delimiter)).Debug("Parsing CSV statement")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		// Malformed quoting in the middle of the file; report what we have
		// as a batch-level problem rather than failing the call.
		return models.ParseResult{
			Errors: []string{fmt.Sprintf("unreadable CSV content: %v", err)},
		}, nil
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return models.ParseResult{
			Errors: []string{"no usable header row found in CSV statement"},
		}, nil
	}

	headers := rows[headerIdx]
	dataRows := rows[headerIdx+1:]
	idx := buildColumnIndex(headers)

	// Named formats first, in priority order.
	for _, format := range bankFormats {
		if format.detect(idx) {
			p.logger.WithField(logging.FieldFormat, format.name).Debug("Matched bank CSV layout")
			return p.convertRows(format.name, dataRows, func(row []string) (models.RawTransaction, error) {
				return format.mapRow(idx, headers, row)
			}), nil
		}
	}

	// Generic fallback.
	cols, ok := guessColumns(headers)
	if !ok {
		return models.ParseResult{
			Errors: []string{"no usable header row found in CSV statement"},
		}, nil
	}
	p.logger.Debug("No known bank layout matched, using generic column guesser")
	return p.convertRows(GenericFormatLabel, dataRows, func(row []string) (models.RawTransaction, error) {
		return mapGenericRow(cols, row)
	}), nil
}

// convertRows maps data rows one by one, collecting per-row error strings
// for rows that cannot be converted.
func (p *Parser) convertRows(label string, rows [][]string, mapRow func([]string) (models.RawTransaction, error)) models.ParseResult {
	result := models.ParseResult{FormatLabel: label}

	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		tx, err := mapRow(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if tx.Date == "" || tx.Description == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing date or description", i+2))
			continue
		}
		if tx.Currency == "" {
			tx.Currency = models.DefaultCurrency
		}
		result.Transactions = append(result.Transactions, tx)
	}

	p.logger.WithFields(
		logging.F(logging.FieldFormat, label),
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F(logging.FieldErrors, len(result.Errors)),
	).Info("Parsed CSV statement")

	return result
}

// SniffDelimiter counts candidate delimiters in the header line, preferring
// semicolon and tab over comma when they are at least as frequent. French
// bank exports overwhelmingly use semicolons.
func SniffDelimiter(line string) rune {
	semicolons := strings.Count(line, ";")
	commas := strings.Count(line, ",")
	tabs := strings.Count(line, "\t")

	switch {
	case semicolons > 0 && semicolons >= commas && semicolons >= tabs:
		return ';'
	case tabs > 0 && tabs >= commas:
		return '\t'
	default:
		return ','
	}
}

// firstLine returns the first non-blank line, so leading empty lines do not
// defeat delimiter sniffing.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(strings.Trim(line, "\r;,\t ")) != "" {
			return line
		}
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
