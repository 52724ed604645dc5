// Package pdfparser extracts transactions from PDF bank statements. The PDF
// decoding itself is delegated to a PDFExtractor collaborator; this package
// only pattern-matches the extracted text lines. Lines that look like
// headers, footers or running balances match no pattern and are skipped
// without recording an error.
package pdfparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
	"github.com/JordanBelfort38/noabo-sub000/internal/parsererror"
	"github.com/JordanBelfort38/noabo-sub000/internal/textutils"
)

// FormatLabel is reported for PDF statements.
const FormatLabel = "PDF"

const amountPattern = `-?\d[\d .]*(?:,\d{1,2})?`

// The three line shapes tried in priority order.
var (
	// DD/MM/YYYY description amount
	lineFullDate = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(` + amountPattern + `)\s*$`)
	// DD/MM description amount (year implied by the statement period)
	lineShortDate = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(` + amountPattern + `)\s*$`)
	// DD/MM/YYYY description debit credit (either column may be blank)
	lineDebitCredit = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)(?:\s+(` + amountPattern + `))?(?:\s+(` + amountPattern + `))?\s*$`)
)

// Parser parses PDF statements through an injected extractor.
type Parser struct {
	logger    logging.Logger
	extractor PDFExtractor

	// now supplies the year for short-date lines; overridable in tests.
	now func() time.Time
}

// New creates a PDF parser. A nil extractor means the poppler command-line
// extractor; a nil logger falls back to the default.
func New(logger logging.Logger, extractor PDFExtractor) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if extractor == nil {
		extractor = NewPopplerExtractor()
	}
	return &Parser{logger: logger, extractor: extractor, now: time.Now}
}

// Parse spools the document to a temporary file, extracts its text and
// pattern-matches the lines. The returned error is reserved for I/O and
// extraction failures; an unsupported statement layout yields zero
// transactions plus a single top-level message.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (models.ParseResult, error) {
	tempFile, err := os.CreateTemp("", "*.pdf")
	if err != nil {
		return models.ParseResult{}, fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			p.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.F(logging.FieldFile, tempFile.Name()))
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		_ = tempFile.Close()
		return models.ParseResult{}, fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return models.ParseResult{}, fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	text, pageCount, err := p.extractor.ExtractText(ctx, tempFile.Name())
	if err != nil {
		return models.ParseResult{}, &parsererror.ExtractionError{Stage: "pdf text extraction", Err: err}
	}

	p.logger.WithFields(
		logging.F(logging.FieldFormat, FormatLabel),
		logging.F("pages", pageCount),
	).Debug("Extracted PDF text")

	return p.parseLines(strings.Split(text, "\n")), nil
}

// parseLines runs the three line shapes over every text line.
func (p *Parser) parseLines(lines []string) models.ParseResult {
	result := models.ParseResult{FormatLabel: FormatLabel}

	for _, line := range lines {
		line = strings.TrimSpace(strings.Trim(line, "\f"))
		if line == "" {
			continue
		}
		tx, ok := p.matchLine(line)
		if !ok {
			// Unmatched lines are overwhelmingly non-transaction text.
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) == 0 {
		result.Errors = append(result.Errors,
			"no transactions found: the statement format may be unsupported")
	}

	p.logger.WithFields(
		logging.F(logging.FieldFormat, FormatLabel),
		logging.F(logging.FieldCount, len(result.Transactions)),
	).Info("Parsed PDF statement")

	return result
}

func (p *Parser) matchLine(line string) (models.RawTransaction, bool) {
	// Two trailing amount columns means a debit/credit layout. This shape
	// must be tried first: the single-amount patterns would otherwise
	// swallow the debit column into the description.
	if m := lineDebitCredit.FindStringSubmatch(line); m != nil && m[3] != "" && m[4] != "" {
		d, errD := parseCell(m[3])
		c, errC := parseCell(m[4])
		description := textutils.CollapseWhitespace(m[2])
		if errD == nil && errC == nil && description != "" {
			return models.RawTransaction{
				Date:        m[1],
				Description: description,
				Amount:      c.Sub(d.Abs()),
				Currency:    models.DefaultCurrency,
			}, true
		}
	}
	if m := lineFullDate.FindStringSubmatch(line); m != nil {
		if tx, ok := p.buildTransaction(m[1], m[2], m[3]); ok {
			return tx, true
		}
	}
	if m := lineShortDate.FindStringSubmatch(line); m != nil {
		date := fmt.Sprintf("%s/%d", m[1], p.now().Year())
		if tx, ok := p.buildTransaction(date, m[2], m[3]); ok {
			return tx, true
		}
	}
	return models.RawTransaction{}, false
}

func (p *Parser) buildTransaction(date, description, amount string) (models.RawTransaction, bool) {
	parsed, err := textutils.ParseFrenchAmount(amount)
	if err != nil {
		return models.RawTransaction{}, false
	}
	description = textutils.CollapseWhitespace(description)
	if description == "" {
		return models.RawTransaction{}, false
	}
	return models.RawTransaction{
		Date:        date,
		Description: description,
		Amount:      parsed,
		Currency:    models.DefaultCurrency,
	}, true
}

func parseCell(s string) (d decimal.Decimal, err error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return textutils.ParseFrenchAmount(s)
}
