package ofxparser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// QIFFormatLabel is reported for recognized QIF documents.
const QIFFormatLabel = "QIF"

// QIFParser parses QIF exports: one field per line keyed by its first
// character, records separated by '^'.
type QIFParser struct {
	logger logging.Logger
}

// NewQIF creates a QIF parser. A nil logger falls back to the default.
func NewQIF(logger logging.Logger) *QIFParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &QIFParser{logger: logger}
}

// Parse reads the whole document and returns the parse triple.
func (p *QIFParser) Parse(r io.Reader) (models.ParseResult, error) {
	scanner := bufio.NewScanner(r)

	result := models.ParseResult{FormatLabel: QIFFormatLabel}
	record := tagMap{}
	sawHeader := false
	recordNo := 0

	flush := func() {
		if len(record) == 0 {
			return
		}
		recordNo++
		tx, err := p.convertRecord(record)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %v", recordNo, err))
		} else {
			result.Transactions = append(result.Transactions, tx)
		}
		record = tagMap{}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "!") {
			sawHeader = true
			continue
		}
		if line == "^" {
			flush()
			continue
		}
		code, value := line[:1], strings.TrimSpace(line[1:])
		switch code {
		case "D":
			record["D"] = value
		case "T", "U":
			record["T"] = value
		case "P":
			record["P"] = value
		case "M":
			record["M"] = value
		case "L":
			record["L"] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return models.ParseResult{}, fmt.Errorf("error reading statement: %w", err)
	}
	flush()

	if !sawHeader && len(result.Transactions) == 0 {
		return models.ParseResult{
			Errors: []string{"format not recognized: not a QIF document"},
		}, nil
	}

	p.logger.WithFields(
		logging.F(logging.FieldFormat, QIFFormatLabel),
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F(logging.FieldErrors, len(result.Errors)),
	).Info("Parsed QIF statement")

	return result, nil
}

func (p *QIFParser) convertRecord(record tagMap) (models.RawTransaction, error) {
	if record["D"] == "" {
		return models.RawTransaction{}, fmt.Errorf("missing date")
	}
	if record["T"] == "" {
		return models.RawTransaction{}, fmt.Errorf("missing amount")
	}
	// QIF amounts use US grouping ("1,234.56"); strip the commas.
	amount, err := parseSignedAmount(strings.ReplaceAll(record["T"], ",", ""))
	if err != nil {
		return models.RawTransaction{}, err
	}

	description := record["P"]
	if description == "" {
		description = record["M"]
	}
	if description == "" {
		description = descriptionPlaceholder
	}

	return models.RawTransaction{
		Date:        record["D"],
		Description: description,
		Amount:      amount,
		Currency:    models.DefaultCurrency,
		Category:    record["L"],
	}, nil
}
