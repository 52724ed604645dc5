// Package ofxparser turns OFX bank statement exports into raw transactions.
// OFX 1.x documents are SGML and are handled by tag scanning; OFX 2.x
// documents are XML and are traversed with xpath. The package also parses
// QIF exports, which share the same tolerant record-level contract.
package ofxparser

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

// FormatLabel is reported for successfully recognized OFX documents.
const FormatLabel = "OFX"

// descriptionPlaceholder is emitted when a transaction has neither a name
// nor a memo field.
const descriptionPlaceholder = "(no description)"

// Parser parses OFX statements.
type Parser struct {
	logger logging.Logger
}

// New creates an OFX parser. A nil logger falls back to the default.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// Parse reads the whole document and returns the parse triple. The returned
// error is reserved for I/O failures; unrecognizable documents yield zero
// transactions plus a top-level message in Errors.
func (p *Parser) Parse(r io.Reader) (models.ParseResult, error) {
	result, _, err := p.ParseWithAccount(r)
	return result, err
}

// ParseWithAccount is Parse plus the account metadata the document declares.
func (p *Parser) ParseWithAccount(r io.Reader) (models.ParseResult, models.StatementAccount, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.ParseResult{}, models.StatementAccount{}, fmt.Errorf("error reading statement: %w", err)
	}
	text := string(data)

	if isXMLDocument(text) {
		return p.parseXML(text)
	}
	return p.parseSGML(text)
}

// parseSGML handles OFX 1.x documents, where close tags are optional and
// values run to the end of the line.
func (p *Parser) parseSGML(text string) (models.ParseResult, models.StatementAccount, error) {
	upper := strings.ToUpper(text)
	if !strings.Contains(upper, "<BANKTRANLIST") {
		return models.ParseResult{
			Errors: []string{"format not recognized: no transaction list found"},
		}, models.StatementAccount{}, nil
	}

	account := models.StatementAccount{
		BankID:      singleTagValue(text, "BANKID"),
		AccountID:   singleTagValue(text, "ACCTID"),
		AccountType: singleTagValue(text, "ACCTTYPE"),
		Currency:    singleTagValue(text, "CURDEF"),
	}

	result := models.ParseResult{FormatLabel: FormatLabel}
	for i, block := range transactionBlocks(text) {
		tx, err := p.convertBlock(block, account.Currency)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("transaction %d: %v", i+1, err))
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	p.logger.WithFields(
		logging.F(logging.FieldFormat, FormatLabel),
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F(logging.FieldErrors, len(result.Errors)),
	).Info("Parsed OFX statement")

	return result, account, nil
}

// parseXML handles OFX 2.x documents with xpath queries.
func (p *Parser) parseXML(text string) (models.ParseResult, models.StatementAccount, error) {
	root, err := xmlpath.Parse(strings.NewReader(text))
	if err != nil {
		return models.ParseResult{
			Errors: []string{fmt.Sprintf("format not recognized: %v", err)},
		}, models.StatementAccount{}, nil
	}

	if !xmlpath.MustCompile("//BANKTRANLIST").Exists(root) {
		return models.ParseResult{
			Errors: []string{"format not recognized: no transaction list found"},
		}, models.StatementAccount{}, nil
	}

	account := models.StatementAccount{
		BankID:      xpathString(root, "//BANKID"),
		AccountID:   xpathString(root, "//ACCTID"),
		AccountType: xpathString(root, "//ACCTTYPE"),
		Currency:    xpathString(root, "//CURDEF"),
	}

	result := models.ParseResult{FormatLabel: FormatLabel}
	iter := xmlpath.MustCompile("//STMTTRN").Iter(root)
	i := 0
	for iter.Next() {
		i++
		node := iter.Node()
		block := tagMap{
			"DTPOSTED": xpathString(node, "DTPOSTED"),
			"TRNAMT":   xpathString(node, "TRNAMT"),
			"NAME":     xpathString(node, "NAME"),
			"MEMO":     xpathString(node, "MEMO"),
		}
		tx, err := p.convertBlock(block, account.Currency)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("transaction %d: %v", i, err))
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	p.logger.WithFields(
		logging.F(logging.FieldFormat, FormatLabel),
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F(logging.FieldErrors, len(result.Errors)),
	).Info("Parsed OFX statement")

	return result, account, nil
}

// convertBlock builds one raw transaction from a tag map. Posting date and
// amount are required; description falls back from name to memo to a
// placeholder.
func (p *Parser) convertBlock(block tagMap, currency string) (models.RawTransaction, error) {
	posted := block["DTPOSTED"]
	if posted == "" {
		return models.RawTransaction{}, fmt.Errorf("missing posting date")
	}
	date, err := reduceOFXDate(posted)
	if err != nil {
		return models.RawTransaction{}, err
	}

	rawAmount := block["TRNAMT"]
	if rawAmount == "" {
		return models.RawTransaction{}, fmt.Errorf("missing amount")
	}
	amount, err := parseSignedAmount(rawAmount)
	if err != nil {
		return models.RawTransaction{}, err
	}

	description := block["NAME"]
	if description == "" {
		description = block["MEMO"]
	}
	if description == "" {
		description = descriptionPlaceholder
	}

	if currency == "" {
		currency = models.DefaultCurrency
	}

	return models.RawTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Currency:    currency,
	}, nil
}

func xpathString(node *xmlpath.Node, path string) string {
	if value, ok := xmlpath.MustCompile(path).String(node); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func isXMLDocument(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<?xml")
}
