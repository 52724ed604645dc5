// Package common contains the statement import pipeline shared by command
// handlers.
package common

import (
	"bytes"
	"context"
	"fmt"

	"github.com/JordanBelfort38/noabo-sub000/internal/csvparser"
	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
	"github.com/JordanBelfort38/noabo-sub000/internal/normalizer"
	"github.com/JordanBelfort38/noabo-sub000/internal/ofxparser"
	"github.com/JordanBelfort38/noabo-sub000/internal/parsererror"
	"github.com/JordanBelfort38/noabo-sub000/internal/pdfparser"
	"github.com/JordanBelfort38/noabo-sub000/internal/rules"
	"github.com/JordanBelfort38/noabo-sub000/internal/sniff"
	"github.com/JordanBelfort38/noabo-sub000/internal/store"
)

// ImportSummary reports what happened to one statement.
type ImportSummary struct {
	Format      string
	Parsed      int
	ParseErrors []string
	Dropped     int
	Inserted    int
	Duplicates  int
}

// ImportOptions configures one import run.
type ImportOptions struct {
	UserID         string
	FormatOverride string // empty means sniff
	MaxSizeBytes   int64
	Extractor      pdfparser.PDFExtractor // nil means pdftotext
}

// ImportStatement runs the full pipeline for one statement file: size check,
// format identification, parsing, normalization, persistence. Row-level
// problems end up in the summary; only infrastructure failures return an
// error.
func ImportStatement(ctx context.Context, st *store.Store, table rules.Table, log logging.Logger, path string, opts ImportOptions) (ImportSummary, error) {
	var summary ImportSummary

	data, err := sniff.ReadLimited(path, opts.MaxSizeBytes)
	if err != nil {
		return summary, err
	}

	format := sniff.Format(opts.FormatOverride)
	if format == sniff.FormatUnknown {
		format = sniff.Detect(path, data)
	}

	result, err := parseStatement(ctx, log, format, data, opts.Extractor)
	if err != nil {
		return summary, err
	}
	summary.Format = result.FormatLabel
	summary.Parsed = len(result.Transactions)
	summary.ParseErrors = result.Errors

	log.WithFields(
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldFormat, summary.Format),
		logging.F(logging.FieldCount, summary.Parsed),
		logging.F(logging.FieldErrors, len(summary.ParseErrors)),
	).Info("Parsed statement")

	normalized, dropped := normalizer.New(table, log).NormalizeAll(result.Transactions)
	summary.Dropped = dropped

	inserted, err := st.InsertTransactions(ctx, opts.UserID, normalized)
	if err != nil {
		return summary, fmt.Errorf("persist transactions: %w", err)
	}
	summary.Inserted = inserted.Inserted
	summary.Duplicates = inserted.Duplicates

	return summary, nil
}

func parseStatement(ctx context.Context, log logging.Logger, format sniff.Format, data []byte, extractor pdfparser.PDFExtractor) (models.ParseResult, error) {
	switch format {
	case sniff.FormatCSV:
		return csvparser.New(log).Parse(bytes.NewReader(data))
	case sniff.FormatOFX:
		return ofxparser.New(log).Parse(bytes.NewReader(data))
	case sniff.FormatQIF:
		return ofxparser.NewQIF(log).Parse(bytes.NewReader(data))
	case sniff.FormatPDF:
		if extractor == nil {
			extractor = pdfparser.NewPopplerExtractor()
		}
		return pdfparser.New(log, extractor).Parse(ctx, bytes.NewReader(data))
	default:
		return models.ParseResult{}, &parsererror.InvalidFormatError{
			ExpectedFormat: "CSV, OFX, QIF or PDF",
			Msg:            "unrecognized statement format",
		}
	}
}
