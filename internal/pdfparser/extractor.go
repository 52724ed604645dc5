package pdfparser

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PDFExtractor is the external text-extraction collaborator: it turns a PDF
// file into its page count and plain text. Extraction may be slow on large
// documents, so implementations must honor context cancellation.
type PDFExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (text string, pageCount int, err error)
}

// PopplerExtractor extracts text with the pdftotext command. It is the
// production implementation and requires poppler-utils to be installed.
type PopplerExtractor struct{}

// NewPopplerExtractor creates a PopplerExtractor.
func NewPopplerExtractor() *PopplerExtractor {
	return &PopplerExtractor{}
}

// ExtractText runs pdftotext in layout mode. pdftotext separates pages with
// form feeds, which gives us the page count without a second tool.
func (e *PopplerExtractor) ExtractText(ctx context.Context, pdfPath string) (string, int, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", pdfPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext failed: %w", err)
	}
	text := string(out)
	pageCount := strings.Count(text, "\f") + 1
	return text, pageCount, nil
}

// MockExtractor returns predefined data instead of reading a PDF. Tests
// inject it to exercise the line-pattern matching without poppler.
type MockExtractor struct {
	Text      string
	PageCount int
	Err       error
}

// ExtractText returns the predefined mock text or error.
func (e *MockExtractor) ExtractText(ctx context.Context, pdfPath string) (string, int, error) {
	if e.Err != nil {
		return "", 0, e.Err
	}
	pages := e.PageCount
	if pages == 0 {
		pages = 1
	}
	return e.Text, pages, nil
}
