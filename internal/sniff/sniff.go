// Package sniff identifies the format of an uploaded bank statement. The
// file extension is authoritative when recognized; otherwise the first bytes
// of content decide.
package sniff

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format names a supported statement format.
type Format string

const (
	FormatCSV     Format = "CSV"
	FormatOFX     Format = "OFX"
	FormatQIF     Format = "QIF"
	FormatPDF     Format = "PDF"
	FormatUnknown Format = ""
)

// ErrTooLarge is returned when a statement exceeds the configured size
// ceiling.
type ErrTooLarge struct {
	Size     int64
	MaxBytes int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("statement is %d bytes, exceeds the %d byte limit", e.Size, e.MaxBytes)
}

// DetectFromPath identifies the format from the file extension alone.
func DetectFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return FormatCSV
	case ".ofx":
		return FormatOFX
	case ".qif":
		return FormatQIF
	case ".pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// DetectFromContent identifies the format from the leading bytes. PDF and
// OFX carry recognizable signatures; QIF statements start with a "!Type"
// header. Anything else that looks like text is treated as CSV.
func DetectFromContent(data []byte) Format {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}

	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return FormatPDF
	case bytes.Contains(head, []byte("OFXHEADER")),
		bytes.Contains(head, []byte("<OFX")),
		bytes.Contains(head, []byte("<ofx")):
		return FormatOFX
	case bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n"), []byte("!")):
		return FormatQIF
	case looksBinary(head):
		return FormatUnknown
	default:
		return FormatCSV
	}
}

// Detect combines extension and content detection: the extension wins when
// recognized, content sniffing fills in the rest.
func Detect(path string, data []byte) Format {
	if format := DetectFromPath(path); format != FormatUnknown {
		return format
	}
	return DetectFromContent(data)
}

// ReadLimited reads a statement file, refusing anything over maxBytes. The
// size is checked via stat before reading so an oversized upload never
// reaches memory.
func ReadLimited(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat statement: %w", err)
	}
	if info.Size() > maxBytes {
		return nil, &ErrTooLarge{Size: info.Size(), MaxBytes: maxBytes}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}
	return data, nil
}

// looksBinary reports whether the head contains NUL bytes, which no
// supported text format produces.
func looksBinary(head []byte) bool {
	return bytes.IndexByte(head, 0) >= 0
}
