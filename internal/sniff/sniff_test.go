package sniff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"statement.csv", FormatCSV},
		{"statement.CSV", FormatCSV},
		{"statement.tsv", FormatCSV},
		{"export.ofx", FormatOFX},
		{"export.qif", FormatQIF},
		{"releve.pdf", FormatPDF},
		{"releve.txt", FormatUnknown},
		{"releve", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFromPath(tt.path))
		})
	}
}

func TestDetectFromContent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"pdf signature", "%PDF-1.4 rest of document", FormatPDF},
		{"ofx sgml header", "OFXHEADER:100\nDATA:OFXSGML\n", FormatOFX},
		{"ofx xml", "<?xml version=\"1.0\"?>\n<OFX><BANKTRANLIST/></OFX>", FormatOFX},
		{"qif header", "!Type:Bank\nD15/01/2024\n", FormatQIF},
		{"qif with leading blank line", "\n!Type:Bank\n", FormatQIF},
		{"plain text falls back to csv", "Date;Libellé;Montant\n", FormatCSV},
		{"binary is unknown", "GIF89a\x00\x00\x01", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFromContent([]byte(tt.data)))
		})
	}
}

func TestDetect_ExtensionWins(t *testing.T) {
	// A QIF-looking body with a .csv extension stays CSV.
	assert.Equal(t, FormatCSV, Detect("export.csv", []byte("!Type:Bank\n")))
	// No recognized extension defers to content.
	assert.Equal(t, FormatQIF, Detect("export.dat", []byte("!Type:Bank\n")))
}

func TestReadLimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date;Montant\n"), 0600))

	data, err := ReadLimited(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "Date;Montant\n", string(data))
}

func TestReadLimited_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0600))

	_, err := ReadLimited(path, 1024)
	require.Error(t, err)

	var tooLarge *ErrTooLarge
	assert.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(2048), tooLarge.Size)
}

func TestReadLimited_MissingFile(t *testing.T) {
	_, err := ReadLimited(filepath.Join(t.TempDir(), "absent.csv"), 1024)
	assert.Error(t, err)
}
