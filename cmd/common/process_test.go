package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/pdfparser"
	"github.com/JordanBelfort38/noabo-sub000/internal/rules"
	"github.com/JordanBelfort38/noabo-sub000/internal/sniff"
	"github.com/JordanBelfort38/noabo-sub000/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func writeStatement(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportStatement_CSV(t *testing.T) {
	st := openTestStore(t)
	path := writeStatement(t, "releve.csv",
		"Date;Libellé;Montant(EUROS);Montant(FRANCS)\n"+
			"15/01/2024;PAIEMENT CB NETFLIX.COM;-13,49;-88,49\n"+
			"20/01/2024;VIR SALAIRE;2500,00;16398,94\n"+
			"notadate;BROKEN;1,00;6,56\n")

	summary, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, ImportOptions{
			UserID:       "u1",
			MaxSizeBytes: 1 << 20,
		})
	require.NoError(t, err)

	assert.Equal(t, "La Banque Postale", summary.Format)
	assert.Equal(t, 3, summary.Parsed)
	assert.Equal(t, 1, summary.Dropped)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Duplicates)

	txs, err := st.ListTransactions(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Netflix", txs[0].MerchantName)
}

func TestImportStatement_ReimportIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	path := writeStatement(t, "releve.csv",
		"Date;Libellé;Montant(EUROS);Montant(FRANCS)\n"+
			"15/01/2024;PAIEMENT CB NETFLIX.COM;-13,49;-88,49\n")
	opts := ImportOptions{UserID: "u1", MaxSizeBytes: 1 << 20}

	_, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, opts)
	require.NoError(t, err)

	summary, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 1, summary.Duplicates)
}

func TestImportStatement_QIF(t *testing.T) {
	st := openTestStore(t)
	path := writeStatement(t, "export.qif",
		"!Type:Bank\nD15/01/2024\nT-13.49\nPNETFLIX.COM\n^\n")

	summary, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, ImportOptions{
			UserID:       "u1",
			MaxSizeBytes: 1 << 20,
		})
	require.NoError(t, err)
	assert.Equal(t, "QIF", summary.Format)
	assert.Equal(t, 1, summary.Inserted)
}

func TestImportStatement_PDFWithMockExtractor(t *testing.T) {
	st := openTestStore(t)
	path := writeStatement(t, "releve.pdf", "%PDF-1.4 fake content")

	summary, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, ImportOptions{
			UserID:       "u1",
			MaxSizeBytes: 1 << 20,
			Extractor: &pdfparser.MockExtractor{
				Text: "15/01/2024  PAIEMENT CB SPOTIFY  -12,50\n",
			},
		})
	require.NoError(t, err)
	assert.Equal(t, "PDF", summary.Format)
	assert.Equal(t, 1, summary.Inserted)
}

func TestImportStatement_FormatOverride(t *testing.T) {
	st := openTestStore(t)
	// QIF content with a misleading extension; the override wins.
	path := writeStatement(t, "export.csv",
		"!Type:Bank\nD15/01/2024\nT-13.49\nPNETFLIX.COM\n^\n")

	summary, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, ImportOptions{
			UserID:         "u1",
			FormatOverride: string(sniff.FormatQIF),
			MaxSizeBytes:   1 << 20,
		})
	require.NoError(t, err)
	assert.Equal(t, "QIF", summary.Format)
	assert.Equal(t, 1, summary.Inserted)
}

func TestImportStatement_TooLarge(t *testing.T) {
	st := openTestStore(t)
	path := writeStatement(t, "big.csv", string(make([]byte, 2048)))

	_, err := ImportStatement(context.Background(), st, rules.DefaultTable(),
		logging.NewMockLogger(), path, ImportOptions{
			UserID:       "u1",
			MaxSizeBytes: 1024,
		})
	require.Error(t, err)

	var tooLarge *sniff.ErrTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}
