package pdfparser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/parsererror"
)

const statementText = `RELEVE DE COMPTE - JANVIER 2024
Compte n° 00012345678

Date        Opération                          Montant
15/01/2024  PAIEMENT CB NETFLIX.COM            -13,49
17/01/2024  PRLV SEPA SPOTIFY                  -12,50
SOLDE AU 31/01/2024                          1 234,56 CREDITEUR
`

func TestParse_FullDateLines(t *testing.T) {
	parser := New(logging.NewMockLogger(), &MockExtractor{Text: statementText})

	result, err := parser.Parse(context.Background(), strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, FormatLabel, result.FormatLabel)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, "15/01/2024", first.Date)
	assert.Equal(t, "PAIEMENT CB NETFLIX.COM", first.Description)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-13.49")))
	assert.Equal(t, "EUR", first.Currency)
}

func TestParse_ShortDateLinesGetYearFromClock(t *testing.T) {
	text := "15/01  PAIEMENT CB NETFLIX.COM  -13,49\n"
	parser := New(logging.NewMockLogger(), &MockExtractor{Text: text})
	parser.now = func() time.Time {
		return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	}

	result, err := parser.Parse(context.Background(), strings.NewReader("fake"))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "15/01/2024", result.Transactions[0].Date)
}

func TestParse_DebitCreditColumns(t *testing.T) {
	text := strings.Join([]string{
		"Date        Opération                 Débit      Crédit",
		"15/01/2024  PRLV SEPA SPOTIFY         12,50      0,00",
		"17/01/2024  VIREMENT RECU             0,00       100,00",
	}, "\n")
	parser := New(logging.NewMockLogger(), &MockExtractor{Text: text})

	result, err := parser.Parse(context.Background(), strings.NewReader("fake"))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-12.50")),
		"got %s", result.Transactions[0].Amount)
	assert.True(t, result.Transactions[1].Amount.Equal(decimal.RequireFromString("100")),
		"got %s", result.Transactions[1].Amount)
}

func TestParse_NoTransactionLines(t *testing.T) {
	text := "RELEVE DE COMPTE\nRien d'utile ici\n"
	parser := New(logging.NewMockLogger(), &MockExtractor{Text: text})

	result, err := parser.Parse(context.Background(), strings.NewReader("fake"))
	require.NoError(t, err)

	assert.Empty(t, result.Transactions)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no transactions found")
}

func TestParse_ExtractionFailure(t *testing.T) {
	parser := New(logging.NewMockLogger(), &MockExtractor{Err: errors.New("pdftotext missing")})

	_, err := parser.Parse(context.Background(), strings.NewReader("fake"))
	require.Error(t, err)

	var extractionErr *parsererror.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}
