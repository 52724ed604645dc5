package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordanBelfort38/noabo-sub000/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleTransactions() []models.NormalizedTransaction {
	return []models.NormalizedTransaction{
		{
			ID:           "t1",
			Date:         date("2024-01-15"),
			Description:  "NETFLIX.COM",
			AmountCents:  -1349,
			Currency:     "EUR",
			Category:     "subscription",
			MerchantName: "Netflix",
			IsRecurring:  true,
		},
		{
			ID:          "t2",
			Date:        date("2024-01-20"),
			Description: "VIR SALAIRE",
			AmountCents: 250000,
			Currency:    "EUR",
		},
	}
}

func TestWriteTransactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "transactions.csv")

	require.NoError(t, WriteTransactions(sampleTransactions(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "id,date,description,amount,currency,category,merchant,recurring", lines[0])
	assert.Equal(t, "t1,2024-01-15,NETFLIX.COM,-13.49,EUR,subscription,Netflix,true", lines[1])
	assert.Equal(t, "t2,2024-01-20,VIR SALAIRE,2500.00,EUR,,,false", lines[2])
}

func TestWriteSubscriptions(t *testing.T) {
	next := date("2024-04-13")
	subs := []models.Subscription{
		{
			MerchantName:   "Netflix",
			AmountCents:    1349,
			Frequency:      models.FrequencyMonthly,
			Confidence:     90,
			NextChargeDate: &next,
			LastChargeDate: date("2024-03-14"),
			Category:       "subscription",
			TransactionIDs: []string{"t1", "t2", "t3"},
		},
		{
			MerchantName:   "Gym Club",
			AmountCents:    2999,
			Frequency:      models.FrequencyMonthly,
			Confidence:     70,
			LastChargeDate: date("2024-03-05"),
		},
	}
	path := filepath.Join(t.TempDir(), "subscriptions.csv")

	require.NoError(t, WriteSubscriptions(subs, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "merchant,amount,currency,frequency,confidence,next_charge_date,last_charge_date,category,occurrences", lines[0])
	assert.Equal(t, "Netflix,13.49,EUR,monthly,90,2024-04-13,2024-03-14,subscription,3", lines[1])
	// No next charge date yields an empty column.
	assert.Equal(t, "Gym Club,29.99,EUR,monthly,70,,2024-03-05,,0", lines[2])
}

func TestMarshalTransactions(t *testing.T) {
	csvText, err := MarshalTransactions(sampleTransactions())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "NETFLIX.COM")
}

func TestCentsToAmount(t *testing.T) {
	assert.Equal(t, "-13.49", centsToAmount(-1349))
	assert.Equal(t, "0.00", centsToAmount(0))
	assert.Equal(t, "2500.00", centsToAmount(250000))
}
