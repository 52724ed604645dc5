package detector

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
	"github.com/JordanBelfort38/noabo-sub000/internal/rules"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// charges builds a debit series for one merchant: one transaction per date,
// all with the same amount and category.
func charges(merchant, category string, amountCents int64, dates ...string) []models.NormalizedTransaction {
	txs := make([]models.NormalizedTransaction, len(dates))
	for i, d := range dates {
		txs[i] = models.NormalizedTransaction{
			ID:           merchant + "-" + d,
			UserID:       "u1",
			Date:         date(d),
			Description:  merchant,
			AmountCents:  amountCents,
			Currency:     "EUR",
			Category:     category,
			MerchantName: merchant,
		}
	}
	return txs
}

func newTestDetector(now string) *Detector {
	return NewAt(rules.DefaultTable(), logging.NewMockLogger(), func() time.Time {
		return date(now)
	})
}

func TestClassifyFrequency(t *testing.T) {
	tests := []struct {
		name   string
		mean   float64
		stddev float64
		want   models.Frequency
		ok     bool
	}{
		{"weekly", 7, 0, models.FrequencyWeekly, true},
		{"biweekly", 14.5, 1, models.FrequencyBiweekly, true},
		{"monthly exact", 30, 0, models.FrequencyMonthly, true},
		{"monthly within tolerance", 33, 1, models.FrequencyMonthly, true},
		{"bimonthly", 61, 2, models.FrequencyBimonthly, true},
		{"quarterly", 92, 3, models.FrequencyQuarterly, true},
		{"semiannual", 180, 4, models.FrequencySemiannual, true},
		{"annual", 365, 10, models.FrequencyAnnual, true},
		{"regular off-ladder snaps to closest", 40.5, 0.5, models.FrequencyMonthly, true},
		{"between monthly and bimonthly snaps to bimonthly", 45.5, 0.5, models.FrequencyBimonthly, true},
		{"irregular off-ladder rejected", 45.5, 20, "", false},
		{"too short for snapping", 4, 0.1, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyFrequency(tt.mean, tt.stddev)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetect_MonthlySubscription(t *testing.T) {
	history := charges("Netflix", models.CategorySubscription, -1349,
		"2024-01-15", "2024-02-15", "2024-03-14")

	candidates := newTestDetector("2024-03-20").Detect(history)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Netflix", c.MerchantName)
	assert.Equal(t, models.FrequencyMonthly, c.Frequency)
	assert.Equal(t, int64(1349), c.AverageAmountCents)
	assert.Equal(t, 3, c.Occurrences)
	assert.Equal(t, models.CategorySubscription, c.Category)

	// 3 occurrences (+40), stddev 1.5 (+20), amount CV 0 (+20),
	// known merchant (+10), plurality category subscription (+10).
	assert.Equal(t, 100, c.Confidence)

	assert.Equal(t, date("2024-01-15"), c.FirstChargeDate)
	assert.Equal(t, date("2024-03-14"), c.LastChargeDate)
	require.NotNil(t, c.NextChargeDate)
	assert.Equal(t, "2024-04-13", c.NextChargeDate.Format("2006-01-02"))

	assert.Equal(t, []string{
		"Netflix-2024-01-15", "Netflix-2024-02-15", "Netflix-2024-03-14",
	}, c.TransactionIDs)
}

func TestDetect_TwoOccurrencesLowerConfidence(t *testing.T) {
	history := charges("Netflix", models.CategorySubscription, -1349,
		"2024-01-15", "2024-02-15")

	candidates := newTestDetector("2024-02-20").Detect(history)
	require.Len(t, candidates, 1)

	// 2 occurrences (+20), single interval stddev 0 (+20), amount CV 0 (+20),
	// known merchant (+10), plurality category (+10).
	assert.Equal(t, 80, candidates[0].Confidence)
}

func TestDetect_RejectsSingleOccurrence(t *testing.T) {
	history := charges("Netflix", models.CategorySubscription, -1349, "2024-01-15")
	assert.Empty(t, newTestDetector("2024-02-01").Detect(history))
}

func TestDetect_RejectsIrregularIntervals(t *testing.T) {
	history := charges("Netflix", models.CategorySubscription, -1349,
		"2024-01-01", "2024-01-05", "2024-03-20")
	assert.Empty(t, newTestDetector("2024-04-01").Detect(history))
}

func TestDetect_RejectsInconsistentAmounts(t *testing.T) {
	history := append(
		charges("Carrefour", "groceries", -5000, "2024-01-15", "2024-02-15"),
		charges("Carrefour", "groceries", -12000, "2024-03-15")...)

	assert.Empty(t, newTestDetector("2024-04-01").Detect(history))
}

func TestDetect_IgnoresCreditsAndMerchantlessDebits(t *testing.T) {
	history := []models.NormalizedTransaction{
		{ID: "t1", Date: date("2024-01-15"), AmountCents: 250000, MerchantName: "Employer"},
		{ID: "t2", Date: date("2024-02-15"), AmountCents: 250000, MerchantName: "Employer"},
		{ID: "t3", Date: date("2024-03-15"), AmountCents: 250000, MerchantName: "Employer"},
		{ID: "t4", Date: date("2024-01-20"), AmountCents: -1000},
		{ID: "t5", Date: date("2024-02-20"), AmountCents: -1000},
	}

	assert.Empty(t, newTestDetector("2024-04-01").Detect(history))
}

func TestDetect_UnknownMerchantStillDetected(t *testing.T) {
	// A gym-like merchant absent from the allow-list: no +10 bonus but still
	// above the threshold with three tight occurrences.
	history := charges("Gym Club", "", -2999,
		"2024-01-05", "2024-02-05", "2024-03-05")

	candidates := newTestDetector("2024-03-10").Detect(history)
	require.Len(t, candidates, 1)

	// 3 occurrences (+40), stddev ~0.5 (+20), amount CV 0 (+20).
	assert.Equal(t, 80, candidates[0].Confidence)
	assert.Equal(t, models.FrequencyMonthly, candidates[0].Frequency)
}

func TestDetect_BelowThresholdRejected(t *testing.T) {
	// Two occurrences (+20), single interval (+20), amounts varying ~8%
	// (+10), unknown merchant, no category: 50 < 60.
	history := []models.NormalizedTransaction{
		{ID: "a", Date: date("2024-01-01"), AmountCents: -2000, MerchantName: "Gym Club"},
		{ID: "b", Date: date("2024-02-06"), AmountCents: -2350, MerchantName: "Gym Club"},
	}

	assert.Empty(t, newTestDetector("2024-03-01").Detect(history))
}

func TestDetect_OrderingByConfidenceThenAmount(t *testing.T) {
	history := append(
		charges("Gym Club", "", -2999, "2024-01-05", "2024-02-05", "2024-03-05"),
		charges("Netflix", models.CategorySubscription, -1349,
			"2024-01-15", "2024-02-15", "2024-03-14")...)
	history = append(history,
		charges("Dropbox", models.CategorySubscription, -1199,
			"2024-01-10", "2024-02-10", "2024-03-11")...)

	candidates := newTestDetector("2024-03-20").Detect(history)
	require.Len(t, candidates, 3)

	assert.Equal(t, "Netflix", candidates[0].MerchantName)
	assert.Equal(t, "Dropbox", candidates[1].MerchantName)
	assert.Equal(t, "Gym Club", candidates[2].MerchantName)
	assert.GreaterOrEqual(t, candidates[0].Confidence, candidates[1].Confidence)
	assert.GreaterOrEqual(t, candidates[1].Confidence, candidates[2].Confidence)
}

func TestExtrapolateNextCharge_SkipsPastDates(t *testing.T) {
	// Last charge far in the past: extrapolation steps forward until the
	// result is strictly in the future.
	next := extrapolateNextCharge(date("2024-01-15"), 30, date("2024-03-20"))
	require.NotNil(t, next)
	assert.Equal(t, "2024-04-14", next.Format("2006-01-02"))
}

func TestPluralityCategory(t *testing.T) {
	group := []models.NormalizedTransaction{
		{Category: "subscription"},
		{Category: "entertainment"},
		{Category: "subscription"},
		{Category: ""},
	}
	assert.Equal(t, "subscription", pluralityCategory(group))

	// Ties go to the first seen.
	tied := []models.NormalizedTransaction{
		{Category: "entertainment"},
		{Category: "subscription"},
	}
	assert.Equal(t, "entertainment", pluralityCategory(tied))

	assert.Equal(t, "", pluralityCategory(nil))
}

func TestStats(t *testing.T) {
	assert.Equal(t, 30.0, mean([]float64{29, 30, 31}))
	assert.InDelta(t, 0.8165, stddev([]float64{29, 30, 31}), 0.001)
	assert.Equal(t, 0.0, coefficientOfVariationPct([]float64{10, 10, 10}))
	assert.True(t, math.IsInf(coefficientOfVariationPct([]float64{0, 0}), 1))
}
