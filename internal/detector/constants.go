package detector

import "github.com/JordanBelfort38/noabo-sub000/internal/models"

// Every statistical threshold lives here so tuning never means touching the
// detection control flow.
const (
	// MinOccurrences is the minimum number of debits a merchant needs
	// before it is considered at all.
	MinOccurrences = 2

	// MaxAmountVariationPct rejects merchants whose charge amounts vary
	// too much: coefficient of variation of absolute amounts, in percent.
	MaxAmountVariationPct = 15.0

	// Thresholds for the "consistent but non-standard" interval fallback:
	// intervals regular enough (CV below the max) and long enough snap to
	// the closest ladder entry even when no entry matches directly.
	SnapMaxIntervalCVPct    = 20.0
	SnapMinMeanIntervalDays = 5.0

	// MinConfidence is the score below which a candidate is discarded.
	MinConfidence = 60

	// MaxConfidence caps the additive score.
	MaxConfidence = 100

	// Confidence weights. The score is additive out of 100.
	ManyOccurrences          = 3
	PointsManyOccurrences    = 40
	PointsFewOccurrences     = 20
	IntervalTightStddevDays  = 3.0
	PointsIntervalTight      = 20
	IntervalLooseStddevDays  = 5.0
	PointsIntervalLoose      = 10
	AmountTightCVPct         = 5.0
	PointsAmountTight        = 20
	AmountLooseCVPct         = 10.0
	PointsAmountLoose        = 10
	PointsKnownMerchant      = 10
	PointsPluralityCategory  = 10
)

// frequencySpec is one entry of the classification ladder.
type frequencySpec struct {
	frequency     models.Frequency
	targetDays    float64
	toleranceDays float64
}

// frequencyLadder is evaluated in order; the first entry whose target is
// within tolerance of the mean interval wins.
var frequencyLadder = []frequencySpec{
	{models.FrequencyWeekly, 7, 2},
	{models.FrequencyBiweekly, 14, 3},
	{models.FrequencyMonthly, 30, 5},
	{models.FrequencyBimonthly, 60, 7},
	{models.FrequencyQuarterly, 90, 10},
	{models.FrequencySemiannual, 180, 15},
	{models.FrequencyAnnual, 365, 30},
}

// targetDaysFor returns the ladder target for a frequency, used for
// next-charge extrapolation.
func targetDaysFor(frequency models.Frequency) float64 {
	for _, spec := range frequencyLadder {
		if spec.frequency == frequency {
			return spec.targetDays
		}
	}
	return 30
}
