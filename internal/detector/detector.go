// Package detector infers recurring subscriptions from a user's normalized
// transaction history. Detection is stateless: every run recomputes its
// candidates from scratch as a pure function of the history and "now".
package detector

import (
	"math"
	"sort"
	"time"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
	"github.com/JordanBelfort38/noabo-sub000/internal/models"
	"github.com/JordanBelfort38/noabo-sub000/internal/rules"
)

// Detector groups debits by merchant and fits an interval/amount model per
// group.
type Detector struct {
	table  rules.Table
	logger logging.Logger
	now    func() time.Time
}

// New creates a detector using the wall clock.
func New(table rules.Table, logger logging.Logger) *Detector {
	return NewAt(table, logger, time.Now)
}

// NewAt creates a detector with an injected clock, for deterministic
// extrapolation in tests.
func NewAt(table rules.Table, logger logging.Logger, now func() time.Time) *Detector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Detector{table: table, logger: logger, now: now}
}

// Detect runs the detection over a user's full transaction history. Only
// debits carrying a merchant name participate; everything else is ignored.
// Candidates come back ordered by confidence descending, ties broken by
// average amount descending.
func (d *Detector) Detect(history []models.NormalizedTransaction) []models.DetectedSubscription {
	merchants, groups := groupByMerchant(history)

	var candidates []models.DetectedSubscription
	for _, merchant := range merchants {
		if candidate, ok := d.evaluateGroup(merchant, groups[merchant]); ok {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].AverageAmountCents > candidates[j].AverageAmountCents
	})

	d.logger.WithField(logging.FieldCount, len(candidates)).Info("Detection run finished")
	return candidates
}

// groupByMerchant keeps first-seen merchant order so runs are deterministic.
func groupByMerchant(history []models.NormalizedTransaction) ([]string, map[string][]models.NormalizedTransaction) {
	var merchants []string
	groups := make(map[string][]models.NormalizedTransaction)
	for _, tx := range history {
		if !tx.IsDebit() || tx.MerchantName == "" {
			continue
		}
		if _, seen := groups[tx.MerchantName]; !seen {
			merchants = append(merchants, tx.MerchantName)
		}
		groups[tx.MerchantName] = append(groups[tx.MerchantName], tx)
	}
	return merchants, groups
}

func (d *Detector) evaluateGroup(merchant string, group []models.NormalizedTransaction) (models.DetectedSubscription, bool) {
	if len(group) < MinOccurrences {
		return models.DetectedSubscription{}, false
	}

	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Date.Before(group[j].Date)
	})

	intervals := dayIntervals(group)
	intervalMean := mean(intervals)
	intervalStddev := stddev(intervals)

	frequency, ok := classifyFrequency(intervalMean, intervalStddev)
	if !ok {
		d.logger.WithFields(
			logging.F(logging.FieldMerchant, merchant),
			logging.F(logging.FieldReason, "irregular intervals"),
		).Debug("Merchant rejected")
		return models.DetectedSubscription{}, false
	}

	amounts := make([]float64, len(group))
	for i, tx := range group {
		amounts[i] = math.Abs(float64(tx.AmountCents))
	}
	amountCV := coefficientOfVariationPct(amounts)
	if amountCV > MaxAmountVariationPct {
		d.logger.WithFields(
			logging.F(logging.FieldMerchant, merchant),
			logging.F(logging.FieldReason, "inconsistent amounts"),
		).Debug("Merchant rejected")
		return models.DetectedSubscription{}, false
	}

	confidence := d.scoreConfidence(merchant, group, intervalStddev, amountCV)
	if confidence < MinConfidence {
		d.logger.WithFields(
			logging.F(logging.FieldMerchant, merchant),
			logging.F("confidence", confidence),
		).Debug("Merchant below confidence threshold")
		return models.DetectedSubscription{}, false
	}

	first := group[0].Date
	last := group[len(group)-1].Date
	next := extrapolateNextCharge(last, targetDaysFor(frequency), d.now())

	ids := make([]string, len(group))
	for i, tx := range group {
		ids[i] = tx.ID
	}

	return models.DetectedSubscription{
		MerchantName:       merchant,
		AverageAmountCents: int64(math.Round(mean(amounts))),
		Frequency:          frequency,
		Confidence:         confidence,
		NextChargeDate:     next,
		FirstChargeDate:    first,
		LastChargeDate:     last,
		TransactionIDs:     ids,
		Category:           pluralityCategory(group),
		Occurrences:        len(group),
	}, true
}

func dayIntervals(group []models.NormalizedTransaction) []float64 {
	intervals := make([]float64, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		gap := group[i].Date.Sub(group[i-1].Date).Hours() / 24
		intervals = append(intervals, gap)
	}
	return intervals
}

// classifyFrequency walks the ladder in order and takes the first entry
// whose target is within tolerance of the mean interval. When none matches
// but the intervals are regular (CV under the snap threshold) and longer
// than the snap minimum, the numerically closest entry wins.
func classifyFrequency(intervalMean, intervalStddev float64) (models.Frequency, bool) {
	for _, spec := range frequencyLadder {
		if math.Abs(intervalMean-spec.targetDays) <= spec.toleranceDays {
			return spec.frequency, true
		}
	}

	if intervalMean > SnapMinMeanIntervalDays &&
		intervalStddev < intervalMean*SnapMaxIntervalCVPct/100 {
		best := frequencyLadder[0]
		for _, spec := range frequencyLadder[1:] {
			if math.Abs(intervalMean-spec.targetDays) < math.Abs(intervalMean-best.targetDays) {
				best = spec
			}
		}
		return best.frequency, true
	}

	return "", false
}

// scoreConfidence is the additive 0-100 heuristic. The sum cannot exceed 100
// by construction but is clamped anyway.
func (d *Detector) scoreConfidence(merchant string, group []models.NormalizedTransaction, intervalStddev, amountCV float64) int {
	score := 0

	if len(group) >= ManyOccurrences {
		score += PointsManyOccurrences
	} else if len(group) >= MinOccurrences {
		score += PointsFewOccurrences
	}

	if intervalStddev < IntervalTightStddevDays {
		score += PointsIntervalTight
	} else if intervalStddev < IntervalLooseStddevDays {
		score += PointsIntervalLoose
	}

	if amountCV < AmountTightCVPct {
		score += PointsAmountTight
	} else if amountCV < AmountLooseCVPct {
		score += PointsAmountLoose
	}

	if d.table.IsKnownSubscriptionMerchant(merchant) {
		score += PointsKnownMerchant
	}

	if pluralityCategory(group) == models.CategorySubscription {
		score += PointsPluralityCategory
	}

	if score > MaxConfidence {
		score = MaxConfidence
	}
	return score
}

// extrapolateNextCharge adds the frequency's target interval to the most
// recent charge until the result is strictly in the future.
func extrapolateNextCharge(last time.Time, targetDays float64, now time.Time) *time.Time {
	next := last
	step := time.Duration(targetDays * 24 * float64(time.Hour))
	for !next.After(now) {
		next = next.Add(step)
	}
	return &next
}

// pluralityCategory returns the most frequent non-empty category in the
// group, ties broken by first appearance.
func pluralityCategory(group []models.NormalizedTransaction) string {
	counts := make(map[string]int)
	var order []string
	for _, tx := range group {
		if tx.Category == "" {
			continue
		}
		if _, seen := counts[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		counts[tx.Category]++
	}

	best := ""
	bestCount := 0
	for _, category := range order {
		if counts[category] > bestCount {
			best = category
			bestCount = counts[category]
		}
	}
	return best
}
