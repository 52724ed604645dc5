package detector

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		d := v - m
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// coefficientOfVariationPct is stddev over mean, in percent.
func coefficientOfVariationPct(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return math.Inf(1)
	}
	return stddev(values) / m * 100
}
