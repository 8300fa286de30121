// Package stats computes the small descriptive figures shown beside charts.
package stats

import (
	"math"
	"slices"
)

// Summary describes a numeric series shown next to a chart.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P90    float64 `json:"p90"`
}

// Summarize computes a Summary. An empty series yields the zero Summary.
// StdDev is the sample deviation.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	m := moments(sorted)
	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   m.mean,
		Median: quantileSorted(sorted, 0.5),
		P90:    quantileSorted(sorted, 0.9),
	}
	if len(sorted) > 1 {
		s.StdDev = math.Sqrt(m.m2 / float64(len(sorted)-1))
	}
	return s
}

// Quantile returns the q-th quantile with linear interpolation. q is clamped
// to [0, 1]; values is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return quantileSorted(sorted, q)
}

// Median is Quantile(values, 0.5).
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

func quantileSorted(sorted []float64, q float64) float64 {
	q = min(max(q, 0), 1)
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

// welford holds running mean and sum of squared deviations.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func moments(values []float64) welford {
	var w welford
	for _, v := range values {
		w.n++
		d := v - w.mean
		w.mean += d / float64(w.n)
		w.m2 += d * (v - w.mean)
	}
	return w
}
