package stats

import "math"

// Trend is a least-squares fit y = Slope*x + Intercept with its Pearson r.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	N         int     `json:"n"`
}

// At evaluates the fitted line.
func (t Trend) At(x float64) float64 {
	return t.Slope*x + t.Intercept
}

// RSquared is the share of variance in y explained by x.
func (t Trend) RSquared() float64 {
	return t.R * t.R
}

// Fit returns the trend of y over x. ok is false for mismatched or short
// input, or when x has no spread. A flat y gives slope 0 and r 0.
func Fit(x, y []float64) (t Trend, ok bool) {
	c, ok := comoments(x, y)
	if !ok || c.sxx == 0 {
		return Trend{}, false
	}
	t = Trend{Slope: c.sxy / c.sxx, N: len(x)}
	t.Intercept = c.meanY - t.Slope*c.meanX
	if c.syy > 0 {
		t.R = c.sxy / math.Sqrt(c.sxx*c.syy)
	}
	return t, true
}

// PearsonCorrelation returns r in [-1, 1], or 0 when either side is constant
// or the input is unusable.
func PearsonCorrelation(x, y []float64) float64 {
	c, ok := comoments(x, y)
	if !ok || c.sxx == 0 || c.syy == 0 {
		return 0
	}
	return c.sxy / math.Sqrt(c.sxx*c.syy)
}

type pairMoments struct {
	meanX, meanY  float64
	sxx, syy, sxy float64
}

func comoments(x, y []float64) (pairMoments, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return pairMoments{}, false
	}
	var c pairMoments
	for i := range x {
		n := float64(i + 1)
		dx := x[i] - c.meanX
		dy := y[i] - c.meanY
		c.meanX += dx / n
		c.meanY += dy / n
		c.sxx += dx * (x[i] - c.meanX)
		c.syy += dy * (y[i] - c.meanY)
		c.sxy += dx * (y[i] - c.meanY)
	}
	return c, true
}
