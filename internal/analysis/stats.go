package analysis

import (
	"math"
	"sort"
)

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// median of values; values is not modified
func median(values []float64) float64 {
	return quantile(values, 0.5)
}

// quantile uses linear interpolation between closest ranks
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// sampleStd is the n-1 standard deviation; zero for fewer than 2 values
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// pearson returns the correlation coefficient of x and y, or nil when it is
// undefined (fewer than 2 pairs or a constant series).
func pearson(x, y []float64) *float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return nil
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return nil
	}
	r := sxy / math.Sqrt(sxx*syy)
	return &r
}

// round to the given number of decimals, halves away from zero
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Describe holds summary statistics of a numeric series
type Describe struct {
	Count float64 `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Min   float64 `json:"min" yaml:"min"`
	Q25   float64 `json:"q25" yaml:"q25"`
	Q50   float64 `json:"q50" yaml:"q50"`
	Q75   float64 `json:"q75" yaml:"q75"`
	Max   float64 `json:"max" yaml:"max"`
}

func describe(values []float64) Describe {
	return Describe{
		Count: float64(len(values)),
		Mean:  mean(values),
		Std:   sampleStd(values),
		Min:   minOf(values),
		Q25:   quantile(values, 0.25),
		Q50:   quantile(values, 0.5),
		Q75:   quantile(values, 0.75),
		Max:   maxOf(values),
	}
}
