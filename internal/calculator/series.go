package calculator

import (
	"errors"
	"math"
)

// SMASeries computes the trailing simple moving average for every index of
// values. Entries before index period-1 are nil (insufficient window).
func SMASeries(values []float64, period int) ([]*float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]*float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			m := sum / float64(period)
			out[i] = &m
		}
	}
	return out, nil
}

// EMASeries computes the exponentially-weighted moving average with
// smoothing 2/(span+1), seeded from the first value. Entries before index
// span-1 are nil so all derived columns share the same window invariant.
func EMASeries(values []float64, span int) ([]*float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	out := make([]*float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := values[0]
	for i, v := range values {
		if i > 0 {
			ema = alpha*v + (1-alpha)*ema
		}
		if i >= span-1 {
			e := ema
			out[i] = &e
		}
	}
	return out, nil
}

// RollingStdSeries computes the trailing sample standard deviation over a
// fixed window. Entries before index period-1 are nil.
func RollingStdSeries(values []float64, period int) ([]*float64, error) {
	if period <= 1 {
		return nil, errors.New("period must be at least 2")
	}
	out := make([]*float64, len(values))
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)
		var ss float64
		for _, v := range window {
			d := v - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(period-1))
		out[i] = &sd
	}
	return out, nil
}
