package engine

import (
	"errors"
	"fmt"
	"math"
)

const (
	ivDefaultGuess    = 0.5
	ivTolerance       = 1e-8
	ivMaxIterations   = 100
	ivMinVega         = 1e-10
	ivVolatilityCap   = 10.0
	ivVolatilityFloor = 0.01
)

// ErrNoConvergence is returned when the Newton-Raphson implied volatility
// search fails to settle within the iteration budget.
var ErrNoConvergence = errors.New("implied volatility did not converge")

// ImpliedVolatility inverts the Black-Scholes formula for volatility using
// Newton-Raphson on vega. The market price must be at or above intrinsic
// value and the option must not be expired.
func ImpliedVolatility(marketPrice, s, k, r, t float64, isCall bool) (float64, error) {
	if marketPrice < 0 {
		return 0, errors.New("market price cannot be negative")
	}
	if t <= 0 {
		return 0, errors.New("cannot imply volatility for an expired option")
	}

	intrinsic := math.Max(0, s-k)
	if !isCall {
		intrinsic = math.Max(0, k-s)
	}
	if marketPrice < intrinsic-1e-10 {
		return 0, errors.New("market price below intrinsic value")
	}

	sigma := ivDefaultGuess
	for i := 0; i < ivMaxIterations; i++ {
		price := CallPrice(s, k, r, t, sigma)
		if !isCall {
			price = PutPrice(s, k, r, t, sigma)
		}

		diff := price - marketPrice
		if math.Abs(diff) < ivTolerance {
			return sigma, nil
		}

		vega := Vega(s, k, r, t, sigma)
		if vega < ivMinVega {
			return 0, fmt.Errorf("vega too small at sigma=%g for Newton-Raphson", sigma)
		}

		sigma -= diff / vega
		if sigma <= 0 {
			sigma = ivVolatilityFloor
		}
		if sigma > ivVolatilityCap {
			sigma = ivVolatilityCap
		}
	}

	return 0, ErrNoConvergence
}
