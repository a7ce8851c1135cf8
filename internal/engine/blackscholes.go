// Package engine implements the valuation formulas the instrument layer
// delegates to: the Black-Scholes closed form with analytic Greeks, a
// Cox-Ross-Rubinstein binomial lattice for European and American exercise,
// and the Merton jump-diffusion series.
//
// All functions are pure: they read their arguments, allocate nothing that
// escapes, and touch no shared state. Input domain checking is the caller's
// job; pathological inputs (zero time, zero volatility) degrade to intrinsic
// value or zero rather than failing, matching the closed-form limits.
package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

func normCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return stdNormal.Prob(x)
}

func d1d2(s, k, r, t, sigma float64) (float64, float64) {
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	return d1, d2
}

// CallPrice returns the Black-Scholes price of a European call.
// At t<=0 or sigma<=0 the price collapses to intrinsic value.
func CallPrice(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return math.Max(0, s-k)
	}
	d1, d2 := d1d2(s, k, r, t, sigma)
	return s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
}

// PutPrice returns the Black-Scholes price of a European put.
func PutPrice(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return math.Max(0, k-s)
	}
	d1, d2 := d1d2(s, k, r, t, sigma)
	return k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
}

// CallDelta returns dPrice/dSpot for a call. The degenerate limit is a
// step function around the strike.
func CallDelta(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		if s > k {
			return 1
		}
		return 0
	}
	d1, _ := d1d2(s, k, r, t, sigma)
	return normCDF(d1)
}

// PutDelta returns dPrice/dSpot for a put.
func PutDelta(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		if s < k {
			return -1
		}
		return 0
	}
	d1, _ := d1d2(s, k, r, t, sigma)
	return normCDF(d1) - 1
}

// Gamma returns d²Price/dSpot², identical for calls and puts.
func Gamma(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	d1, _ := d1d2(s, k, r, t, sigma)
	return normPDF(d1) / (s * sigma * math.Sqrt(t))
}

// Vega returns dPrice/dVol per unit of volatility, identical for calls
// and puts.
func Vega(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	d1, _ := d1d2(s, k, r, t, sigma)
	return s * normPDF(d1) * math.Sqrt(t)
}

// CallTheta returns the call's time decay per calendar day.
func CallTheta(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	d1, d2 := d1d2(s, k, r, t, sigma)
	term1 := -(s * normPDF(d1) * sigma) / (2 * math.Sqrt(t))
	term2 := r * k * math.Exp(-r*t) * normCDF(d2)
	return (term1 - term2) / 365
}

// PutTheta returns the put's time decay per calendar day.
func PutTheta(s, k, r, t, sigma float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	d1, d2 := d1d2(s, k, r, t, sigma)
	term1 := -(s * normPDF(d1) * sigma) / (2 * math.Sqrt(t))
	term2 := r * k * math.Exp(-r*t) * normCDF(-d2)
	return (term1 + term2) / 365
}

// CallRho returns dPrice/dRate per 1% rate move for a call.
func CallRho(s, k, r, t, sigma float64) float64 {
	if t <= 0 {
		return 0
	}
	_, d2 := d1d2(s, k, r, t, sigma)
	return k * t * math.Exp(-r*t) * normCDF(d2) / 100
}

// PutRho returns dPrice/dRate per 1% rate move for a put.
func PutRho(s, k, r, t, sigma float64) float64 {
	if t <= 0 {
		return 0
	}
	_, d2 := d1d2(s, k, r, t, sigma)
	return -k * t * math.Exp(-r*t) * normCDF(-d2) / 100
}
