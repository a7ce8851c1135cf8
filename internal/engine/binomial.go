package engine

import (
	"errors"
	"math"
)

// ErrBadProbability reports a risk-neutral up probability outside [0,1],
// which happens when the rate drift outruns the volatility for the chosen
// step size.
var ErrBadProbability = errors.New("risk-neutral probability outside [0,1]")

// EuropeanBinomialPrice values a European option on a Cox-Ross-Rubinstein
// lattice with the given number of time steps. At t==0 the payoff is
// intrinsic value.
func EuropeanBinomialPrice(s, k, r, t, sigma float64, isCall bool, steps int) (float64, error) {
	if t == 0 {
		return intrinsic(s, k, isCall), nil
	}

	dt := t / float64(steps)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp(r*dt) - d) / (u - d)
	discount := math.Exp(-r * dt)

	if p < 0 || p > 1 {
		return 0, ErrBadProbability
	}

	prices := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		spotAtMaturity := s * math.Pow(u, float64(steps-i)) * math.Pow(d, float64(i))
		prices[i] = intrinsic(spotAtMaturity, k, isCall)
	}

	for step := steps - 1; step >= 0; step-- {
		for i := 0; i <= step; i++ {
			prices[i] = discount * (p*prices[i] + (1-p)*prices[i+1])
		}
	}

	return prices[0], nil
}

// AmericanBinomialPrice values an American option on the same lattice,
// taking the better of continuation and immediate exercise at every node.
func AmericanBinomialPrice(s, k, r, t, sigma float64, isCall bool, steps int) (float64, error) {
	if t == 0 {
		return intrinsic(s, k, isCall), nil
	}

	dt := t / float64(steps)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp(r*dt) - d) / (u - d)
	discount := math.Exp(-r * dt)

	if p < 0 || p > 1 {
		return 0, ErrBadProbability
	}

	prices := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		spot := s * math.Pow(u, float64(steps-i)) * math.Pow(d, float64(i))
		prices[i] = intrinsic(spot, k, isCall)
	}

	for step := steps - 1; step >= 0; step-- {
		for i := 0; i <= step; i++ {
			spot := s * math.Pow(u, float64(step-i)) * math.Pow(d, float64(i))
			hold := discount * (p*prices[i] + (1-p)*prices[i+1])
			prices[i] = math.Max(hold, intrinsic(spot, k, isCall))
		}
	}

	return prices[0], nil
}

func intrinsic(spot, strike float64, isCall bool) float64 {
	if isCall {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}
