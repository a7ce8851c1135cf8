// Package instrument defines the option contracts the risk engine prices
// and the uniform capability set they expose: price, the four Greeks,
// self-validation, and identity. Each variant validates its own parameters
// at construction and the supplied market data on every call, delegates
// valuation to a pricing engine, and sanity-checks every number before
// returning it.
package instrument

import (
	"fmt"
	"math"
)

// OptionType distinguishes calls from puts. Fixed at construction.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	if t == Put {
		return "put"
	}
	return "call"
}

// PricingModel selects the valuation engine a European option delegates to.
type PricingModel int

const (
	BlackScholes PricingModel = iota
	Binomial
	MertonJumpDiffusion
)

func (m PricingModel) String() string {
	switch m {
	case BlackScholes:
		return "black_scholes"
	case Binomial:
		return "binomial"
	case MertonJumpDiffusion:
		return "merton_jump_diffusion"
	default:
		return fmt.Sprintf("PricingModel(%d)", int(m))
	}
}

// BarrierKind names the four barrier topologies.
type BarrierKind int

const (
	DownIn BarrierKind = iota
	DownOut
	UpIn
	UpOut
)

func (k BarrierKind) String() string {
	switch k {
	case DownIn:
		return "down_in"
	case DownOut:
		return "down_out"
	case UpIn:
		return "up_in"
	default:
		return "up_out"
	}
}

// AverageKind selects how an Asian option averages its fixings.
type AverageKind int

const (
	Arithmetic AverageKind = iota
	Geometric
)

func (k AverageKind) String() string {
	if k == Geometric {
		return "geometric"
	}
	return "arithmetic"
}

// MarketData is the caller-supplied market snapshot. It is passed by value
// on every call and never retained.
type MarketData struct {
	SpotPrice    float64
	RiskFreeRate float64
	Volatility   float64
}

// Instrument is the capability set every option variant implements.
type Instrument interface {
	Price(md MarketData) (float64, error)
	Delta(md MarketData) (float64, error)
	Gamma(md MarketData) (float64, error)
	Vega(md MarketData) (float64, error)
	Theta(md MarketData) (float64, error)

	// IsValid re-runs the construction invariants and reports the outcome
	// as a bool; it never fails.
	IsValid() bool

	// InstrumentType returns the fixed variant name.
	InstrumentType() string

	// AssetID returns the underlying identifier.
	AssetID() string
}

// ValidateMarketData enforces the per-call market-data invariants. All
// four variants share it, including the non-finite checks.
func ValidateMarketData(md MarketData) error {
	if md.SpotPrice <= 0 {
		return fmt.Errorf("%w: spot price must be positive", ErrInvalidInput)
	}
	if md.Volatility < 0 {
		return fmt.Errorf("%w: volatility cannot be negative", ErrInvalidInput)
	}
	if math.IsNaN(md.SpotPrice) || math.IsInf(md.SpotPrice, 0) {
		return fmt.Errorf("%w: spot price is not finite", ErrInvalidInput)
	}
	if math.IsNaN(md.RiskFreeRate) || math.IsInf(md.RiskFreeRate, 0) {
		return fmt.Errorf("%w: risk-free rate is not finite", ErrInvalidInput)
	}
	if math.IsNaN(md.Volatility) || math.IsInf(md.Volatility, 0) {
		return fmt.Errorf("%w: volatility is not finite", ErrInvalidInput)
	}
	return nil
}

// checkPrice rejects non-finite or negative prices.
func checkPrice(v float64, what string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: invalid %s calculated", ErrComputation, what)
	}
	return v, nil
}

// checkFinite rejects non-finite sensitivities (delta, theta).
func checkFinite(v float64, what string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: invalid %s calculated", ErrComputation, what)
	}
	return v, nil
}

// checkNonNegative rejects non-finite or negative sensitivities (gamma,
// vega).
func checkNonNegative(v float64, what string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: invalid %s calculated", ErrComputation, what)
	}
	return v, nil
}
