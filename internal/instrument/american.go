package instrument

import (
	"fmt"
	"math"

	"github.com/quantrisk/engine/internal/engine"
)

// AmericanOption prices early-exercise options on a binomial lattice. The
// step count is mutable; all Greeks are finite difference because the
// lattice exposes price only.
type AmericanOption struct {
	optionType   OptionType
	strikePrice  float64
	timeToExpiry float64
	assetID      string

	binomialSteps int
}

var _ Instrument = (*AmericanOption)(nil)

// NewAmericanOption constructs an American option with the given lattice
// resolution.
func NewAmericanOption(optionType OptionType, strike, timeToExpiry float64, assetID string, binomialSteps int) (*AmericanOption, error) {
	o := &AmericanOption{
		optionType:    optionType,
		strikePrice:   strike,
		timeToExpiry:  timeToExpiry,
		assetID:       assetID,
		binomialSteps: binomialSteps,
	}
	if err := o.validateParameters(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *AmericanOption) validateParameters() error {
	if o.strikePrice <= 0 {
		return fmt.Errorf("%w: strike price must be positive", ErrInvalidInput)
	}
	if o.timeToExpiry < 0 {
		return fmt.Errorf("%w: time to expiry cannot be negative", ErrInvalidInput)
	}
	if o.assetID == "" {
		return fmt.Errorf("%w: asset id cannot be empty", ErrInvalidInput)
	}
	if o.binomialSteps < minBinomialSteps || o.binomialSteps > maxBinomialSteps {
		return fmt.Errorf("%w: binomial steps must be between %d and %d", ErrInvalidInput, minBinomialSteps, maxBinomialSteps)
	}
	return nil
}

// IsValid reports whether the instrument's parameters still satisfy the
// construction invariants.
func (o *AmericanOption) IsValid() bool {
	return o.validateParameters() == nil
}

func (o *AmericanOption) InstrumentType() string { return "AmericanOption" }
func (o *AmericanOption) AssetID() string        { return o.assetID }

func (o *AmericanOption) OptionType() OptionType { return o.optionType }
func (o *AmericanOption) Strike() float64        { return o.strikePrice }
func (o *AmericanOption) TimeToExpiry() float64  { return o.timeToExpiry }
func (o *AmericanOption) BinomialSteps() int     { return o.binomialSteps }

// SetBinomialSteps replaces the lattice resolution, re-validating the
// bound.
func (o *AmericanOption) SetBinomialSteps(steps int) error {
	if steps < minBinomialSteps || steps > maxBinomialSteps {
		return fmt.Errorf("%w: binomial steps must be between %d and %d", ErrInvalidInput, minBinomialSteps, maxBinomialSteps)
	}
	o.binomialSteps = steps
	return nil
}

// IntrinsicValue returns the payoff of immediate exercise against the
// given spot.
func (o *AmericanOption) IntrinsicValue(spot float64) float64 {
	if o.optionType == Call {
		return math.Max(0, spot-o.strikePrice)
	}
	return math.Max(0, o.strikePrice-spot)
}

// Price values the option on the American lattice.
func (o *AmericanOption) Price(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}

	result, err := engine.AmericanBinomialPrice(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility, o.optionType == Call, o.binomialSteps)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	return checkPrice(result, "american option price")
}

func (o *AmericanOption) Delta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdDelta(o.Price, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "delta")
}

func (o *AmericanOption) Gamma(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdGamma(o.Delta, md)
	if err != nil {
		return 0, err
	}
	return checkNonNegative(result, "gamma")
}

func (o *AmericanOption) Vega(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdVega(o.Price, md)
	if err != nil {
		return 0, err
	}
	return checkNonNegative(result, "vega")
}

func (o *AmericanOption) Theta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdTheta(o.timeToExpiry, o.Price, o.priceAtExpiry, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "theta")
}

func (o *AmericanOption) priceAtExpiry(timeToExpiry float64, md MarketData) (float64, error) {
	bumped := *o
	bumped.timeToExpiry = timeToExpiry
	return bumped.Price(md)
}
