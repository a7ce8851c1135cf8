package instrument

import (
	"fmt"

	"github.com/quantrisk/engine/internal/engine"
)

const (
	defaultBinomialSteps = 100
	minBinomialSteps     = 1
	maxBinomialSteps     = 10000
)

// EuropeanOption is the multi-model vanilla option. The pricing model,
// binomial step count, and jump parameters are mutable through setters
// that re-run the construction invariants; everything else is fixed.
type EuropeanOption struct {
	optionType   OptionType
	strikePrice  float64
	timeToExpiry float64
	assetID      string

	model         PricingModel
	binomialSteps int
	jumpIntensity float64
	jumpMean      float64
	jumpVol       float64
}

var _ Instrument = (*EuropeanOption)(nil)

// NewEuropeanOption constructs a Black-Scholes-model European option with
// default model parameters.
func NewEuropeanOption(optionType OptionType, strike, timeToExpiry float64, assetID string) (*EuropeanOption, error) {
	return NewEuropeanOptionWithModel(optionType, strike, timeToExpiry, assetID, BlackScholes)
}

// NewEuropeanOptionWithModel constructs a European option with an explicit
// pricing model.
func NewEuropeanOptionWithModel(optionType OptionType, strike, timeToExpiry float64, assetID string, model PricingModel) (*EuropeanOption, error) {
	o := &EuropeanOption{
		optionType:    optionType,
		strikePrice:   strike,
		timeToExpiry:  timeToExpiry,
		assetID:       assetID,
		model:         model,
		binomialSteps: defaultBinomialSteps,
	}
	if err := o.validateParameters(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *EuropeanOption) validateParameters() error {
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
	if o.jumpIntensity < 0 {
		return fmt.Errorf("%w: jump intensity cannot be negative", ErrInvalidInput)
	}
	if o.jumpVol < 0 {
		return fmt.Errorf("%w: jump volatility cannot be negative", ErrInvalidInput)
	}
	return nil
}

// IsValid reports whether the instrument's parameters still satisfy the
// construction invariants.
func (o *EuropeanOption) IsValid() bool {
	return o.validateParameters() == nil
}

func (o *EuropeanOption) InstrumentType() string { return "EuropeanOption" }
func (o *EuropeanOption) AssetID() string        { return o.assetID }

func (o *EuropeanOption) OptionType() OptionType     { return o.optionType }
func (o *EuropeanOption) Strike() float64            { return o.strikePrice }
func (o *EuropeanOption) TimeToExpiry() float64      { return o.timeToExpiry }
func (o *EuropeanOption) PricingModel() PricingModel { return o.model }
func (o *EuropeanOption) BinomialSteps() int         { return o.binomialSteps }
func (o *EuropeanOption) JumpIntensity() float64     { return o.jumpIntensity }

// SetPricingModel switches the valuation engine. The enumeration is
// closed, so there is nothing further to validate.
func (o *EuropeanOption) SetPricingModel(model PricingModel) {
	o.model = model
}

// SetBinomialSteps replaces the lattice resolution, re-validating the
// bound.
func (o *EuropeanOption) SetBinomialSteps(steps int) error {
	if steps < minBinomialSteps || steps > maxBinomialSteps {
		return fmt.Errorf("%w: binomial steps must be between %d and %d", ErrInvalidInput, minBinomialSteps, maxBinomialSteps)
	}
	o.binomialSteps = steps
	return nil
}

// SetJumpParameters replaces the Merton jump parameters, re-validating
// their domains. The jump mean is unconstrained.
func (o *EuropeanOption) SetJumpParameters(lambda, jumpMean, jumpVol float64) error {
	if lambda < 0 {
		return fmt.Errorf("%w: jump intensity must be non-negative", ErrInvalidInput)
	}
	if jumpVol < 0 {
		return fmt.Errorf("%w: jump volatility must be non-negative", ErrInvalidInput)
	}
	o.jumpIntensity = lambda
	o.jumpMean = jumpMean
	o.jumpVol = jumpVol
	return nil
}

// Price dispatches on the configured pricing model.
func (o *EuropeanOption) Price(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}

	var result float64
	switch o.model {
	case BlackScholes:
		if o.optionType == Call {
			result = engine.CallPrice(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
		} else {
			result = engine.PutPrice(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
		}
	case Binomial:
		var err error
		result, err = engine.EuropeanBinomialPrice(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility, o.optionType == Call, o.binomialSteps)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrComputation, err)
		}
	case MertonJumpDiffusion:
		result = engine.MertonJumpPrice(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility, o.optionType == Call, o.jumpIntensity, o.jumpMean, o.jumpVol)
	default:
		// Unreachable through the exported API; the enum is closed.
		return 0, fmt.Errorf("%w: unknown pricing model", ErrComputation)
	}

	return checkPrice(result, "option price")
}

// Delta is analytic under Black-Scholes and a central difference in spot
// otherwise.
func (o *EuropeanOption) Delta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}

	var result float64
	if o.model == BlackScholes {
		if o.optionType == Call {
			result = engine.CallDelta(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
		} else {
			result = engine.PutDelta(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
		}
	} else {
		var err error
		result, err = fdDelta(o.Price, md)
		if err != nil {
			return 0, err
		}
	}

	return checkFinite(result, "delta")
}

// Gamma is analytic under Black-Scholes and a central difference of deltas
// otherwise.
func (o *EuropeanOption) Gamma(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}

	var result float64
	if o.model == BlackScholes {
		result = engine.Gamma(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
	} else {
		var err error
		result, err = fdGamma(o.Delta, md)
		if err != nil {
			return 0, err
		}
	}

	return checkNonNegative(result, "gamma")
}

// Vega is analytic under Black-Scholes and a central difference in
// volatility otherwise.
func (o *EuropeanOption) Vega(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}

	var result float64
	if o.model == BlackScholes {
		result = engine.Vega(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
	} else {
		var err error
		result, err = fdVega(o.Price, md)
		if err != nil {
			return 0, err
		}
	}

	return checkNonNegative(result, "vega")
}

// Theta is analytic under Black-Scholes and a one-day forward difference
// on a copy of the instrument otherwise.
func (o *EuropeanOption) Theta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}

	var result float64
	if o.model == BlackScholes {
		if o.optionType == Call {
			result = engine.CallTheta(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
		} else {
			result = engine.PutTheta(md.SpotPrice, o.strikePrice, md.RiskFreeRate, o.timeToExpiry, md.Volatility)
		}
	} else {
		var err error
		result, err = fdTheta(o.timeToExpiry, o.Price, o.priceAtExpiry, md)
		if err != nil {
			return 0, err
		}
	}

	return checkFinite(result, "theta")
}

// priceAtExpiry values a copy of this option with a shifted time to
// expiry, leaving the receiver untouched.
func (o *EuropeanOption) priceAtExpiry(timeToExpiry float64, md MarketData) (float64, error) {
	bumped := *o
	bumped.timeToExpiry = timeToExpiry
	return bumped.Price(md)
}
