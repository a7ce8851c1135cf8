package instrument

import (
	"fmt"

	"github.com/quantrisk/engine/internal/backend"
)

// AsianOption pays off on the average of the underlying over a fixing
// schedule. The running sum and past-fixing count carry the averaging
// state for seasoned options. Like the barrier variant it delegates all
// valuation to the external backend. Immutable after construction.
type AsianOption struct {
	optionType   OptionType
	strikePrice  float64
	timeToExpiry float64
	assetID      string
	averageKind  AverageKind
	numFixings   int
	runningSum   float64
	pastFixings  int

	pricer backend.Pricer
}

var _ Instrument = (*AsianOption)(nil)

// NewAsianOption constructs an Asian option against the build's default
// backend.
func NewAsianOption(optionType OptionType, strike, timeToExpiry float64, assetID string, averageKind AverageKind, numFixings int, runningSum float64, pastFixings int) (*AsianOption, error) {
	return NewAsianOptionWithPricer(optionType, strike, timeToExpiry, assetID, averageKind, numFixings, runningSum, pastFixings, backend.Default())
}

// NewAsianOptionWithPricer constructs an Asian option against an explicit
// backend.
func NewAsianOptionWithPricer(optionType OptionType, strike, timeToExpiry float64, assetID string, averageKind AverageKind, numFixings int, runningSum float64, pastFixings int, pricer backend.Pricer) (*AsianOption, error) {
	o := &AsianOption{
		optionType:   optionType,
		strikePrice:  strike,
		timeToExpiry: timeToExpiry,
		assetID:      assetID,
		averageKind:  averageKind,
		numFixings:   numFixings,
		runningSum:   runningSum,
		pastFixings:  pastFixings,
		pricer:       pricer,
	}
	if err := o.validateParameters(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *AsianOption) validateParameters() error {
	if o.strikePrice <= 0 {
		return fmt.Errorf("%w: strike price must be positive", ErrInvalidInput)
	}
	if o.timeToExpiry < 0 {
		return fmt.Errorf("%w: time to expiry cannot be negative", ErrInvalidInput)
	}
	if o.assetID == "" {
		return fmt.Errorf("%w: asset id cannot be empty", ErrInvalidInput)
	}
	if o.numFixings < 1 {
		return fmt.Errorf("%w: number of fixings must be positive", ErrInvalidInput)
	}
	if o.pastFixings < 0 || o.pastFixings > o.numFixings {
		return fmt.Errorf("%w: past fixings must be between 0 and the number of fixings", ErrInvalidInput)
	}
	return nil
}

// IsValid reports whether the instrument's parameters still satisfy the
// construction invariants.
func (o *AsianOption) IsValid() bool {
	return o.validateParameters() == nil
}

func (o *AsianOption) InstrumentType() string { return "AsianOption" }
func (o *AsianOption) AssetID() string        { return o.assetID }

func (o *AsianOption) OptionType() OptionType   { return o.optionType }
func (o *AsianOption) Strike() float64          { return o.strikePrice }
func (o *AsianOption) TimeToExpiry() float64    { return o.timeToExpiry }
func (o *AsianOption) AverageKind() AverageKind { return o.averageKind }
func (o *AsianOption) NumFixings() int          { return o.numFixings }
func (o *AsianOption) RunningSum() float64      { return o.runningSum }
func (o *AsianOption) PastFixings() int         { return o.pastFixings }

// BackendAvailable reports whether this instrument's pricing backend can
// actually price.
func (o *AsianOption) BackendAvailable() bool {
	return o.pricer.Available()
}

// Price delegates to the external backend.
func (o *AsianOption) Price(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	if !o.pricer.Available() {
		return 0, fmt.Errorf("%w: asian option pricing requires the external pricing backend", ErrFeatureUnavailable)
	}

	averageType := backend.Arithmetic
	if o.averageKind == Geometric {
		averageType = backend.Geometric
	}

	result, err := o.pricer.AsianOptionPrice(
		md.SpotPrice, o.strikePrice,
		md.RiskFreeRate, o.timeToExpiry, md.Volatility,
		o.optionType == Call, averageType,
		o.numFixings, o.runningSum, o.pastFixings,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	return checkPrice(result, "asian option price")
}

func (o *AsianOption) Delta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdDelta(o.Price, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "delta")
}

func (o *AsianOption) Gamma(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdGamma(o.Delta, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "gamma")
}

func (o *AsianOption) Vega(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdVega(o.Price, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "vega")
}

func (o *AsianOption) Theta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdTheta(o.timeToExpiry, o.Price, o.priceAtExpiry, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "theta")
}

func (o *AsianOption) priceAtExpiry(timeToExpiry float64, md MarketData) (float64, error) {
	bumped := *o
	bumped.timeToExpiry = timeToExpiry
	return bumped.Price(md)
}
