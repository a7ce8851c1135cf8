package instrument

import (
	"fmt"

	"github.com/quantrisk/engine/internal/backend"
)

// BarrierOption knocks in or out at a barrier level. It has no
// self-contained valuation: pricing translates the validated parameters
// into a call against the external backend, or fails loudly when no
// backend is compiled in. Immutable after construction.
type BarrierOption struct {
	optionType   OptionType
	strikePrice  float64
	barrierLevel float64
	barrierKind  BarrierKind
	timeToExpiry float64
	assetID      string
	rebate       float64

	pricer backend.Pricer
}

var _ Instrument = (*BarrierOption)(nil)

// NewBarrierOption constructs a barrier option against the build's default
// backend.
func NewBarrierOption(optionType OptionType, strike, barrierLevel float64, kind BarrierKind, timeToExpiry float64, assetID string, rebate float64) (*BarrierOption, error) {
	return NewBarrierOptionWithPricer(optionType, strike, barrierLevel, kind, timeToExpiry, assetID, rebate, backend.Default())
}

// NewBarrierOptionWithPricer constructs a barrier option against an
// explicit backend.
func NewBarrierOptionWithPricer(optionType OptionType, strike, barrierLevel float64, kind BarrierKind, timeToExpiry float64, assetID string, rebate float64, pricer backend.Pricer) (*BarrierOption, error) {
	o := &BarrierOption{
		optionType:   optionType,
		strikePrice:  strike,
		barrierLevel: barrierLevel,
		barrierKind:  kind,
		timeToExpiry: timeToExpiry,
		assetID:      assetID,
		rebate:       rebate,
		pricer:       pricer,
	}
	if err := o.validateParameters(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *BarrierOption) validateParameters() error {
	if o.strikePrice <= 0 {
		return fmt.Errorf("%w: strike price must be positive", ErrInvalidInput)
	}
	if o.barrierLevel <= 0 {
		return fmt.Errorf("%w: barrier level must be positive", ErrInvalidInput)
	}
	if o.timeToExpiry < 0 {
		return fmt.Errorf("%w: time to expiry cannot be negative", ErrInvalidInput)
	}
	if o.assetID == "" {
		return fmt.Errorf("%w: asset id cannot be empty", ErrInvalidInput)
	}
	if o.rebate < 0 {
		return fmt.Errorf("%w: rebate cannot be negative", ErrInvalidInput)
	}
	return nil
}

// IsValid reports whether the instrument's parameters still satisfy the
// construction invariants.
func (o *BarrierOption) IsValid() bool {
	return o.validateParameters() == nil
}

func (o *BarrierOption) InstrumentType() string { return "BarrierOption" }
func (o *BarrierOption) AssetID() string        { return o.assetID }

func (o *BarrierOption) OptionType() OptionType   { return o.optionType }
func (o *BarrierOption) Strike() float64          { return o.strikePrice }
func (o *BarrierOption) BarrierLevel() float64    { return o.barrierLevel }
func (o *BarrierOption) BarrierKind() BarrierKind { return o.barrierKind }
func (o *BarrierOption) TimeToExpiry() float64    { return o.timeToExpiry }
func (o *BarrierOption) Rebate() float64          { return o.rebate }

// BackendAvailable reports whether this instrument's pricing backend can
// actually price, so callers can branch before invoking an unsupported
// operation.
func (o *BarrierOption) BackendAvailable() bool {
	return o.pricer.Available()
}

// Price delegates to the external backend.
func (o *BarrierOption) Price(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	if !o.pricer.Available() {
		return 0, fmt.Errorf("%w: barrier option pricing requires the external pricing backend", ErrFeatureUnavailable)
	}

	result, err := o.pricer.BarrierOptionPrice(
		md.SpotPrice, o.strikePrice, o.barrierLevel,
		md.RiskFreeRate, o.timeToExpiry, md.Volatility,
		o.optionType == Call, backendBarrierType(o.barrierKind), o.rebate,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	return checkPrice(result, "barrier option price")
}

func (o *BarrierOption) Delta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdDelta(o.Price, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "delta")
}

func (o *BarrierOption) Gamma(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdGamma(o.Delta, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "gamma")
}

func (o *BarrierOption) Vega(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdVega(o.Price, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "vega")
}

func (o *BarrierOption) Theta(md MarketData) (float64, error) {
	if err := ValidateMarketData(md); err != nil {
		return 0, err
	}
	result, err := fdTheta(o.timeToExpiry, o.Price, o.priceAtExpiry, md)
	if err != nil {
		return 0, err
	}
	return checkFinite(result, "theta")
}

func (o *BarrierOption) priceAtExpiry(timeToExpiry float64, md MarketData) (float64, error) {
	bumped := *o
	bumped.timeToExpiry = timeToExpiry
	return bumped.Price(md)
}

// backendBarrierType converts the instrument enumeration to the backend's.
func backendBarrierType(kind BarrierKind) backend.BarrierType {
	switch kind {
	case DownIn:
		return backend.DownIn
	case DownOut:
		return backend.DownOut
	case UpIn:
		return backend.UpIn
	default:
		return backend.UpOut
	}
}
