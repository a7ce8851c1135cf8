package instrument

import "math"

// Bump sizes shared by every finite-difference Greek. The spot bump is
// relative, the volatility bump is one absolute vol point, and theta uses
// one calendar day.
const (
	spotBumpFraction = 0.01
	volBump          = 0.01
	oneDay           = 1.0 / 365.0
)

type priceFunc func(MarketData) (float64, error)

// fdDelta is a central difference in spot with a 1% relative bump.
func fdDelta(price priceFunc, md MarketData) (float64, error) {
	h := md.SpotPrice * spotBumpFraction

	up, down := md, md
	up.SpotPrice = md.SpotPrice + h
	down.SpotPrice = md.SpotPrice - h

	priceUp, err := price(up)
	if err != nil {
		return 0, err
	}
	priceDown, err := price(down)
	if err != nil {
		return 0, err
	}

	return (priceUp - priceDown) / (2 * h), nil
}

// fdGamma is a central difference of deltas, so it re-invokes the delta
// routine on perturbed market data rather than forming a three-point
// stencil.
func fdGamma(delta priceFunc, md MarketData) (float64, error) {
	h := md.SpotPrice * spotBumpFraction

	up, down := md, md
	up.SpotPrice = md.SpotPrice + h
	down.SpotPrice = md.SpotPrice - h

	deltaUp, err := delta(up)
	if err != nil {
		return 0, err
	}
	deltaDown, err := delta(down)
	if err != nil {
		return 0, err
	}

	return (deltaUp - deltaDown) / (2 * h), nil
}

// fdVega is a central difference in volatility. The down bump is floored
// at zero, but the denominator stays at the nominal 2*volBump regardless,
// reproducing the reference numerics near vol=0.
func fdVega(price priceFunc, md MarketData) (float64, error) {
	up, down := md, md
	up.Volatility = md.Volatility + volBump
	down.Volatility = math.Max(0, md.Volatility-volBump)

	priceUp, err := price(up)
	if err != nil {
		return 0, err
	}
	priceDown, err := price(down)
	if err != nil {
		return 0, err
	}

	return (priceUp - priceDown) / (2 * volBump), nil
}

// fdTheta is a forward difference in calendar time: the price one day
// closer to expiry minus today's price, over one day. Instruments inside
// their final day return exactly zero. priceAt must value a copy of the
// instrument with the given time to expiry.
func fdTheta(timeToExpiry float64, price priceFunc, priceAt func(float64, MarketData) (float64, error), md MarketData) (float64, error) {
	if timeToExpiry < oneDay {
		return 0, nil
	}

	current, err := price(md)
	if err != nil {
		return 0, err
	}
	future, err := priceAt(math.Max(0, timeToExpiry-oneDay), md)
	if err != nil {
		return 0, err
	}

	return (future - current) / oneDay, nil
}
