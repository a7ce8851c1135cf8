// Package backend is the boundary to the optional external pricing
// library the barrier and Asian variants delegate to. The default build
// registers an unavailable implementation; building with -tags extpricing
// swaps in the analytic pricer. Callers can branch on Available() before
// invoking an unsupported operation.
package backend

import "errors"

// ErrUnavailable reports that the running build carries no external
// pricing backend.
var ErrUnavailable = errors.New("external pricing backend not built in (rebuild with -tags extpricing)")

// BarrierType enumerates the backend's barrier topologies. The instrument
// layer converts its own enumeration at the call site.
type BarrierType int

const (
	DownIn BarrierType = iota
	DownOut
	UpIn
	UpOut
)

// AverageType enumerates the backend's averaging conventions.
type AverageType int

const (
	Arithmetic AverageType = iota
	Geometric
)

// Pricer is the external valuation capability. Implementations are pure
// and safe for concurrent use.
type Pricer interface {
	// Available reports whether the backend can actually price; when it
	// returns false every pricing call fails with ErrUnavailable.
	Available() bool

	BarrierOptionPrice(spot, strike, barrier, rate, timeToExpiry, vol float64, isCall bool, barrierType BarrierType, rebate float64) (float64, error)

	// AsianOptionPrice values a discretely averaged Asian option.
	// runningSum is the sum of past fixings (log fixings are approximated
	// from it for geometric averaging); the remaining fixings are assumed
	// equally spaced over the option's remaining life.
	AsianOptionPrice(spot, strike, rate, timeToExpiry, vol float64, isCall bool, averageType AverageType, numFixings int, runningSum float64, pastFixings int) (float64, error)
}

// Unavailable is the stub pricer used when no backend is compiled in.
type Unavailable struct{}

var _ Pricer = Unavailable{}

func (Unavailable) Available() bool { return false }

func (Unavailable) BarrierOptionPrice(spot, strike, barrier, rate, timeToExpiry, vol float64, isCall bool, barrierType BarrierType, rebate float64) (float64, error) {
	return 0, ErrUnavailable
}

func (Unavailable) AsianOptionPrice(spot, strike, rate, timeToExpiry, vol float64, isCall bool, averageType AverageType, numFixings int, runningSum float64, pastFixings int) (float64, error) {
	return 0, ErrUnavailable
}
