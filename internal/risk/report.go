// Package risk turns an instrument plus a market snapshot into the full
// risk report the API and the streamer publish.
package risk

import (
	"github.com/quantrisk/engine/internal/instrument"
)

// Report is one instrument's price and sensitivities against one market
// snapshot.
type Report struct {
	InstrumentID   string  `json:"instrument_id,omitempty"`
	InstrumentType string  `json:"instrument_type"`
	AssetID        string  `json:"asset_id"`
	Price          float64 `json:"price"`
	Delta          float64 `json:"delta"`
	Gamma          float64 `json:"gamma"`
	Vega           float64 `json:"vega"`
	Theta          float64 `json:"theta"`
}

// Compute evaluates the full capability set. The first failing operation
// aborts the report; partial numbers are never returned.
func Compute(inst instrument.Instrument, md instrument.MarketData) (Report, error) {
	price, err := inst.Price(md)
	if err != nil {
		return Report{}, err
	}
	delta, err := inst.Delta(md)
	if err != nil {
		return Report{}, err
	}
	gamma, err := inst.Gamma(md)
	if err != nil {
		return Report{}, err
	}
	vega, err := inst.Vega(md)
	if err != nil {
		return Report{}, err
	}
	theta, err := inst.Theta(md)
	if err != nil {
		return Report{}, err
	}

	return Report{
		InstrumentType: inst.InstrumentType(),
		AssetID:        inst.AssetID(),
		Price:          price,
		Delta:          delta,
		Gamma:          gamma,
		Vega:           vega,
		Theta:          theta,
	}, nil
}
