package server

import (
	"fmt"

	"github.com/quantrisk/engine/internal/instrument"
)

// InstrumentSpec is the wire form of an option contract.
type InstrumentSpec struct {
	Kind         string  `json:"kind"`
	OptionType   string  `json:"option_type"`
	Strike       float64 `json:"strike"`
	TimeToExpiry float64 `json:"time_to_expiry"`
	AssetID      string  `json:"asset_id"`

	// European
	PricingModel  string    `json:"pricing_model,omitempty"`
	BinomialSteps int       `json:"binomial_steps,omitempty"`
	Jump          *JumpSpec `json:"jump,omitempty"`

	// Barrier
	Barrier *BarrierSpec `json:"barrier,omitempty"`

	// Asian
	Asian *AsianSpec `json:"asian,omitempty"`
}

type JumpSpec struct {
	Intensity  float64 `json:"intensity"`
	Mean       float64 `json:"mean"`
	Volatility float64 `json:"volatility"`
}

type BarrierSpec struct {
	Level  float64 `json:"level"`
	Type   string  `json:"type"`
	Rebate float64 `json:"rebate"`
}

type AsianSpec struct {
	Average     string  `json:"average"`
	NumFixings  int     `json:"num_fixings"`
	RunningSum  float64 `json:"running_sum"`
	PastFixings int     `json:"past_fixings"`
}

// MarketSpec is the wire form of a market snapshot.
type MarketSpec struct {
	Spot       float64 `json:"spot"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"vol"`
}

func (m MarketSpec) ToMarketData() instrument.MarketData {
	return instrument.MarketData{
		SpotPrice:    m.Spot,
		RiskFreeRate: m.Rate,
		Volatility:   m.Volatility,
	}
}

// riskRequest is the body of POST /api/v1/risk.
type riskRequest struct {
	Instrument InstrumentSpec `json:"instrument"`
	Market     MarketSpec     `json:"market"`
}

// registerRequest is the body of POST /api/v1/instruments.
type registerRequest struct {
	Instrument InstrumentSpec `json:"instrument"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// BuildInstrument constructs a validated instrument from its wire form.
// defaultSteps fills the lattice resolution when the spec omits one.
func BuildInstrument(spec InstrumentSpec, defaultSteps int) (instrument.Instrument, error) {
	optType, err := parseOptionType(spec.OptionType)
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case "european":
		model := instrument.BlackScholes
		if spec.PricingModel != "" {
			model, err = parsePricingModel(spec.PricingModel)
			if err != nil {
				return nil, err
			}
		}
		opt, err := instrument.NewEuropeanOptionWithModel(optType, spec.Strike, spec.TimeToExpiry, spec.AssetID, model)
		if err != nil {
			return nil, err
		}
		if spec.BinomialSteps != 0 {
			if err := opt.SetBinomialSteps(spec.BinomialSteps); err != nil {
				return nil, err
			}
		} else if model == instrument.Binomial {
			if err := opt.SetBinomialSteps(defaultSteps); err != nil {
				return nil, err
			}
		}
		if spec.Jump != nil {
			if err := opt.SetJumpParameters(spec.Jump.Intensity, spec.Jump.Mean, spec.Jump.Volatility); err != nil {
				return nil, err
			}
		}
		return opt, nil

	case "american":
		steps := spec.BinomialSteps
		if steps == 0 {
			steps = defaultSteps
		}
		return instrument.NewAmericanOption(optType, spec.Strike, spec.TimeToExpiry, spec.AssetID, steps)

	case "barrier":
		if spec.Barrier == nil {
			return nil, fmt.Errorf("%w: barrier parameters are required", instrument.ErrInvalidInput)
		}
		kind, err := parseBarrierKind(spec.Barrier.Type)
		if err != nil {
			return nil, err
		}
		return instrument.NewBarrierOption(optType, spec.Strike, spec.Barrier.Level, kind, spec.TimeToExpiry, spec.AssetID, spec.Barrier.Rebate)

	case "asian":
		if spec.Asian == nil {
			return nil, fmt.Errorf("%w: asian parameters are required", instrument.ErrInvalidInput)
		}
		avg, err := parseAverageKind(spec.Asian.Average)
		if err != nil {
			return nil, err
		}
		return instrument.NewAsianOption(optType, spec.Strike, spec.TimeToExpiry, spec.AssetID, avg, spec.Asian.NumFixings, spec.Asian.RunningSum, spec.Asian.PastFixings)

	default:
		return nil, fmt.Errorf("%w: unknown instrument kind %q", instrument.ErrInvalidInput, spec.Kind)
	}
}

func parseOptionType(s string) (instrument.OptionType, error) {
	switch s {
	case "call":
		return instrument.Call, nil
	case "put":
		return instrument.Put, nil
	default:
		return 0, fmt.Errorf("%w: option type must be call or put, got %q", instrument.ErrInvalidInput, s)
	}
}

func parsePricingModel(s string) (instrument.PricingModel, error) {
	switch s {
	case "black_scholes":
		return instrument.BlackScholes, nil
	case "binomial":
		return instrument.Binomial, nil
	case "merton_jump_diffusion":
		return instrument.MertonJumpDiffusion, nil
	default:
		return 0, fmt.Errorf("%w: unknown pricing model %q", instrument.ErrInvalidInput, s)
	}
}

func parseBarrierKind(s string) (instrument.BarrierKind, error) {
	switch s {
	case "down_in":
		return instrument.DownIn, nil
	case "down_out":
		return instrument.DownOut, nil
	case "up_in":
		return instrument.UpIn, nil
	case "up_out":
		return instrument.UpOut, nil
	default:
		return 0, fmt.Errorf("%w: unknown barrier type %q", instrument.ErrInvalidInput, s)
	}
}

func parseAverageKind(s string) (instrument.AverageKind, error) {
	switch s {
	case "arithmetic":
		return instrument.Arithmetic, nil
	case "geometric":
		return instrument.Geometric, nil
	default:
		return 0, fmt.Errorf("%w: unknown average type %q", instrument.ErrInvalidInput, s)
	}
}
