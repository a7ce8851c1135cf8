package instrument

import (
	"errors"
	"testing"

	"github.com/quantrisk/engine/internal/engine"
)

func TestNewAmericanOption_Valid(t *testing.T) {
	opt, err := NewAmericanOption(Put, 100, 1, "SPY", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opt.IsValid() {
		t.Error("expected valid option")
	}
	if opt.InstrumentType() != "AmericanOption" {
		t.Errorf("unexpected instrument type: %s", opt.InstrumentType())
	}
}

func TestNewAmericanOption_InvalidSteps(t *testing.T) {
	if _, err := NewAmericanOption(Put, 100, 1, "SPY", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero steps, got: %v", err)
	}
	if _, err := NewAmericanOption(Put, 100, 1, "SPY", 10001); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for oversized steps, got: %v", err)
	}
}

func TestAmericanOption_PutDominatesEuropean(t *testing.T) {
	md := MarketData{SpotPrice: 90, RiskFreeRate: 0.08, Volatility: 0.2}

	opt, err := NewAmericanOption(Put, 100, 1, "SPY", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	american, err := opt.Price(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	european := engine.PutPrice(90, 100, 0.08, 1, 0.2)

	if american < european {
		t.Errorf("american put %.4f below european put %.4f", american, european)
	}
}

func TestAmericanOption_PriceNeverBelowIntrinsic(t *testing.T) {
	md := MarketData{SpotPrice: 80, RiskFreeRate: 0.05, Volatility: 0.2}

	opt, err := NewAmericanOption(Put, 100, 1, "SPY", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	price, err := opt.Price(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price < opt.IntrinsicValue(md.SpotPrice) {
		t.Errorf("price %.4f below intrinsic %.4f", price, opt.IntrinsicValue(md.SpotPrice))
	}
}

func TestAmericanOption_IntrinsicValue(t *testing.T) {
	put, err := NewAmericanOption(Put, 100, 1, "SPY", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := put.IntrinsicValue(90); got != 10 {
		t.Errorf("expected put intrinsic 10, got %v", got)
	}
	if got := put.IntrinsicValue(110); got != 0 {
		t.Errorf("expected put intrinsic 0, got %v", got)
	}

	call, err := NewAmericanOption(Call, 100, 1, "SPY", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := call.IntrinsicValue(110); got != 10 {
		t.Errorf("expected call intrinsic 10, got %v", got)
	}
}

func TestAmericanOption_GreeksHaveSaneSigns(t *testing.T) {
	md := MarketData{SpotPrice: 100, RiskFreeRate: 0.05, Volatility: 0.2}

	put, err := NewAmericanOption(Put, 100, 1, "SPY", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delta, err := put.Delta(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta >= 0 {
		t.Errorf("expected negative put delta, got %v", delta)
	}

	gamma, err := put.Gamma(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gamma < 0 {
		t.Errorf("expected non-negative gamma, got %v", gamma)
	}

	vega, err := put.Vega(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vega < 0 {
		t.Errorf("expected non-negative vega, got %v", vega)
	}
}
