package backend

import (
	"errors"
	"testing"
)

func TestUnavailable_ReportsUnavailable(t *testing.T) {
	var p Pricer = Unavailable{}
	if p.Available() {
		t.Error("expected stub backend to report unavailable")
	}
}

func TestUnavailable_AllOperationsFail(t *testing.T) {
	var p Pricer = Unavailable{}

	if _, err := p.BarrierOptionPrice(100, 100, 120, 0.05, 1, 0.2, true, UpOut, 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("BarrierOptionPrice: expected ErrUnavailable, got: %v", err)
	}
	if _, err := p.AsianOptionPrice(100, 100, 0.05, 1, 0.2, true, Arithmetic, 12, 0, 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("AsianOptionPrice: expected ErrUnavailable, got: %v", err)
	}
}
