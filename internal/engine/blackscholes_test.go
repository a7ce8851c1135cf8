package engine

import (
	"math"
	"testing"
)

const priceTolerance = 1e-4

func TestCallPrice_KnownValue(t *testing.T) {
	// S=100, K=100, r=5%, t=1y, sigma=20% is the textbook reference point.
	got := CallPrice(100, 100, 0.05, 1, 0.2)
	want := 10.4506

	if math.Abs(got-want) > priceTolerance {
		t.Errorf("expected call price %.4f, got %.4f", want, got)
	}
}

func TestPutPrice_KnownValue(t *testing.T) {
	got := PutPrice(100, 100, 0.05, 1, 0.2)
	want := 5.5735

	if math.Abs(got-want) > priceTolerance {
		t.Errorf("expected put price %.4f, got %.4f", want, got)
	}
}

func TestPutCallParity(t *testing.T) {
	s, k, r, tt, sigma := 105.0, 100.0, 0.03, 0.75, 0.25

	call := CallPrice(s, k, r, tt, sigma)
	put := PutPrice(s, k, r, tt, sigma)

	lhs := call - put
	rhs := s - k*math.Exp(-r*tt)
	if math.Abs(lhs-rhs) > 1e-10 {
		t.Errorf("parity violated: C-P=%.10f, S-Ke^(-rt)=%.10f", lhs, rhs)
	}
}

func TestPrices_IntrinsicAtExpiry(t *testing.T) {
	if got := CallPrice(110, 100, 0.05, 0, 0.2); got != 10 {
		t.Errorf("expected expired ITM call to be worth 10, got %v", got)
	}
	if got := CallPrice(90, 100, 0.05, 0, 0.2); got != 0 {
		t.Errorf("expected expired OTM call to be worth 0, got %v", got)
	}
	if got := PutPrice(90, 100, 0.05, 0, 0.2); got != 10 {
		t.Errorf("expected expired ITM put to be worth 10, got %v", got)
	}
}

func TestPrices_ZeroVolatility(t *testing.T) {
	// With no volatility the price collapses to intrinsic value.
	got := CallPrice(110, 100, 0.0, 1, 0)
	if math.Abs(got-10) > priceTolerance {
		t.Errorf("expected zero-vol call to be intrinsic 10, got %v", got)
	}
}

func TestCallDelta_KnownValue(t *testing.T) {
	got := CallDelta(100, 100, 0.05, 1, 0.2)
	want := 0.6368

	if math.Abs(got-want) > priceTolerance {
		t.Errorf("expected call delta %.4f, got %.4f", want, got)
	}
}

func TestDeltas_ParityRelation(t *testing.T) {
	s, k, r, tt, sigma := 100.0, 95.0, 0.05, 0.5, 0.3

	callDelta := CallDelta(s, k, r, tt, sigma)
	putDelta := PutDelta(s, k, r, tt, sigma)

	if math.Abs(callDelta-putDelta-1) > 1e-12 {
		t.Errorf("expected callDelta - putDelta = 1, got %v", callDelta-putDelta)
	}
}

func TestGamma_PositiveAndSymmetric(t *testing.T) {
	s, k, r, tt, sigma := 100.0, 100.0, 0.05, 1.0, 0.2

	gamma := Gamma(s, k, r, tt, sigma)
	if gamma <= 0 {
		t.Errorf("expected positive gamma, got %v", gamma)
	}
}

func TestVega_Positive(t *testing.T) {
	vega := Vega(100, 100, 0.05, 1, 0.2)
	if vega <= 0 {
		t.Errorf("expected positive vega, got %v", vega)
	}
}

func TestTheta_NegativeForVanillaCall(t *testing.T) {
	theta := CallTheta(100, 100, 0.05, 1, 0.2)
	if theta >= 0 {
		t.Errorf("expected negative call theta, got %v", theta)
	}
}

func TestGreeks_ZeroAtExpiry(t *testing.T) {
	if got := Gamma(100, 100, 0.05, 0, 0.2); got != 0 {
		t.Errorf("expected zero gamma at expiry, got %v", got)
	}
	if got := Vega(100, 100, 0.05, 0, 0.2); got != 0 {
		t.Errorf("expected zero vega at expiry, got %v", got)
	}
	if got := CallTheta(100, 100, 0.05, 0, 0.2); got != 0 {
		t.Errorf("expected zero theta at expiry, got %v", got)
	}
}

func TestRho_Signs(t *testing.T) {
	if rho := CallRho(100, 100, 0.05, 1, 0.2); rho <= 0 {
		t.Errorf("expected positive call rho, got %v", rho)
	}
	if rho := PutRho(100, 100, 0.05, 1, 0.2); rho >= 0 {
		t.Errorf("expected negative put rho, got %v", rho)
	}
}
