package engine

import (
	"math"
	"testing"
)

func TestMertonJumpPrice_ZeroIntensityReducesToBlackScholes(t *testing.T) {
	s, k, r, tt, sigma := 100.0, 100.0, 0.05, 1.0, 0.2

	jump := MertonJumpPrice(s, k, r, tt, sigma, true, 0, 0, 0)
	plain := CallPrice(s, k, r, tt, sigma)

	if math.Abs(jump-plain) > 1e-10 {
		t.Errorf("zero-intensity jump price %.10f should equal Black-Scholes %.10f", jump, plain)
	}
}

func TestMertonJumpPrice_JumpsRaiseOTMValue(t *testing.T) {
	// Jump risk fattens the tails, so an OTM call gains value.
	s, k, r, tt, sigma := 100.0, 130.0, 0.05, 0.5, 0.2

	plain := CallPrice(s, k, r, tt, sigma)
	jump := MertonJumpPrice(s, k, r, tt, sigma, true, 1.0, -0.1, 0.3)

	if jump <= plain {
		t.Errorf("jump price %.6f should exceed diffusion-only price %.6f", jump, plain)
	}
}

func TestMertonJumpPrice_PutCallParityHolds(t *testing.T) {
	s, k, r, tt, sigma := 100.0, 100.0, 0.05, 1.0, 0.2
	lambda, mean, vol := 0.5, -0.05, 0.2

	call := MertonJumpPrice(s, k, r, tt, sigma, true, lambda, mean, vol)
	put := MertonJumpPrice(s, k, r, tt, sigma, false, lambda, mean, vol)

	lhs := call - put
	rhs := s - k*math.Exp(-r*tt)
	if math.Abs(lhs-rhs) > 1e-6 {
		t.Errorf("parity violated: C-P=%.8f, S-Ke^(-rt)=%.8f", lhs, rhs)
	}
}

func TestMertonJumpPrice_IntrinsicAtExpiry(t *testing.T) {
	got := MertonJumpPrice(110, 100, 0.05, 0, 0.2, true, 1.0, -0.1, 0.3)
	if got != 10 {
		t.Errorf("expected expired call to be intrinsic 10, got %v", got)
	}
}
