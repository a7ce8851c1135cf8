package engine

import "math"

// mertonMaxTerms bounds the Poisson series. Weights decay factorially, so
// truncation error is far below floating-point noise for any realistic
// jump intensity.
const mertonMaxTerms = 60

// MertonJumpPrice values a European option under the Merton jump-diffusion
// model as a Poisson-weighted series of Black-Scholes prices conditioned on
// the number of jumps. lambda is the jump intensity per year, jumpMean and
// jumpVol parameterize the lognormal jump size. With lambda==0 the series
// collapses to the plain Black-Scholes price.
func MertonJumpPrice(s, k, r, t, sigma float64, isCall bool, lambda, jumpMean, jumpVol float64) float64 {
	if t <= 0 {
		return intrinsic(s, k, isCall)
	}
	if lambda == 0 {
		if isCall {
			return CallPrice(s, k, r, t, sigma)
		}
		return PutPrice(s, k, r, t, sigma)
	}

	// Expected proportional jump size and the compensated intensity.
	kappa := math.Exp(jumpMean+0.5*jumpVol*jumpVol) - 1
	lambdaPrime := lambda * (1 + kappa)

	price := 0.0
	weight := math.Exp(-lambdaPrime * t)

	for n := 0; n < mertonMaxTerms; n++ {
		if n > 0 {
			weight *= lambdaPrime * t / float64(n)
		}

		// Conditional on n jumps: fatter diffusion, drift-adjusted rate.
		sigmaN := math.Sqrt(sigma*sigma + float64(n)*jumpVol*jumpVol/t)
		rN := r - lambda*kappa + float64(n)*math.Log(1+kappa)/t

		var term float64
		if isCall {
			term = CallPrice(s, k, rN, t, sigmaN)
		} else {
			term = PutPrice(s, k, rN, t, sigmaN)
		}

		price += weight * term

		if n > 0 && weight*term < 1e-12 && weight < 1e-12 {
			break
		}
	}

	return price
}
