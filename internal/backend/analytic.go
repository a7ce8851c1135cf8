//go:build extpricing

package backend

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Analytic is the compiled-in external pricer: Reiner-Rubinstein closed
// forms for single-barrier options and moment-matched lognormal
// approximations for discretely averaged Asians.
type Analytic struct{}

var _ Pricer = Analytic{}

func (Analytic) Available() bool { return true }

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

func cdf(x float64) float64 { return stdNormal.CDF(x) }

func vanillaPrice(spot, strike, rate, t, vol float64, isCall bool) float64 {
	if t <= 0 || vol <= 0 {
		return payoff(spot, strike, isCall)
	}
	sq := vol * math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*t) / sq
	d2 := d1 - sq
	if isCall {
		return spot*cdf(d1) - strike*math.Exp(-rate*t)*cdf(d2)
	}
	return strike*math.Exp(-rate*t)*cdf(-d2) - spot*cdf(-d1)
}

func payoff(spot, strike float64, isCall bool) float64 {
	if isCall {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// BarrierOptionPrice values a continuously monitored single-barrier option
// (Reiner-Rubinstein 1991, zero dividend yield). Rebates on out options
// are paid at the barrier hit; rebates on in options are paid at expiry if
// the barrier is never touched.
func (Analytic) BarrierOptionPrice(spot, strike, barrier, rate, timeToExpiry, vol float64, isCall bool, barrierType BarrierType, rebate float64) (float64, error) {
	if spot <= 0 || strike <= 0 || barrier <= 0 {
		return 0, errors.New("spot, strike, and barrier must be positive")
	}
	if timeToExpiry < 0 {
		return 0, errors.New("time to expiry cannot be negative")
	}
	if vol < 0 {
		return 0, errors.New("volatility cannot be negative")
	}

	down := barrierType == DownIn || barrierType == DownOut
	in := barrierType == DownIn || barrierType == UpIn

	// Barrier already touched: in becomes vanilla, out pays the rebate.
	knocked := (down && spot <= barrier) || (!down && spot >= barrier)
	if knocked {
		if in {
			return vanillaPrice(spot, strike, rate, timeToExpiry, vol, isCall), nil
		}
		return rebate, nil
	}

	if timeToExpiry <= 0 || vol <= 0 {
		// No time or no noise left to reach the barrier.
		if in {
			return rebate * math.Exp(-rate*math.Max(0, timeToExpiry)), nil
		}
		return vanillaPrice(spot, strike, rate, timeToExpiry, vol, isCall), nil
	}

	s, k, h, r, t := spot, strike, barrier, rate, timeToExpiry
	sq := vol * math.Sqrt(t)
	sigma2 := vol * vol
	mu := (r - 0.5*sigma2) / sigma2
	lambda := math.Sqrt(mu*mu + 2*r/sigma2)

	phi := 1.0
	if !isCall {
		phi = -1
	}
	eta := 1.0
	if !down {
		eta = -1
	}

	x1 := math.Log(s/k)/sq + (1+mu)*sq
	x2 := math.Log(s/h)/sq + (1+mu)*sq
	y1 := math.Log(h*h/(s*k))/sq + (1+mu)*sq
	y2 := math.Log(h/s)/sq + (1+mu)*sq
	z := math.Log(h/s)/sq + lambda*sq

	disc := math.Exp(-r * t)
	pow2mu := math.Pow(h/s, 2*mu)
	pow2mu1 := math.Pow(h/s, 2*(mu+1))

	a := phi*s*cdf(phi*x1) - phi*k*disc*cdf(phi*x1-phi*sq)
	b := phi*s*cdf(phi*x2) - phi*k*disc*cdf(phi*x2-phi*sq)
	c := phi*s*pow2mu1*cdf(eta*y1) - phi*k*disc*pow2mu*cdf(eta*y1-eta*sq)
	d := phi*s*pow2mu1*cdf(eta*y2) - phi*k*disc*pow2mu*cdf(eta*y2-eta*sq)
	e := rebate * disc * (cdf(eta*x2-eta*sq) - pow2mu*cdf(eta*y2-eta*sq))
	f := rebate * (math.Pow(h/s, mu+lambda)*cdf(eta*z) + math.Pow(h/s, mu-lambda)*cdf(eta*z-2*eta*lambda*sq))

	strikeAboveBarrier := k > h

	var price float64
	switch barrierType {
	case DownIn:
		if isCall {
			if strikeAboveBarrier {
				price = c + e
			} else {
				price = a - b + d + e
			}
		} else {
			if strikeAboveBarrier {
				price = b - c + d + e
			} else {
				price = a + e
			}
		}
	case UpIn:
		if isCall {
			if strikeAboveBarrier {
				price = a + e
			} else {
				price = b - c + d + e
			}
		} else {
			if strikeAboveBarrier {
				price = a - b + d + e
			} else {
				price = c + e
			}
		}
	case DownOut:
		if isCall {
			if strikeAboveBarrier {
				price = a - c + f
			} else {
				price = b - d + f
			}
		} else {
			if strikeAboveBarrier {
				price = a - b + c - d + f
			} else {
				price = f
			}
		}
	case UpOut:
		if isCall {
			if strikeAboveBarrier {
				price = f
			} else {
				price = a - b + c - d + f
			}
		} else {
			if strikeAboveBarrier {
				price = b - d + f
			} else {
				price = a - c + f
			}
		}
	default:
		return 0, fmt.Errorf("unknown barrier type %d", barrierType)
	}

	// Numerical cancellation can leave a tiny negative residual.
	if price < 0 && price > -1e-10 {
		price = 0
	}
	return price, nil
}

// AsianOptionPrice values a discretely averaged Asian option. The
// remaining numFixings-pastFixings fixings are equally spaced over the
// remaining life; runningSum carries the sum of past fixings. Geometric
// averaging uses the exact discrete lognormal distribution of the future
// fixings (the past contribution is reconstructed from the arithmetic
// running sum); arithmetic averaging matches the first two moments of the
// future average to a lognormal.
func (Analytic) AsianOptionPrice(spot, strike, rate, timeToExpiry, vol float64, isCall bool, averageType AverageType, numFixings int, runningSum float64, pastFixings int) (float64, error) {
	if spot <= 0 || strike <= 0 {
		return 0, errors.New("spot and strike must be positive")
	}
	if numFixings < 1 {
		return 0, errors.New("number of fixings must be positive")
	}
	if pastFixings < 0 || pastFixings > numFixings {
		return 0, errors.New("past fixings out of range")
	}
	if timeToExpiry < 0 {
		return 0, errors.New("time to expiry cannot be negative")
	}
	if vol < 0 {
		return 0, errors.New("volatility cannot be negative")
	}

	n := float64(numFixings)
	remaining := numFixings - pastFixings
	disc := math.Exp(-rate * math.Max(0, timeToExpiry))

	if remaining == 0 {
		// Average fully determined by past fixings.
		avg := runningSum / n
		return disc * payoff(avg, strike, isCall), nil
	}

	m := float64(remaining)

	if timeToExpiry <= 0 || vol <= 0 {
		// Deterministic future fixings.
		dt := 0.0
		if timeToExpiry > 0 {
			dt = timeToExpiry / m
		}
		sum := runningSum
		for i := 1; i <= remaining; i++ {
			sum += spot * math.Exp(rate*float64(i)*dt)
		}
		return disc * payoff(sum/n, strike, isCall), nil
	}

	dt := timeToExpiry / m
	times := make([]float64, remaining)
	for i := range times {
		times[i] = float64(i+1) * dt
	}

	if averageType == Geometric {
		return geometricAsian(spot, strike, rate, timeToExpiry, vol, isCall, n, runningSum, pastFixings, times, disc)
	}
	return arithmeticAsian(spot, strike, rate, timeToExpiry, vol, isCall, n, runningSum, times, disc)
}

func geometricAsian(spot, strike, rate, t, vol float64, isCall bool, n, runningSum float64, pastFixings int, times []float64, disc float64) (float64, error) {
	pastLogSum := 0.0
	if pastFixings > 0 {
		pastAvg := runningSum / float64(pastFixings)
		if pastAvg <= 0 {
			return 0, errors.New("running sum must be positive when past fixings exist")
		}
		pastLogSum = float64(pastFixings) * math.Log(pastAvg)
	}

	// ln G is Gaussian: mean from the drifted fixings, variance from the
	// covariance of the Brownian path at the fixing times.
	mean := pastLogSum
	for _, ti := range times {
		mean += math.Log(spot) + (rate-0.5*vol*vol)*ti
	}
	mean /= n

	variance := 0.0
	for _, ti := range times {
		for _, tj := range times {
			variance += math.Min(ti, tj)
		}
	}
	variance *= vol * vol / (n * n)

	if variance <= 0 {
		return disc * payoff(math.Exp(mean), strike, isCall), nil
	}

	sd := math.Sqrt(variance)
	forward := math.Exp(mean + 0.5*variance)
	d1 := (mean + variance - math.Log(strike)) / sd
	d2 := d1 - sd

	if isCall {
		return disc * (forward*cdf(d1) - strike*cdf(d2)), nil
	}
	return disc * (strike*cdf(-d2) - forward*cdf(-d1)), nil
}

func arithmeticAsian(spot, strike, rate, t, vol float64, isCall bool, n, runningSum float64, times []float64, disc float64) (float64, error) {
	m := float64(len(times))

	// First two moments of the average of the future fixings.
	e1 := 0.0
	for _, ti := range times {
		e1 += spot * math.Exp(rate*ti)
	}
	e1 /= m

	e2 := 0.0
	for _, ti := range times {
		for _, tj := range times {
			e2 += spot * spot * math.Exp(rate*(ti+tj)+vol*vol*math.Min(ti, tj))
		}
	}
	e2 /= m * m

	// Effective strike on the future average after netting out the past
	// fixings; weight rescales the future-average payoff to the full one.
	weight := m / n
	effStrike := (n*strike - runningSum) / m

	if effStrike <= 0 {
		// Exercise is certain for a call, impossible for a put.
		if isCall {
			return disc * (weight*e1 - effStrike*weight), nil
		}
		return 0, nil
	}

	logVar := math.Log(e2 / (e1 * e1))
	if logVar <= 0 {
		return disc * weight * payoff(e1, effStrike, isCall), nil
	}

	sd := math.Sqrt(logVar)
	d1 := (math.Log(e1/effStrike) + 0.5*logVar) / sd
	d2 := d1 - sd

	if isCall {
		return disc * weight * (e1*cdf(d1) - effStrike*cdf(d2)), nil
	}
	return disc * weight * (effStrike*cdf(-d2) - e1*cdf(-d1)), nil
}
