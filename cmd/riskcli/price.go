package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantrisk/engine/internal/expiry"
	"github.com/quantrisk/engine/internal/instrument"
	"github.com/quantrisk/engine/internal/risk"
	"github.com/quantrisk/engine/internal/server"
)

func priceCmd() *cobra.Command {
	var (
		kind        string
		optionType  string
		strike      float64
		timeToExp   float64
		expiryDate  string
		tradingDays bool
		assetID     string
		model       string
		steps       int
		spot        float64
		rate        float64
		vol         float64

		jumpIntensity float64
		jumpMean      float64
		jumpVol       float64

		barrierLevel  float64
		barrierType   string
		barrierRebate float64

		average     string
		numFixings  int
		runningSum  float64
		pastFixings int
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single option and print its risk report",
		Long: `Price a single option against a market snapshot and print the full
risk report (price, delta, gamma, vega, theta) as JSON.

Examples:
  # European call, Black-Scholes
  riskcli price --type call --strike 100 --expiry 0.5 --spot 100 --vol 0.2

  # American put priced on a lattice, expiry as a date
  riskcli price --kind american --type put --strike 100 --expiry-date 2027-01-15 --spot 95 --vol 0.25

  # Up-and-out barrier call
  riskcli price --kind barrier --type call --strike 100 --expiry 1 --spot 100 --vol 0.2 \
    --barrier-level 120 --barrier-type up_out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := timeToExp
			if expiryDate != "" {
				date, err := expiry.ParseDate(expiryDate)
				if err != nil {
					return err
				}
				now := time.Now()
				if tradingDays {
					cal, err := expiry.ForName(cfg.Pricing.Calendar)
					if err != nil {
						return err
					}
					t = expiry.TradingYearFraction(cal, now, date)
					logger.Debug("expiry date converted",
						zap.String("date", expiryDate),
						zap.Int("tradingDays", expiry.TradingDays(cal, now, date)),
						zap.Float64("yearFraction", t),
					)
				} else {
					t = expiry.YearFraction(now, date)
					logger.Debug("expiry date converted",
						zap.String("date", expiryDate),
						zap.Float64("yearFraction", t),
					)
				}
			}

			spec := server.InstrumentSpec{
				Kind:          kind,
				OptionType:    optionType,
				Strike:        strike,
				TimeToExpiry:  t,
				AssetID:       assetID,
				PricingModel:  model,
				BinomialSteps: steps,
			}
			if cmd.Flags().Changed("jump-intensity") {
				spec.Jump = &server.JumpSpec{
					Intensity:  jumpIntensity,
					Mean:       jumpMean,
					Volatility: jumpVol,
				}
			}
			if kind == "barrier" {
				spec.Barrier = &server.BarrierSpec{
					Level:  barrierLevel,
					Type:   barrierType,
					Rebate: barrierRebate,
				}
			}
			if kind == "asian" {
				spec.Asian = &server.AsianSpec{
					Average:     average,
					NumFixings:  numFixings,
					RunningSum:  runningSum,
					PastFixings: pastFixings,
				}
			}

			inst, err := server.BuildInstrument(spec, cfg.Pricing.BinomialSteps)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("rate") {
				rate = cfg.Pricing.RiskFreeRate
			}
			md := instrument.MarketData{
				SpotPrice:    spot,
				RiskFreeRate: rate,
				Volatility:   vol,
			}

			report, err := risk.Compute(inst, md)
			if err != nil {
				return err
			}

			return printReport(report, cfg.Output.Pretty)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "european", "instrument kind (european, american, barrier, asian)")
	cmd.Flags().StringVar(&optionType, "type", "", "option type (call or put)")
	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price")
	cmd.Flags().Float64Var(&timeToExp, "expiry", 0, "time to expiry in years")
	cmd.Flags().StringVar(&expiryDate, "expiry-date", "", "expiry date (YYYY-MM-DD), overrides --expiry")
	cmd.Flags().BoolVar(&tradingDays, "trading-days", false, "convert --expiry-date using trading days on the configured calendar")
	cmd.Flags().StringVar(&assetID, "asset", "", "underlying asset id")
	cmd.Flags().StringVar(&model, "model", "", "pricing model for european options (black_scholes, binomial, merton_jump_diffusion)")
	cmd.Flags().IntVar(&steps, "steps", 0, "binomial lattice steps (defaults from config)")
	cmd.Flags().Float64Var(&spot, "spot", 0, "spot price")
	cmd.Flags().Float64Var(&rate, "rate", 0, "risk-free rate (defaults from config)")
	cmd.Flags().Float64Var(&vol, "vol", 0, "volatility")

	cmd.Flags().Float64Var(&jumpIntensity, "jump-intensity", 0, "jump arrival rate per year")
	cmd.Flags().Float64Var(&jumpMean, "jump-mean", 0, "mean log jump size")
	cmd.Flags().Float64Var(&jumpVol, "jump-vol", 0, "log jump size volatility")

	cmd.Flags().Float64Var(&barrierLevel, "barrier-level", 0, "barrier level")
	cmd.Flags().StringVar(&barrierType, "barrier-type", "", "barrier type (down_in, down_out, up_in, up_out)")
	cmd.Flags().Float64Var(&barrierRebate, "barrier-rebate", 0, "rebate paid when the option is knocked out")

	cmd.Flags().StringVar(&average, "average", "arithmetic", "averaging kind (arithmetic or geometric)")
	cmd.Flags().IntVar(&numFixings, "fixings", 0, "total number of averaging fixings")
	cmd.Flags().Float64Var(&runningSum, "running-sum", 0, "sum of observed fixings")
	cmd.Flags().IntVar(&pastFixings, "past-fixings", 0, "number of observed fixings")

	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("vol")

	return cmd
}

func printReport(report risk.Report, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
