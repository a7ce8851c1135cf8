package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantrisk/engine/internal/risk"
	"github.com/quantrisk/engine/internal/server"
)

// scenario is one JSONL line: an instrument plus the market to price it
// against.
type scenario struct {
	Instrument server.InstrumentSpec `json:"instrument"`
	Market     server.MarketSpec     `json:"market"`
}

// scenarioResult pairs the line number with its outcome.
type scenarioResult struct {
	Line   int          `json:"line"`
	Report *risk.Report `json:"report,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func scenariosCmd() *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "scenarios FILE",
		Short: "Batch-price scenarios from a JSONL file",
		Long: `Price every scenario in a JSONL file and emit one result line per
scenario. Files ending in .zst are decompressed on the fly.

Each input line holds an instrument and a market snapshot:
  {"instrument":{"kind":"european","option_type":"call","strike":100,"time_to_expiry":0.5,"asset_id":"SPY"},"market":{"spot":102,"rate":0.05,"vol":0.2}}

Examples:
  riskcli scenarios book.jsonl
  riskcli scenarios book.jsonl.zst --fail-fast`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening scenarios file: %w", err)
			}
			defer f.Close()

			var reader io.Reader = f
			if strings.HasSuffix(path, ".zst") {
				dec, err := zstd.NewReader(f)
				if err != nil {
					return fmt.Errorf("creating zstd reader: %w", err)
				}
				defer dec.Close()
				reader = dec
			}

			enc := json.NewEncoder(os.Stdout)
			scanner := bufio.NewScanner(reader)
			scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

			line := 0
			failed := 0
			for scanner.Scan() {
				line++
				raw := strings.TrimSpace(scanner.Text())
				if raw == "" {
					continue
				}

				result := runScenario(line, []byte(raw))
				if result.Error != "" {
					failed++
					logger.Debug("scenario failed",
						zap.Int("line", line),
						zap.String("error", result.Error),
					)
					if failFast {
						enc.Encode(result)
						return fmt.Errorf("scenario on line %d failed: %s", line, result.Error)
					}
				}
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading scenarios: %w", err)
			}

			logger.Info("scenarios complete",
				zap.Int("total", line),
				zap.Int("failed", failed),
			)

			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing scenario")

	return cmd
}

func runScenario(line int, raw []byte) scenarioResult {
	var sc scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return scenarioResult{Line: line, Error: "invalid json: " + err.Error()}
	}

	inst, err := server.BuildInstrument(sc.Instrument, cfg.Pricing.BinomialSteps)
	if err != nil {
		return scenarioResult{Line: line, Error: err.Error()}
	}

	md := sc.Market.ToMarketData()
	if md.RiskFreeRate == 0 {
		md.RiskFreeRate = cfg.Pricing.RiskFreeRate
	}

	report, err := risk.Compute(inst, md)
	if err != nil {
		return scenarioResult{Line: line, Error: err.Error()}
	}
	return scenarioResult{Line: line, Report: &report}
}
