package ws

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/quantrisk/engine/internal/data"
	"github.com/quantrisk/engine/internal/risk"
)

// Streamer re-prices the watchlist against the latest market snapshot for
// every subscribed asset and broadcasts the risk reports on each tick.
type Streamer struct {
	hub      *Hub
	market   *data.MarketStore
	registry *data.Registry
	encoder  *Encoder
	interval time.Duration
	logger   *zap.Logger
}

// streamFrame is the per-asset broadcast payload.
type streamFrame struct {
	AssetID   string        `json:"asset_id"`
	Timestamp time.Time     `json:"timestamp"`
	Spot      float64       `json:"spot"`
	Reports   []risk.Report `json:"reports"`
	Errors    []streamError `json:"errors,omitempty"`
}

// streamError reports a single instrument whose evaluation failed.
// One bad instrument never suppresses the rest of the frame.
type streamError struct {
	InstrumentID string `json:"instrument_id"`
	Error        string `json:"error"`
}

func NewStreamer(hub *Hub, market *data.MarketStore, registry *data.Registry, encoder *Encoder, interval time.Duration, logger *zap.Logger) *Streamer {
	return &Streamer{
		hub:      hub,
		market:   market,
		registry: registry,
		encoder:  encoder,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the streaming loop. Call in a goroutine.
// Returns when context is cancelled.
func (s *Streamer) Run(ctx context.Context) {
	// Align first tick to top of second for predictable timing
	now := time.Now()
	nextSecond := now.Truncate(time.Second).Add(time.Second)

	select {
	case <-ctx.Done():
		s.logger.Info("streamer cancelled during alignment")
		s.encoder.Close()
		return
	case <-time.After(time.Until(nextSecond)):
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("streamer started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("streamer stopping")
			s.encoder.Close()
			return

		case <-ticker.C:
			s.broadcastTick()
		}
	}
}

// broadcastTick prices and publishes one frame per subscribed asset.
func (s *Streamer) broadcastTick() {
	assets := s.hub.ActiveAssets()
	if len(assets) == 0 {
		return
	}

	for _, asset := range assets {
		snap, err := s.market.Get(asset)
		if err != nil {
			s.logger.Debug("no market snapshot for subscribed asset",
				zap.String("assetID", asset),
			)
			continue
		}

		entries := s.registry.ByAsset(asset)
		if len(entries) == 0 {
			continue
		}

		frame := streamFrame{
			AssetID:   asset,
			Timestamp: snap.UpdatedAt,
			Spot:      snap.Market.SpotPrice,
		}

		for _, e := range entries {
			report, err := risk.Compute(e.Instrument, snap.Market)
			if err != nil {
				frame.Errors = append(frame.Errors, streamError{
					InstrumentID: e.ID,
					Error:        err.Error(),
				})
				continue
			}
			report.InstrumentID = e.ID
			frame.Reports = append(frame.Reports, report)
		}

		payload, err := json.Marshal(frame)
		if err != nil {
			s.logger.Error("failed to marshal stream frame",
				zap.String("assetID", asset),
				zap.Error(err),
			)
			continue
		}

		s.hub.BroadcastReports(asset, payload)

		s.logger.Debug("broadcast risk frame",
			zap.String("assetID", asset),
			zap.Int("reports", len(frame.Reports)),
			zap.Int("errors", len(frame.Errors)),
		)
	}
}
