package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quantrisk/engine/internal/backend"
	"github.com/quantrisk/engine/internal/data"
	"github.com/quantrisk/engine/internal/instrument"
)

func TestStreamer_BroadcastTickPricesWatchlist(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(t, hub, protocolJSON)
	hub.Subscribe(client, "SPY")

	market := data.NewMarketStore()
	market.Put("SPY", instrument.MarketData{SpotPrice: 100, RiskFreeRate: 0.05, Volatility: 0.2})

	registry := data.NewRegistry()
	opt, err := instrument.NewEuropeanOption(instrument.Call, 100, 1, "SPY")
	if err != nil {
		t.Fatalf("failed to build instrument: %v", err)
	}
	id := registry.Add(opt)

	streamer := NewStreamer(hub, market, registry, client.encoder, time.Second, zap.NewNop())
	streamer.broadcastTick()

	var frameBytes []byte
	select {
	case frameBytes = <-client.send:
	default:
		t.Fatal("expected a broadcast frame")
	}

	var frame struct {
		AssetID string            `json:"asset_id"`
		Spot    float64           `json:"spot"`
		Reports []json.RawMessage `json:"reports"`
	}
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	if frame.AssetID != "SPY" {
		t.Errorf("unexpected asset id: %s", frame.AssetID)
	}
	if frame.Spot != 100 {
		t.Errorf("unexpected spot: %v", frame.Spot)
	}
	if len(frame.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(frame.Reports))
	}

	var report struct {
		InstrumentID string  `json:"instrument_id"`
		Price        float64 `json:"price"`
	}
	if err := json.Unmarshal(frame.Reports[0], &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.InstrumentID != id {
		t.Errorf("expected instrument id %s, got %s", id, report.InstrumentID)
	}
	if report.Price < 10.4 || report.Price > 10.5 {
		t.Errorf("unexpected price %v", report.Price)
	}
}

func TestStreamer_SkipsAssetsWithoutSnapshot(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(t, hub, protocolJSON)
	hub.Subscribe(client, "SPY")

	streamer := NewStreamer(hub, data.NewMarketStore(), data.NewRegistry(), client.encoder, time.Second, zap.NewNop())
	streamer.broadcastTick()

	select {
	case frame := <-client.send:
		t.Errorf("expected no frame without market data, got %s", frame)
	default:
	}
}

func TestStreamer_ReportsPerInstrumentErrors(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(t, hub, protocolJSON)
	hub.Subscribe(client, "SPY")

	market := data.NewMarketStore()
	market.Put("SPY", instrument.MarketData{SpotPrice: 100, RiskFreeRate: 0.05, Volatility: 0.2})

	registry := data.NewRegistry()
	good, err := instrument.NewEuropeanOption(instrument.Call, 100, 1, "SPY")
	if err != nil {
		t.Fatalf("failed to build instrument: %v", err)
	}
	registry.Add(good)

	// A barrier option without a backend always fails to price; the frame
	// still carries the healthy report.
	bad, err := instrument.NewBarrierOptionWithPricer(instrument.Call, 100, 120, instrument.UpOut, 1, "SPY", 0, backend.Unavailable{})
	if err != nil {
		t.Fatalf("failed to build instrument: %v", err)
	}
	badID := registry.Add(bad)

	streamer := NewStreamer(hub, market, registry, client.encoder, time.Second, zap.NewNop())
	streamer.broadcastTick()

	var frameBytes []byte
	select {
	case frameBytes = <-client.send:
	default:
		t.Fatal("expected a broadcast frame")
	}

	var frame struct {
		Reports []json.RawMessage `json:"reports"`
		Errors  []struct {
			InstrumentID string `json:"instrument_id"`
			Error        string `json:"error"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	if len(frame.Reports) != 1 {
		t.Errorf("expected 1 healthy report, got %d", len(frame.Reports))
	}
	if len(frame.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(frame.Errors))
	}
	if frame.Errors[0].InstrumentID != badID {
		t.Errorf("expected error for %s, got %s", badID, frame.Errors[0].InstrumentID)
	}
}
