package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quantrisk/engine/internal/backend"
	"github.com/quantrisk/engine/internal/config"
	"github.com/quantrisk/engine/internal/data"
	"github.com/quantrisk/engine/internal/instrument"
	"github.com/quantrisk/engine/internal/risk"
)

// Server holds the handlers' dependencies.
type Server struct {
	market   *data.MarketStore
	registry *data.Registry
	config   *config.ServerConfig
	logger   *zap.Logger
}

func NewServer(market *data.MarketStore, registry *data.Registry, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		market:   market,
		registry: registry,
		config:   cfg,
		logger:   logger,
	}
}

// handleRisk prices one instrument against the supplied market snapshot.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	inst, err := BuildInstrument(req.Instrument, s.config.DefaultBinomialSteps)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := risk.Compute(inst, req.Market.ToMarketData())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Debug("risk computed",
		zap.String("instrumentType", report.InstrumentType),
		zap.String("assetID", report.AssetID),
		zap.Float64("price", report.Price),
	)

	writeJSON(w, http.StatusOK, report)
}

// handleRegister adds an instrument to the watchlist.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	inst, err := BuildInstrument(req.Instrument, s.config.DefaultBinomialSteps)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := s.registry.Add(inst)

	s.logger.Info("instrument registered",
		zap.String("id", id),
		zap.String("instrumentType", inst.InstrumentType()),
		zap.String("assetID", inst.AssetID()),
	)

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":              id,
		"instrument_type": inst.InstrumentType(),
		"asset_id":        inst.AssetID(),
	})
}

// handleListInstruments returns the watchlist.
func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	entries := s.registry.List()
	out := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]string{
			"id":              e.ID,
			"instrument_type": e.Instrument.InstrumentType(),
			"asset_id":        e.Instrument.AssetID(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"instruments": out,
		"count":       len(out),
	})
}

// handleRemoveInstrument removes a watchlist entry.
func (s *Server) handleRemoveInstrument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.registry.Remove(id) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "instrument not found: " + id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePutMarket publishes a market snapshot for an asset.
func (s *Server) handlePutMarket(w http.ResponseWriter, r *http.Request) {
	asset := chi.URLParam(r, "asset")

	var spec MarketSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	md := spec.ToMarketData()
	if err := instrument.ValidateMarketData(md); err != nil {
		s.writeError(w, err)
		return
	}

	s.market.Put(asset, md)

	s.logger.Debug("market snapshot published",
		zap.String("assetID", asset),
		zap.Float64("spot", md.SpotPrice),
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleGetMarket returns the latest snapshot for an asset.
func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	asset := chi.URLParam(r, "asset")

	snap, err := s.market.Get(asset)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error() + ": " + asset})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"asset_id":   asset,
		"spot":       snap.Market.SpotPrice,
		"rate":       snap.Market.RiskFreeRate,
		"vol":        snap.Market.Volatility,
		"updated_at": snap.UpdatedAt,
	})
}

// handleHealth reports liveness and the backend capability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"backend_available":  backend.Default().Available(),
		"watchlist_size":     s.registry.Len(),
		"ws_enabled":         s.config.WSEnabled,
		"ws_stream_interval": s.config.WSStreamInterval.String(),
	})
}

// writeError maps the instrument error kinds onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, instrument.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, instrument.ErrFeatureUnavailable):
		status = http.StatusNotImplemented
	case errors.Is(err, instrument.ErrComputation):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("unclassified pricing error", zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
