// Package data holds the service's in-memory state: the latest market
// snapshot per asset and the watchlist of registered instruments.
package data

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/quantrisk/engine/internal/instrument"
)

// ErrNoSnapshot is returned when no market data has been published for an
// asset yet.
var ErrNoSnapshot = errors.New("no market snapshot for asset")

// Snapshot is a published market observation with its arrival time.
type Snapshot struct {
	Market    instrument.MarketData
	UpdatedAt time.Time
}

// MarketStore keeps the latest snapshot per asset id. Safe for concurrent
// use.
type MarketStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMarketStore() *MarketStore {
	return &MarketStore{
		snapshots: make(map[string]Snapshot),
	}
}

// Put replaces the snapshot for an asset.
func (s *MarketStore) Put(assetID string, md instrument.MarketData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[assetID] = Snapshot{Market: md, UpdatedAt: time.Now()}
}

// Get returns the latest snapshot for an asset.
func (s *MarketStore) Get(assetID string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[assetID]
	if !ok {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

// Assets returns the sorted ids that currently have a snapshot.
func (s *MarketStore) Assets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assets := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		assets = append(assets, id)
	}
	sort.Strings(assets)
	return assets
}
