package data

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/quantrisk/engine/internal/instrument"
)

// ErrNotRegistered is returned when an instrument id is unknown.
var ErrNotRegistered = errors.New("instrument not registered")

// Entry is a registered watchlist instrument.
type Entry struct {
	ID         string
	Instrument instrument.Instrument
}

// Registry is the uuid-keyed watchlist of instruments the streamer
// re-prices. Instruments are validated at construction, so only valid
// ones ever enter the registry. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Add registers an instrument and returns its generated id.
func (r *Registry) Add(inst instrument.Instrument) string {
	id := uuid.New().String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = Entry{ID: id, Instrument: inst}
	return id
}

// Get returns the entry for an id.
func (r *Registry) Get(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, ErrNotRegistered
	}
	return e, nil
}

// Remove deletes an entry, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	return ok
}

// List returns all entries.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	return entries
}

// ByAsset returns the entries whose instrument references the given
// underlying.
func (r *Registry) ByAsset(assetID string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []Entry
	for _, e := range r.entries {
		if e.Instrument.AssetID() == assetID {
			entries = append(entries, e)
		}
	}
	return entries
}

// Len returns the number of registered instruments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
