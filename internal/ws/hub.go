// Package ws streams live risk reports over WebSocket. Clients subscribe
// to asset ids; every market snapshot interval the streamer re-prices the
// watchlist for each subscribed asset and broadcasts the reports.
package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub manages WebSocket connections and per-asset subscriptions.
type Hub struct {
	clients    map[*Client]bool
	assets     map[string]map[*Client]bool // asset id -> subscribers
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		assets:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes hub events. Call this in a goroutine.
// Returns when context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub shutting down")
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("connID", client.connID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for asset := range client.assets {
					if subs, ok := h.assets[asset]; ok {
						delete(subs, client)
						if len(subs) == 0 {
							delete(h.assets, asset)
						}
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("connID", client.connID))
		}
	}
}

// shutdown gracefully closes all client connections.
func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.assets = make(map[string]map[*Client]bool)
}

// Subscribe adds a client to an asset's subscriber set.
func (h *Hub) Subscribe(client *Client, asset string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.assets[asset] == nil {
		h.assets[asset] = make(map[*Client]bool)
	}
	h.assets[asset][client] = true
	client.assets[asset] = true

	h.logger.Debug("client subscribed",
		zap.String("connID", client.connID),
		zap.String("assetID", asset),
	)
}

// Unsubscribe removes a client from an asset's subscriber set.
func (h *Hub) Unsubscribe(client *Client, asset string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.assets[asset]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.assets, asset)
		}
	}
	delete(client.assets, asset)

	h.logger.Debug("client unsubscribed",
		zap.String("connID", client.connID),
		zap.String("assetID", asset),
	)
}

// ActiveAssets returns the asset ids with at least one subscriber.
func (h *Hub) ActiveAssets() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var assets []string
	for asset, subs := range h.assets {
		if len(subs) > 0 {
			assets = append(assets, asset)
		}
	}
	return assets
}

// BroadcastReports sends a JSON payload to every subscriber of an asset.
// Each client encodes the payload per its negotiated subprotocol, so
// compressed clients get zstd frames while plain clients get the JSON.
func (h *Hub) BroadcastReports(asset string, payload []byte) {
	h.mu.RLock()
	subs, ok := h.assets[asset]
	if !ok {
		h.mu.RUnlock()
		return
	}
	// Copy subscribers to avoid holding lock during send
	clientList := make([]*Client, 0, len(subs))
	for client := range subs {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	for _, client := range clientList {
		msg := client.encodePayload(payload)
		select {
		case client.send <- msg:
		default:
			// Buffer full, schedule disconnect
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}
