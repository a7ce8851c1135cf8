package ws

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, hub *Hub, protocol string) *Client {
	t.Helper()

	enc, err := NewEncoder()
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	t.Cleanup(enc.Close)

	return &Client{
		hub:      hub,
		send:     make(chan []byte, sendBufferSize),
		connID:   "test-conn",
		assets:   make(map[string]bool),
		encoder:  enc,
		logger:   zap.NewNop(),
		protocol: protocol,
	}
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(t, hub, protocolJSON)

	if got := hub.ActiveAssets(); len(got) != 0 {
		t.Errorf("expected no active assets, got %v", got)
	}

	hub.Subscribe(client, "SPY")
	hub.Subscribe(client, "QQQ")

	active := hub.ActiveAssets()
	if len(active) != 2 {
		t.Fatalf("expected 2 active assets, got %v", active)
	}
	if !client.assets["SPY"] || !client.assets["QQQ"] {
		t.Errorf("client should track its subscriptions, got %v", client.assets)
	}

	hub.Unsubscribe(client, "SPY")
	active = hub.ActiveAssets()
	if len(active) != 1 || active[0] != "QQQ" {
		t.Errorf("expected only QQQ active, got %v", active)
	}
}

func TestHub_BroadcastReachesSubscriberOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	subscriber := newTestClient(t, hub, protocolJSON)
	bystander := newTestClient(t, hub, protocolJSON)

	hub.Subscribe(subscriber, "SPY")
	hub.Subscribe(bystander, "QQQ")

	payload := []byte(`{"asset_id":"SPY"}`)
	hub.BroadcastReports("SPY", payload)

	select {
	case got := <-subscriber.send:
		if !bytes.Equal(got, payload) {
			t.Errorf("expected payload %s, got %s", payload, got)
		}
	default:
		t.Fatal("subscriber should have received the broadcast")
	}

	select {
	case got := <-bystander.send:
		t.Errorf("bystander should not receive SPY broadcast, got %s", got)
	default:
	}
}

func TestHub_BroadcastCompressesForZstdClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(t, hub, protocolZstd)
	hub.Subscribe(client, "SPY")

	payload := []byte(`{"asset_id":"SPY","spot":450.5}`)
	hub.BroadcastReports("SPY", payload)

	var frame []byte
	select {
	case frame = <-client.send:
	default:
		t.Fatal("client should have received the broadcast")
	}

	dec, err := zstd.NewReader(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("failed to create zstd reader: %v", err)
	}
	defer dec.Close()

	decoded, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("failed to decompress frame: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("expected decompressed payload %s, got %s", payload, decoded)
	}
}

func TestEncoder_CompressRoundTrip(t *testing.T) {
	enc, err := NewEncoder()
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	defer enc.Close()

	payload := []byte(`{"reports":[{"price":10.45,"delta":0.64}]}`)
	frame := enc.Compress(payload)

	dec, err := zstd.NewReader(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("failed to create zstd reader: %v", err)
	}
	defer dec.Close()

	decoded, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("round trip mismatch: %s vs %s", decoded, payload)
	}
}
