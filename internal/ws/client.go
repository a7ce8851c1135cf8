package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024

	// Send buffer size per client.
	sendBufferSize = 256
)

// Subprotocol names. Plain clients receive JSON text frames, compressed
// clients receive zstd-compressed JSON as binary frames.
const (
	protocolJSON = "risk.json.v1"
	protocolZstd = "risk.json.zstd.v1"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
	Subprotocols: []string{
		protocolZstd,
		protocolJSON,
	},
}

// Client represents a WebSocket client connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	connID   string
	assets   map[string]bool
	encoder  *Encoder
	logger   *zap.Logger
	protocol string
}

// controlMessage is the client-to-server frame.
type controlMessage struct {
	Action  string  `json:"action"` // "subscribe", "unsubscribe", "ping"
	AssetID string  `json:"asset_id,omitempty"`
	AckID   *uint64 `json:"ack_id,omitempty"`
}

// ackMessage is the server's acknowledgement frame.
type ackMessage struct {
	Type    string `json:"type"` // "ack" or "pong"
	AckID   uint64 `json:"ack_id,omitempty"`
	Success bool   `json:"success"`
	AssetID string `json:"asset_id,omitempty"`
}

// HandleWS upgrades the connection and starts the client pumps.
func (h *Hub) HandleWS(encoder *Encoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Negotiate subprotocol; plain JSON is the default.
		protocol := protocolJSON
		var responseHeader http.Header
		for _, proto := range websocket.Subprotocols(r) {
			if proto == protocolZstd || proto == protocolJSON {
				protocol = proto
				responseHeader = http.Header{"Sec-WebSocket-Protocol": {proto}}
				break
			}
		}

		conn, err := upgrader.Upgrade(w, r, responseHeader)
		if err != nil {
			h.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			hub:      h,
			conn:     conn,
			send:     make(chan []byte, sendBufferSize),
			connID:   uuid.New().String(),
			assets:   make(map[string]bool),
			encoder:  encoder,
			logger:   h.logger,
			protocol: protocol,
		}

		h.register <- client

		h.logger.Debug("websocket connected",
			zap.String("connID", client.connID),
			zap.String("protocol", protocol),
		)

		go client.writePump()
		go client.readPump()
	}
}

// readPump reads control messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error",
					zap.String("connID", c.connID),
					zap.Error(err),
				)
			}
			break
		}
		c.handleMessage(message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	msgType := websocket.TextMessage
	if c.protocol == protocolZstd {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, send close message
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msgType, message); err != nil {
				c.logger.Debug("websocket write error",
					zap.String("connID", c.connID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming control message.
func (c *Client) handleMessage(data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Debug("failed to parse control message",
			zap.String("connID", c.connID),
			zap.Error(err),
		)
		return
	}

	switch msg.Action {
	case "subscribe":
		if msg.AssetID == "" {
			c.sendAck(msg.AckID, msg.AssetID, false)
			return
		}
		c.hub.Subscribe(c, msg.AssetID)
		c.sendAck(msg.AckID, msg.AssetID, true)

	case "unsubscribe":
		c.hub.Unsubscribe(c, msg.AssetID)
		c.sendAck(msg.AckID, msg.AssetID, true)

	case "ping":
		c.sendControl(ackMessage{Type: "pong", Success: true})

	default:
		c.logger.Debug("unknown control action",
			zap.String("connID", c.connID),
			zap.String("action", msg.Action),
		)
	}
}

func (c *Client) sendAck(ackID *uint64, asset string, success bool) {
	if ackID == nil {
		return
	}
	c.sendControl(ackMessage{Type: "ack", AckID: *ackID, Success: success, AssetID: asset})
}

func (c *Client) sendControl(msg ackMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- c.encodePayload(payload):
	default:
	}
}

// encodePayload renders a JSON payload for this client's subprotocol.
func (c *Client) encodePayload(payload []byte) []byte {
	if c.protocol == protocolZstd {
		return c.encoder.Compress(payload)
	}
	return payload
}
