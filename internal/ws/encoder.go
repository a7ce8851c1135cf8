package ws

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Encoder compresses broadcast payloads for clients on the zstd
// subprotocol. Safe for concurrent use; EncodeAll is stateless.
type Encoder struct {
	zstdEncoder *zstd.Encoder
}

func NewEncoder() (*Encoder, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Encoder{zstdEncoder: enc}, nil
}

// Compress returns the zstd frame for a JSON payload.
func (e *Encoder) Compress(payload []byte) []byte {
	return e.zstdEncoder.EncodeAll(payload, nil)
}

// Close releases encoder resources.
func (e *Encoder) Close() {
	if e.zstdEncoder != nil {
		e.zstdEncoder.Close()
	}
}
