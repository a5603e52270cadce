package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client whose frames can be read straight off the send
// queue, without a WebSocket connection or running pumps.
func newTestClient() *Client {
	return &Client{
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: zerolog.Nop(),
	}
}

// mustFrame waits for the next frame of the given type on the client's send
// queue, skipping frames of other types.
func mustFrame(t *testing.T, c *Client, frameType FrameType) Envelope {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw := <-c.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			if env.Type == frameType {
				return env
			}
		case <-deadline:
			t.Fatalf("expected frame type %s not received", frameType)
			return Envelope{}
		}
	}
}

// noFrame asserts that no frame of the given type is queued for the client.
func noFrame(t *testing.T, c *Client, frameType FrameType) {
	t.Helper()

	for {
		select {
		case raw := <-c.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			require.NotEqual(t, frameType, env.Type, "unexpected frame: %s", raw)
		default:
			return
		}
	}
}

// decodePayload unmarshals an envelope payload into dst.
func decodePayload(t *testing.T, env Envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Payload, dst))
}
