/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Client struct, representing one live WebSocket
connection. It manages the connection's message loops (ReadPump and
WritePump), the outbound send queue, and heartbeat probing.
*/
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dmchat/internal/pkg/errs"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum allowed size (in bytes) of a frame sent by the client, large
	// enough for an inline base64 attachment.
	maxFrameSize = 8 << 20

	// maximum allowed size (in bytes) for message text content.
	MaxContentBytes = 5000

	// sendQueueSize is the capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// Client represents one live transport session between the server and a peer.
type Client struct {
	// the hub that owns this connection's lifecycle.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue frames waiting to be sent to the peer.
	send chan []byte

	// per-connection heartbeat state machine.
	liveness *Liveness

	// done is closed exactly once when the connection is being torn down; it
	// stops the write pump and invalidates the send queue without ever
	// closing the send channel (no panic on racing enqueues).
	done     chan struct{}
	doneOnce sync.Once

	// structured logger with connection context. Read concurrently by the
	// pumps, fanout, and the liveness timer; never reassigned after Connect
	// returns.
	logger zerolog.Logger
}

// ReadPump handles reading frames from the WebSocket connection. It handles
// heartbeat responses (Pong) and dispatches inbound frames to the hub, and
// performs registry cleanup when the connection closes. A dead connection
// never blocks here forever: the liveness monitor terminates the transport,
// which unblocks the read with an error.
func (c *Client) ReadPump() {
	defer c.hub.leave(c)

	c.conn.SetReadLimit(maxFrameSize)

	c.conn.SetPongHandler(func(string) error {
		c.liveness.Pong()
		return nil
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.hub.handleFrame(c, frameBytes)
	}
}

// WritePump handles writing frames from the Client.send queue to the WebSocket
// connection and drives the heartbeat probe ticker.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.hub.pingInterval)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close in WritePump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if !c.writeQueuedFrame(frame) {
				return
			}

		case <-ticker.C:
			if !c.liveness.Arm() {
				continue
			}
			if !c.writePingFrame() {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close frame")
			}
			return
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send queue to the
// WebSocket. Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedFrame(frame []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingFrame sends a WebSocket Ping control frame, the probe half of the
// heartbeat. Returns false if the WritePump loop should terminate.
func (c *Client) writePingFrame() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue places a raw frame on the send queue. Frames for a closing
// connection, or beyond the queue capacity, are dropped: a slow or dead peer
// must not block delivery to anyone else.
func (c *Client) enqueue(frame []byte) error {
	select {
	case <-c.done:
		return errors.New("connection is closing")
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping frame")
		return fmt.Errorf("send queue full")
	}
}

// sendFrame marshals a payload into a frame of the given type and queues it.
func (c *Client) sendFrame(frameType FrameType, payload any) error {
	frame, err := newFrame(frameType, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("frame_type", string(frameType)).Msg("Error marshaling frame")
		return err
	}

	return c.enqueue(frame)
}

// SendError queues a TypeError frame describing why an inbound frame was
// rejected. The connection stays open.
func (c *Client) SendError(err error) {
	var code int
	var message string

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else {
		code = errs.ErrUnknown
		message = fmt.Sprintf("Internal server error: %v", err)
	}

	if sendErr := c.sendFrame(TypeError, ErrorPayload{Code: code, Message: message}); sendErr != nil {
		c.logger.Error().Err(sendErr).Msg("Failed to queue error frame")
	}
}

// shutdown closes the done channel once, stopping the write pump and marking
// the send queue invalid.
func (c *Client) shutdown() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// terminate forcibly closes the transport. Used when the liveness monitor
// declares the connection dead and on server shutdown.
func (c *Client) terminate() {
	c.shutdown()

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close on terminate")
		}
	}
}

// decodeEnvelope parses the outer structure of an inbound frame.
func decodeEnvelope(frameBytes []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frameBytes, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
