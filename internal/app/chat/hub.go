/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Hub, which wires the registry, resolver, presence
broadcaster, and message router together and owns each connection's lifecycle
from WebSocket upgrade to removal.
*/
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
)

// Hub coordinates all live connections. The registry is the only shared
// mutable structure; the resolver, broadcaster, and router operate through its
// atomic operations.
type Hub struct {
	registry *Registry
	presence *Broadcaster
	router   *Router
	resolver *Resolver

	// pingInterval is how often an ALIVE connection is probed; pongTimeout is
	// how long a probe may stay unanswered. A silent peer is detected within
	// pingInterval + pongTimeout.
	pingInterval time.Duration
	pongTimeout  time.Duration

	logger zerolog.Logger
}

// NewHub constructs a Hub with its registry and collaborators.
func NewHub(resolver *Resolver, history HistoryStore, blobs BlobStore, pingInterval, pongTimeout time.Duration) *Hub {
	hubLogger := logx.Logger().With().Str("component", "hub").Logger()

	registry := NewRegistry()

	return &Hub{
		registry:     registry,
		presence:     NewBroadcaster(registry, *logx.Logger()),
		router:       NewRouter(registry, history, blobs, *logx.Logger()),
		resolver:     resolver,
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		logger:       hubLogger,
	}
}

// Registry exposes the connection registry, mainly for tests and diagnostics.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Connect registers a new WebSocket connection with the hub. When a credential
// is supplied (the usual case: the identity cookie at upgrade time), the
// connection is identified immediately; otherwise it stays anonymous and may
// identify later with an AUTH frame. Every new connection receives the current
// presence snapshot; peers learn about the newcomer once it is identified.
//
// The caller owns the pump goroutines: `go client.WritePump()` then
// `client.ReadPump()`.
func (h *Hub) Connect(conn *websocket.Conn, credential string) *Client {
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: h.logger.With().Str("component", "client").Logger(),
	}

	c.liveness = NewLiveness(h.pongTimeout, func() {
		h.evict(c)
	})

	var identity user.User
	var resolveErr *errs.CustomError
	if credential != "" {
		identity, resolveErr = h.resolver.Resolve(credential)
	}

	if credential != "" && resolveErr == nil {
		// Resolved before Register makes the connection reachable through the
		// registry, so the logger is still private to this goroutine.
		c.logger = h.logger.With().Str("client_id", identity.ID).Logger()
	}

	h.registry.Register(c)

	if resolveErr != nil {
		c.logger.Warn().Msg("Connection credential rejected, staying anonymous")
		c.SendError(resolveErr)
	} else if credential != "" {
		if customErr := h.registry.AttachIdentity(c, identity); customErr != nil {
			c.SendError(customErr)
		}
	}

	h.presence.Announce()

	return c
}

// Identify resolves a credential sent over an established connection (AUTH
// frame) and attaches the identity. Re-identification is allowed.
func (h *Hub) Identify(c *Client, credential string) {
	identity, customErr := h.resolver.Resolve(credential)
	if customErr != nil {
		c.SendError(customErr)
		return
	}

	if customErr := h.registry.AttachIdentity(c, identity); customErr != nil {
		// Lost the race with a disconnect; the connection is already gone.
		c.logger.Warn().Str("client_id", identity.ID).Msg("Identity attach on unknown connection ignored")
		return
	}

	// The logger is shared with the pumps, fanout, and the liveness timer by
	// now, so it is never reassigned; the identity travels as a field instead.
	c.logger.Info().Str("client_id", identity.ID).Msg("Connection identified")

	h.presence.Announce()
}

// handleFrame dispatches one inbound frame from a connection's read loop.
// Inbound frames are processed one at a time per connection.
func (h *Hub) handleFrame(c *Client, frameBytes []byte) {
	env, err := decodeEnvelope(frameBytes)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch env.Type {
	case TypeAuth:
		var payload AuthPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid AUTH payload")
			return
		}
		h.Identify(c, payload.Token)

	case TypeMessage:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if customErr := h.router.HandleInbound(ctx, c, env.Payload); customErr != nil {
			c.SendError(customErr)
		}

	default:
		c.logger.Warn().Str("frame_type", string(env.Type)).Msg("Client sent unsupported frame type")
	}
}

// leave removes a connection after its read loop ends (close handshake or read
// error). Safe against races with eviction: Remove is idempotent.
func (h *Hub) leave(c *Client) {
	c.liveness.Stop()
	c.shutdown()

	if h.registry.Remove(c) {
		c.logger.Info().Msg("Connection removed")
		h.presence.Announce()
	}
}

// evict is the liveness monitor's expiry path: the connection stopped
// answering probes. Membership is re-checked through Remove, so a timer that
// fires after a normal disconnect is a no-op.
func (h *Hub) evict(c *Client) {
	if !h.registry.Remove(c) {
		return
	}

	c.logger.Warn().Msg("Connection unresponsive, evicting")

	c.terminate()
	h.presence.Announce()
}

// Shutdown terminates every live connection. Called during graceful server
// shutdown after the HTTP listener has stopped.
func (h *Hub) Shutdown() {
	clients := h.registry.Clients()

	for _, c := range clients {
		c.liveness.Stop()
		c.terminate()
		h.registry.Remove(c)
	}

	h.logger.Info().Int("connections", len(clients)).Msg("Hub shutdown complete")
}
