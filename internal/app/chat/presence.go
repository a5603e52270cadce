/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Broadcaster, which pushes the online-identity snapshot
to every live connection whenever registry membership changes.
*/
package chat

import (
	"github.com/rs/zerolog"
)

// Broadcaster computes and distributes presence snapshots.
type Broadcaster struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewBroadcaster constructs a Broadcaster over the given registry.
func NewBroadcaster(registry *Registry, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		logger:   logger.With().Str("component", "presence").Logger(),
	}
}

// Announce computes the current presence snapshot once and queues it to every
// connection live at that moment, identified or not. Each membership change
// produces one broadcast; bursts of disconnects may produce redundant
// snapshots, which is harmless since the frame is idempotent.
func (b *Broadcaster) Announce() {
	online := b.registry.Snapshot()

	frame, err := newFrame(TypePresence, PresencePayload{Online: online})
	if err != nil {
		b.logger.Error().Err(err).Msg("Error marshaling presence frame")
		return
	}

	recipients := b.registry.Clients()
	for _, c := range recipients {
		if err := c.enqueue(frame); err != nil {
			// Best effort per connection; the registry will catch up with
			// dead peers through the liveness monitor.
			b.logger.Debug().Err(err).Msg("Presence frame dropped for connection")
		}
	}

	b.logger.Debug().
		Int("online", len(online)).
		Int("recipients", len(recipients)).
		Msg("Presence announced")
}
