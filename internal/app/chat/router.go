/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Router, which handles inbound message frames: it
validates the payload, stores attachment bytes, persists the message through
the history store, and forwards it to every live connection of the recipient.
*/
package chat

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/rs/zerolog"

	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/randx"
)

// Router validates, persists, and fans out inbound messages. It is stateless;
// all shared state lives in the registry and the collaborator stores.
type Router struct {
	registry *Registry
	history  HistoryStore
	blobs    BlobStore
	logger   zerolog.Logger
}

// NewRouter constructs a Router over the given registry and collaborators.
func NewRouter(registry *Registry, history HistoryStore, blobs BlobStore, logger zerolog.Logger) *Router {
	return &Router{
		registry: registry,
		history:  history,
		blobs:    blobs,
		logger:   logger.With().Str("component", "router").Logger(),
	}
}

// HandleInbound processes one inbound MESSAGE frame from sender.
//
// The message is persisted before any forwarding, so every delivered frame has
// a durable record and an id. A recipient with no live connection is not an
// error; the message simply waits in history. A returned CustomError rejects
// only this frame; the connection stays open.
func (rt *Router) HandleInbound(ctx context.Context, sender *Client, payloadBytes json.RawMessage) *errs.CustomError {
	senderIdentity, ok := rt.registry.IdentityOf(sender)
	if !ok {
		return errs.NewError(errs.ErrUnauthenticated)
	}

	var payload SendPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return errs.NewError(errs.ErrInvalidMessage)
	}

	if payload.Recipient == "" {
		return errs.NewError(errs.ErrInvalidMessage)
	}

	if payload.Text == "" && payload.File == nil {
		return errs.NewError(errs.ErrInvalidMessage)
	}

	if len(payload.Text) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	msg := Message{
		SenderID:    senderIdentity.ID,
		RecipientID: payload.Recipient,
		Text:        payload.Text,
	}

	if payload.File != nil {
		data, contentType, customErr := decodeAttachment(payload.File)
		if customErr != nil {
			return customErr
		}

		// The stored key is server-generated; the client name survives only
		// as display metadata.
		key := randx.AttachmentKey(payload.File.Name)

		if err := rt.blobs.Upload(ctx, key, contentType, data); err != nil {
			rt.logger.Error().Err(err).
				Str("sender", senderIdentity.ID).
				Str("attachment_key", key).
				Msg("Attachment store write failed")
			return errs.NewError(errs.ErrAttachmentStoreFailed)
		}

		msg.AttachmentName = filepath.Base(payload.File.Name)
		msg.AttachmentKey = key
	}

	stored, err := rt.history.SaveMessage(ctx, msg)
	if err != nil {
		rt.logger.Error().Err(err).
			Str("sender", senderIdentity.ID).
			Str("recipient", payload.Recipient).
			Msg("History store write failed, message not forwarded")

		// The uploaded attachment belongs to a message that never became
		// durable; remove it rather than leaving an orphan in the bucket.
		if msg.AttachmentKey != "" {
			if delErr := rt.blobs.Delete(ctx, msg.AttachmentKey); delErr != nil {
				rt.logger.Warn().Err(delErr).
					Str("attachment_key", msg.AttachmentKey).
					Msg("Orphaned attachment cleanup failed")
			}
		}

		return errs.NewError(errs.ErrPersistenceFailed)
	}

	rt.forward(stored)

	return nil
}

// forward queues a delivery frame to every live connection of the recipient.
// Delivery is best effort per connection: one slow session never aborts the
// attempts to the recipient's other sessions.
func (rt *Router) forward(msg Message) {
	delivery := DeliveryPayload{
		ID:        msg.ID,
		Sender:    msg.SenderID,
		Recipient: msg.RecipientID,
		Text:      msg.Text,
	}

	if msg.AttachmentKey != "" {
		delivery.File = &AttachmentRef{
			Name: msg.AttachmentName,
			Key:  msg.AttachmentKey,
		}
	}

	frame, err := newFrame(TypeMessage, delivery)
	if err != nil {
		// The message is already durable; history queries will surface it.
		rt.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Error marshaling delivery frame")
		return
	}

	for _, recipientConn := range rt.registry.ClientsFor(msg.RecipientID) {
		if err := recipientConn.enqueue(frame); err != nil {
			rt.logger.Warn().Err(err).
				Str("message_id", msg.ID).
				Str("recipient", msg.RecipientID).
				Msg("Delivery frame dropped for connection")
		}
	}
}
