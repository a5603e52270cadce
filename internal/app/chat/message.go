/*
Package chat contains the core logic for real-time direct messaging: identity
resolution, the live connection registry, heartbeat liveness monitoring,
presence broadcasting, and message routing.

This file defines the wire frame types exchanged over a WebSocket connection
and the Message record persisted to the history store.
*/
package chat

import (
	"encoding/json"
	"time"

	"dmchat/internal/app/user"
)

// FrameType identifies the kind of frame exchanged over a connection.
type FrameType string

const (
	// TypeAuth is an inbound frame carrying a credential for an anonymous
	// connection that wants to (re)identify itself.
	TypeAuth FrameType = "AUTH"

	// TypeMessage is an inbound send request, and an outbound delivery to the
	// recipient's live connections.
	TypeMessage FrameType = "MESSAGE"

	// TypePresence is an outbound snapshot of the currently online identities.
	TypePresence FrameType = "PRESENCE"

	// TypeError is an outbound rejection of a single inbound frame. The
	// connection stays open.
	TypeError FrameType = "ERROR"
)

// Envelope is the outer structure of every frame on the wire.
type Envelope struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AuthPayload carries the credential of an AUTH frame.
type AuthPayload struct {
	Token string `json:"token"`
}

// InboundFile is the attachment portion of an inbound MESSAGE frame. Data is a
// base64 data URL as produced by FileReader.readAsDataURL in browser clients.
type InboundFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// SendPayload is the payload of an inbound MESSAGE frame.
type SendPayload struct {
	Recipient string       `json:"recipient"`
	Text      string       `json:"text,omitempty"`
	File      *InboundFile `json:"file,omitempty"`
}

// AttachmentRef points at a stored attachment. Key is the server-generated
// object key; Name is the client's original file name, kept for display only.
type AttachmentRef struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// DeliveryPayload is the payload of an outbound MESSAGE frame.
type DeliveryPayload struct {
	ID        string         `json:"id"`
	Sender    string         `json:"sender"`
	Recipient string         `json:"recipient"`
	Text      string         `json:"text,omitempty"`
	File      *AttachmentRef `json:"file,omitempty"`
}

// PresencePayload is the payload of an outbound PRESENCE frame.
type PresencePayload struct {
	Online []user.User `json:"online"`
}

// ErrorPayload is the payload of an outbound ERROR frame.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Message is the durable record of a direct message. It is created by the
// router on receipt, persisted through the history store, and never mutated
// afterwards.
type Message struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"sender"`
	RecipientID    string    `json:"recipient"`
	Text           string    `json:"text,omitempty"`
	AttachmentName string    `json:"attachmentName,omitempty"`
	AttachmentKey  string    `json:"attachmentKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// newFrame marshals a payload into a complete wire frame of the given type.
func newFrame(frameType FrameType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Type:    frameType,
		Payload: payloadBytes,
	})
}
