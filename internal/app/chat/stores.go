package chat

import "context"

// HistoryStore is the durable message record collaborator. SaveMessage must
// assign an ID and creation time and return the stored copy; the router only
// forwards messages that have been confirmed durable.
type HistoryStore interface {
	SaveMessage(ctx context.Context, m Message) (Message, error)
}

// BlobStore is the attachment bytes collaborator. Upload stores data under the
// server-generated key; Delete removes an object whose message never became
// durable. The read side (presigned downloads) belongs to the REST layer, not
// the core.
type BlobStore interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}
