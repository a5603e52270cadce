/*
Package randx provides functions for generating unique identifiers.

It is used to generate UUID message and user identifiers, and server-side
object keys for stored attachments. Client-supplied file names are never used
as storage paths; they survive only as display metadata.
*/
package randx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// attachmentKeyPrefix namespaces stored attachment objects inside the bucket.
const attachmentKeyPrefix = "attachments"

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// UserID generates a standard UUID v4 string to serve as a unique identifier for a user account.
func UserID() string {
	return uuid.New().String()
}

// AttachmentKey generates a server-side object key for an attachment upload.
// Only the lower-cased extension of the client-supplied file name is retained;
// the rest of the key is a fresh UUID, so untrusted path components never reach
// the blob store.
func AttachmentKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))

	return fmt.Sprintf("%s/%s%s", attachmentKeyPrefix, uuid.New().String(), ext)
}
