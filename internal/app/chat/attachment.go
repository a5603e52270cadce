package chat

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"dmchat/internal/pkg/errs"
)

const (
	// MaxAttachmentSizeMB is the maximum allowed file size in megabytes.
	MaxAttachmentSizeMB = 5

	// MaxAttachmentSize is the maximum allowed file size in bytes.
	MaxAttachmentSize = MaxAttachmentSizeMB * 1024 * 1024
)

// AllowedMIMETypes defines the set of permitted MIME types for file attachments.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// decodeAttachment validates an inbound file and decodes its bytes.
// The Data field is a base64 data URL ("data:<mime>;base64,<payload>"); a bare
// base64 payload is also accepted. The content type is derived from the file
// extension, never trusted from the data URL header. Returns the decoded bytes
// and the content type for storage.
func decodeAttachment(f *InboundFile) ([]byte, string, *errs.CustomError) {
	ext := strings.ToLower(filepath.Ext(f.Name))

	contentType, ok := ExtToMIME[ext]
	if !ok {
		return nil, "", errs.NewError(errs.ErrAttachmentTypeInvalid)
	}

	if _, ok := AllowedMIMETypes[contentType]; !ok {
		return nil, "", errs.NewError(errs.ErrAttachmentTypeInvalid)
	}

	raw := f.Data
	if idx := strings.IndexByte(raw, ','); idx >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[idx+1:]
	}

	if raw == "" {
		return nil, "", errs.NewError(errs.ErrInvalidMessage)
	}

	// Cheap pre-check on the encoded length before allocating the decode buffer.
	if base64.StdEncoding.DecodedLen(len(raw)) > MaxAttachmentSize {
		return nil, "", errs.NewError(errs.ErrAttachmentTooLarge, MaxAttachmentSizeMB)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", errs.NewError(errs.ErrInvalidMessage)
	}

	if len(data) == 0 {
		return nil, "", errs.NewError(errs.ErrInvalidMessage)
	}

	if len(data) > MaxAttachmentSize {
		return nil, "", errs.NewError(errs.ErrAttachmentTooLarge, MaxAttachmentSizeMB)
	}

	return data, contentType, nil
}
