package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIDIsUUID(t *testing.T) {
	id := MessageID()

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	assert.NotEqual(t, id, MessageID())
}

func TestAttachmentKeyKeepsOnlyExtension(t *testing.T) {
	cases := []struct {
		name    string
		wantExt string
	}{
		{"holiday.png", ".png"},
		{"HOLIDAY.PNG", ".png"},
		{"../../etc/passwd.jpg", ".jpg"},
		{"no_extension", ""},
		{"archive.tar.gz", ".gz"},
	}

	for _, tc := range cases {
		key := AttachmentKey(tc.name)

		require.True(t, strings.HasPrefix(key, "attachments/"), "key %q", key)
		assert.True(t, strings.HasSuffix(key, tc.wantExt), "key %q", key)
		assert.NotContains(t, key, "..")
		assert.NotContains(t, key, "passwd")

		// Everything between prefix and extension is a fresh UUID.
		middle := strings.TrimPrefix(key, "attachments/")
		middle = strings.TrimSuffix(middle, tc.wantExt)
		_, err := uuid.Parse(middle)
		require.NoError(t, err, "key %q", key)
	}
}

func TestAttachmentKeysAreUnique(t *testing.T) {
	assert.NotEqual(t, AttachmentKey("a.png"), AttachmentKey("a.png"))
}
