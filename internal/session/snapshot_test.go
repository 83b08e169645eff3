package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SnapshotFromURL(t *testing.T) {
	t.Run("extracts and strips the code parameter", func(t *testing.T) {
		snap := SnapshotFromURL("https://example.com/post?code=abc123")
		assert.Equal(t, "abc123", snap.Code)
		assert.Equal(t, "https://example.com/post", snap.PageURL)
	})

	t.Run("keeps unrelated parameters", func(t *testing.T) {
		snap := SnapshotFromURL("https://example.com/post?code=abc123&lang=en")
		assert.Equal(t, "abc123", snap.Code)
		assert.Equal(t, "https://example.com/post?lang=en", snap.PageURL)
	})

	t.Run("keeps the surviving parameters in their original order", func(t *testing.T) {
		snap := SnapshotFromURL("https://example.com/post?z=26&code=abc123&a=1")
		assert.Equal(t, "abc123", snap.Code)
		assert.Equal(t, "https://example.com/post?z=26&a=1", snap.PageURL)
	})

	t.Run("handles a url without a query string", func(t *testing.T) {
		snap := SnapshotFromURL("https://example.com/post")
		assert.Equal(t, "", snap.Code)
		assert.Equal(t, "https://example.com/post", snap.PageURL)
	})
}
