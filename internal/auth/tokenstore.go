package auth

import (
	"net/url"

	"threadlet/internal/pkg/storage"
)

const (
	tokenKey = "access_token"
	draftKey = "comment_draft"
)

// TokenStore wraps the key-value substrate for the OAuth access token and
// the transient draft-comment buffer that survives the login redirect.
type TokenStore struct {
	store storage.Store
}

func NewTokenStore(s storage.Store) *TokenStore {
	return &TokenStore{store: s}
}

func (t *TokenStore) Get() (string, bool) {
	return t.store.Get(tokenKey)
}

func (t *TokenStore) Set(token string) {
	t.store.Set(tokenKey, token)
}

func (t *TokenStore) Clear() {
	t.store.Remove(tokenKey)
}

// StashDraft saves the comment text (URL-encoded) so it can be restored
// after the full-page login round-trip.
func (t *TokenStore) StashDraft(text string) {
	t.store.Set(draftKey, url.QueryEscape(text))
}

// TakeDraft reads and deletes the stashed draft. A second call returns
// absent.
func (t *TokenStore) TakeDraft() (string, bool) {
	v, ok := t.store.Get(draftKey)
	if !ok {
		return "", false
	}

	t.store.Remove(draftKey)

	text, err := url.QueryUnescape(v)
	if err != nil {
		return v, true
	}

	return text, true
}
