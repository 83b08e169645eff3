package session

import (
	"strings"

	"threadlet/internal/pkg/query"
)

// StartupSnapshot is the explicit input to initialization: the page URL as
// the visitor sees it and the OAuth code carried back by the redirect, if
// any. Modeling the address bar as a snapshot keeps Init a function of its
// arguments instead of a side channel.
type StartupSnapshot struct {
	// PageURL is the visible URL with the code parameter already removed;
	// it is what login redirects should return to.
	PageURL string
	// Code is the authorization code from the query string, empty when the
	// load is not a redirect return.
	Code string
	// MetaDescription is the page's meta description; it becomes part of
	// the issue body when the thread is created.
	MetaDescription string
}

// SnapshotFromURL splits rawURL into the startup snapshot. The returned
// PageURL has the code parameter stripped, ready to be written back to the
// address bar so a refresh does not replay the exchange.
func SnapshotFromURL(rawURL string) *StartupSnapshot {
	base, search, found := strings.Cut(rawURL, "?")
	if !found {
		return &StartupSnapshot{PageURL: rawURL}
	}

	q := query.Parse(search)
	code, _ := q.Get("code")
	q = q.Without("code")

	url := base
	if len(q) > 0 {
		url += "?" + query.Stringify(q)
	}

	return &StartupSnapshot{PageURL: url, Code: code}
}
