package query

import (
	"net/url"
	"strings"
)

// Param is one decoded key/value pair.
type Param struct {
	Key   string
	Value string
}

// Values is an ordered query mapping; Parse and Stringify preserve the
// source order of the pairs.
type Values []Param

// Parse splits a raw query string ("a=1&b=2" or "?a=1&b=2") into ordered
// pairs. Keys and values are URL-decoded. A pair without '=' maps to the
// empty string instead of failing.
func Parse(search string) Values {
	var q Values
	if search == "" {
		return q
	}

	if search[0] == '?' {
		search = search[1:]
	}

	for _, pair := range strings.Split(search, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}

		dk, err := url.QueryUnescape(key)
		if err != nil {
			dk = key
		}
		dv, err := url.QueryUnescape(value)
		if err != nil {
			dv = value
		}

		q = append(q, Param{Key: dk, Value: dv})
	}

	return q
}

// Get returns the first value recorded for key.
func (q Values) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// Without returns the pairs with every occurrence of key removed, keeping
// the order of the rest.
func (q Values) Without(key string) Values {
	out := make(Values, 0, len(q))
	for _, p := range q {
		if p.Key != key {
			out = append(out, p)
		}
	}

	return out
}

// Stringify joins the pairs into a query string in their given order.
// Values are URL-encoded, keys are written as-is (callers own key safety).
func Stringify(q Values) string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, p.Key+"="+url.QueryEscape(p.Value))
	}

	return strings.Join(parts, "&")
}
