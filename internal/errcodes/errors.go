package errcodes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMissingClientID     = errors.New("github oauth client id is missing")
	ErrMissingClientSecret = errors.New("github oauth client secret is missing")
	ErrMissingOwner        = errors.New("repository owner is missing")
	ErrMissingRepo         = errors.New("repository name is missing")
	ErrMissingPageID       = errors.New("page identifier is missing")

	ErrRepositoryMustBeInFormOwnerRepo = errors.New("repository must be in the form of 'owner/repo'")

	ErrEmptyComment = errors.New("comment body is empty")
	ErrNoToken      = errors.New("no access token is held")
	ErrNotFound     = errors.New("not found")
)

// AuthError marks a failed authorization-code exchange.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// APIError is any non-404 failure from the GitHub REST or GraphQL surface.
// Message and Errors mirror GitHub's structured error payload when one was
// returned.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// FormatError renders a failure the way the widget surfaces it: the API's
// structured message plus joined sub-errors when present, else the raw
// message.
func FormatError(err error) string {
	msg := "Error: "

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg += apiErr.Message + ". "
		if len(apiErr.Errors) > 0 {
			msg += strings.Join(apiErr.Errors, ", ")
		}
		return msg
	}

	return msg + err.Error()
}
