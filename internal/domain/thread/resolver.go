package thread

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"threadlet/internal/errcodes"
)

type ResolveOptions struct {
	// Number is an explicit issue number; zero or negative means "search by
	// labels instead".
	Number int
	// Labels is the full label set identifying the page, configured labels
	// plus the page id.
	Labels []string
	Title  string
	Body   string
	// CanCreate is true when the current visitor is an admin and automatic
	// issue creation is not disabled.
	CanCreate bool
}

// Resolver determines the issue backing the current page. A session holds
// one Resolver; once an issue is found or created it is cached and every
// later Resolve returns it without a network call.
type Resolver struct {
	issues IssueRepository
	issue  *Issue
}

func NewResolver(issues IssueRepository) *Resolver {
	return &Resolver{issues: issues}
}

// Resolve returns the backing issue, or (nil, nil) when the thread has not
// been initialized yet and the visitor may not create it. That absence is a
// routing signal for the UI, not a failure.
func (r *Resolver) Resolve(ctx context.Context, o *ResolveOptions) (*Issue, error) {
	if r.issue != nil {
		return r.issue, nil
	}

	if o.Number > 0 {
		issue, err := r.issues.FindByNumber(ctx, o.Number)
		if err == nil {
			r.issue = issue
			return issue, nil
		}
		if !errcodes.IsNotFound(err) {
			return nil, errors.Wrap(err, "looking up issue by number")
		}
		log.Debug().Int("number", o.Number).Msg("issue not found by number, falling back to label search")
	}

	issue, err := r.issues.FindByLabels(ctx, o.Labels)
	if err != nil {
		return nil, errors.Wrap(err, "searching issues by labels")
	}
	if issue != nil {
		r.issue = issue
		return issue, nil
	}

	if !o.CanCreate {
		return nil, nil
	}

	issue, err = r.issues.Create(ctx, &CreateIssueOptions{
		Title:  o.Title,
		Body:   o.Body,
		Labels: o.Labels,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating issue")
	}

	r.issue = issue
	return issue, nil
}

// Issue returns the cached issue, nil before a successful Resolve.
func (r *Resolver) Issue() *Issue {
	return r.issue
}

// SetIssue seeds the cache, used when an admin creates the thread
// explicitly from the no-thread state.
func (r *Resolver) SetIssue(issue *Issue) {
	r.issue = issue
}

// IsAdmin reports whether login matches the admin list, case-insensitively.
func IsAdmin(login string, admins []string) bool {
	if login == "" {
		return false
	}

	for _, a := range admins {
		if strings.EqualFold(a, login) {
			return true
		}
	}

	return false
}
