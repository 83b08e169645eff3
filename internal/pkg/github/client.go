package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
)

const (
	defaultAPIBase    = "https://api.github.com"
	defaultGraphQLURL = "https://api.github.com/graphql"

	// full+json delivers body_html alongside the raw body; squirrel-girl
	// exposes the reactions rollup on comment reads and writes.
	acceptComments  = "application/vnd.github.v3.full+json, application/vnd.github.squirrel-girl-preview"
	acceptReactions = "application/vnd.github.squirrel-girl-preview"
)

// TokenSource exposes the session's current access token. Unauthenticated
// sessions report ok=false and requests go out anonymous.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to both GitHub API surfaces for a single owner/repo pair.
// It implements the thread repository interfaces.
type Client struct {
	owner      string
	repo       string
	tokens     TokenSource
	apiBase    string
	graphqlURL string

	// fallbackAuthor stands in for comments whose author is gone
	// (deleted accounts arrive with a null user).
	fallbackAuthor thread.User
}

type ClientOptions struct {
	Owner  string
	Repo   string
	Tokens TokenSource
	// APIBase and GraphQLURL override the public endpoints, for GitHub
	// Enterprise hosts and tests.
	APIBase    string
	GraphQLURL string
	// DefaultAuthorLogin and DefaultAuthorAvatar fill in for comments
	// without an author.
	DefaultAuthorLogin  string
	DefaultAuthorAvatar string
}

func New(o *ClientOptions) *Client {
	c := &Client{
		owner:      o.Owner,
		repo:       o.Repo,
		tokens:     o.Tokens,
		apiBase:    o.APIBase,
		graphqlURL: o.GraphQLURL,
		fallbackAuthor: thread.User{
			Login:     o.DefaultAuthorLogin,
			AvatarURL: o.DefaultAuthorAvatar,
		},
	}

	if c.apiBase == "" {
		c.apiBase = defaultAPIBase
	}
	if c.graphqlURL == "" {
		c.graphqlURL = defaultGraphQLURL
	}

	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := resty.New().R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")

	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			r.SetAuthToken(token)
		}
	}

	return r
}

// apiError converts a non-2xx response. A 404 becomes the ErrNotFound
// routing signal; everything else carries GitHub's structured message.
func apiError(r *resty.Response) error {
	if r.StatusCode() == 404 {
		return errcodes.ErrNotFound
	}

	body := gjson.ParseBytes(r.Body())

	var subErrors []string
	body.Get("errors").ForEach(func(_, value gjson.Result) bool {
		if m := value.Get("message").String(); m != "" {
			subErrors = append(subErrors, m)
		}
		return true
	})

	return &errcodes.APIError{
		StatusCode: r.StatusCode(),
		Message:    body.Get("message").String(),
		Errors:     subErrors,
	}
}

func (c *Client) FindByNumber(ctx context.Context, number int) (*thread.Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.apiBase, c.owner, c.repo, number)

	r, err := c.request(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "fetching issue")
	}
	if r.IsError() {
		return nil, apiError(r)
	}

	return parseIssue(gjson.ParseBytes(r.Body())), nil
}

func (c *Client) FindByLabels(ctx context.Context, labels []string) (*thread.Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", c.apiBase, c.owner, c.repo)

	r, err := c.request(ctx).
		SetQueryParam("labels", strings.Join(labels, ",")).
		SetQueryParam("state", "all").
		Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "searching issues")
	}
	if r.IsError() {
		return nil, apiError(r)
	}

	results := gjson.ParseBytes(r.Body()).Array()
	if len(results) == 0 {
		return nil, nil
	}

	// More than one match takes the first in the API's default order.
	return parseIssue(results[0]), nil
}

func (c *Client) Create(ctx context.Context, o *thread.CreateIssueOptions) (*thread.Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", c.apiBase, c.owner, c.repo)

	r, err := c.request(ctx).
		SetBody(map[string]interface{}{
			"title":  o.Title,
			"body":   o.Body,
			"labels": o.Labels,
		}).
		Post(url)
	if err != nil {
		return nil, errors.Wrap(err, "creating issue")
	}
	if r.IsError() {
		return nil, apiError(r)
	}

	issue := parseIssue(gjson.ParseBytes(r.Body()))
	log.Debug().Int("number", issue.Number).Msg("created backing issue")

	return issue, nil
}

// Page fetches one 1-based page of the issue's comments through REST. The
// REST surface cannot sort, so results arrive in the server's default
// (ascending) order.
func (c *Client) Page(ctx context.Context, issue *thread.Issue, page, perPage int) ([]*thread.Comment, error) {
	r, err := c.request(ctx).
		SetHeader("Accept", acceptComments).
		SetQueryParam("per_page", fmt.Sprint(perPage)).
		SetQueryParam("page", fmt.Sprint(page)).
		Get(issue.CommentsURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetching comments")
	}
	if r.IsError() {
		return nil, apiError(r)
	}

	var comments []*thread.Comment
	gjson.ParseBytes(r.Body()).ForEach(func(_, value gjson.Result) bool {
		comments = append(comments, c.parseComment(value))
		return true
	})

	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, issue *thread.Issue, body string) (*thread.Comment, error) {
	r, err := c.request(ctx).
		SetHeader("Accept", acceptComments).
		SetBody(map[string]string{"body": body}).
		Post(issue.CommentsURL)
	if err != nil {
		return nil, errors.Wrap(err, "creating comment")
	}
	if r.IsError() {
		return nil, apiError(r)
	}

	return c.parseComment(gjson.ParseBytes(r.Body())), nil
}

// AddHeart posts a heart reaction on a comment through REST.
func (c *Client) AddHeart(ctx context.Context, commentID int64) error {
	url := fmt.Sprintf(
		"%s/repos/%s/%s/issues/comments/%d/reactions",
		c.apiBase, c.owner, c.repo, commentID,
	)

	r, err := c.request(ctx).
		SetHeader("Accept", acceptReactions).
		SetBody(map[string]string{"content": "heart"}).
		Post(url)
	if err != nil {
		return errors.Wrap(err, "adding reaction")
	}
	if r.IsError() {
		return apiError(r)
	}

	return nil
}

// RenderMarkdown renders comment text to HTML for the preview toggle.
func (c *Client) RenderMarkdown(ctx context.Context, text string) (string, error) {
	r, err := c.request(ctx).
		SetBody(map[string]string{"text": text, "mode": "gfm"}).
		Post(c.apiBase + "/markdown")
	if err != nil {
		return "", errors.Wrap(err, "rendering markdown")
	}
	if r.IsError() {
		return "", apiError(r)
	}

	return string(r.Body()), nil
}
