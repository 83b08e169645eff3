package auth

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"threadlet/internal/config"
	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
	"threadlet/internal/pkg/query"
)

const (
	authorizeURL = "https://github.com/login/oauth/authorize"
	apiBaseURL   = "https://api.github.com"
)

// Controller owns the OAuth authorization-code exchange and the current
// token. The token is cached for the session and mirrored to the TokenStore
// so it survives reloads.
type Controller struct {
	cfg    *config.Session
	tokens *TokenStore
	token  string
	user   *thread.User

	// endpoint overrides for tests
	authorizeBase string
	apiBase       string
}

type ControllerOptions struct {
	Config *config.Session
	Tokens *TokenStore
	// AuthorizeBase and APIBase override the github.com endpoints, for
	// Enterprise hosts and tests.
	AuthorizeBase string
	APIBase       string
}

func NewController(cfg *config.Session, tokens *TokenStore) *Controller {
	return NewControllerWithOptions(&ControllerOptions{Config: cfg, Tokens: tokens})
}

func NewControllerWithOptions(o *ControllerOptions) *Controller {
	c := &Controller{
		cfg:           o.Config,
		tokens:        o.Tokens,
		authorizeBase: o.AuthorizeBase,
		apiBase:       o.APIBase,
	}

	if c.authorizeBase == "" {
		c.authorizeBase = authorizeURL
	}
	if c.apiBase == "" {
		c.apiBase = apiBaseURL
	}

	if t, ok := c.tokens.Get(); ok {
		c.token = t
	}

	return c
}

// Token returns the held access token, if any.
func (c *Controller) Token() (string, bool) {
	return c.token, c.token != ""
}

// LoginURL builds the GitHub authorize URL redirecting back to currentURL.
func (c *Controller) LoginURL(currentURL string) string {
	qs := query.Stringify(query.Values{
		{Key: "client_id", Value: c.cfg.ClientID},
		{Key: "redirect_uri", Value: currentURL},
		{Key: "scope", Value: "public_repo"},
	})

	return c.authorizeBase + "?" + qs
}

// BeginLogin stashes the in-progress draft so it survives the redirect
// round-trip and returns the URL the caller must navigate to.
func (c *Controller) BeginLogin(currentURL, draft string) string {
	if draft != "" {
		c.tokens.StashDraft(draft)
	}

	return c.LoginURL(currentURL)
}

// CompleteCodeExchange posts the authorization code to the configured proxy
// endpoint and stores the resulting token. A response without a token is an
// AuthError. Stripping the code parameter from the visible URL is the
// caller's job.
func (c *Controller) CompleteCodeExchange(ctx context.Context, code string) error {
	r, err := resty.New().R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{
			"code":          code,
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
		}).
		Post(c.cfg.TokenProxy)
	if err != nil {
		return errors.Wrap(err, "exchanging authorization code")
	}
	if r.IsError() {
		return &errcodes.AuthError{Reason: r.Status()}
	}

	token := gjson.GetBytes(r.Body(), "access_token").String()
	if token == "" {
		return &errcodes.AuthError{Reason: "no access token in response"}
	}

	c.token = token
	c.tokens.Set(token)

	return nil
}

// Logout clears the token and the cached identity.
func (c *Controller) Logout() {
	c.token = ""
	c.user = nil
	c.tokens.Clear()
}

// CurrentUser fetches the authenticated identity once per session. A probe
// failure (revoked token, network trouble) logs the session out instead of
// surfacing an error, so the caller degrades to anonymous.
func (c *Controller) CurrentUser(ctx context.Context) *thread.User {
	if c.user != nil {
		return c.user
	}
	if c.token == "" {
		return nil
	}

	r, err := resty.New().R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetHeader("Accept", "application/json").
		Get(c.apiBase + "/user")
	if err != nil || r.IsError() {
		log.Warn().Msg("identity probe failed, dropping the stored token")
		c.Logout()
		return nil
	}

	body := gjson.ParseBytes(r.Body())
	c.user = &thread.User{
		Login:     body.Get("login").String(),
		AvatarURL: body.Get("avatar_url").String(),
		HTMLURL:   body.Get("html_url").String(),
	}

	return c.user
}
