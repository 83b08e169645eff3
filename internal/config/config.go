package config

import (
	"github.com/spf13/viper"

	"threadlet/internal/errcodes"
)

// Session is the immutable per-page-load configuration. It is assembled
// once by New from defaults, the global config file, and caller overrides,
// and never mutated afterwards.
type Session struct {
	Owner  string
	Repo   string
	Number int
	Labels []string

	// PageID uniquely identifies the page; it doubles as an implicit label
	// on the backing issue.
	PageID    string
	PageTitle string
	PageBody  string
	PageURL   string

	ClientID     string
	ClientSecret string
	// TokenProxy is the POST endpoint that forwards the code exchange to
	// GitHub's token endpoint (which does not answer CORS requests itself).
	TokenProxy string

	PerPage       int
	SortDirection string
	Admins        []string

	CreateIssueManually bool
	DistractionFreeMode bool
	EnableHotKey        bool

	// DefaultAuthor stands in when a comment author is missing.
	DefaultAuthorLogin  string
	DefaultAuthorAvatar string
}

const defaultTokenProxy = "https://cors-anywhere.azm.workers.dev/?https://github.com/login/oauth/access_token"

type paramsFiller interface {
	Fill(c *Session)
}

type defaultsParamsFiller struct{}

func (pf *defaultsParamsFiller) Fill(c *Session) {
	c.Labels = []string{"threadlet"}
	c.TokenProxy = defaultTokenProxy
	c.PerPage = 10
	c.SortDirection = "last"
	c.EnableHotKey = true
	c.DefaultAuthorLogin = "null"
	c.DefaultAuthorAvatar = "https://avatars.githubusercontent.com/u/29697133?s=50"
}

type viperParamsFiller struct{}

func (pf *viperParamsFiller) Fill(c *Session) {
	if v := viper.GetString("github.owner"); v != "" {
		c.Owner = v
	}
	if v := viper.GetString("github.repo"); v != "" {
		c.Repo = v
	}
	if v := viper.GetString("github.client_id"); v != "" {
		c.ClientID = v
	}
	if v := viper.GetString("github.client_secret"); v != "" {
		c.ClientSecret = v
	}
	if v := viper.GetString("github.token_proxy"); v != "" {
		c.TokenProxy = v
	}
	if v := viper.GetStringSlice("thread.admins"); len(v) > 0 {
		c.Admins = v
	}
	if v := viper.GetStringSlice("thread.labels"); len(v) > 0 {
		c.Labels = v
	}
	if v := viper.GetInt("thread.per_page"); v > 0 {
		c.PerPage = v
	}
	if v := viper.GetString("thread.sort"); v != "" {
		c.SortDirection = v
	}
}

type overridesParamsFiller struct {
	overrides *Session
}

func (pf *overridesParamsFiller) Fill(c *Session) {
	o := pf.overrides
	if o == nil {
		return
	}

	if o.Owner != "" {
		c.Owner = o.Owner
	}
	if o.Repo != "" {
		c.Repo = o.Repo
	}
	if o.Number != 0 {
		c.Number = o.Number
	}
	if len(o.Labels) > 0 {
		c.Labels = o.Labels
	}
	if o.PageID != "" {
		c.PageID = o.PageID
	}
	if o.PageTitle != "" {
		c.PageTitle = o.PageTitle
	}
	if o.PageBody != "" {
		c.PageBody = o.PageBody
	}
	if o.PageURL != "" {
		c.PageURL = o.PageURL
	}
	if o.ClientID != "" {
		c.ClientID = o.ClientID
	}
	if o.ClientSecret != "" {
		c.ClientSecret = o.ClientSecret
	}
	if o.TokenProxy != "" {
		c.TokenProxy = o.TokenProxy
	}
	if o.PerPage > 0 {
		c.PerPage = o.PerPage
	}
	if o.SortDirection != "" {
		c.SortDirection = o.SortDirection
	}
	if len(o.Admins) > 0 {
		c.Admins = o.Admins
	}
	if o.DefaultAuthorLogin != "" {
		c.DefaultAuthorLogin = o.DefaultAuthorLogin
	}
	if o.DefaultAuthorAvatar != "" {
		c.DefaultAuthorAvatar = o.DefaultAuthorAvatar
	}

	// Boolean flags are taken verbatim: callers passing overrides own all
	// three, there is no unset state for a bool.
	c.CreateIssueManually = o.CreateIssueManually
	c.DistractionFreeMode = o.DistractionFreeMode
	c.EnableHotKey = o.EnableHotKey
}

// New builds the session configuration: code defaults, then the global
// config file, then caller overrides, then validation.
func New(overrides *Session) (*Session, error) {
	c := &Session{}

	fillers := []paramsFiller{
		&defaultsParamsFiller{},
		&viperParamsFiller{},
		&overridesParamsFiller{overrides: overrides},
	}
	for _, pf := range fillers {
		pf.Fill(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Session) validate() error {
	if c.ClientID == "" {
		return errcodes.ErrMissingClientID
	}
	if c.ClientSecret == "" {
		return errcodes.ErrMissingClientSecret
	}
	if c.Owner == "" {
		return errcodes.ErrMissingOwner
	}
	if c.Repo == "" {
		return errcodes.ErrMissingRepo
	}
	if c.PageID == "" && c.Number <= 0 {
		return errcodes.ErrMissingPageID
	}

	return nil
}

// ThreadLabels is the full label set identifying the page: the configured
// labels plus the page id.
func (c *Session) ThreadLabels() []string {
	if c.PageID == "" {
		return c.Labels
	}
	return append(append([]string{}, c.Labels...), c.PageID)
}

// IssueBody is the body used when the backing issue is created: the
// configured body, else the page url plus the page's meta description.
func (c *Session) IssueBody(metaDescription string) string {
	if c.PageBody != "" {
		return c.PageBody
	}

	body := c.PageURL
	if metaDescription != "" {
		body += "\n\n" + metaDescription
	}

	return body
}
