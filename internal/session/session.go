package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"threadlet/internal/auth"
	"threadlet/internal/config"
	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
	"threadlet/internal/pkg/github"
	"threadlet/internal/pkg/storage"
)

// State is the primary lifecycle state consumed by rendering.
type State string

const (
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateNoThread     State = "no-thread"
)

type Options struct {
	Config *config.Session
	// Store defaults to the file-backed store; tests pass a memory store.
	Store storage.Store
	// OnCountChange, when set, is invoked with the rendered total comment
	// count whenever it changes.
	OnCountChange func(int)

	// Dependency overrides, nil means the GitHub client built from Config.
	Issues      thread.IssueRepository
	Pager       thread.CommentPager
	CursorPager thread.CommentCursorPager
	Creator     thread.CommentCreator
	Reactor     thread.Reactor
	Markdown    thread.MarkdownRenderer
	Auth        *auth.Controller
}

// Session is the thread controller: the one component with mutable state.
// It composes auth, resolver, comment fetching and reactions into the
// initializing → {ready, no-thread} lifecycle, with errors overlaid on
// whichever stable state was active.
type Session struct {
	cfg      *config.Session
	tokens   *auth.TokenStore
	auth     *auth.Controller
	resolver *thread.Resolver

	pager       thread.CommentPager
	cursorPager thread.CommentCursorPager
	creator     thread.CommentCreator
	reactor     thread.Reactor
	markdown    thread.MarkdownRenderer

	onCountChange func(int)

	mu              sync.Mutex
	pageURL         string
	metaDescription string
	user            *thread.User
	issue           *thread.Issue
	comments        []*thread.Comment
	localComments   []*thread.Comment
	draft           string
	previewHTML     string

	// REST pagination: last successfully loaded 1-based page.
	page      int
	exhausted bool

	// GraphQL pagination, tracked per direction.
	afterCursor  string
	beforeCursor string
	hasMoreAsc   bool
	hasMoreDesc  bool
	cursorSeen   bool

	sort thread.SortDirection

	initializing    bool
	noThread        bool
	errored         bool
	errMsg          string
	isLoadingMore   bool
	isCreating      bool
	isIssueCreating bool
	isPreview       bool

	lastCount int
	countSent bool
}

func New(o *Options) (*Session, error) {
	cfg := o.Config
	if cfg == nil {
		var err error
		cfg, err = config.New(nil)
		if err != nil {
			return nil, err
		}
	}

	store := o.Store
	if store == nil {
		store = storage.NewFileStore()
	}

	tokens := auth.NewTokenStore(store)

	authctl := o.Auth
	if authctl == nil {
		authctl = auth.NewController(cfg, tokens)
	}

	s := &Session{
		cfg:           cfg,
		tokens:        tokens,
		auth:          authctl,
		pager:         o.Pager,
		cursorPager:   o.CursorPager,
		creator:       o.Creator,
		reactor:       o.Reactor,
		markdown:      o.Markdown,
		onCountChange: o.OnCountChange,
		pageURL:       cfg.PageURL,
		initializing:  true,
		hasMoreAsc:    true,
		hasMoreDesc:   true,
	}

	s.sort = thread.SortDesc
	if cfg.SortDirection == "first" || cfg.SortDirection == "asc" {
		s.sort = thread.SortAsc
	}

	gh := github.New(&github.ClientOptions{
		Owner:               cfg.Owner,
		Repo:                cfg.Repo,
		Tokens:              authctl,
		DefaultAuthorLogin:  cfg.DefaultAuthorLogin,
		DefaultAuthorAvatar: cfg.DefaultAuthorAvatar,
	})
	if s.pager == nil {
		s.pager = gh
	}
	if s.cursorPager == nil {
		s.cursorPager = gh
	}
	if s.creator == nil {
		s.creator = gh
	}
	if s.reactor == nil {
		s.reactor = gh
	}
	if s.markdown == nil {
		s.markdown = gh
	}

	issues := o.Issues
	if issues == nil {
		issues = gh
	}
	s.resolver = thread.NewResolver(issues)

	return s, nil
}

// Init runs the startup sequence: settle a pending code exchange first,
// then resolve the backing issue, then load the first page of comments.
// Failures surface as a non-fatal error overlay; Init always leaves the
// initializing flag cleared.
func (s *Session) Init(ctx context.Context, snap *StartupSnapshot) {
	if snap == nil {
		snap = &StartupSnapshot{PageURL: s.cfg.PageURL}
	}
	if snap.PageURL != "" {
		s.pageURL = snap.PageURL
	}
	s.metaDescription = snap.MetaDescription

	s.initializing = true
	defer func() { s.initializing = false }()

	if snap.Code != "" {
		if err := s.auth.CompleteCodeExchange(ctx, snap.Code); err != nil {
			log.Warn().Err(err).Msg("code exchange failed")
			s.fail(err)
		}
	}

	s.user = s.auth.CurrentUser(ctx)

	// A draft stashed before the login redirect comes back here.
	if draft, ok := s.tokens.TakeDraft(); ok {
		s.draft = draft
	}

	if err := s.resolve(ctx, s.canAutoCreate()); err != nil {
		s.fail(err)
		return
	}

	if s.issue == nil {
		s.noThread = true
		return
	}

	if err := s.LoadMore(ctx); err != nil {
		return
	}

	s.notifyCount()
}

func (s *Session) canAutoCreate() bool {
	return !s.cfg.CreateIssueManually &&
		s.user != nil &&
		thread.IsAdmin(s.user.Login, s.cfg.Admins)
}

func (s *Session) resolve(ctx context.Context, canCreate bool) error {
	issue, err := s.resolver.Resolve(ctx, &thread.ResolveOptions{
		Number:    s.cfg.Number,
		Labels:    s.cfg.ThreadLabels(),
		Title:     s.issueTitle(),
		Body:      s.cfg.IssueBody(s.metaDescription),
		CanCreate: canCreate,
	})
	if err != nil {
		return err
	}

	s.issue = issue
	return nil
}

func (s *Session) issueTitle() string {
	if s.cfg.PageTitle != "" {
		return s.cfg.PageTitle
	}
	return s.cfg.PageID
}

// CreateIssue is the explicit initialize trigger shown to admins in the
// no-thread state.
func (s *Session) CreateIssue(ctx context.Context) error {
	if s.user == nil || !thread.IsAdmin(s.user.Login, s.cfg.Admins) {
		return errcodes.ErrNoToken
	}

	s.isIssueCreating = true
	defer func() { s.isIssueCreating = false }()

	if err := s.resolve(ctx, true); err != nil {
		s.fail(err)
		return err
	}

	if s.issue != nil {
		s.noThread = false
		s.clearError()
		s.notifyCount()
	}

	return nil
}

// Login stashes the draft and returns the authorize URL the caller must
// navigate to.
func (s *Session) Login() string {
	return s.auth.BeginLogin(s.pageURL, s.draft)
}

func (s *Session) Logout() {
	s.auth.Logout()
	s.user = nil
}

// fail records a non-fatal error overlay; already loaded state stays
// rendered and interactive.
func (s *Session) fail(err error) {
	s.errored = true
	s.errMsg = errcodes.FormatError(err)
}

func (s *Session) clearError() {
	s.errored = false
	s.errMsg = ""
}

// State returns the primary lifecycle state.
func (s *Session) State() State {
	switch {
	case s.initializing:
		return StateInitializing
	case s.noThread:
		return StateNoThread
	default:
		return StateReady
	}
}

func (s *Session) Erroring() (bool, string) { return s.errored, s.errMsg }
func (s *Session) User() *thread.User       { return s.user }
func (s *Session) Issue() *thread.Issue     { return s.issue }
func (s *Session) Draft() string            { return s.draft }
func (s *Session) SetDraft(text string)     { s.draft = text }
func (s *Session) IsCreating() bool         { return s.isCreating }
func (s *Session) IsLoadingMore() bool      { return s.isLoadingMore }
func (s *Session) IsIssueCreating() bool    { return s.isIssueCreating }
func (s *Session) IsPreview() bool          { return s.isPreview }
func (s *Session) PreviewHTML() string      { return s.previewHTML }

// Sort returns the current direction.
func (s *Session) Sort() thread.SortDirection { return s.sort }

// SetSort changes the display direction. Only authenticated sessions may
// sort (the REST surface cannot); flipping direction mirrors the local
// sequence without a backend call.
func (s *Session) SetSort(d thread.SortDirection) {
	if _, ok := s.auth.Token(); !ok {
		return
	}
	s.sort = d
}

// TogglePreview flips the composer between edit and preview; entering
// preview renders the draft through the markdown endpoint.
func (s *Session) TogglePreview(ctx context.Context) error {
	if s.isPreview {
		s.isPreview = false
		s.previewHTML = ""
		return nil
	}

	html, err := s.markdown.RenderMarkdown(ctx, s.draft)
	if err != nil {
		s.fail(err)
		return err
	}

	s.previewHTML = html
	s.isPreview = true
	return nil
}

func (s *Session) notifyCount() {
	if s.onCountChange == nil {
		return
	}

	count := s.Count()
	if s.countSent && count == s.lastCount {
		return
	}

	s.lastCount = count
	s.countSent = true
	s.onCountChange(count)
}
