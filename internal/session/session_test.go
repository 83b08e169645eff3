package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"threadlet/internal/auth"
	"threadlet/internal/config"
	"threadlet/internal/domain/thread"
	"threadlet/internal/pkg/storage"
)

type fixture struct {
	store   *storage.MemoryStore
	issues  *thread.MockIssueRepository
	pager   *thread.MockCommentPager
	cursor  *thread.MockCursorPager
	creator *thread.MockCommentCreator
	reactor *thread.MockReactor
	md      *thread.MockMarkdownRenderer
	counts  []int
}

func testSessionConfig() *config.Session {
	return &config.Session{
		Owner:         "octocat",
		Repo:          "blog-comments",
		ClientID:      "id",
		ClientSecret:  "secret",
		PageID:        "posts/hello",
		PageTitle:     "Hello",
		PageURL:       "https://example.com/posts/hello",
		Labels:        []string{"comments"},
		PerPage:       10,
		SortDirection: "first",
		Admins:        []string{"octocat"},
	}
}

// userServer serves the identity probe for authenticated fixtures.
func userServer(t *testing.T, login string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"login":"%s","avatar_url":"https://a","html_url":"https://g/%s"}`, login, login)
	}))
}

func newFixture(t *testing.T, cfg *config.Session, apiBase string) (*Session, *fixture) {
	t.Helper()

	f := &fixture{
		store:   storage.NewMemoryStore(),
		issues:  &thread.MockIssueRepository{},
		pager:   &thread.MockCommentPager{},
		cursor:  &thread.MockCursorPager{},
		creator: &thread.MockCommentCreator{},
		reactor: &thread.MockReactor{},
		md:      &thread.MockMarkdownRenderer{},
	}

	tokens := auth.NewTokenStore(f.store)
	authctl := auth.NewControllerWithOptions(&auth.ControllerOptions{
		Config:  cfg,
		Tokens:  tokens,
		APIBase: apiBase,
	})

	s, err := New(&Options{
		Config:      cfg,
		Store:       f.store,
		Issues:      f.issues,
		Pager:       f.pager,
		CursorPager: f.cursor,
		Creator:     f.creator,
		Reactor:     f.reactor,
		Markdown:    f.md,
		Auth:        authctl,
		OnCountChange: func(n int) {
			f.counts = append(f.counts, n)
		},
	})
	assert.NoError(t, err)

	return s, f
}

func newAnonymousFixture(t *testing.T, cfg *config.Session) (*Session, *fixture) {
	return newFixture(t, cfg, "")
}

func newAuthedFixture(t *testing.T, cfg *config.Session, login string) (*Session, *fixture) {
	srv := userServer(t, login)
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	store.Set("access_token", "gho_abc")

	f := &fixture{
		store:   store,
		issues:  &thread.MockIssueRepository{},
		pager:   &thread.MockCommentPager{},
		cursor:  &thread.MockCursorPager{},
		creator: &thread.MockCommentCreator{},
		reactor: &thread.MockReactor{},
		md:      &thread.MockMarkdownRenderer{},
	}

	tokens := auth.NewTokenStore(store)
	authctl := auth.NewControllerWithOptions(&auth.ControllerOptions{
		Config:  cfg,
		Tokens:  tokens,
		APIBase: srv.URL,
	})

	s, err := New(&Options{
		Config:      cfg,
		Store:       store,
		Issues:      f.issues,
		Pager:       f.pager,
		CursorPager: f.cursor,
		Creator:     f.creator,
		Reactor:     f.reactor,
		Markdown:    f.md,
		Auth:        authctl,
		OnCountChange: func(n int) {
			f.counts = append(f.counts, n)
		},
	})
	assert.NoError(t, err)

	return s, f
}

func Test_Session_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous visitor with no thread and no auto-create lands in no-thread", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())

		s.Init(ctx, nil)

		assert.Equal(t, StateNoThread, s.State())
		assert.Equal(t, 0, f.issues.CreateCalls)
		erroring, _ := s.Erroring()
		assert.False(t, erroring)
	})

	t.Run("admin visitor auto-creates the issue and lands ready", func(t *testing.T) {
		cfg := testSessionConfig()
		s, f := newAuthedFixture(t, cfg, "octocat")
		f.issues.Created = &thread.Issue{Number: 11, Comments: 0}
		f.cursor.Result = &thread.CursorPage{TotalCount: 0}

		s.Init(ctx, nil)

		assert.Equal(t, StateReady, s.State())
		assert.Equal(t, 1, f.issues.CreateCalls)
		assert.Equal(t, []string{"comments", "posts/hello"}, f.issues.LastCreate.Labels)
		assert.Equal(t, "Hello", f.issues.LastCreate.Title)
		assert.Equal(t, "https://example.com/posts/hello", f.issues.LastCreate.Body)
		assert.Empty(t, s.Comments())
	})

	t.Run("auto-created issue body carries the page meta description", func(t *testing.T) {
		cfg := testSessionConfig()
		s, f := newAuthedFixture(t, cfg, "octocat")
		f.issues.Created = &thread.Issue{Number: 11, Comments: 0}
		f.cursor.Result = &thread.CursorPage{TotalCount: 0}

		s.Init(ctx, &StartupSnapshot{
			PageURL:         cfg.PageURL,
			MetaDescription: "A post about greetings",
		})

		assert.Equal(t, 1, f.issues.CreateCalls)
		assert.Equal(
			t,
			"https://example.com/posts/hello\n\nA post about greetings",
			f.issues.LastCreate.Body,
		)
	})

	t.Run("admin does not auto-create when manual creation is configured", func(t *testing.T) {
		cfg := testSessionConfig()
		cfg.CreateIssueManually = true
		s, f := newAuthedFixture(t, cfg, "octocat")

		s.Init(ctx, nil)

		assert.Equal(t, StateNoThread, s.State())
		assert.Equal(t, 0, f.issues.CreateCalls)
	})

	t.Run("non-admin authenticated visitor does not create", func(t *testing.T) {
		s, f := newAuthedFixture(t, testSessionConfig(), "visitor")

		s.Init(ctx, nil)

		assert.Equal(t, StateNoThread, s.State())
		assert.Equal(t, 0, f.issues.CreateCalls)
	})

	t.Run("resolved issue loads the first page of comments", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())
		f.issues.ByLabels = &thread.Issue{Number: 7, Comments: 2}
		f.pager.Pages = map[int][]*thread.Comment{
			1: {{ID: 1, Body: "a"}, {ID: 2, Body: "b"}},
		}

		s.Init(ctx, nil)

		assert.Equal(t, StateReady, s.State())
		assert.Len(t, s.Comments(), 2)
		assert.Equal(t, []int{2}, f.counts)
	})

	t.Run("an api failure overlays an error but leaves the page usable", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())
		f.issues.ByLabelsErr = fmt.Errorf("rate limited")

		s.Init(ctx, nil)

		assert.NotEqual(t, StateInitializing, s.State())
		erroring, msg := s.Erroring()
		assert.True(t, erroring)
		assert.Equal(t, "Error: rate limited", msg)
	})

	t.Run("redirect return exchanges the code before resolving", func(t *testing.T) {
		exchanged := false
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			exchanged = true
			fmt.Fprint(w, `{"access_token":"gho_new"}`)
		}))
		defer proxy.Close()

		srv := userServer(t, "octocat")
		defer srv.Close()

		cfg := testSessionConfig()
		cfg.TokenProxy = proxy.URL

		f := &fixture{store: storage.NewMemoryStore(), issues: &thread.MockIssueRepository{}, pager: &thread.MockCommentPager{}, cursor: &thread.MockCursorPager{}, creator: &thread.MockCommentCreator{}, reactor: &thread.MockReactor{}, md: &thread.MockMarkdownRenderer{}}
		tokens := auth.NewTokenStore(f.store)
		authctl := auth.NewControllerWithOptions(&auth.ControllerOptions{Config: cfg, Tokens: tokens, APIBase: srv.URL})

		f.issues.ByLabels = &thread.Issue{Number: 7, Comments: 0}
		f.cursor.Result = &thread.CursorPage{TotalCount: 0}

		s, err := New(&Options{
			Config: cfg, Store: f.store,
			Issues: f.issues, Pager: f.pager, CursorPager: f.cursor,
			Creator: f.creator, Reactor: f.reactor, Markdown: f.md,
			Auth: authctl,
		})
		assert.NoError(t, err)

		snap := SnapshotFromURL("https://example.com/posts/hello?code=abc123&p=1")
		assert.Equal(t, "abc123", snap.Code)
		assert.Equal(t, "https://example.com/posts/hello?p=1", snap.PageURL)

		s.Init(ctx, snap)

		assert.True(t, exchanged)
		assert.Equal(t, StateReady, s.State())
		assert.Equal(t, "octocat", s.User().Login)
		// the authenticated strategy was used for the first load
		assert.Equal(t, 1, f.cursor.CursorCalls)
		assert.Equal(t, 0, f.pager.PageCalls)
	})

	t.Run("a failed exchange settles before initialization proceeds", func(t *testing.T) {
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":"bad_verification_code"}`)
		}))
		defer proxy.Close()

		cfg := testSessionConfig()
		cfg.TokenProxy = proxy.URL

		s, f := newAnonymousFixture(t, cfg)
		f.issues.ByLabels = &thread.Issue{Number: 7, Comments: 0}
		f.pager.Pages = map[int][]*thread.Comment{}

		s.Init(ctx, &StartupSnapshot{PageURL: cfg.PageURL, Code: "expired"})

		erroring, msg := s.Erroring()
		assert.True(t, erroring)
		assert.Contains(t, msg, "authentication failed")
		// initialization still ran through to a stable state
		assert.Equal(t, StateReady, s.State())
	})

	t.Run("restores the stashed draft after the redirect", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())

		tokens := auth.NewTokenStore(f.store)
		tokens.StashDraft("my pending comment")

		s.Init(ctx, nil)

		assert.Equal(t, "my pending comment", s.Draft())
	})
}

func Test_Session_CreateIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("moves from no-thread to ready when the admin triggers creation", func(t *testing.T) {
		cfg := testSessionConfig()
		cfg.CreateIssueManually = true
		s, f := newAuthedFixture(t, cfg, "octocat")
		f.issues.Created = &thread.Issue{Number: 11}

		s.Init(ctx, nil)
		assert.Equal(t, StateNoThread, s.State())

		err := s.CreateIssue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, StateReady, s.State())
		assert.Equal(t, 1, f.issues.CreateCalls)
	})

	t.Run("refuses non-admins", func(t *testing.T) {
		s, f := newAuthedFixture(t, testSessionConfig(), "visitor")
		s.Init(ctx, nil)

		err := s.CreateIssue(ctx)
		assert.Error(t, err)
		assert.Equal(t, 0, f.issues.CreateCalls)
	})
}

func Test_Session_Login(t *testing.T) {
	t.Run("builds the authorize url and stashes the draft", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())
		s.SetDraft("draft text")

		url := s.Login()
		assert.Contains(t, url, "client_id=id")
		assert.Contains(t, url, "scope=public_repo")
		assert.Contains(t, url, "redirect_uri=https%3A%2F%2Fexample.com%2Fposts%2Fhello")

		_, ok := f.store.Get("comment_draft")
		assert.True(t, ok)
	})
}

func Test_Session_TogglePreview(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the draft entering preview and clears leaving it", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())
		s.SetDraft("**hi**")

		assert.NoError(t, s.TogglePreview(ctx))
		assert.True(t, s.IsPreview())
		assert.Equal(t, "<p>**hi**</p>", s.PreviewHTML())
		assert.Equal(t, 1, f.md.RenderCalls)

		assert.NoError(t, s.TogglePreview(ctx))
		assert.False(t, s.IsPreview())
		assert.Equal(t, "", s.PreviewHTML())
	})
}
