package session

import (
	"context"

	"golang.org/x/exp/slices"

	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
)

// LoadMore fetches the next window of comments. The strategy follows the
// authentication state: anonymous sessions walk the REST pages, logged-in
// sessions walk the GraphQL cursor in the current sort direction. A call
// issued while another is in flight is a no-op.
func (s *Session) LoadMore(ctx context.Context) error {
	if s.issue == nil {
		return nil
	}

	s.mu.Lock()
	if s.isLoadingMore {
		s.mu.Unlock()
		return nil
	}
	s.isLoadingMore = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isLoadingMore = false
		s.mu.Unlock()
	}()

	var err error
	if _, ok := s.auth.Token(); ok {
		err = s.loadMoreCursor(ctx)
	} else {
		err = s.loadMorePage(ctx)
	}
	if err != nil {
		s.fail(err)
		return err
	}

	s.notifyCount()
	return nil
}

// loadMorePage is the unauthenticated REST path: 1-based fixed-size pages,
// exhausted when the accumulated count reaches the issue total or a short
// page arrives. The page counter only advances on success.
func (s *Session) loadMorePage(ctx context.Context) error {
	if s.exhausted {
		return nil
	}

	comments, err := s.pager.Page(ctx, s.issue, s.page+1, s.cfg.PerPage)
	if err != nil {
		return err
	}

	s.page++
	s.comments = append(s.comments, comments...)

	if len(comments) < s.cfg.PerPage || len(s.comments) >= s.issue.Comments {
		s.exhausted = true
	}

	return nil
}

// loadMoreCursor is the authenticated GraphQL path. Each direction keeps
// its own cursor: ascending continues after the forward cursor, descending
// continues before the backward one.
func (s *Session) loadMoreCursor(ctx context.Context) error {
	if !s.hasMore() {
		return nil
	}

	cursor := s.afterCursor
	if s.sort == thread.SortDesc {
		cursor = s.beforeCursor
	}

	page, err := s.cursorPager.CursorPage(ctx, &thread.CursorPageOptions{
		Issue:     s.issue,
		PerPage:   s.cfg.PerPage,
		Direction: s.sort,
		Cursor:    cursor,
	})
	if err != nil {
		return err
	}

	s.issue.Comments = page.TotalCount
	s.cursorSeen = true

	fetched := page.Comments
	if s.sort == thread.SortDesc {
		// The connection window arrives oldest-first; the descending
		// sequence grows newest to oldest.
		fetched = make([]*thread.Comment, 0, len(page.Comments))
		for i := len(page.Comments) - 1; i >= 0; i-- {
			fetched = append(fetched, page.Comments[i])
		}
		s.beforeCursor = page.StartCursor
		s.hasMoreDesc = page.HasPreviousPage
	} else {
		s.afterCursor = page.EndCursor
		s.hasMoreAsc = page.HasNextPage
	}

	s.comments = append(s.comments, fetched...)

	return nil
}

func (s *Session) hasMore() bool {
	if s.sort == thread.SortDesc {
		return s.hasMoreDesc
	}
	return s.hasMoreAsc
}

// Exhausted reports whether another LoadMore could return anything.
func (s *Session) Exhausted() bool {
	if _, ok := s.auth.Token(); ok {
		return s.cursorSeen && !s.hasMore()
	}
	return s.exhausted
}

// CreateComment posts the given body as a new comment. An empty body is
// rejected locally without a network call. On success the comment joins
// both the main and the local sequence and the draft buffer is cleared.
func (s *Session) CreateComment(ctx context.Context, body string) (*thread.Comment, error) {
	if body == "" {
		return nil, errcodes.ErrEmptyComment
	}
	if s.issue == nil {
		return nil, errcodes.ErrNotFound
	}

	s.isCreating = true
	defer func() { s.isCreating = false }()

	comment, err := s.creator.CreateComment(ctx, s.issue, body)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.comments = append(s.comments, comment)
	s.localComments = append(s.localComments, comment)
	s.draft = ""
	s.clearError()
	s.notifyCount()

	return comment, nil
}

// Comments returns the sequence to render: the session comments mirrored
// into the current sort direction, with local duplicates hidden by id. The
// underlying sequences are not modified.
func (s *Session) Comments() []*thread.Comment {
	out := make([]*thread.Comment, 0, len(s.comments))
	seen := map[int64]bool{}

	for _, c := range s.comments {
		if c.ID != 0 && seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}

	slices.SortStableFunc(out, func(a, b *thread.Comment) bool {
		if s.sort == thread.SortDesc {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return out
}

// LocalComments returns the client-created comments awaiting a refetch.
func (s *Session) LocalComments() []*thread.Comment {
	return s.localComments
}

// Count is the rendered total. Local comments live in the sequence before
// the server total reflects them, so the larger of the two wins.
func (s *Session) Count() int {
	loaded := len(s.Comments())

	if s.issue == nil {
		return loaded
	}
	if loaded > s.issue.Comments {
		return loaded
	}

	return s.issue.Comments
}
