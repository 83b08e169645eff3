package session

import (
	"context"

	"golang.org/x/exp/slices"

	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
)

// Like posts a heart on the comment and folds the outcome into its
// aggregate: the count only grows when the viewer was not already among
// the reacting users, so a repeated like cannot double-count.
func (s *Session) Like(ctx context.Context, commentID int64) error {
	if s.user == nil {
		return errcodes.ErrNoToken
	}

	idx := s.commentIndex(commentID)
	if idx == -1 {
		return errcodes.ErrNotFound
	}

	if err := s.reactor.AddHeart(ctx, commentID); err != nil {
		s.fail(err)
		return err
	}

	updated := *s.comments[idx]
	r := updated.Reactions

	if !s.viewerReacted(&r) {
		r.TotalCount++
		r.Users = append(append([]thread.User{}, r.Users...), *s.user)
	}
	r.ViewerHasReacted = true

	updated.Reactions = r
	s.replaceComment(idx, &updated)

	return nil
}

// Unlike removes the viewer's heart through the GraphQL mutation, keyed by
// the comment's global id. The count never drops below what the user set:
// removal only decrements when the viewer is actually among the reacting
// users, and the viewer flag clears regardless.
func (s *Session) Unlike(ctx context.Context, commentID int64) error {
	if s.user == nil {
		return errcodes.ErrNoToken
	}

	idx := s.commentIndex(commentID)
	if idx == -1 {
		return errcodes.ErrNotFound
	}

	if err := s.reactor.RemoveHeart(ctx, s.comments[idx].NodeID); err != nil {
		s.fail(err)
		return err
	}

	updated := *s.comments[idx]
	r := updated.Reactions

	userIdx := slices.IndexFunc(r.Users, func(u thread.User) bool {
		return u.Login == s.user.Login
	})
	if userIdx != -1 {
		r.TotalCount--
		r.Users = append(append([]thread.User{}, r.Users[:userIdx]...), r.Users[userIdx+1:]...)
	}
	r.ViewerHasReacted = false

	updated.Reactions = r
	s.replaceComment(idx, &updated)

	return nil
}

func (s *Session) viewerReacted(r *thread.Reactions) bool {
	if r.ViewerHasReacted {
		return true
	}

	return slices.IndexFunc(r.Users, func(u thread.User) bool {
		return u.Login == s.user.Login
	}) != -1
}

func (s *Session) commentIndex(commentID int64) int {
	return slices.IndexFunc(s.comments, func(c *thread.Comment) bool {
		return c.ID == commentID
	})
}

// replaceComment swaps one entry for its mutated copy; every other comment
// keeps its identity.
func (s *Session) replaceComment(idx int, c *thread.Comment) {
	next := make([]*thread.Comment, len(s.comments))
	copy(next, s.comments)
	next[idx] = c
	s.comments = next
}
