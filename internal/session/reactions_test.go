package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
)

func likedFixture(t *testing.T, comments []*thread.Comment) (*Session, *fixture) {
	s, f := newAuthedFixture(t, testSessionConfig(), "octocat")
	f.issues.ByLabels = &thread.Issue{Number: 7, Comments: len(comments)}
	f.cursor.Result = &thread.CursorPage{Comments: comments, TotalCount: len(comments)}
	s.Init(context.Background(), nil)
	return s, f
}

func Test_Session_Like(t *testing.T) {
	ctx := context.Background()

	t.Run("increments the count and records the viewer", func(t *testing.T) {
		s, f := likedFixture(t, []*thread.Comment{
			{ID: 1, NodeID: "IC_1", Reactions: thread.Reactions{TotalCount: 1, Users: []thread.User{{Login: "someone"}}}},
		})

		assert.NoError(t, s.Like(ctx, 1))
		assert.Equal(t, 1, f.reactor.AddCalls)

		c := s.Comments()[0]
		assert.Equal(t, 2, c.Reactions.TotalCount)
		assert.True(t, c.Reactions.ViewerHasReacted)
		assert.Equal(t, "octocat", c.Reactions.Users[1].Login)
	})

	t.Run("does not double-count a repeated like", func(t *testing.T) {
		s, _ := likedFixture(t, []*thread.Comment{
			{ID: 1, NodeID: "IC_1"},
		})

		assert.NoError(t, s.Like(ctx, 1))
		assert.NoError(t, s.Like(ctx, 1))

		c := s.Comments()[0]
		assert.Equal(t, 1, c.Reactions.TotalCount)
		assert.Len(t, c.Reactions.Users, 1)
	})

	t.Run("refuses while anonymous", func(t *testing.T) {
		s, f := newAnonymousFixture(t, testSessionConfig())
		f.issues.ByLabels = &thread.Issue{Number: 7, Comments: 1}
		f.pager.Pages = map[int][]*thread.Comment{1: {{ID: 1}}}
		s.Init(ctx, nil)

		assert.Equal(t, errcodes.ErrNoToken, s.Like(ctx, 1))
		assert.Equal(t, 0, f.reactor.AddCalls)
	})

	t.Run("leaves the aggregate alone when the post fails", func(t *testing.T) {
		s, f := likedFixture(t, []*thread.Comment{{ID: 1, NodeID: "IC_1"}})
		f.reactor.AddErr = &errcodes.APIError{StatusCode: 500, Message: "boom"}

		assert.Error(t, s.Like(ctx, 1))

		c := s.Comments()[0]
		assert.Equal(t, 0, c.Reactions.TotalCount)
		assert.False(t, c.Reactions.ViewerHasReacted)
	})
}

func Test_Session_Unlike(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements the count and removes the viewer", func(t *testing.T) {
		s, f := likedFixture(t, []*thread.Comment{
			{ID: 1, NodeID: "IC_1", Reactions: thread.Reactions{
				TotalCount:       2,
				ViewerHasReacted: true,
				Users:            []thread.User{{Login: "someone"}, {Login: "octocat"}},
			}},
		})

		assert.NoError(t, s.Unlike(ctx, 1))
		assert.Equal(t, []string{"IC_1"}, f.reactor.LastRemovedIDs)

		c := s.Comments()[0]
		assert.Equal(t, 1, c.Reactions.TotalCount)
		assert.False(t, c.Reactions.ViewerHasReacted)
		assert.Equal(t, []thread.User{{Login: "someone"}}, c.Reactions.Users)
	})

	t.Run("never decrements below zero for a comment the viewer never liked", func(t *testing.T) {
		s, _ := likedFixture(t, []*thread.Comment{
			{ID: 1, NodeID: "IC_1", Reactions: thread.Reactions{TotalCount: 0, ViewerHasReacted: true}},
		})

		assert.NoError(t, s.Unlike(ctx, 1))

		c := s.Comments()[0]
		assert.Equal(t, 0, c.Reactions.TotalCount)
		assert.False(t, c.Reactions.ViewerHasReacted)
	})

	t.Run("replaces only the mutated comment", func(t *testing.T) {
		s, _ := likedFixture(t, []*thread.Comment{
			{ID: 1, NodeID: "IC_1"},
			{ID: 2, NodeID: "IC_2"},
		})

		before := s.comments[1]
		assert.NoError(t, s.Like(ctx, 1))

		assert.Same(t, before, s.comments[1])
		assert.NotSame(t, before, s.comments[0])
	})
}
