package github

import (
	"time"

	"github.com/tidwall/gjson"

	"threadlet/internal/domain/thread"
)

func parseIssue(v gjson.Result) *thread.Issue {
	return &thread.Issue{
		ID:          v.Get("id").Int(),
		Number:      int(v.Get("number").Int()),
		Title:       v.Get("title").String(),
		Comments:    int(v.Get("comments").Int()),
		HTMLURL:     v.Get("html_url").String(),
		CommentsURL: v.Get("comments_url").String(),
	}
}

// author substitutes the configured fallback identity when a comment
// arrives without one.
func (c *Client) author(u thread.User) thread.User {
	if u.Login != "" {
		return u
	}

	return c.fallbackAuthor
}

func (c *Client) parseComment(v gjson.Result) *thread.Comment {
	created, _ := time.Parse(time.RFC3339, v.Get("created_at").String())

	return &thread.Comment{
		ID:     v.Get("id").Int(),
		NodeID: v.Get("node_id").String(),
		Author: c.author(thread.User{
			Login:     v.Get("user.login").String(),
			AvatarURL: v.Get("user.avatar_url").String(),
			HTMLURL:   v.Get("user.html_url").String(),
		}),
		Body:      v.Get("body").String(),
		BodyHTML:  v.Get("body_html").String(),
		CreatedAt: created,
		Reactions: thread.Reactions{
			// The REST rollup has no per-user detail; the GraphQL path
			// fills Users and ViewerHasReacted.
			TotalCount: int(v.Get("reactions.heart").Int()),
		},
	}
}
