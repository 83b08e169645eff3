package github

import (
	"context"
	"net/http"
	"time"

	graphql "github.com/cli/shurcooL-graphql"
	"github.com/pkg/errors"

	"threadlet/internal/domain/thread"
	"threadlet/internal/errcodes"
)

// tokenTransport injects the session token into GraphQL requests.
type tokenTransport struct {
	tokens TokenSource
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token, ok := t.tokens.Token(); ok {
			req.Header.Set("Authorization", "bearer "+token)
		}
	}

	return http.DefaultTransport.RoundTrip(req)
}

func (c *Client) gql() *graphql.Client {
	httpClient := &http.Client{Transport: &tokenTransport{tokens: c.tokens}}
	return graphql.NewClient(c.graphqlURL, httpClient)
}

type gqlComment struct {
	ID         graphql.ID
	DatabaseID int64 `graphql:"databaseId"`
	Author     struct {
		Login     string
		AvatarURL string `graphql:"avatarUrl"`
		URL       string
	}
	Body      string
	BodyHTML  string `graphql:"bodyHTML"`
	CreatedAt string
	Reactions struct {
		TotalCount       int
		ViewerHasReacted bool
		Nodes            []struct {
			User struct {
				Login string
			}
		}
	} `graphql:"reactions(first: 100, content: HEART)"`
}

type gqlCommentConnection struct {
	TotalCount int
	PageInfo   struct {
		StartCursor     string
		EndCursor       string
		HasNextPage     bool
		HasPreviousPage bool
	}
	Nodes []gqlComment
}

// CursorPage fetches one window of the issue's comment connection through
// GraphQL. Ascending asks for the first N after the forward cursor,
// descending for the last N before the backward cursor.
func (c *Client) CursorPage(ctx context.Context, o *thread.CursorPageOptions) (*thread.CursorPage, error) {
	var cursor *graphql.String
	if o.Cursor != "" {
		cursor = graphql.NewString(graphql.String(o.Cursor))
	}

	variables := map[string]interface{}{
		"owner":   graphql.String(c.owner),
		"name":    graphql.String(c.repo),
		"number":  graphql.Int(o.Issue.Number),
		"perPage": graphql.Int(o.PerPage),
		"cursor":  cursor,
	}

	var conn *gqlCommentConnection

	if o.Direction == thread.SortDesc {
		var q struct {
			Repository struct {
				Issue struct {
					Comments gqlCommentConnection `graphql:"comments(last: $perPage, before: $cursor)"`
				} `graphql:"issue(number: $number)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		if err := c.gql().Query(ctx, &q, variables); err != nil {
			return nil, errors.Wrap(err, "fetching comments")
		}
		conn = &q.Repository.Issue.Comments
	} else {
		var q struct {
			Repository struct {
				Issue struct {
					Comments gqlCommentConnection `graphql:"comments(first: $perPage, after: $cursor)"`
				} `graphql:"issue(number: $number)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		if err := c.gql().Query(ctx, &q, variables); err != nil {
			return nil, errors.Wrap(err, "fetching comments")
		}
		conn = &q.Repository.Issue.Comments
	}

	page := &thread.CursorPage{
		TotalCount:      conn.TotalCount,
		StartCursor:     conn.PageInfo.StartCursor,
		EndCursor:       conn.PageInfo.EndCursor,
		HasNextPage:     conn.PageInfo.HasNextPage,
		HasPreviousPage: conn.PageInfo.HasPreviousPage,
	}

	for i := range conn.Nodes {
		page.Comments = append(page.Comments, c.convertGQLComment(&conn.Nodes[i]))
	}

	return page, nil
}

func (c *Client) convertGQLComment(n *gqlComment) *thread.Comment {
	created, _ := time.Parse(time.RFC3339, n.CreatedAt)

	nodeID, _ := n.ID.(string)

	users := make([]thread.User, 0, len(n.Reactions.Nodes))
	for _, r := range n.Reactions.Nodes {
		users = append(users, thread.User{Login: r.User.Login})
	}

	return &thread.Comment{
		ID:     n.DatabaseID,
		NodeID: nodeID,
		Author: c.author(thread.User{
			Login:     n.Author.Login,
			AvatarURL: n.Author.AvatarURL,
			HTMLURL:   n.Author.URL,
		}),
		Body:      n.Body,
		BodyHTML:  n.BodyHTML,
		CreatedAt: created,
		Reactions: thread.Reactions{
			TotalCount:       n.Reactions.TotalCount,
			ViewerHasReacted: n.Reactions.ViewerHasReacted,
			Users:            users,
		},
	}
}

// ReactionContent is the GraphQL ReactionContent enum; only HEART is used.
type ReactionContent string

const reactionHeart ReactionContent = "HEART"

type RemoveReactionInput struct {
	SubjectID graphql.ID      `json:"subjectId"`
	Content   ReactionContent `json:"content"`
}

// RemoveHeart removes the viewer's heart reaction, keyed by the comment's
// global node id. Removal has no REST equivalent for another user's view of
// the aggregate, hence the mutation.
func (c *Client) RemoveHeart(ctx context.Context, nodeID string) error {
	if nodeID == "" {
		return errors.Wrap(errcodes.ErrNotFound, "comment has no global id")
	}

	var m struct {
		RemoveReaction struct {
			Reaction struct {
				Content ReactionContent
			}
		} `graphql:"removeReaction(input: $input)"`
	}

	variables := map[string]interface{}{
		"input": RemoveReactionInput{
			SubjectID: graphql.ID(nodeID),
			Content:   reactionHeart,
		},
	}

	if err := c.gql().Mutate(ctx, &m, variables); err != nil {
		return errors.Wrap(err, "removing reaction")
	}

	return nil
}
