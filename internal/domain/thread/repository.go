package thread

import "context"

type CreateIssueOptions struct {
	Title  string
	Body   string
	Labels []string
}

// IssueRepository resolves and creates backing issues. FindByNumber reports
// a 404 as errcodes.ErrNotFound so callers can fall through to the label
// search. FindByLabels returns (nil, nil) when nothing matches; when more
// than one issue matches it returns the first in the API's default order.
type IssueRepository interface {
	FindByNumber(ctx context.Context, number int) (*Issue, error)
	FindByLabels(ctx context.Context, labels []string) (*Issue, error)
	Create(ctx context.Context, o *CreateIssueOptions) (*Issue, error)
}

// CommentPager is the unauthenticated REST surface: 1-based fixed-size
// pages, server default order only.
type CommentPager interface {
	Page(ctx context.Context, issue *Issue, page, perPage int) ([]*Comment, error)
}

// CursorPage is one slice of the GraphQL comment connection.
type CursorPage struct {
	Comments        []*Comment
	TotalCount      int
	StartCursor     string
	EndCursor       string
	HasNextPage     bool
	HasPreviousPage bool
}

type CursorPageOptions struct {
	Issue     *Issue
	PerPage   int
	Direction SortDirection
	// Cursor is the boundary to continue from: after-cursor for ascending,
	// before-cursor for descending. Empty means the first request.
	Cursor string
}

// CommentCursorPager is the authenticated GraphQL surface: cursor paging,
// orderable in either direction.
type CommentCursorPager interface {
	CursorPage(ctx context.Context, o *CursorPageOptions) (*CursorPage, error)
}

type CommentCreator interface {
	CreateComment(ctx context.Context, issue *Issue, body string) (*Comment, error)
}

// Reactor mutates the heart reaction on a comment. Adding goes through REST
// by database id; removing goes through GraphQL by global node id.
type Reactor interface {
	AddHeart(ctx context.Context, commentID int64) error
	RemoveHeart(ctx context.Context, nodeID string) error
}

type MarkdownRenderer interface {
	RenderMarkdown(ctx context.Context, text string) (string, error)
}
