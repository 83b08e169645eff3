package thread

import "time"

// Issue is the GitHub issue backing a page's comment thread.
type Issue struct {
	ID          int64
	Number      int
	Title       string
	Comments    int
	HTMLURL     string
	CommentsURL string
}

type User struct {
	Login     string
	AvatarURL string
	HTMLURL   string
}

// Reactions is the per-comment heart aggregate.
type Reactions struct {
	TotalCount       int
	ViewerHasReacted bool
	Users            []User
}

// Comment is one thread entry. NodeID is the GraphQL global id; it is only
// populated when the comment was fetched through the GraphQL surface and is
// what reaction-removal mutations key on.
type Comment struct {
	ID        int64
	NodeID    string
	Author    User
	Body      string
	BodyHTML  string
	CreatedAt time.Time
	Reactions Reactions
}

type SortDirection string

const (
	SortAsc  SortDirection = "first"
	SortDesc SortDirection = "last"
)
