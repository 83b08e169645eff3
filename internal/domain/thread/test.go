package thread

import "context"

// Mock repository implementations shared by this package's tests and the
// session tests.

type MockIssueRepository struct {
	ByNumber    *Issue
	ByNumberErr error
	ByLabels    *Issue
	ByLabelsErr error
	Created     *Issue
	CreateErr   error

	FindByNumberCalls int
	FindByLabelsCalls int
	CreateCalls       int
	LastCreate        *CreateIssueOptions
}

func (m *MockIssueRepository) FindByNumber(ctx context.Context, number int) (*Issue, error) {
	m.FindByNumberCalls++
	return m.ByNumber, m.ByNumberErr
}

func (m *MockIssueRepository) FindByLabels(ctx context.Context, labels []string) (*Issue, error) {
	m.FindByLabelsCalls++
	return m.ByLabels, m.ByLabelsErr
}

func (m *MockIssueRepository) Create(ctx context.Context, o *CreateIssueOptions) (*Issue, error) {
	m.CreateCalls++
	m.LastCreate = o
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Created != nil {
		return m.Created, nil
	}
	return &Issue{Number: 1, Title: o.Title}, nil
}

type MockCommentPager struct {
	Pages     map[int][]*Comment
	Err       error
	PageCalls int
}

func (m *MockCommentPager) Page(ctx context.Context, issue *Issue, page, perPage int) ([]*Comment, error) {
	m.PageCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pages[page], nil
}

type MockCursorPager struct {
	Result      *CursorPage
	Err         error
	CursorCalls int
	LastOptions *CursorPageOptions
	// Block, when set, stalls the fetch until the channel closes.
	Block chan struct{}
}

func (m *MockCursorPager) CursorPage(ctx context.Context, o *CursorPageOptions) (*CursorPage, error) {
	m.CursorCalls++
	m.LastOptions = o
	if m.Block != nil {
		<-m.Block
	}
	return m.Result, m.Err
}

type MockCommentCreator struct {
	Created     *Comment
	Err         error
	CreateCalls int
	LastBody    string
}

func (m *MockCommentCreator) CreateComment(ctx context.Context, issue *Issue, body string) (*Comment, error) {
	m.CreateCalls++
	m.LastBody = body
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Created != nil {
		return m.Created, nil
	}
	return &Comment{ID: 1, Body: body}, nil
}

type MockReactor struct {
	AddErr         error
	RemoveErr      error
	AddCalls       int
	RemoveCalls    int
	LastCommentID  int64
	LastRemovedIDs []string
}

func (m *MockReactor) AddHeart(ctx context.Context, commentID int64) error {
	m.AddCalls++
	m.LastCommentID = commentID
	return m.AddErr
}

func (m *MockReactor) RemoveHeart(ctx context.Context, nodeID string) error {
	m.RemoveCalls++
	m.LastRemovedIDs = append(m.LastRemovedIDs, nodeID)
	return m.RemoveErr
}

type MockMarkdownRenderer struct {
	HTML        string
	Err         error
	RenderCalls int
}

func (m *MockMarkdownRenderer) RenderMarkdown(ctx context.Context, text string) (string, error) {
	m.RenderCalls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.HTML != "" {
		return m.HTML, nil
	}
	return "<p>" + text + "</p>", nil
}
