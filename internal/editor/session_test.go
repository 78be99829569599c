package editor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
)

type storeMock struct{ mock.Mock }

var _ Store = (*storeMock)(nil)

func (m *storeMock) Get(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *storeMock) Create(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *storeMock) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*domain.Document, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *storeMock) Publish(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type recordingNavigator struct {
	mu        sync.Mutex
	opened    []string
	dashboard atomic.Int32
}

func (n *recordingNavigator) OpenDocument(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, id)
}

func (n *recordingNavigator) OpenDashboard() { n.dashboard.Add(1) }

func draftDoc() *domain.Document {
	return &domain.Document{
		ID:         "doc-1",
		Title:      "API guide",
		Content:    "# Intro\n\nHello",
		TeamID:     "team-1",
		AuthorID:   "member-1",
		AuthorName: "Ada",
		Tags:       []string{"api"},
		Status:     domain.DocumentStatusDraft,
		CreatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func loadedSession(t *testing.T, store *storeMock, nav Navigator, delay time.Duration) *Session {
	t.Helper()
	store.On("Get", mock.Anything, "doc-1").Return(draftDoc(), nil).Once()
	s := NewSession(store, Options{DocumentID: "doc-1", Navigator: nav, NavigateDelay: delay})
	require.NoError(t, s.Load(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestLoadPopulatesDraft(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)

	st := s.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, ViewEdit, st.ViewMode)
	require.Equal(t, "API guide", st.Draft.Title)
	require.Equal(t, []string{"api"}, st.Draft.Tags)
	require.False(t, st.Dirty())
	require.Nil(t, st.Notification)
}

func TestLoadFailureMovesToFailed(t *testing.T) {
	store := &storeMock{}
	store.On("Get", mock.Anything, "doc-404").Return(nil, errors.New("not found"))
	s := NewSession(store, Options{DocumentID: "doc-404"})

	err := s.Load(context.Background())
	require.Error(t, err)

	st := s.State()
	require.Equal(t, PhaseFailed, st.Phase)
	require.NotNil(t, st.Notification)
	require.Equal(t, MsgLoadFailed, st.Notification.Message)
	require.Equal(t, SeverityError, st.Notification.Severity)
	require.ErrorIs(t, s.SetTitle("x"), ErrNotReady)
	require.ErrorIs(t, s.Save(context.Background()), ErrNotReady)
}

func TestNewDocumentStartsReadyWithoutFetching(t *testing.T) {
	store := &storeMock{}
	s := NewSession(store, Options{TeamID: "team-1"})
	require.NoError(t, s.Load(context.Background()))

	st := s.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Nil(t, st.Document)
	require.Equal(t, "team-1", st.Draft.TeamID)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestViewModeRoundTripKeepsContent(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)

	typed := "  line one\n\n\tline *two*  \n"
	require.NoError(t, s.SetContent(typed))
	require.NoError(t, s.SetViewMode(ViewPreview))
	require.Contains(t, s.Preview(), "<em>two</em>")
	require.NoError(t, s.SetViewMode(ViewEdit))

	st := s.State()
	require.Equal(t, ViewEdit, st.ViewMode)
	require.Equal(t, typed, st.Draft.Content)
	require.Equal(t, "# Intro\n\nHello", st.Document.Content)
}

func TestSaveCreatesThenNavigates(t *testing.T) {
	store := &storeMock{}
	nav := &recordingNavigator{}
	s := NewSession(store, Options{AuthorID: "member-1", TeamID: "team-1", Navigator: nav})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.SetTitle("Runbook"))
	require.NoError(t, s.SetTags([]string{"ops", "ops", " "}))

	created := draftDoc()
	created.ID = "doc-new"
	created.Title = "Runbook"
	store.On("Create", mock.Anything, dto.CreateDocumentRequest{
		Title:    "Runbook",
		TeamID:   "team-1",
		AuthorID: "member-1",
		Tags:     []string{"ops"},
	}).Return(created, nil).Once()

	require.NoError(t, s.Save(context.Background()))

	st := s.State()
	require.Equal(t, "doc-new", st.Document.ID)
	require.Equal(t, MsgSaved, st.Notification.Message)
	require.Equal(t, []string{"doc-new"}, nav.opened)

	title := "Runbook v2"
	updated := created.Clone()
	updated.Title = title
	store.On("Update", mock.Anything, "doc-new", mock.MatchedBy(func(req dto.UpdateDocumentRequest) bool {
		return req.Title != nil && *req.Title == title
	})).Return(updated, nil).Once()

	require.NoError(t, s.SetTitle(title))
	require.NoError(t, s.Save(context.Background()))
	require.Equal(t, title, s.State().Document.Title)
	require.Len(t, nav.opened, 1)
	store.AssertExpectations(t)
}

func TestSaveFailureKeepsCommittedDocument(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)
	store.On("Update", mock.Anything, "doc-1", mock.Anything).Return(nil, errors.New("request failed")).Once()

	require.NoError(t, s.SetTitle("Changed"))
	require.Error(t, s.Save(context.Background()))

	st := s.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, "API guide", st.Document.Title)
	require.Equal(t, "Changed", st.Draft.Title)
	require.Equal(t, MsgSaveFailed, st.Notification.Message)
	require.True(t, st.Dirty())

	s.DismissNotification()
	st = s.State()
	require.Nil(t, st.Notification)
	require.Equal(t, "Changed", st.Draft.Title)
}

func TestSaveWhileSavingIsRejected(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)

	release := make(chan struct{})
	saved := draftDoc()
	store.On("Update", mock.Anything, "doc-1", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(saved, nil).Once()

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	require.Eventually(t, func() bool { return s.State().Phase == PhaseSaving }, time.Second, time.Millisecond)

	require.ErrorIs(t, s.Save(context.Background()), ErrBusy)
	require.NoError(t, s.SetContent("typed during save"))

	close(release)
	require.NoError(t, <-done)

	st := s.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, "typed during save", st.Draft.Content)
	store.AssertNumberOfCalls(t, "Update", 1)
}

func TestConfirmPublishWhileSavingIsRejected(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)
	require.NoError(t, s.RequestPublish())

	release := make(chan struct{})
	store.On("Update", mock.Anything, "doc-1", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(draftDoc(), nil).Once()

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	require.Eventually(t, func() bool { return s.State().Phase == PhaseSaving }, time.Second, time.Millisecond)

	require.ErrorIs(t, s.ConfirmPublish(context.Background()), ErrBusy)
	require.True(t, s.State().ConfirmDialogOpen)

	close(release)
	require.NoError(t, <-done)

	st := s.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, domain.DocumentStatusDraft, st.Document.Status)
	store.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConfirmPublishOnPublishedDocumentMakesNoCall(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)
	require.NoError(t, s.RequestPublish())

	// Published elsewhere; the save response carries the new status.
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	published := draftDoc()
	published.Status = domain.DocumentStatusPublished
	published.PublishedAt = &at
	store.On("Update", mock.Anything, "doc-1", mock.Anything).Return(published, nil).Once()
	require.NoError(t, s.Save(context.Background()))
	require.True(t, s.State().ConfirmDialogOpen)

	require.ErrorIs(t, s.ConfirmPublish(context.Background()), ErrAlreadyPublished)

	st := s.State()
	require.False(t, st.ConfirmDialogOpen)
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, &at, st.Document.PublishedAt)
	require.Equal(t, MsgSaved, st.Notification.Message)
	store.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPublishNavigatesOnceAfterDelay(t *testing.T) {
	store := &storeMock{}
	nav := &recordingNavigator{}
	delay := 30 * time.Millisecond
	s := loadedSession(t, store, nav, delay)

	published := draftDoc()
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	published.Status = domain.DocumentStatusPublished
	published.PublishedAt = &at
	store.On("Publish", mock.Anything, "doc-1").Return(published, nil).Once()

	require.ErrorIs(t, s.ConfirmPublish(context.Background()), ErrConfirmNotOpen)
	require.NoError(t, s.RequestPublish())
	require.True(t, s.State().ConfirmDialogOpen)

	start := time.Now()
	require.NoError(t, s.ConfirmPublish(context.Background()))

	st := s.State()
	require.False(t, st.ConfirmDialogOpen)
	require.Equal(t, domain.DocumentStatusPublished, st.Document.Status)
	require.NotNil(t, st.Document.PublishedAt)
	require.Equal(t, MsgPublished, st.Notification.Message)
	require.Zero(t, nav.dashboard.Load())

	require.Eventually(t, func() bool { return nav.dashboard.Load() == 1 }, time.Second, time.Millisecond)
	require.GreaterOrEqual(t, time.Since(start), delay)
	time.Sleep(3 * delay)
	require.Equal(t, int32(1), nav.dashboard.Load())

	require.ErrorIs(t, s.RequestPublish(), ErrAlreadyPublished)
}

func TestPublishFailureLeavesStatus(t *testing.T) {
	store := &storeMock{}
	nav := &recordingNavigator{}
	s := loadedSession(t, store, nav, 10*time.Millisecond)
	store.On("Publish", mock.Anything, "doc-1").Return(nil, errors.New("boom")).Once()

	require.NoError(t, s.RequestPublish())
	require.Error(t, s.ConfirmPublish(context.Background()))

	st := s.State()
	require.Equal(t, domain.DocumentStatusDraft, st.Document.Status)
	require.Nil(t, st.Document.PublishedAt)
	require.False(t, st.ConfirmDialogOpen)
	require.Equal(t, MsgPublishFailed, st.Notification.Message)
	time.Sleep(30 * time.Millisecond)
	require.Zero(t, nav.dashboard.Load())
}

func TestCancelPublishOnlyClosesDialog(t *testing.T) {
	store := &storeMock{}
	s := loadedSession(t, store, nil, 0)
	require.NoError(t, s.RequestPublish())
	s.CancelPublish()

	st := s.State()
	require.False(t, st.ConfirmDialogOpen)
	require.Equal(t, domain.DocumentStatusDraft, st.Document.Status)
	store.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPublishRequiresCreatedDocument(t *testing.T) {
	store := &storeMock{}
	s := NewSession(store, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.ErrorIs(t, s.RequestPublish(), ErrNoDocument)
}

func TestCloseCancelsNavigationAndDropsLateResults(t *testing.T) {
	store := &storeMock{}
	nav := &recordingNavigator{}
	s := loadedSession(t, store, nav, 20*time.Millisecond)

	published := draftDoc()
	published.Status = domain.DocumentStatusPublished
	store.On("Publish", mock.Anything, "doc-1").Return(published, nil).Once()
	require.NoError(t, s.RequestPublish())
	require.NoError(t, s.ConfirmPublish(context.Background()))
	s.Close()
	time.Sleep(60 * time.Millisecond)
	require.Zero(t, nav.dashboard.Load())

	store2 := &storeMock{}
	s2 := loadedSession(t, store2, nil, 0)
	release := make(chan struct{})
	late := draftDoc()
	late.Title = "late"
	store2.On("Update", mock.Anything, "doc-1", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(late, nil).Once()

	done := make(chan error, 1)
	go func() { done <- s2.Save(context.Background()) }()
	require.Eventually(t, func() bool { return s2.State().Phase == PhaseSaving }, time.Second, time.Millisecond)
	s2.Close()
	close(release)
	require.ErrorIs(t, <-done, ErrClosed)
	require.Equal(t, "API guide", s2.State().Document.Title)
}
