// Package editor holds the state machine behind a single document editor view.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/markdown"
)

// DefaultNavigateDelay is how long a publish notification stays up before leaving the editor.
const DefaultNavigateDelay = 1500 * time.Millisecond

// Store is the remote document API the session drives.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Document, error)
	Create(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error)
	Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*domain.Document, error)
	Publish(ctx context.Context, id string) (*domain.Document, error)
}

// Navigator moves the surrounding UI in response to session outcomes.
type Navigator interface {
	OpenDocument(id string)
	OpenDashboard()
}

// Renderer turns draft content into preview HTML.
type Renderer interface {
	Render(src string) string
}

// Options configures a session.
type Options struct {
	// DocumentID is empty for a new document.
	DocumentID string
	// AuthorID is sent when the first save creates the document.
	AuthorID string
	// TeamID pre-fills the draft of a new document.
	TeamID        string
	Navigator     Navigator
	Renderer      Renderer
	NavigateDelay time.Duration
	Logger        *zap.Logger
}

// Session owns one document's draft and its save/publish transitions.
// All methods are safe for concurrent use; remote calls run without holding the lock
// so the draft stays editable while a save is in flight.
type Session struct {
	mu sync.Mutex

	store    Store
	nav      Navigator
	renderer Renderer
	logger   *zap.Logger
	delay    time.Duration
	authorID string
	docID    string

	doc          *domain.Document
	draft        Draft
	mode         ViewMode
	phase        Phase
	confirmOpen  bool
	notification *Notification
	navTimer     *time.Timer
	closed       bool
}

// NewSession creates a session in the Loading phase. Call Load to start it.
func NewSession(store Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = markdown.New()
	}
	delay := opts.NavigateDelay
	if delay <= 0 {
		delay = DefaultNavigateDelay
	}
	return &Session{
		store:    store,
		nav:      opts.Navigator,
		renderer: renderer,
		logger:   logger.With(zap.String("document_id", opts.DocumentID)),
		delay:    delay,
		authorID: opts.AuthorID,
		docID:    opts.DocumentID,
		draft:    Draft{TeamID: opts.TeamID},
		phase:    PhaseLoading,
	}
}

// Load fetches the backing document, or readies an empty draft when there is none.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	id := s.docID
	if id == "" {
		s.phase = PhaseReady
		s.mode = ViewEdit
		s.mu.Unlock()
		return nil
	}
	s.phase = PhaseLoading
	s.mu.Unlock()

	doc, err := s.store.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		s.phase = PhaseFailed
		s.notify(MsgLoadFailed, SeverityError)
		s.logger.Warn("load document failed", zap.Error(err))
		return fmt.Errorf("load document %s: %w", id, err)
	}
	s.doc = doc.Clone()
	s.draft = draftFrom(doc)
	s.mode = ViewEdit
	s.phase = PhaseReady
	return nil
}

// SetTitle updates the draft title.
func (s *Session) SetTitle(title string) error {
	return s.edit(func(d *Draft) { d.Title = title })
}

// SetContent updates the draft body.
func (s *Session) SetContent(content string) error {
	return s.edit(func(d *Draft) { d.Content = content })
}

// SetTeam updates the draft's owning team.
func (s *Session) SetTeam(teamID string) error {
	return s.edit(func(d *Draft) { d.TeamID = teamID })
}

// SetTags replaces the draft tags, dropping blanks and duplicates.
func (s *Session) SetTags(tags []string) error {
	normalized := domain.NormalizeTags(tags)
	return s.edit(func(d *Draft) { d.Tags = normalized })
}

// SetViewMode switches between editing and preview. Content is never touched.
func (s *Session) SetViewMode(mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.mode = mode
	return nil
}

// Preview renders the current draft content.
func (s *Session) Preview() string {
	s.mu.Lock()
	content := s.draft.Content
	s.mu.Unlock()
	return s.renderer.Render(content)
}

// Save creates the document on first save and updates it afterwards.
// The draft stays editable while the request is in flight.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if err := s.beginLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := s.draft.clone()
	id := ""
	if s.doc != nil {
		id = s.doc.ID
	}
	s.mu.Unlock()

	var (
		saved *domain.Document
		err   error
	)
	if id == "" {
		saved, err = s.store.Create(ctx, dto.CreateDocumentRequest{
			Title:    draft.Title,
			Content:  draft.Content,
			TeamID:   draft.TeamID,
			AuthorID: s.authorID,
			Tags:     draft.Tags,
		})
	} else {
		saved, err = s.store.Update(ctx, id, dto.UpdateDocumentRequest{
			Title:   &draft.Title,
			Content: &draft.Content,
			TeamID:  &draft.TeamID,
			Tags:    &draft.Tags,
		})
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.phase = PhaseReady
	if err != nil {
		s.notify(MsgSaveFailed, SeverityError)
		s.mu.Unlock()
		s.logger.Warn("save document failed", zap.Error(err))
		return fmt.Errorf("save document: %w", err)
	}
	s.doc = saved.Clone()
	s.notify(MsgSaved, SeveritySuccess)
	created := id == ""
	if created {
		s.docID = saved.ID
		s.logger = s.logger.With(zap.String("created_id", saved.ID))
	}
	nav := s.nav
	s.mu.Unlock()

	if created && nav != nil {
		nav.OpenDocument(saved.ID)
	}
	return nil
}

// RequestPublish opens the confirmation dialog.
func (s *Session) RequestPublish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseReady {
		return ErrNotReady
	}
	if s.doc == nil {
		return ErrNoDocument
	}
	if s.doc.IsPublished() {
		return ErrAlreadyPublished
	}
	s.confirmOpen = true
	return nil
}

// CancelPublish closes the confirmation dialog.
func (s *Session) CancelPublish() {
	s.mu.Lock()
	s.confirmOpen = false
	s.mu.Unlock()
}

// ConfirmPublish publishes the committed document. On success the session navigates
// to the dashboard after the configured delay unless it is closed first.
func (s *Session) ConfirmPublish(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.phase == PhaseSaving {
		s.mu.Unlock()
		return ErrBusy
	}
	if !s.confirmOpen {
		s.mu.Unlock()
		return ErrConfirmNotOpen
	}
	if s.doc == nil {
		s.mu.Unlock()
		return ErrNoDocument
	}
	if s.doc.IsPublished() {
		s.confirmOpen = false
		s.mu.Unlock()
		return ErrAlreadyPublished
	}
	if err := s.beginLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	id := s.doc.ID
	s.mu.Unlock()

	published, err := s.store.Publish(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.phase = PhaseReady
	s.confirmOpen = false
	if err != nil {
		s.notify(MsgPublishFailed, SeverityError)
		s.logger.Warn("publish document failed", zap.Error(err))
		return fmt.Errorf("publish document %s: %w", id, err)
	}
	s.doc = published.Clone()
	s.notify(MsgPublished, SeveritySuccess)
	s.scheduleNavigationLocked()
	return nil
}

// DismissNotification clears the notification slot.
func (s *Session) DismissNotification() {
	s.mu.Lock()
	s.notification = nil
	s.mu.Unlock()
}

// Close unmounts the session. Pending navigation is cancelled and results of
// requests still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.navTimer != nil {
		s.navTimer.Stop()
		s.navTimer = nil
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Document:          s.doc.Clone(),
		Draft:             s.draft.clone(),
		ViewMode:          s.mode,
		Phase:             s.phase,
		ConfirmDialogOpen: s.confirmOpen,
	}
	if s.notification != nil {
		n := *s.notification
		st.Notification = &n
	}
	return st
}

func (s *Session) edit(apply func(*Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	apply(&s.draft)
	return nil
}

func (s *Session) editableLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseReady && s.phase != PhaseSaving {
		return ErrNotReady
	}
	return nil
}

// beginLocked marks a remote mutation in flight.
func (s *Session) beginLocked() error {
	if s.closed {
		return ErrClosed
	}
	switch s.phase {
	case PhaseSaving:
		return ErrBusy
	case PhaseReady:
	default:
		return ErrNotReady
	}
	s.phase = PhaseSaving
	return nil
}

func (s *Session) notify(message string, severity Severity) {
	s.notification = &Notification{Message: message, Severity: severity}
}

func (s *Session) scheduleNavigationLocked() {
	if s.navTimer != nil {
		s.navTimer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.closed || s.navTimer != timer {
			s.mu.Unlock()
			return
		}
		s.navTimer = nil
		nav := s.nav
		s.mu.Unlock()
		if nav != nil {
			nav.OpenDashboard()
		}
	})
	s.navTimer = timer
}
