package editor

import (
	"errors"

	"github.com/spec-kit/convodocs/internal/domain"
)

// Phase is the lifecycle position of an editor session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSaving
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSaving:
		return "saving"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ViewMode selects between the raw text editor and the rendered preview.
type ViewMode int

const (
	ViewEdit ViewMode = iota
	ViewPreview
)

func (m ViewMode) String() string {
	if m == ViewPreview {
		return "preview"
	}
	return "edit"
}

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is the single user-facing message slot.
type Notification struct {
	Message  string
	Severity Severity
}

const (
	MsgLoadFailed    = "Failed to load document"
	MsgSaved         = "Document saved successfully"
	MsgSaveFailed    = "Failed to save document"
	MsgPublished     = "Document published successfully"
	MsgPublishFailed = "Failed to publish document"
)

var (
	ErrBusy             = errors.New("editor: save or publish already in flight")
	ErrNotReady         = errors.New("editor: document not ready")
	ErrNoDocument       = errors.New("editor: document has not been created yet")
	ErrAlreadyPublished = errors.New("editor: document already published")
	ErrConfirmNotOpen   = errors.New("editor: publish was not requested")
	ErrClosed           = errors.New("editor: session closed")
)

// Draft holds the editable fields. It diverges from the committed document until saved.
type Draft struct {
	Title   string
	Content string
	TeamID  string
	Tags    []string
}

func (d Draft) clone() Draft {
	d.Tags = append([]string(nil), d.Tags...)
	return d
}

func draftFrom(doc *domain.Document) Draft {
	return Draft{
		Title:   doc.Title,
		Content: doc.Content,
		TeamID:  doc.TeamID,
		Tags:    append([]string(nil), doc.Tags...),
	}
}

// State is a point-in-time copy of a session, safe to hold after the session changes.
type State struct {
	Document          *domain.Document
	Draft             Draft
	ViewMode          ViewMode
	Phase             Phase
	ConfirmDialogOpen bool
	Notification      *Notification
}

// Busy reports whether a save or publish is in flight.
func (s State) Busy() bool { return s.Phase == PhaseSaving }

// Dirty reports whether the draft differs from the committed document.
func (s State) Dirty() bool {
	if s.Document == nil {
		return s.Draft.Title != "" || s.Draft.Content != "" || len(s.Draft.Tags) > 0
	}
	committed := draftFrom(s.Document)
	if committed.Title != s.Draft.Title || committed.Content != s.Draft.Content || committed.TeamID != s.Draft.TeamID {
		return true
	}
	if len(committed.Tags) != len(s.Draft.Tags) {
		return true
	}
	for i := range committed.Tags {
		if committed.Tags[i] != s.Draft.Tags[i] {
			return true
		}
	}
	return false
}
