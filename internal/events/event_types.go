package events

import (
	"time"

	"github.com/spec-kit/convodocs/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDocumentCreated   EventType = "document_created"
	EventDocumentUpdated   EventType = "document_updated"
	EventDocumentPublished EventType = "document_published"
	EventDocumentDeleted   EventType = "document_deleted"
	EventTeamDeleted       EventType = "team_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DocumentCreatedPayload payload.
type DocumentCreatedPayload struct {
	TeamID   string `json:"team_id"`
	AuthorID string `json:"author_id"`
	Title    string `json:"title"`
}

// DocumentUpdatedPayload lists the fields touched by an update.
type DocumentUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// DocumentPublishedPayload payload.
type DocumentPublishedPayload struct {
	TeamID      string                `json:"team_id"`
	Title       string                `json:"title"`
	OldStatus   domain.DocumentStatus `json:"old_status"`
	PublishedAt time.Time             `json:"published_at"`
}

// TeamDeletedPayload payload.
type TeamDeletedPayload struct {
	Name             string `json:"name"`
	MembersRemoved   int    `json:"members_removed"`
	DocumentsRemoved int    `json:"documents_removed"`
}
