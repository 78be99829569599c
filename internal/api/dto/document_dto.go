package dto

import (
	"time"

	"github.com/spec-kit/convodocs/internal/domain"
)

// CreateDocumentRequest payload.
type CreateDocumentRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	TeamID   string   `json:"team_id"`
	AuthorID string   `json:"author_id"`
	Tags     []string `json:"tags"`
}

// UpdateDocumentRequest is a partial update; absent fields stay unchanged.
type UpdateDocumentRequest struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	TeamID  *string   `json:"team_id,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// DocumentResponse is the wire form of a document.
type DocumentResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	TeamID      string                `json:"team_id"`
	AuthorID    string                `json:"author_id"`
	AuthorName  string                `json:"author_name"`
	Tags        []string              `json:"tags"`
	Status      domain.DocumentStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   *time.Time            `json:"updated_at,omitempty"`
	PublishedAt *time.Time            `json:"published_at,omitempty"`
}

// NewDocumentResponse converts a domain document.
func NewDocumentResponse(doc *domain.Document) DocumentResponse {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return DocumentResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		Content:     doc.Content,
		TeamID:      doc.TeamID,
		AuthorID:    doc.AuthorID,
		AuthorName:  doc.AuthorName,
		Tags:        tags,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		PublishedAt: doc.PublishedAt,
	}
}

// ToDomain converts the wire form back into a domain document.
func (r DocumentResponse) ToDomain() domain.Document {
	return domain.Document{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		TeamID:      r.TeamID,
		AuthorID:    r.AuthorID,
		AuthorName:  r.AuthorName,
		Tags:        append([]string(nil), r.Tags...),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		PublishedAt: r.PublishedAt,
	}
}
