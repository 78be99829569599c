package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/events"
	"github.com/spec-kit/convodocs/internal/repository"
	apperrors "github.com/spec-kit/convodocs/pkg/util/errorutil"
)

// DocumentService coordinates document workflows.
type DocumentService struct {
	documents  repository.DocumentRepository
	teams      repository.TeamRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// DocumentDependencies bundles collaborators for the document service.
type DocumentDependencies struct {
	DocumentRepo repository.DocumentRepository
	TeamRepo     repository.TeamRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// DocumentCreateInput describes document creation payload.
type DocumentCreateInput struct {
	Title    string
	Content  string
	TeamID   string
	AuthorID string
	Tags     []string
}

// DocumentUpdateInput carries a partial update; nil fields are left untouched.
type DocumentUpdateInput struct {
	Title   *string
	Content *string
	TeamID  *string
	Tags    *[]string
}

// NewDocumentService constructs the service.
func NewDocumentService(deps DocumentDependencies) *DocumentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = systemClock
	}
	return &DocumentService{
		documents:  deps.DocumentRepo,
		teams:      deps.TeamRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreateDocument stores a new draft. The team must exist and the author must be a team member.
func (s *DocumentService) CreateDocument(ctx context.Context, input DocumentCreateInput) (*domain.Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if err := s.ensureTeam(ctx, input.TeamID); err != nil {
		return nil, err
	}
	author, err := s.teams.GetMember(ctx, input.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("author", map[string]any{"author_id": input.AuthorID})
		}
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    input.Content,
		TeamID:     input.TeamID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Tags:       domain.NormalizeTags(input.Tags),
		Status:     domain.DocumentStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("document created", zap.String("document_id", doc.ID), zap.String("team_id", doc.TeamID))
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:     events.EventDocumentCreated,
		EntityID: doc.ID,
		Payload: events.DocumentCreatedPayload{
			TeamID:   doc.TeamID,
			AuthorID: doc.AuthorID,
			Title:    doc.Title,
		},
	})
	return doc, nil
}

// ListDocuments returns documents in creation order, optionally filtered.
func (s *DocumentService) ListDocuments(ctx context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *filter.Status})
	}
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return docs, nil
}

// GetDocument fetches a document by id.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapDocumentErr(err, id)
	}
	return doc, nil
}

// UpdateDocument applies the editable fields of input. Status, author and id never change here.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, input DocumentUpdateInput) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapDocumentErr(err, id)
	}

	var fields []string
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title required", nil)
		}
		doc.Title = title
		fields = append(fields, "title")
	}
	if input.Content != nil {
		doc.Content = *input.Content
		fields = append(fields, "content")
	}
	if input.TeamID != nil && *input.TeamID != doc.TeamID {
		if err := s.ensureTeam(ctx, *input.TeamID); err != nil {
			return nil, err
		}
		doc.TeamID = *input.TeamID
		fields = append(fields, "team_id")
	}
	if input.Tags != nil {
		doc.Tags = domain.NormalizeTags(*input.Tags)
		fields = append(fields, "tags")
	}

	now := s.now()
	doc.UpdatedAt = &now
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, s.mapDocumentErr(err, id)
	}
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:     events.EventDocumentUpdated,
		EntityID: doc.ID,
		Payload:  events.DocumentUpdatedPayload{Fields: fields},
	})
	return doc, nil
}

// PublishDocument transitions a draft to Published. Publishing twice is a conflict.
func (s *DocumentService) PublishDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapDocumentErr(err, id)
	}
	oldStatus := doc.Status
	now := s.now()
	if !doc.Publish(now) {
		return nil, apperrors.NewConflict("document is already published", map[string]any{"document_id": id})
	}
	doc.UpdatedAt = &now
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, s.mapDocumentErr(err, id)
	}
	s.logger.Info("document published", zap.String("document_id", doc.ID))
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:     events.EventDocumentPublished,
		EntityID: doc.ID,
		Payload: events.DocumentPublishedPayload{
			TeamID:      doc.TeamID,
			Title:       doc.Title,
			OldStatus:   oldStatus,
			PublishedAt: now,
		},
	})
	return doc, nil
}

// DeleteDocument removes a document.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.documents.Delete(ctx, id); err != nil {
		return s.mapDocumentErr(err, id)
	}
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:     events.EventDocumentDeleted,
		EntityID: id,
	})
	return nil
}

func (s *DocumentService) ensureTeam(ctx context.Context, teamID string) error {
	if strings.TrimSpace(teamID) == "" {
		return apperrors.NewValidationError("team_id required", nil)
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *DocumentService) mapDocumentErr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("document", map[string]any{"document_id": id})
	}
	return apperrors.MapError(err)
}
