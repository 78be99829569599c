package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/repository"
	"github.com/spec-kit/convodocs/internal/service"
	apperrors "github.com/spec-kit/convodocs/pkg/util/errorutil"
)

// DocumentsHandler serves the document endpoints.
type DocumentsHandler struct {
	service *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documentService *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{service: documentService}
}

// ListDocuments GET /documents.
func (h *DocumentsHandler) ListDocuments(c *fiber.Ctx) error {
	var filter repository.DocumentFilter
	if teamID := strings.TrimSpace(c.Query("team_id")); teamID != "" {
		filter.TeamID = &teamID
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.DocumentStatus(raw)
		filter.Status = &status
	}
	docs, err := h.service.ListDocuments(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		items = append(items, dto.NewDocumentResponse(&docs[i]))
	}
	return c.JSON(items)
}

// GetDocument GET /documents/:id.
func (h *DocumentsHandler) GetDocument(c *fiber.Ctx) error {
	doc, err := h.service.GetDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}

// CreateDocument POST /documents.
func (h *DocumentsHandler) CreateDocument(c *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || req.TeamID == "" || req.AuthorID == "" {
		return apperrors.NewValidationError("title, team_id, author_id required", nil)
	}
	doc, err := h.service.CreateDocument(c.UserContext(), service.DocumentCreateInput{
		Title:    req.Title,
		Content:  req.Content,
		TeamID:   req.TeamID,
		AuthorID: req.AuthorID,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewDocumentResponse(doc))
}

// UpdateDocument PUT /documents/:id.
func (h *DocumentsHandler) UpdateDocument(c *fiber.Ctx) error {
	var req dto.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	doc, err := h.service.UpdateDocument(c.UserContext(), c.Params("id"), service.DocumentUpdateInput{
		Title:   req.Title,
		Content: req.Content,
		TeamID:  req.TeamID,
		Tags:    req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}

// DeleteDocument DELETE /documents/:id.
func (h *DocumentsHandler) DeleteDocument(c *fiber.Ctx) error {
	if err := h.service.DeleteDocument(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// PublishDocument POST /documents/:id/publish.
func (h *DocumentsHandler) PublishDocument(c *fiber.Ctx) error {
	doc, err := h.service.PublishDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDocumentResponse(doc))
}
