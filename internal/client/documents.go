package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
)

const resourceDocument = "document"

// DocumentQuery filters a document listing. Nil fields are unconstrained.
type DocumentQuery struct {
	TeamID *string
	Status *domain.DocumentStatus
}

// DocumentsClient exposes the /documents resource.
type DocumentsClient struct {
	c *Client
}

// List GET /documents/.
func (d *DocumentsClient) List(ctx context.Context, q DocumentQuery) ([]domain.Document, error) {
	values := url.Values{}
	if q.TeamID != nil {
		values.Set("team_id", *q.TeamID)
	}
	if q.Status != nil {
		values.Set("status", string(*q.Status))
	}
	path := "/documents/"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	var out []dto.DocumentResponse
	if err := d.c.do(ctx, resourceDocument, "list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(out))
	for _, r := range out {
		docs = append(docs, r.ToDomain())
	}
	return docs, nil
}

// Get GET /documents/:id.
func (d *DocumentsClient) Get(ctx context.Context, id string) (*domain.Document, error) {
	return d.one(ctx, "get", http.MethodGet, "/documents/"+url.PathEscape(id), nil)
}

// Create POST /documents/.
func (d *DocumentsClient) Create(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error) {
	return d.one(ctx, "create", http.MethodPost, "/documents/", req)
}

// Update PUT /documents/:id with a partial payload.
func (d *DocumentsClient) Update(ctx context.Context, id string, req dto.UpdateDocumentRequest) (*domain.Document, error) {
	return d.one(ctx, "update", http.MethodPut, "/documents/"+url.PathEscape(id), req)
}

// Delete DELETE /documents/:id.
func (d *DocumentsClient) Delete(ctx context.Context, id string) error {
	return d.c.do(ctx, resourceDocument, "delete", http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil)
}

// Publish POST /documents/:id/publish.
func (d *DocumentsClient) Publish(ctx context.Context, id string) (*domain.Document, error) {
	return d.one(ctx, "publish", http.MethodPost, "/documents/"+url.PathEscape(id)+"/publish", nil)
}

func (d *DocumentsClient) one(ctx context.Context, action, method, path string, body any) (*domain.Document, error) {
	var out dto.DocumentResponse
	if err := d.c.do(ctx, resourceDocument, action, method, path, body, &out); err != nil {
		return nil, err
	}
	doc := out.ToDomain()
	return &doc, nil
}
