package repository

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/domain"
)

const documentCachePrefix = "convodocs:document:"

type cachedDocumentRepository struct {
	next   DocumentRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDocumentRepository wraps next with a redis read-through cache for GetByID.
// Cache failures are logged and fall through to next.
func NewCachedDocumentRepository(next DocumentRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) DocumentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedDocumentRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *cachedDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return r.next.Create(ctx, doc)
}

func (r *cachedDocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	if err := r.next.Update(ctx, doc); err != nil {
		return err
	}
	r.invalidate(ctx, doc.ID)
	return nil
}

func (r *cachedDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	raw, err := r.client.Get(ctx, documentCachePrefix+id).Bytes()
	switch {
	case err == nil:
		var doc domain.Document
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr == nil {
			return &doc, nil
		}
		r.invalidate(ctx, id)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("document cache read failed", zap.String("document_id", id), zap.Error(err))
	}

	doc, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, jsonErr := json.Marshal(doc); jsonErr == nil {
		if setErr := r.client.Set(ctx, documentCachePrefix+id, payload, r.ttl).Err(); setErr != nil {
			r.logger.Warn("document cache write failed", zap.String("document_id", id), zap.Error(setErr))
		}
	}
	return doc, nil
}

func (r *cachedDocumentRepository) List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error) {
	return r.next.List(ctx, filter)
}

func (r *cachedDocumentRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedDocumentRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, documentCachePrefix+id).Err(); err != nil {
		r.logger.Warn("document cache invalidation failed", zap.String("document_id", id), zap.Error(err))
	}
}
