package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/config"
	"github.com/spec-kit/convodocs/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDocumentCreated, n.handleDocumentCreated)
	n.dispatcher.Subscribe(events.EventDocumentUpdated, n.handleDocumentUpdated)
	n.dispatcher.Subscribe(events.EventDocumentPublished, n.handleDocumentPublished)
	n.dispatcher.Subscribe(events.EventDocumentDeleted, n.handleDocumentDeleted)
	n.dispatcher.Subscribe(events.EventTeamDeleted, n.handleTeamDeleted)
}

func (n *NotificationService) handleDocumentCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("DocumentCreated", zap.String("document_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDocumentUpdated(_ context.Context, event events.Event) error {
	n.logger.Debug("DocumentUpdated", zap.String("document_id", event.EntityID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleDocumentPublished(ctx context.Context, event events.Event) error {
	n.logger.Info("DocumentPublished", zap.String("document_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDocumentDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("DocumentDeleted", zap.String("document_id", event.EntityID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTeamDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TeamDeleted", zap.String("team_id", event.EntityID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}
