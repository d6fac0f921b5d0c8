package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hirehub-api/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationService persists notifications and pushes them to online users.
type NotificationService struct {
	store    NotificationStore
	presence *PresenceRegistry
	pusher   Pusher
	tasks    TaskRunner
	logger   *zap.Logger
}

func NewNotificationService(store NotificationStore, presence *PresenceRegistry, pusher Pusher, tasks TaskRunner, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		store:    store,
		presence: presence,
		pusher:   pusher,
		tasks:    tasks,
		logger:   logger,
	}
}

// Notify stores one notification for recipientID and, if they are online,
// queues a realtime push. It never fails the caller: a storage error is logged
// and nil is returned.
func (s *NotificationService) Notify(ctx context.Context, recipientID, message string, kind models.NotificationType, applicationID *string) *models.Notification {
	log := s.logger.With(zap.String("recipient_id", recipientID), zap.String("type", string(kind)))
	if !kind.Valid() {
		kind = models.NotificationInfo
	}

	n := &models.Notification{
		ID:            uuid.NewString(),
		RecipientID:   recipientID,
		Message:       strings.TrimSpace(message),
		Type:          kind,
		ApplicationID: applicationID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		log.Error("failed to save notification", zap.Error(err))
		return nil
	}

	if s.presence == nil || s.pusher == nil {
		return n
	}
	sessionID, online := s.presence.Lookup(recipientID)
	if !online {
		return n
	}

	payload := *n
	push := func(taskCtx context.Context) {
		if err := s.pusher.Push(taskCtx, sessionID, EventReceiveNotification, payload); err != nil {
			log.Warn("realtime push failed",
				zap.String("session_id", sessionID),
				zap.String("notification_id", payload.ID),
				zap.Error(err),
			)
		}
	}
	if s.tasks == nil {
		push(ctx)
		return n
	}
	s.tasks.Submit(ctx, "notification_push", push)
	return n
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	switch {
	case limit <= 0:
		limit = defaultNotificationLimit
	case limit > maxNotificationLimit:
		limit = maxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead marks one of userID's notifications read. Someone else's
// notification reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: notification id is required", ErrValidation)
	}
	return s.store.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
