package services

import (
	"context"

	"hirehub-api/models"
)

// ApplicationStore persists applications. Writes are conditional on the status
// and version the caller read.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	// UpdateIfCurrent writes app only if the stored row still has
	// expectedStatus and expectedVersion, then bumps app.Version. A lost race
	// returns ErrStaleState.
	UpdateIfCurrent(ctx context.Context, app *models.Application, expectedStatus models.ApplicationStatus, expectedVersion int) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// Directory reads users and jobs owned by the profile and job services.
type Directory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
}
