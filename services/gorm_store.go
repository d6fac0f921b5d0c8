package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hirehub-api/models"

	"gorm.io/gorm"
)

// GormStore implements the stores on top of gorm. Open the DB with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &user, nil
}

func (s *GormStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, notFoundOr(err, "job", id)
	}
	return &job, nil
}

func (s *GormStore) Create(ctx context.Context, app *models.Application) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: job %s", ErrAlreadyApplied, app.JobID)
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, notFoundOr(err, "application", id)
	}
	return &app, nil
}

func (s *GormStore) UpdateIfCurrent(ctx context.Context, app *models.Application, expectedStatus models.ApplicationStatus, expectedVersion int) error {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ? AND version = ?", app.ID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":                 app.Status,
			"version":                expectedVersion + 1,
			"offer_salary":           app.OfferSalary,
			"joining_date":           app.JoiningDate,
			"offer_note":             app.OfferNote,
			"interview_date":         app.InterviewDate,
			"interview_link":         app.InterviewLink,
			"interview_note":         app.InterviewNote,
			"is_interview_confirmed": app.IsInterviewConfirmed,
			"reschedule_requested":   app.RescheduleRequested,
			"reschedule_note":        app.RescheduleNote,
			"updated_at":             now,
		})
	if result.Error != nil {
		return fmt.Errorf("update application %s: %w", app.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: application %s", ErrStaleState, app.ID)
	}

	app.Version = expectedVersion + 1
	app.UpdatedAt = now
	return nil
}

func (s *GormStore) ListByStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	var apps []models.Application
	if err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications for student %s: %w", studentID, err)
	}
	return apps, nil
}

func (s *GormStore) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var apps []models.Application
	if err := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("ats_score DESC, created_at ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications for job %s: %w", jobID, err)
	}
	return apps, nil
}

func (s *GormStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *GormStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var items []models.Notification
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *GormStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (s *GormStore) MarkRead(ctx context.Context, id, userID string) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("mark notification read: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows for an already-read notification.
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check notification: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return fmt.Errorf("load %s %s: %w", kind, id, err)
}
