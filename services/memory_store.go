package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hirehub-api/models"
)

// MemoryStore keeps everything in process memory. It backs DEMO_MODE and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	applications  map[string]*models.Application
	notifications []*models.Notification
	users         map[string]*models.User
	jobs          map[string]*models.Job
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applications: make(map[string]*models.Application),
		users:        make(map[string]*models.User),
		jobs:         make(map[string]*models.Job),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) PutUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = &u
}

func (m *MemoryStore) PutJob(j models.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = &j
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	out := *u
	return &out, nil
}

func (m *MemoryStore) GetJob(_ context.Context, id string) (*models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	out := *j
	out.Requirements = append(out.Requirements[:0:0], j.Requirements...)
	return &out, nil
}

func (m *MemoryStore) Create(_ context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.applications[app.ID]; exists {
		return fmt.Errorf("%w: application %s", ErrAlreadyApplied, app.ID)
	}
	for _, existing := range m.applications {
		if existing.StudentID == app.StudentID && existing.JobID == app.JobID {
			return fmt.Errorf("%w: job %s", ErrAlreadyApplied, app.JobID)
		}
	}
	now := m.now()
	app.CreatedAt = now
	app.UpdatedAt = now
	m.applications[app.ID] = app.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.applications[id]
	if !ok {
		return nil, fmt.Errorf("%w: application %s", ErrNotFound, id)
	}
	return app.Clone(), nil
}

func (m *MemoryStore) UpdateIfCurrent(_ context.Context, app *models.Application, expectedStatus models.ApplicationStatus, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.applications[app.ID]
	if !ok {
		return fmt.Errorf("%w: application %s", ErrNotFound, app.ID)
	}
	if current.Status != expectedStatus || current.Version != expectedVersion {
		return fmt.Errorf("%w: application %s", ErrStaleState, app.ID)
	}

	app.Version = expectedVersion + 1
	app.UpdatedAt = m.now()
	app.CreatedAt = current.CreatedAt
	m.applications[app.ID] = app.Clone()
	return nil
}

func (m *MemoryStore) ListByStudent(_ context.Context, studentID string) ([]models.Application, error) {
	return m.listApplications(func(a *models.Application) bool { return a.StudentID == studentID }), nil
}

// ListByJob ranks applicants by ATS score, earliest first on ties.
func (m *MemoryStore) ListByJob(_ context.Context, jobID string) ([]models.Application, error) {
	out := m.listApplications(func(a *models.Application) bool { return a.JobID == jobID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ATSScore != out[j].ATSScore {
			return out[i].ATSScore > out[j].ATSScore
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) listApplications(match func(*models.Application) bool) []models.Application {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Application, 0)
	for _, app := range m.applications {
		if match(app) {
			out = append(out, *app.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryStore) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.now()
	}
	stored := *n
	m.notifications = append(m.notifications, &stored)
	return nil
}

func (m *MemoryStore) ListNotifications(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Notification, 0)
	// Newest first: walk the append-only slice backwards.
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.RecipientID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, *n)
	}
	if offset >= len(out) {
		return []models.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CountUnread(_ context.Context, userID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, n := range m.notifications {
		if n.RecipientID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) MarkRead(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.RecipientID == userID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", ErrNotFound, id)
}

func (m *MemoryStore) MarkAllRead(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for _, n := range m.notifications {
		if n.RecipientID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}
