package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"hirehub-api/models"
)

type pushCall struct {
	sessionID string
	event     string
	payload   interface{}
}

type recordingPusher struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (p *recordingPusher) Push(_ context.Context, sessionID, event string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{sessionID: sessionID, event: event, payload: payload})
	return p.err
}

func (p *recordingPusher) Calls() []pushCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushCall(nil), p.calls...)
}

type sentMail struct {
	to      []string
	subject string
	html    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendMail(_ context.Context, to []string, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: html})
	return m.err
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type failingNotificationStore struct {
	NotificationStore
}

func (failingNotificationStore) CreateNotification(context.Context, *models.Notification) error {
	return errors.New("database is down")
}

const (
	testRecruiterID = "rec-1"
	testStudentID   = "stu-1"
	testJobID       = "job-1"
)

type testEnv struct {
	store    *MemoryStore
	presence *PresenceRegistry
	pusher   *recordingPusher
	mailer   *recordingMailer
	notifier *NotificationService
	emails   *EmailService
	svc      *ApplicationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := NewMemoryStore()
	store.PutUser(models.User{ID: testRecruiterID, FirstName: "Rita", LastName: "Recruiter", Email: "rita@acme.test", Role: models.RoleRecruiter})
	store.PutUser(models.User{ID: "rec-2", FirstName: "Other", Email: "other@acme.test", Role: models.RoleRecruiter})
	store.PutUser(models.User{
		ID:         testStudentID,
		FirstName:  "Sam",
		LastName:   "Student",
		Email:      "sam@uni.test",
		Role:       models.RoleStudent,
		ResumeURL:  "https://files.test/sam.pdf",
		ResumeText: "Go developer who ships Node.js services",
	})
	store.PutUser(models.User{ID: "stu-2", FirstName: "Nora", Email: "nora@uni.test", Role: models.RoleStudent})
	store.PutJob(models.Job{
		ID:           testJobID,
		RecruiterID:  testRecruiterID,
		Title:        "Backend Engineer",
		CompanyName:  "Acme",
		Requirements: []string{"Go", "Docker"},
		IsOpen:       true,
	})

	env := &testEnv{
		store:    store,
		presence: NewPresenceRegistry(),
		pusher:   &recordingPusher{},
		mailer:   &recordingMailer{},
	}
	env.notifier = NewNotificationService(store, env.presence, env.pusher, nil, nil)
	env.emails = NewEmailService(env.mailer, nil, "http://localhost:5173", nil)
	env.svc = NewApplicationService(store, store, env.notifier, env.emails, nil)
	return env
}

var seedCounter struct {
	mu sync.Mutex
	n  int
}

// seed stores an application for the test student in the given status.
func (e *testEnv) seed(t *testing.T, status models.ApplicationStatus, mutate ...func(*models.Application)) *models.Application {
	t.Helper()
	seedCounter.mu.Lock()
	seedCounter.n++
	n := seedCounter.n
	seedCounter.mu.Unlock()

	jobID := fmt.Sprintf("job-seed-%d", n)
	e.store.PutJob(models.Job{ID: jobID, RecruiterID: testRecruiterID, Title: "Backend Engineer", CompanyName: "Acme", IsOpen: true})

	app := &models.Application{
		ID:        fmt.Sprintf("app-%d", n),
		StudentID: testStudentID,
		JobID:     jobID,
		Status:    status,
		ResumeURL: "https://files.test/sam.pdf",
	}
	if status == models.StatusInterview {
		when := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		app.InterviewDate = &when
		app.InterviewLink = "https://meet.test/abc"
	}
	for _, fn := range mutate {
		fn(app)
	}
	if err := e.store.Create(context.Background(), app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}

func (e *testEnv) notificationsFor(t *testing.T, userID string) []models.Notification {
	t.Helper()
	items, err := e.store.ListNotifications(context.Background(), userID, false, 0, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return items
}

func interviewInput() TransitionInput {
	when := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	return TransitionInput{
		Status:        models.StatusInterview,
		InterviewDate: &when,
		InterviewLink: "https://meet.test/new",
		Note:          "Bring a laptop",
	}
}
