package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hirehub-api/controllers"
	"hirehub-api/middleware"
	"hirehub-api/models"
	"hirehub-api/services"

	"github.com/gin-gonic/gin"
)

const testSecret = "routes-secret"

type apiFixture struct {
	router    *gin.Engine
	student   string
	recruiter string
	outsider  string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewMemoryStore()
	store.PutUser(models.User{ID: "rec-1", FirstName: "Rita", Email: "rita@acme.test", Role: models.RoleRecruiter})
	store.PutUser(models.User{ID: "rec-2", FirstName: "Otto", Role: models.RoleRecruiter})
	store.PutUser(models.User{ID: "stu-1", FirstName: "Sam", Role: models.RoleStudent, ResumeURL: "https://files.test/sam.pdf", ResumeText: "Next.js and Node.js"})
	store.PutJob(models.Job{ID: "job-1", RecruiterID: "rec-1", Title: "Frontend", CompanyName: "Acme", Requirements: []string{"NextJS", "Docker"}, IsOpen: true})

	presence := services.NewPresenceRegistry()
	hub := services.NewSocketHub(presence, nil)
	notifier := services.NewNotificationService(store, presence, hub, nil, nil)
	apps := services.NewApplicationService(store, store, notifier, nil, nil)

	router := gin.New()
	SetupRoutes(router, Dependencies{
		JWTSecret:       testSecret,
		Applications:    controllers.NewApplicationController(apps, nil),
		Notifications:   controllers.NewNotificationController(notifier, nil),
		Sockets:         controllers.NewSocketController(hub, nil, nil),
		ApplyLimiter:    middleware.NewRateLimiter(),
		ApplyRateLimit:  10,
		ApplyRateWindow: time.Minute,
	})

	token := func(id string, role models.Role) string {
		tok, err := middleware.IssueToken(testSecret, id, role, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		return tok
	}
	return &apiFixture{
		router:    router,
		student:   token("stu-1", models.RoleStudent),
		recruiter: token("rec-1", models.RoleRecruiter),
		outsider:  token("rec-2", models.RoleRecruiter),
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func (f *apiFixture) apply(t *testing.T) string {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/v1/applications", f.student, gin.H{"job_id": "job-1"})
	if code != http.StatusCreated {
		t.Fatalf("apply: expected 201, got %d %v", code, body)
	}
	app := body["application"].(map[string]interface{})
	return app["id"].(string)
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	code, body := f.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response %d %v", code, body)
	}
	if body["sockets"] != float64(0) || body["online_users"] != float64(0) {
		t.Fatalf("expected socket counters in health, got %v", body)
	}
}

func TestApplyFlow(t *testing.T) {
	f := newAPIFixture(t)

	code, body := f.do(t, http.MethodPost, "/api/v1/applications", f.student, gin.H{"job_id": "job-1"})
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	app := body["application"].(map[string]interface{})
	if app["ats_score"].(float64) != 50 {
		t.Fatalf("expected ats score 50, got %v", app["ats_score"])
	}

	code, body = f.do(t, http.MethodPost, "/api/v1/applications", f.student, gin.H{"job_id": "job-1"})
	if code != http.StatusConflict || body["error"] != "already_applied" {
		t.Fatalf("expected 409 already_applied, got %d %v", code, body)
	}

	code, _ = f.do(t, http.MethodPost, "/api/v1/applications", f.recruiter, gin.H{"job_id": "job-1"})
	if code != http.StatusForbidden {
		t.Fatalf("expected recruiter apply to be forbidden, got %d", code)
	}

	code, body = f.do(t, http.MethodGet, "/api/v1/applications/history", f.student, nil)
	if code != http.StatusOK || len(body["items"].([]interface{})) != 1 {
		t.Fatalf("expected one history item, got %d %v", code, body)
	}

	code, body = f.do(t, http.MethodGet, "/api/v1/notifications/counter", f.recruiter, nil)
	if code != http.StatusOK || body["unread"].(float64) != 1 {
		t.Fatalf("expected recruiter to have one unread notification, got %d %v", code, body)
	}
}

func TestStatusEndpointErrors(t *testing.T) {
	f := newAPIFixture(t)
	id := f.apply(t)
	path := "/api/v1/applications/" + id + "/status"

	cases := []struct {
		name  string
		token string
		body  gin.H
		code  int
		error string
	}{
		{"hired is forbidden", f.recruiter, gin.H{"status": "HIRED"}, http.StatusBadRequest, "forbidden_transition"},
		{"skip ahead", f.recruiter, gin.H{"status": "OFFERED"}, http.StatusBadRequest, "invalid_transition"},
		{"same status", f.recruiter, gin.H{"status": "applied"}, http.StatusBadRequest, "duplicate_status"},
		{"unknown status", f.recruiter, gin.H{"status": "promoted"}, http.StatusBadRequest, "validation_error"},
		{"bad date", f.recruiter, gin.H{"status": "SHORTLISTED", "date": "soon"}, http.StatusBadRequest, "validation_error"},
		{"other recruiter", f.outsider, gin.H{"status": "SHORTLISTED"}, http.StatusForbidden, "unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := f.do(t, http.MethodPatch, path, tc.token, tc.body)
			if code != tc.code || body["error"] != tc.error {
				t.Fatalf("expected %d %s, got %d %v", tc.code, tc.error, code, body)
			}
		})
	}

	code, body := f.do(t, http.MethodPatch, "/api/v1/applications/missing/status", f.recruiter, gin.H{"status": "SHORTLISTED"})
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %v", code, body)
	}

	code, _ = f.do(t, http.MethodPatch, path, f.student, gin.H{"status": "SHORTLISTED"})
	if code != http.StatusForbidden {
		t.Fatalf("expected students to be kept off the status endpoint, got %d", code)
	}
}

func TestPipelineToHire(t *testing.T) {
	f := newAPIFixture(t)
	id := f.apply(t)
	base := "/api/v1/applications/" + id

	steps := []gin.H{
		{"status": "SHORTLISTED"},
		{"status": "INTERVIEW"},
	}
	code, body := f.do(t, http.MethodPatch, base+"/status", f.recruiter, steps[0])
	if code != http.StatusOK {
		t.Fatalf("shortlist: %d %v", code, body)
	}
	code, body = f.do(t, http.MethodPatch, base+"/status", f.recruiter, steps[1])
	if code != http.StatusBadRequest || body["error"] != "validation_error" {
		t.Fatalf("expected interview without schedule to fail, got %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPatch, base+"/status", f.recruiter, gin.H{
		"status":        "INTERVIEW",
		"interviewDate": "2026-03-10T10:00:00Z",
		"interviewLink": "https://meet.test/room",
	})
	if code != http.StatusOK {
		t.Fatalf("interview: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPatch, base+"/response", f.student, gin.H{"action": "ACCEPT"})
	if code != http.StatusBadRequest || body["error"] != "action_failed" {
		t.Fatalf("expected respond before offer to fail, got %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPatch, base+"/reschedule", f.student, gin.H{"note": "exam clash"})
	if code != http.StatusOK {
		t.Fatalf("reschedule: %d %v", code, body)
	}
	updated := body["updatedApp"].(map[string]interface{})
	if updated["status"] != "INTERVIEW" || updated["reschedule_requested"] != true {
		t.Fatalf("unexpected reschedule result %v", updated)
	}

	code, body = f.do(t, http.MethodPatch, base+"/confirm", f.student, nil)
	if code != http.StatusBadRequest || body["error"] != "action_failed" {
		t.Fatalf("expected confirm during pending reschedule to fail, got %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPatch, base+"/status", f.recruiter, gin.H{"status": "OFFERED", "salary": "12 LPA", "date": "2026-05-01"})
	if code != http.StatusOK {
		t.Fatalf("offer: %d %v", code, body)
	}

	code, body = f.do(t, http.MethodPatch, base+"/response", f.student, gin.H{"action": "accept"})
	if code != http.StatusOK || body["message"] != "Offer Accepted Successfully!" {
		t.Fatalf("accept: %d %v", code, body)
	}
	if body["updatedApp"].(map[string]interface{})["status"] != "HIRED" {
		t.Fatalf("expected HIRED, got %v", body["updatedApp"])
	}

	code, body = f.do(t, http.MethodGet, "/api/v1/notifications?limit=2", f.student, nil)
	if code != http.StatusOK || len(body["items"].([]interface{})) != 2 {
		t.Fatalf("expected a page of 2 notifications, got %d %v", code, body)
	}
	code, body = f.do(t, http.MethodPut, "/api/v1/notifications/read-all", f.student, nil)
	if code != http.StatusOK || body["updated"].(float64) != 3 {
		t.Fatalf("expected 3 notifications marked read, got %d %v", code, body)
	}
}

func TestWebsocketRequiresAuth(t *testing.T) {
	f := newAPIFixture(t)
	code, _ := f.do(t, http.MethodGet, "/api/v1/ws", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
