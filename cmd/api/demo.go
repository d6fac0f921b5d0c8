package main

import (
	"hirehub-api/models"
	"hirehub-api/services"

	"go.uber.org/zap"
)

const (
	demoRecruiterID = "demo-recruiter"
	demoStudentID   = "demo-student"
	demoJobID       = "demo-job"
)

func seedDemo(store *services.MemoryStore, logger *zap.Logger) {
	store.PutUser(models.User{
		ID:        demoRecruiterID,
		FirstName: "Riley",
		LastName:  "Recruiter",
		Email:     "recruiter@hirehub.dev",
		Role:      models.RoleRecruiter,
	})
	store.PutUser(models.User{
		ID:         demoStudentID,
		FirstName:  "Sam",
		LastName:   "Student",
		Email:      "student@hirehub.dev",
		Role:       models.RoleStudent,
		ResumeURL:  "https://hirehub.dev/resumes/demo-student.pdf",
		ResumeText: "Backend developer. Go, PostgreSQL, Docker and a little React.",
	})
	store.PutJob(models.Job{
		ID:           demoJobID,
		RecruiterID:  demoRecruiterID,
		Title:        "Junior Backend Engineer",
		CompanyName:  "HireHub Demo Co",
		Location:     "Remote",
		Requirements: []string{"Go", "PostgreSQL", "Docker", "Kubernetes"},
		IsOpen:       true,
	})

	logger.Info("demo mode: seeded in-memory store",
		zap.String("recruiter", demoRecruiterID),
		zap.String("student", demoStudentID),
		zap.String("job", demoJobID),
	)
}
