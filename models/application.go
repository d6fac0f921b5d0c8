package models

import (
	"time"

	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "APPLIED"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusInterview   ApplicationStatus = "INTERVIEW"
	StatusOffered     ApplicationStatus = "OFFERED"
	StatusHired       ApplicationStatus = "HIRED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// AllStatuses lists every pipeline status in pipeline order.
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusApplied,
		StatusShortlisted,
		StatusInterview,
		StatusOffered,
		StatusHired,
		StatusRejected,
	}
}

// Valid reports whether s is one of the known pipeline statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusInterview, StatusOffered, StatusHired, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected
}

// CanTransitionTo is the pipeline transition table. INTERVIEW -> INTERVIEW is the
// only self edge (interview reschedule).
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case StatusApplied:
		return next == StatusShortlisted || next == StatusRejected
	case StatusShortlisted:
		return next == StatusInterview || next == StatusRejected
	case StatusInterview:
		return next == StatusOffered || next == StatusRejected || next == StatusInterview
	case StatusOffered:
		return next == StatusHired || next == StatusRejected
	default:
		return false
	}
}

type Application struct {
	ID        string            `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	StudentID string            `gorm:"column:student_id;type:varchar(36);not null;uniqueIndex:uniq_application_student_job,priority:1" json:"student_id"`
	JobID     string            `gorm:"column:job_id;type:varchar(36);not null;uniqueIndex:uniq_application_student_job,priority:2;index" json:"job_id"`
	Status    ApplicationStatus `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	Version   int               `gorm:"column:version;not null;default:0" json:"-"`

	// Snapshot taken at apply time, never rescored.
	ResumeURL     string                      `gorm:"column:resume_url" json:"resume_url"`
	ATSScore      int                         `gorm:"column:ats_score" json:"ats_score"`
	MissingSkills datatypes.JSONSlice[string] `gorm:"column:missing_skills" json:"missing_skills"`

	OfferSalary string     `gorm:"column:offer_salary" json:"offer_salary,omitempty"`
	JoiningDate *time.Time `gorm:"column:joining_date" json:"joining_date,omitempty"`
	OfferNote   string     `gorm:"column:offer_note" json:"offer_note,omitempty"`

	InterviewDate        *time.Time `gorm:"column:interview_date" json:"interview_date,omitempty"`
	InterviewLink        string     `gorm:"column:interview_link" json:"interview_link,omitempty"`
	InterviewNote        string     `gorm:"column:interview_note" json:"interview_note,omitempty"`
	IsInterviewConfirmed bool       `gorm:"column:is_interview_confirmed" json:"is_interview_confirmed"`

	RescheduleRequested bool   `gorm:"column:reschedule_requested" json:"reschedule_requested"`
	RescheduleNote      string `gorm:"column:reschedule_note" json:"reschedule_note,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	out := *a
	if a.MissingSkills != nil {
		out.MissingSkills = append(datatypes.JSONSlice[string]{}, a.MissingSkills...)
	}
	if a.JoiningDate != nil {
		d := *a.JoiningDate
		out.JoiningDate = &d
	}
	if a.InterviewDate != nil {
		d := *a.InterviewDate
		out.InterviewDate = &d
	}
	return &out
}
