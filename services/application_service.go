package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hirehub-api/models"
	"hirehub-api/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier records a notification for a user. It must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, recipientID, message string, kind models.NotificationType, applicationID *string) *models.Notification
}

type OfferAction string

const (
	OfferAccept OfferAction = "ACCEPT"
	OfferReject OfferAction = "REJECT"
)

// ParseOfferAction accepts ACCEPT or REJECT in any case.
func ParseOfferAction(raw string) (OfferAction, bool) {
	switch OfferAction(strings.ToUpper(strings.TrimSpace(raw))) {
	case OfferAccept:
		return OfferAccept, true
	case OfferReject:
		return OfferReject, true
	default:
		return "", false
	}
}

// TransitionInput is a recruiter's status change. Offer fields are read when
// moving to OFFERED, interview fields when moving to INTERVIEW.
type TransitionInput struct {
	Status        models.ApplicationStatus
	Salary        string
	JoiningDate   *time.Time
	Note          string
	InterviewDate *time.Time
	InterviewLink string
	// ActorID, when set, must be the recruiter who owns the job.
	ActorID string
}

type ApplyInput struct {
	StudentID string
	JobID     string
	// A one-off resume for this application; the profile resume is used when empty.
	ResumeURL  string
	ResumeText string
}

// ApplicationService owns the hiring pipeline of an application.
type ApplicationService struct {
	apps      ApplicationStore
	directory Directory
	notifier  Notifier
	emails    *EmailService
	logger    *zap.Logger
}

func NewApplicationService(apps ApplicationStore, directory Directory, notifier Notifier, emails *EmailService, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		apps:      apps,
		directory: directory,
		notifier:  notifier,
		emails:    emails,
		logger:    logger,
	}
}

// Transition moves an application to in.Status. Checks run in this order:
// existence, job ownership, HIRED (never set directly), same status, the
// transition table, then the payload the target status needs.
func (s *ApplicationService) Transition(ctx context.Context, applicationID string, in TransitionInput) (*models.Application, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	var job models.Job
	if in.ActorID != "" {
		owned, err := s.directory.GetJob(ctx, app.JobID)
		if err != nil {
			return nil, err
		}
		if owned.RecruiterID != in.ActorID {
			return nil, fmt.Errorf("%w: job %s belongs to another recruiter", ErrUnauthorized, owned.ID)
		}
		job = *owned
	} else {
		job = s.jobOrPlaceholder(ctx, app)
	}

	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.Status == models.StatusHired {
		return nil, fmt.Errorf("%w: HIRED is set only when the student accepts an offer", ErrForbiddenTransition)
	}
	if in.Status == app.Status && in.Status != models.StatusInterview {
		return nil, fmt.Errorf("%w: application is already %s", ErrDuplicateStatus, app.Status)
	}
	if !app.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, app.Status, in.Status)
	}

	prev := app.Status
	updated := app.Clone()
	updated.Status = in.Status

	switch in.Status {
	case models.StatusInterview:
		link := strings.TrimSpace(in.InterviewLink)
		if in.InterviewDate == nil || link == "" {
			return nil, fmt.Errorf("%w: interviewDate and interviewLink are required", ErrValidation)
		}
		if !utils.ValidateLink(link) {
			return nil, fmt.Errorf("%w: interviewLink must be an http(s) URL", ErrValidation)
		}
		date := in.InterviewDate.UTC()
		updated.InterviewDate = &date
		updated.InterviewLink = link
		updated.InterviewNote = strings.TrimSpace(in.Note)
		// A new slot needs a new confirmation and answers any reschedule request.
		updated.IsInterviewConfirmed = false
		updated.RescheduleRequested = false
		updated.RescheduleNote = ""
	case models.StatusOffered:
		updated.OfferSalary = strings.TrimSpace(in.Salary)
		if in.JoiningDate != nil {
			date := in.JoiningDate.UTC()
			updated.JoiningDate = &date
		} else {
			updated.JoiningDate = nil
		}
		updated.OfferNote = strings.TrimSpace(in.Note)
	}

	if err := s.save(ctx, updated, app); err != nil {
		return nil, err
	}

	s.logger.Info("application status changed",
		zap.String("application_id", updated.ID),
		zap.String("from", string(prev)),
		zap.String("status", string(updated.Status)),
	)
	s.announceTransition(ctx, *updated, job, prev)
	return updated, nil
}

// RespondToOffer lets the owning student accept (HIRED) or reject an offer.
func (s *ApplicationService) RespondToOffer(ctx context.Context, applicationID, studentID string, rawAction string) (*models.Application, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != studentID {
		return nil, fmt.Errorf("%w: application %s", ErrUnauthorized, applicationID)
	}
	if app.Status != models.StatusOffered {
		return nil, fmt.Errorf("%w: no pending offer (status %s)", ErrActionFailed, app.Status)
	}
	action, ok := ParseOfferAction(rawAction)
	if !ok {
		return nil, fmt.Errorf("%w: action must be ACCEPT or REJECT", ErrValidation)
	}

	updated := app.Clone()
	updated.Status = models.StatusRejected
	if action == OfferAccept {
		updated.Status = models.StatusHired
	}
	if err := s.save(ctx, updated, app); err != nil {
		return nil, err
	}

	s.logger.Info("offer answered",
		zap.String("application_id", updated.ID),
		zap.String("action", string(action)),
		zap.String("status", string(updated.Status)),
	)

	job := s.jobOrPlaceholder(ctx, updated)
	student := s.userOrPlaceholder(ctx, updated.StudentID)
	accepted := action == OfferAccept

	msg := fmt.Sprintf("%s declined your offer for %s.", student.DisplayName(), job.Title)
	kind := models.NotificationWarning
	if accepted {
		msg = fmt.Sprintf("%s accepted your offer for %s.", student.DisplayName(), job.Title)
		kind = models.NotificationSuccess
	}
	s.notify(ctx, job.RecruiterID, msg, kind, updated.ID)

	if recruiter, ok := s.user(ctx, job.RecruiterID); ok && s.emails != nil {
		s.emails.OfferResponse(ctx, *recruiter, student, job, accepted)
	}
	return updated, nil
}

// RequestReschedule flags an interview for rescheduling. The status stays
// INTERVIEW; the recruiter clears the flag by scheduling a new slot.
func (s *ApplicationService) RequestReschedule(ctx context.Context, applicationID, studentID, note string) (*models.Application, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != studentID {
		return nil, fmt.Errorf("%w: application %s", ErrUnauthorized, applicationID)
	}
	if app.Status != models.StatusInterview {
		return nil, fmt.Errorf("%w: only a scheduled interview can be rescheduled (status %s)", ErrActionFailed, app.Status)
	}
	note = utils.SanitizeInput(note)
	if note == "" {
		return nil, fmt.Errorf("%w: a note explaining the request is required", ErrValidation)
	}

	updated := app.Clone()
	updated.RescheduleRequested = true
	updated.RescheduleNote = note
	updated.IsInterviewConfirmed = false
	if err := s.save(ctx, updated, app); err != nil {
		return nil, err
	}

	job := s.jobOrPlaceholder(ctx, updated)
	student := s.userOrPlaceholder(ctx, updated.StudentID)
	s.notify(ctx, job.RecruiterID,
		fmt.Sprintf("%s requested to reschedule the interview for %s: %s", student.DisplayName(), job.Title, note),
		models.NotificationWarning, updated.ID)

	if recruiter, ok := s.user(ctx, job.RecruiterID); ok && s.emails != nil {
		s.emails.RescheduleRequested(ctx, *recruiter, student, job, note)
	}
	return updated, nil
}

// ConfirmInterview records that the student will attend the scheduled slot.
func (s *ApplicationService) ConfirmInterview(ctx context.Context, applicationID, studentID string) (*models.Application, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != studentID {
		return nil, fmt.Errorf("%w: application %s", ErrUnauthorized, applicationID)
	}
	if app.Status != models.StatusInterview {
		return nil, fmt.Errorf("%w: no interview scheduled (status %s)", ErrActionFailed, app.Status)
	}
	if app.RescheduleRequested {
		return nil, fmt.Errorf("%w: waiting for the recruiter to reschedule", ErrActionFailed)
	}
	if app.IsInterviewConfirmed {
		return app, nil
	}

	updated := app.Clone()
	updated.IsInterviewConfirmed = true
	if err := s.save(ctx, updated, app); err != nil {
		return nil, err
	}

	job := s.jobOrPlaceholder(ctx, updated)
	student := s.userOrPlaceholder(ctx, updated.StudentID)
	s.notify(ctx, job.RecruiterID,
		fmt.Sprintf("%s confirmed the interview for %s on %s.", student.DisplayName(), job.Title, interviewTime(*updated)),
		models.NotificationSuccess, updated.ID)

	if recruiter, ok := s.user(ctx, job.RecruiterID); ok && s.emails != nil {
		s.emails.InterviewConfirmed(ctx, *recruiter, student, job, *updated)
	}
	return updated, nil
}

// Apply creates an APPLIED application. The ATS score and missing skills are
// computed here once and never recomputed.
func (s *ApplicationService) Apply(ctx context.Context, in ApplyInput) (*models.Application, error) {
	if strings.TrimSpace(in.JobID) == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrValidation)
	}
	job, err := s.directory.GetJob(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen {
		return nil, fmt.Errorf("%w: job %s is closed", ErrActionFailed, job.ID)
	}
	student, err := s.directory.GetUser(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, fmt.Errorf("%w: only students can apply", ErrUnauthorized)
	}

	// Text sent without a file is scored against the profile resume file.
	resumeURL := strings.TrimSpace(in.ResumeURL)
	resumeText := in.ResumeText
	if resumeURL == "" {
		resumeURL = strings.TrimSpace(student.ResumeURL)
		if strings.TrimSpace(resumeText) == "" {
			resumeText = student.ResumeText
		}
	}
	if resumeURL == "" {
		return nil, fmt.Errorf("%w: upload a resume to your profile or attach one to apply", ErrValidation)
	}

	score, missing := ScoreResume(resumeText, job.Requirements)
	app := &models.Application{
		ID:            uuid.NewString(),
		StudentID:     student.ID,
		JobID:         job.ID,
		Status:        models.StatusApplied,
		ResumeURL:     resumeURL,
		ATSScore:      score,
		MissingSkills: missing,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application created",
		zap.String("application_id", app.ID),
		zap.String("job_id", job.ID),
		zap.Int("ats_score", score),
	)

	s.notify(ctx, job.RecruiterID,
		fmt.Sprintf("New application from %s for %s (ATS score %d%%).", student.DisplayName(), job.Title, score),
		models.NotificationInfo, app.ID)
	if s.emails != nil {
		s.emails.ApplicationReceived(ctx, *student, *job)
	}
	return app, nil
}

// Get returns an application to its student or to the recruiter of its job.
func (s *ApplicationService) Get(ctx context.Context, applicationID, actorID string) (*models.Application, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID == actorID {
		return app, nil
	}
	job, err := s.directory.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != actorID {
		return nil, fmt.Errorf("%w: application %s", ErrUnauthorized, applicationID)
	}
	return app, nil
}

func (s *ApplicationService) ListForStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	return s.apps.ListByStudent(ctx, studentID)
}

func (s *ApplicationService) ListForJob(ctx context.Context, jobID, recruiterID string) ([]models.Application, error) {
	job, err := s.directory.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != recruiterID {
		return nil, fmt.Errorf("%w: job %s belongs to another recruiter", ErrUnauthorized, jobID)
	}
	return s.apps.ListByJob(ctx, jobID)
}

// save writes updated only if the row still matches what was read as prev.
func (s *ApplicationService) save(ctx context.Context, updated, prev *models.Application) error {
	err := s.apps.UpdateIfCurrent(ctx, updated, prev.Status, prev.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrStaleState) {
		s.logger.Error("failed to save application",
			zap.String("application_id", prev.ID),
			zap.String("status", string(updated.Status)),
			zap.Error(err),
		)
		return err
	}

	current, getErr := s.apps.Get(ctx, prev.ID)
	if getErr != nil {
		return err
	}
	s.logger.Warn("lost concurrent update",
		zap.String("application_id", prev.ID),
		zap.String("read_status", string(prev.Status)),
		zap.String("current_status", string(current.Status)),
	)
	return fmt.Errorf("%w: application is now %s", ErrStaleState, current.Status)
}

func (s *ApplicationService) announceTransition(ctx context.Context, app models.Application, job models.Job, prev models.ApplicationStatus) {
	var (
		msg  string
		kind models.NotificationType
	)
	switch app.Status {
	case models.StatusShortlisted:
		msg = fmt.Sprintf("Good news! You have been shortlisted for %s at %s.", job.Title, job.CompanyName)
		kind = models.NotificationSuccess
	case models.StatusInterview:
		if prev == models.StatusInterview {
			msg = fmt.Sprintf("Your interview for %s at %s was rescheduled to %s.", job.Title, job.CompanyName, interviewTime(app))
		} else {
			msg = fmt.Sprintf("Interview scheduled for %s at %s on %s.", job.Title, job.CompanyName, interviewTime(app))
		}
		kind = models.NotificationInfo
	case models.StatusOffered:
		msg = fmt.Sprintf("Congratulations! %s offered you the %s position (salary: %s).", job.CompanyName, job.Title, OfferSalaryText(app))
		kind = models.NotificationSuccess
	case models.StatusRejected:
		msg = fmt.Sprintf("Your application for %s at %s was not selected.", job.Title, job.CompanyName)
		kind = models.NotificationError
	default:
		msg = fmt.Sprintf("Your application for %s is now %s.", job.Title, app.Status)
		kind = models.NotificationInfo
	}
	s.notify(ctx, app.StudentID, msg, kind, app.ID)

	if s.emails == nil {
		return
	}
	student, ok := s.user(ctx, app.StudentID)
	if !ok {
		return
	}
	switch app.Status {
	case models.StatusShortlisted:
		s.emails.Shortlisted(ctx, *student, job)
	case models.StatusInterview:
		s.emails.InterviewScheduled(ctx, *student, job, app, prev == models.StatusInterview)
	case models.StatusOffered:
		s.emails.Offer(ctx, *student, job, app)
	case models.StatusRejected:
		s.emails.Rejection(ctx, *student, job)
	}
}

func (s *ApplicationService) notify(ctx context.Context, recipientID, msg string, kind models.NotificationType, applicationID string) {
	if s.notifier == nil || recipientID == "" {
		return
	}
	id := applicationID
	s.notifier.Notify(ctx, recipientID, msg, kind, &id)
}

// jobOrPlaceholder loads the application's job for messaging. A failed lookup
// is logged and replaced by a placeholder without a recruiter.
func (s *ApplicationService) jobOrPlaceholder(ctx context.Context, app *models.Application) models.Job {
	job, err := s.directory.GetJob(ctx, app.JobID)
	if err != nil {
		s.logger.Warn("job lookup failed", zap.String("application_id", app.ID), zap.String("job_id", app.JobID), zap.Error(err))
		return models.Job{ID: app.JobID, Title: "the position"}
	}
	return *job
}

func (s *ApplicationService) user(ctx context.Context, id string) (*models.User, bool) {
	if id == "" {
		return nil, false
	}
	u, err := s.directory.GetUser(ctx, id)
	if err != nil {
		s.logger.Warn("user lookup failed", zap.String("user_id", id), zap.Error(err))
		return nil, false
	}
	return u, true
}

func (s *ApplicationService) userOrPlaceholder(ctx context.Context, id string) models.User {
	if u, ok := s.user(ctx, id); ok {
		return *u
	}
	return models.User{ID: id, FirstName: "A candidate"}
}
