package services

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"hirehub-api/models"
	"hirehub-api/utils"

	"go.uber.org/zap"
)

const (
	defaultOfferSalary = "Competitive"
	defaultJoiningDate = "To be discussed"
)

// Mailer sends one HTML message.
type Mailer interface {
	SendMail(ctx context.Context, to []string, subject, html string) error
}

// EmailService renders the hiring emails and sends them in the background.
// Send failures are logged and dropped.
type EmailService struct {
	mailer    Mailer
	tasks     TaskRunner
	clientURL string
	logger    *zap.Logger
}

func NewEmailService(mailer Mailer, tasks TaskRunner, clientURL string, logger *zap.Logger) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailService{
		mailer:    mailer,
		tasks:     tasks,
		clientURL: strings.TrimRight(clientURL, "/"),
		logger:    logger,
	}
}

type emailDetail struct {
	Label string
	Value string
	Link  bool
}

type emailContent struct {
	Title       string
	Accent      string
	Greeting    string
	Paragraphs  []string
	Details     []emailDetail
	ActionLabel string
	ActionPath  string
	SignOff     string
}

func (s *EmailService) ApplicationReceived(ctx context.Context, student models.User, job models.Job) {
	s.send(ctx, "application_received", student.Email,
		fmt.Sprintf("Application Received: %s at %s", job.Title, job.CompanyName),
		emailContent{
			Title:    "Application received",
			Accent:   "#2563eb",
			Greeting: fmt.Sprintf("Hi %s,", student.DisplayName()),
			Paragraphs: []string{
				fmt.Sprintf("Thanks for applying to %s for the position of %s.", job.CompanyName, job.Title),
				"We have received your application and the team is reviewing it.",
			},
			ActionLabel: "Track your application",
			ActionPath:  "/my-applications",
		})
}

func (s *EmailService) Shortlisted(ctx context.Context, student models.User, job models.Job) {
	s.send(ctx, "shortlisted", student.Email,
		fmt.Sprintf("You have been shortlisted for %s", job.Title),
		emailContent{
			Title:    "You're on the shortlist",
			Accent:   "#2563eb",
			Greeting: fmt.Sprintf("Dear %s,", student.DisplayName()),
			Paragraphs: []string{
				fmt.Sprintf("Good news: %s has shortlisted your application for the %s position.", job.CompanyName, job.Title),
				"The recruiter will reach out with interview details soon.",
			},
			ActionLabel: "View application",
			ActionPath:  "/my-applications",
		})
}

func (s *EmailService) InterviewScheduled(ctx context.Context, student models.User, job models.Job, app models.Application, rescheduled bool) {
	subject := fmt.Sprintf("Interview Invitation: %s for %s", job.CompanyName, job.Title)
	intro := fmt.Sprintf("We are pleased to invite you for an interview for the %s position at %s.", job.Title, job.CompanyName)
	if rescheduled {
		subject = fmt.Sprintf("Interview Updated: %s for %s", job.CompanyName, job.Title)
		intro = fmt.Sprintf("Your interview for the %s position at %s has a new schedule.", job.Title, job.CompanyName)
	}

	details := []emailDetail{
		{Label: "Time", Value: interviewTime(app)},
		{Label: "Link", Value: app.InterviewLink, Link: true},
	}
	if note := strings.TrimSpace(app.InterviewNote); note != "" {
		details = append(details, emailDetail{Label: "Note", Value: note})
	}

	s.send(ctx, "interview_scheduled", student.Email, subject, emailContent{
		Title:    "Interview invitation",
		Accent:   "#2563eb",
		Greeting: fmt.Sprintf("Dear %s,", student.DisplayName()),
		Paragraphs: []string{
			intro,
			"Please login to your dashboard to confirm your availability.",
		},
		Details:     details,
		ActionLabel: "Confirm interview",
		ActionPath:  "/my-applications",
		SignOff:     "Best of luck,",
	})
}

func (s *EmailService) Offer(ctx context.Context, student models.User, job models.Job, app models.Application) {
	details := []emailDetail{
		{Label: "Offered salary", Value: OfferSalaryText(app)},
		{Label: "Joining date", Value: JoiningDateText(app)},
	}
	if note := strings.TrimSpace(app.OfferNote); note != "" {
		details = append(details, emailDetail{Label: "Note", Value: note})
	}

	s.send(ctx, "offer", student.Email,
		fmt.Sprintf("Congratulations! Job Offer from %s", job.CompanyName),
		emailContent{
			Title:    "You have an offer",
			Accent:   "#16a34a",
			Greeting: fmt.Sprintf("Dear %s,", student.DisplayName()),
			Paragraphs: []string{
				fmt.Sprintf("%s has extended a job offer for the position of %s.", job.CompanyName, job.Title),
				"Please login to your dashboard to accept or reject this offer.",
			},
			Details:     details,
			ActionLabel: "View offer",
			ActionPath:  "/my-applications",
			SignOff:     "Congratulations again,",
		})
}

func (s *EmailService) Rejection(ctx context.Context, student models.User, job models.Job) {
	s.send(ctx, "rejection", student.Email,
		fmt.Sprintf("Update on your application for %s", job.Title),
		emailContent{
			Title:    "Application update",
			Accent:   "#6b7280",
			Greeting: fmt.Sprintf("Dear %s,", student.DisplayName()),
			Paragraphs: []string{
				fmt.Sprintf("Thank you for giving us the opportunity to consider your application for the %s position at %s.", job.Title, job.CompanyName),
				"After careful review, we have decided to move forward with other candidates who more closely match our current requirements.",
				"We appreciate your interest and wish you the best in your job search.",
			},
			SignOff: fmt.Sprintf("Sincerely,\n%s Hiring Team", job.CompanyName),
		})
}

func (s *EmailService) OfferResponse(ctx context.Context, recruiter, student models.User, job models.Job, accepted bool) {
	subject := fmt.Sprintf("Offer Rejected by %s", student.DisplayName())
	accent := "#dc2626"
	verb := "REJECTED"
	if accepted {
		subject = fmt.Sprintf("Offer Accepted! %s is joining your team", student.DisplayName())
		accent = "#16a34a"
		verb = "ACCEPTED"
	}

	s.send(ctx, "offer_response", recruiter.Email, subject, emailContent{
		Title:    "Offer response",
		Accent:   accent,
		Greeting: fmt.Sprintf("Hello %s,", recruiter.DisplayName()),
		Paragraphs: []string{
			fmt.Sprintf("%s has %s your job offer for the position of %s.", student.DisplayName(), verb, job.Title),
		},
		ActionLabel: "View application",
		ActionPath:  "/recruiter-dashboard",
	})
}

func (s *EmailService) RescheduleRequested(ctx context.Context, recruiter, student models.User, job models.Job, note string) {
	s.send(ctx, "reschedule_requested", recruiter.Email,
		fmt.Sprintf("Reschedule Requested: %s for %s", student.DisplayName(), job.Title),
		emailContent{
			Title:    "Reschedule requested",
			Accent:   "#ea580c",
			Greeting: fmt.Sprintf("Hello %s,", recruiter.DisplayName()),
			Paragraphs: []string{
				fmt.Sprintf("Candidate %s has requested to reschedule their interview for the %s position.", student.DisplayName(), job.Title),
				"Please login to your dashboard to update the interview time.",
			},
			Details:     []emailDetail{{Label: "Reason", Value: note}},
			ActionLabel: "Go to dashboard",
			ActionPath:  "/recruiter-dashboard",
		})
}

func (s *EmailService) InterviewConfirmed(ctx context.Context, recruiter, student models.User, job models.Job, app models.Application) {
	s.send(ctx, "interview_confirmed", recruiter.Email,
		fmt.Sprintf("Interview Confirmed: %s for %s", student.DisplayName(), job.Title),
		emailContent{
			Title:    "Interview confirmed",
			Accent:   "#16a34a",
			Greeting: fmt.Sprintf("Hello %s,", recruiter.DisplayName()),
			Paragraphs: []string{
				fmt.Sprintf("%s confirmed the interview for the %s position.", student.DisplayName(), job.Title),
			},
			Details:     []emailDetail{{Label: "Time", Value: interviewTime(app)}},
			ActionLabel: "Go to dashboard",
			ActionPath:  "/recruiter-dashboard",
		})
}

func (s *EmailService) send(ctx context.Context, kind, to, subject string, content emailContent) {
	log := s.logger.With(zap.String("email", kind))
	to = strings.TrimSpace(to)
	if to == "" || !utils.ValidateEmail(to) {
		log.Warn("skipping email, recipient has no usable address", zap.String("to", to))
		return
	}
	if s.mailer == nil {
		log.Debug("skipping email, mailer not configured")
		return
	}

	html := s.render(subject, content)
	deliver := func(taskCtx context.Context) {
		if err := s.mailer.SendMail(taskCtx, []string{to}, subject, html); err != nil {
			log.Warn("email send failed", zap.String("subject", subject), zap.String("to", to), zap.Error(err))
		}
	}
	if s.tasks == nil {
		deliver(ctx)
		return
	}
	s.tasks.Submit(ctx, "email_"+kind, deliver)
}

func (s *EmailService) render(subject string, content emailContent) string {
	var b strings.Builder
	esc := template.HTMLEscapeString

	accent := content.Accent
	if accent == "" {
		accent = "#2563eb"
	}

	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <h2 style="margin:0 0 16px 0;color:%s;">%s</h2>
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
`, esc(subject), accent, esc(content.Title), esc(content.Greeting))

	for _, p := range content.Paragraphs {
		fmt.Fprintf(&b, "    <p style=\"margin:0 0 12px 0;font-size:16px;line-height:1.7;color:#111827;\">%s</p>\n", multiline(p))
	}

	if len(content.Details) > 0 {
		b.WriteString("    <div style=\"background-color:#f3f4f6;padding:15px;border-radius:8px;margin:20px 0;\">\n")
		for _, d := range content.Details {
			value := multiline(d.Value)
			if d.Link && utils.ValidateLink(d.Value) {
				value = fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, esc(d.Value), esc(d.Value))
			}
			fmt.Fprintf(&b, "      <p style=\"margin:0 0 8px 0;\"><strong>%s:</strong> %s</p>\n", esc(d.Label), value)
		}
		b.WriteString("    </div>\n")
	}

	if content.ActionLabel != "" && s.clientURL != "" {
		fmt.Fprintf(&b, "    <p style=\"margin:20px 0;\"><a href=\"%s\" style=\"background-color:%s;color:#ffffff;padding:10px 20px;text-decoration:none;border-radius:5px;\">%s</a></p>\n",
			esc(s.clientURL+content.ActionPath), accent, esc(content.ActionLabel))
	}

	signOff := content.SignOff
	if signOff == "" {
		signOff = "Best regards,"
	}
	if !strings.Contains(signOff, "\n") {
		signOff += "\nThe HireHub Team"
	}
	fmt.Fprintf(&b, "    <p style=\"margin:16px 0 0 0;font-size:16px;line-height:1.7;color:#111827;\">%s</p>\n", multiline(signOff))
	b.WriteString("  </div>\n</div>\n</body>\n</html>")
	return b.String()
}

func multiline(s string) string {
	escaped := template.HTMLEscapeString(strings.TrimSpace(s))
	escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\r", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br />")
}

func interviewTime(app models.Application) string {
	if app.InterviewDate == nil {
		return "To be announced"
	}
	return utils.FormatDisplayTime(*app.InterviewDate)
}

// OfferSalaryText is the salary as shown to people; the stored field may be empty.
func OfferSalaryText(app models.Application) string {
	if s := strings.TrimSpace(app.OfferSalary); s != "" {
		return s
	}
	return defaultOfferSalary
}

func JoiningDateText(app models.Application) string {
	if app.JoiningDate == nil {
		return defaultJoiningDate
	}
	return utils.FormatDisplayDate(*app.JoiningDate)
}
