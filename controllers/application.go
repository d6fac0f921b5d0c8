package controllers

import (
	"net/http"
	"strings"
	"time"

	"hirehub-api/middleware"
	"hirehub-api/services"
	"hirehub-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApplicationController struct {
	svc    *services.ApplicationService
	logger *zap.Logger
}

func NewApplicationController(svc *services.ApplicationService, logger *zap.Logger) *ApplicationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationController{svc: svc, logger: logger}
}

/* ==========================
   Request payloads
   ========================== */

type applyReq struct {
	JobID      string `json:"job_id" binding:"required"`
	ResumeURL  string `json:"resume_url"`
	ResumeText string `json:"resume_text"`
}

type statusReq struct {
	Status        string `json:"status" binding:"required"`
	Salary        string `json:"salary"`
	Date          string `json:"date"`
	Note          string `json:"note"`
	InterviewDate string `json:"interviewDate"`
	InterviewLink string `json:"interviewLink"`
}

type offerResponseReq struct {
	Action string `json:"action" binding:"required"`
}

type rescheduleReq struct {
	Note string `json:"note"`
}

/* ==========================
   Student
   ========================== */

// POST /api/v1/applications
func (h *ApplicationController) Apply(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": "unauthenticated"})
		return
	}

	var req applyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Job ID is required")
		return
	}
	if req.ResumeURL != "" && !utils.ValidateLink(req.ResumeURL) {
		badRequest(c, "resume_url must be an http(s) URL")
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), services.ApplyInput{
		StudentID:  uid,
		JobID:      strings.TrimSpace(req.JobID),
		ResumeURL:  req.ResumeURL,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Applied successfully! Good luck!", "application": app})
}

// GET /api/v1/applications/history
func (h *ApplicationController) History(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	apps, err := h.svc.ListForStudent(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": apps})
}

// PATCH /api/v1/applications/:id/response
func (h *ApplicationController) RespondToOffer(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	var req offerResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid Action. Use ACCEPT or REJECT.")
		return
	}

	app, err := h.svc.RespondToOffer(c.Request.Context(), c.Param("id"), uid, req.Action)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	verb := "Rejected"
	if action, _ := services.ParseOfferAction(req.Action); action == services.OfferAccept {
		verb = "Accepted"
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer " + verb + " Successfully!", "updatedApp": app})
}

// PATCH /api/v1/applications/:id/reschedule
func (h *ApplicationController) RequestReschedule(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	var req rescheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	app, err := h.svc.RequestReschedule(c.Request.Context(), c.Param("id"), uid, req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reschedule request sent to the recruiter", "updatedApp": app})
}

// PATCH /api/v1/applications/:id/confirm
func (h *ApplicationController) ConfirmInterview(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	app, err := h.svc.ConfirmInterview(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Interview confirmed", "updatedApp": app})
}

/* ==========================
   Recruiter
   ========================== */

// GET /api/v1/applications/job/:jobId
func (h *ApplicationController) ListForJob(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	apps, err := h.svc.ListForJob(c.Request.Context(), c.Param("jobId"), uid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": apps})
}

// PATCH /api/v1/applications/:id/status
func (h *ApplicationController) UpdateStatus(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	status, ok := utils.ParseApplicationStatus(req.Status)
	if !ok {
		badRequest(c, "unknown status: "+req.Status)
		return
	}

	in := services.TransitionInput{
		Status:        status,
		Salary:        req.Salary,
		Note:          req.Note,
		InterviewLink: req.InterviewLink,
		ActorID:       uid,
	}
	var err error
	if in.JoiningDate, err = optionalTime(req.Date); err != nil {
		badRequest(c, "date: "+err.Error())
		return
	}
	if in.InterviewDate, err = optionalTime(req.InterviewDate); err != nil {
		badRequest(c, "interviewDate: "+err.Error())
		return
	}

	app, err := h.svc.Transition(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated!", "updatedApp": app})
}

/* ==========================
   Shared
   ========================== */

// GET /api/v1/applications/:id
func (h *ApplicationController) Get(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)
	app, err := h.svc.Get(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func optionalTime(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := utils.ParseClientTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
