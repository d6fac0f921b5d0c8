package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hirehub-api/middleware"
	"hirehub-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	svc    *services.NotificationService
	logger *zap.Logger
}

func NewNotificationController(svc *services.NotificationService, logger *zap.Logger) *NotificationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationController{svc: svc, logger: logger}
}

// GET /api/v1/notifications?unreadOnly=&limit=&offset=
func (h *NotificationController) List(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	offset, _ := strconv.Atoi(strings.TrimSpace(c.Query("offset")))

	items, err := h.svc.List(c.Request.Context(), uid,
		unreadOnly == "1" || strings.EqualFold(unreadOnly, "true"),
		limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /api/v1/notifications/counter
func (h *NotificationController) Counter(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	n, err := h.svc.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// PUT /api/v1/notifications/:id/read
func (h *NotificationController) MarkRead(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), uid); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PUT /api/v1/notifications/read-all
func (h *NotificationController) MarkAllRead(c *gin.Context) {
	uid, _ := middleware.CurrentUserID(c)

	updated, err := h.svc.MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": updated})
}
