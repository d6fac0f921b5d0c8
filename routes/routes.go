package routes

import (
	"net/http"
	"time"

	"hirehub-api/controllers"
	"hirehub-api/middleware"
	"hirehub-api/models"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	JWTSecret     string
	Applications  *controllers.ApplicationController
	Notifications *controllers.NotificationController
	Sockets       *controllers.SocketController

	ApplyLimiter    middleware.Limiter
	ApplyRateLimit  int
	ApplyRateWindow time.Duration
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			health := gin.H{
				"status":  "ok",
				"message": "HireHub API is running",
			}
			if deps.Sockets != nil {
				health["sockets"], health["online_users"] = deps.Sockets.Stats()
			}
			c.JSON(http.StatusOK, health)
		})

		// Realtime notifications; token may come as ?token=
		v1.GET("/ws", middleware.SocketAuthMiddleware(deps.JWTSecret), deps.Sockets.Connect)

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTSecret))
		{
			student := middleware.RequireRole(models.RoleStudent)
			recruiter := middleware.RequireRole(models.RoleRecruiter)

			applications := protected.Group("/applications")
			{
				applications.POST("", student,
					middleware.RateLimit(deps.ApplyLimiter, middleware.UserKey("apply"), deps.ApplyRateLimit, deps.ApplyRateWindow),
					deps.Applications.Apply)
				applications.GET("/history", student, deps.Applications.History)
				applications.GET("/job/:jobId", recruiter, deps.Applications.ListForJob)
				applications.GET("/:id", deps.Applications.Get)

				// Recruiter drives the pipeline
				applications.PATCH("/:id/status", recruiter, deps.Applications.UpdateStatus)

				// Student actions
				applications.PATCH("/:id/response", student, deps.Applications.RespondToOffer)
				applications.PATCH("/:id/reschedule", student, deps.Applications.RequestReschedule)
				applications.PATCH("/:id/confirm", student, deps.Applications.ConfirmInterview)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", deps.Notifications.List)
				notifications.GET("/counter", deps.Notifications.Counter)
				notifications.PUT("/read-all", deps.Notifications.MarkAllRead)
				notifications.PUT("/:id/read", deps.Notifications.MarkRead)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found", "error": "not_found"})
	})
}
