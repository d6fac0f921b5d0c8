package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hirehub-api/config"
	"hirehub-api/controllers"
	"hirehub-api/middleware"
	"hirehub-api/routes"
	"hirehub-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile, _ := config.InitLogging()
		if logFile != nil {
			defer logFile.Close()
		}

		logger := config.NewLogger(viper.GetBool("json"), viper.GetBool("debug"))
		defer logger.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, config.Load(), logger)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides SERVER_PORT)")
	serveCmd.Flags().Bool("auto-migrate", false, "run schema migrations before serving")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	if err := viper.BindPFlag("port", serveCmd.Flags().Lookup("port")); err != nil {
		log.Fatalf("binding port flag: %v", err)
	}
	if err := viper.BindPFlag("auto-migrate", serveCmd.Flags().Lookup("auto-migrate")); err != nil {
		log.Fatalf("binding auto-migrate flag: %v", err)
	}

	rootCmd.AddCommand(serveCmd)
}

type stores struct {
	apps          services.ApplicationStore
	notifications services.NotificationStore
	directory     services.Directory
}

func openStores(settings *config.Settings, migrate bool, logger *zap.Logger) (stores, error) {
	if settings.DemoMode {
		mem := services.NewMemoryStore()
		seedDemo(mem, logger)
		return stores{apps: mem, notifications: mem, directory: mem}, nil
	}

	db, err := config.InitDB(settings.Database, settings.Environment)
	if err != nil {
		return stores{}, err
	}
	config.DB = db

	if migrate {
		if err := config.MigrateDatabase(db); err != nil {
			return stores{}, err
		}
		logger.Info("database migrated")
	}

	store := services.NewGormStore(db)
	return stores{apps: store, notifications: store, directory: store}, nil
}

func serve(ctx context.Context, settings *config.Settings, logger *zap.Logger) error {
	if port := viper.GetString("port"); port != "" {
		settings.Port = port
	}
	if settings.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	st, err := openStores(settings, viper.GetBool("auto-migrate"), logger)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}

	pool := services.NewWorkerPool(settings.WorkerCount, settings.WorkerQueue, settings.SideEffectTimeout, logger)
	defer pool.Close()

	presence := services.NewPresenceRegistry()
	hub := services.NewSocketHub(presence, logger)
	notifier := services.NewNotificationService(st.notifications, presence, hub, pool, logger)

	var mailer services.Mailer
	if smtp := config.NewMailer(settings.SMTP, settings.SideEffectTimeout); smtp.Configured() {
		mailer = smtp
	} else {
		logger.Warn("SMTP is not configured, emails are disabled")
	}
	emails := services.NewEmailService(mailer, pool, settings.ClientURL, logger)
	applications := services.NewApplicationService(st.apps, st.directory, notifier, emails, logger)

	var limiter middleware.Limiter = middleware.NewRateLimiter()
	redisClient, err := config.NewRedisClient(ctx, settings.RedisURL)
	switch {
	case err != nil:
		logger.Warn("redis unavailable, using in-process rate limiter", zap.Error(err))
	case redisClient != nil:
		defer redisClient.Close()
		limiter = middleware.NewRedisLimiter(redisClient, logger)
	}

	if settings.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(config.LogWriter))
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(router, routes.Dependencies{
		JWTSecret:       settings.JWTSecret,
		Applications:    controllers.NewApplicationController(applications, logger),
		Notifications:   controllers.NewNotificationController(notifier, logger),
		Sockets:         controllers.NewSocketController(hub, settings.AllowedOrigins, logger),
		ApplyLimiter:    limiter,
		ApplyRateLimit:  settings.ApplyRateLimit,
		ApplyRateWindow: settings.ApplyRateWindow,
	})

	server := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("port", settings.Port),
			zap.String("environment", settings.Environment),
			zap.Bool("demo", settings.DemoMode),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
