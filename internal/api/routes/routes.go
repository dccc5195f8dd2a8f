package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/api/handlers"
	"github.com/transitlabs/metrodocs/internal/api/middleware"
	"github.com/transitlabs/metrodocs/internal/config"
	"github.com/transitlabs/metrodocs/internal/database"
	"github.com/transitlabs/metrodocs/internal/logger"
	"github.com/transitlabs/metrodocs/internal/metrics"
	"github.com/transitlabs/metrodocs/internal/models"
	"github.com/transitlabs/metrodocs/internal/services"
)

// Register wires up API routes, performs automatic migrations, and starts
// the background scheduler.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	notificationService := services.NewNotificationService(cfg.NotifyURLs)
	processingService := services.NewProcessingService(db, cfg.ProcessingDelay, notificationService)
	uploadService := services.NewUploadService(db, processingService)

	authService := services.NewAuthService(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	authHandler.RegisterRoutes(api)

	handlers.NewDocumentHandler(db).RegisterRoutes(api)
	handlers.NewComplianceHandler(db).RegisterRoutes(api)
	handlers.NewAnalyticsHandler(db).RegisterRoutes(api)
	handlers.NewUploadHandler(uploadService, cfg.UploadDir).RegisterRoutes(api)

	// Search attributes logged queries to the caller when a token is present,
	// so it sits behind optional auth rather than the hard middleware.
	searchGroup := api.Group("/")
	searchGroup.Use(optionalAuth(authService))
	handlers.NewSearchHandler(db).RegisterRoutes(searchGroup)

	// Recover jobs stranded by a restart before the scheduler takes over.
	if n, err := processingService.SweepDue(); err != nil {
		logger.Log().WithError(err).Error("startup processing sweep failed")
	} else if n > 0 {
		logger.WithFields(map[string]interface{}{"completed": n}).Info("recovered stranded processing jobs")
	}

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc("*/2 * * * * *", func() {
		if _, err := processingService.SweepDue(); err != nil {
			logger.Log().WithError(err).Error("processing sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule processing sweep: %w", err)
	}
	if _, err := scheduler.AddFunc("0 0 6 * * *", func() {
		notifyDeadlines(db, notificationService)
	}); err != nil {
		return fmt.Errorf("schedule deadline scan: %w", err)
	}
	scheduler.Start()

	return nil
}

// notifyDeadlines pushes a digest of urgent and warning items due in the
// next seven days.
func notifyDeadlines(db *gorm.DB, notifier *services.NotificationService) {
	var items []models.ComplianceItem
	err := db.Where("status IN ? AND due_date <= DATE('now', '+7 days') AND due_date >= DATE('now')",
		[]string{models.ComplianceStatusUrgent, models.ComplianceStatusWarning}).
		Order("due_date ASC").
		Find(&items).Error
	if err != nil {
		logger.Log().WithError(err).Error("deadline scan failed")
		return
	}

	notifier.NotifyDeadlines(items)
}

// optionalAuth resolves the user when a valid token is present but never
// rejects the request.
func optionalAuth(authService *services.AuthService) gin.HandlerFunc {
	hard := middleware.AuthMiddleware(authService)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		hard(c)
	}
}
