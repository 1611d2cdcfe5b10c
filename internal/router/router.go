// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/javajoker/asset-audit/internal/config"
	"github.com/javajoker/asset-audit/internal/handlers"
	"github.com/javajoker/asset-audit/internal/middleware"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/store"
)

const Version = "1.0.0"

func Initialize(st store.Store, storage services.PhotoStorage, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(st)
	assetService := services.NewAssetService(st, auditService)
	franchiseService := services.NewFranchiseService(st)
	reportService := services.NewReportService(st)

	// Initialize handlers
	franchiseHandler := handlers.NewFranchiseHandler(franchiseService, reportService)
	assetHandler := handlers.NewAssetHandler(assetService, auditService, reportService)
	verificationHandler := handlers.NewVerificationHandler(auditService)
	auditHandler := handlers.NewAuditHandler(auditService, reportService)
	auditEntryHandler := handlers.NewAuditEntryHandler(auditService)
	uploadHandler := handlers.NewUploadHandler(storage, cfg.Upload.MaxSize)

	generalLimiter := middleware.NewRateLimiter(middleware.PerSecond(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	uploadLimiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimit.UploadsPerMinute), 5)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": Version,
			"store":   cfg.Store.Driver,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(generalLimiter.Middleware())
	{
		api.GET("/franchises", franchiseHandler.ListFranchises)

		franchise := api.Group("/franchise")
		{
			franchise.GET("/:id", franchiseHandler.GetFranchise)
			franchise.GET("/:id/labels", franchiseHandler.LabelSheet)
		}

		assets := api.Group("/assets")
		{
			assets.GET("/franchise/:id", assetHandler.ListByFranchise)
			assets.POST("", assetHandler.CreateAsset)
			assets.GET("/:id", assetHandler.GetAsset)
			assets.PATCH("/:id", assetHandler.UpdateAsset)
			assets.DELETE("/:id", assetHandler.DeleteAsset)
			assets.GET("/:id/qr", assetHandler.QRCode)
			assets.GET("/:id/entries", assetHandler.Entries)

			verify := assets.Group("/:id/verify")
			{
				verify.POST("/qr", verificationHandler.VerifyQR)
				verify.POST("/manual", verificationHandler.VerifyManual)
				verify.POST("/status", verificationHandler.VerifyStatus)
			}
		}

		api.GET("/audit/franchise/:id", auditHandler.CurrentAudit)

		audits := api.Group("/audits")
		{
			audits.POST("", auditHandler.StartAudit)
			audits.PATCH("/:id", auditHandler.UpdateAudit)
			audits.GET("/:id/entries", auditHandler.Entries)
			audits.GET("/:id/report", auditHandler.Report)
		}

		api.POST("/audit-entries", auditEntryHandler.CreateEntry)
		api.POST("/upload", uploadLimiter.Middleware(), uploadHandler.UploadPhoto)
	}

	// Local photo storage is served from disk
	if cfg.AWS.AccessKeyID == "" && cfg.Upload.Dir != "" {
		r.Static("/uploads", cfg.Upload.Dir)
	}

	return r
}
