package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "suppliermail-backend/internal/auth/delivery"
	emailDelivery "suppliermail-backend/internal/email/delivery"
	extractionDelivery "suppliermail-backend/internal/extraction/delivery"
	importingDelivery "suppliermail-backend/internal/importing/delivery"
	matchingDelivery "suppliermail-backend/internal/matching/delivery"
	"suppliermail-backend/pkg/config"
)

// Handlers groups the delivery layer for route setup.
type Handlers struct {
	Email      *emailDelivery.EmailHandler
	Extraction *extractionDelivery.ExtractionHandler
	Match      *matchingDelivery.MatchHandler
	Import     *importingDelivery.ImportHandler
}

// SetupRoutes wires the import pipeline API.
func SetupRoutes(r *gin.Engine, cfg *config.Config, h Handlers) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		protected := api.Group("")
		protected.Use(authDelivery.AuthMiddleware(cfg.JWTSecret))
		{
			emails := protected.Group("/emails")
			{
				emails.POST("/sync", h.Email.SyncEmails)
				emails.GET("", h.Email.ListEmails)
				emails.GET("/:id", h.Email.GetEmail)

				emails.POST("/:id/extraction", h.Extraction.TriggerExtraction)
				emails.GET("/:id/extraction", h.Extraction.GetExtractionStatus)
				emails.GET("/:id/extraction/result", h.Extraction.GetExtractionResult)
				emails.GET("/:id/extraction/matches", h.Match.GetMatches)
			}

			imports := protected.Group("/imports")
			{
				imports.GET("/check", h.Import.CheckDuplicate)
				imports.POST("", h.Import.ImportEmail)
			}
		}
	}
}
