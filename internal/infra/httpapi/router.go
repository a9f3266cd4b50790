// internal/infra/httpapi/router.go
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quiz_backend/internal/app"
)

// NewRouter wires the report endpoints and a db-backed liveness check.
func NewRouter(reportService app.ReportService, db *sql.DB, logger logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	handlers := NewReportHandlers(reportService, logger)

	router.POST("/reports", handlers.Create)
	router.POST("/reports/:id/generate", handlers.Generate)
	router.GET("/reports/:id", handlers.GetByID)
	router.GET("/reports", handlers.GetAll)

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
