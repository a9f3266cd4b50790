// internal/infra/httpapi/report_handlers.go
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quiz_backend/internal/app"
	idb "quiz_backend/internal/infra/database"
)

// ReportHandlers exposes the report operations over REST. Generation is
// fire-and-forget from the HTTP client's point of view: the endpoints
// return immediately and clients poll GET /reports/:id for the outcome.
type ReportHandlers struct {
	reportService app.ReportService
	logger        logrus.FieldLogger
}

func NewReportHandlers(reportService app.ReportService, logger logrus.FieldLogger) *ReportHandlers {
	return &ReportHandlers{reportService: reportService, logger: logger}
}

// Create persists a new PENDING report and immediately launches its
// generation, returning the id to poll.
func (h *ReportHandlers) Create(c *gin.Context) {
	id, err := h.reportService.CreateReport(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to create report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create report"})
		return
	}

	// The handle is deliberately abandoned; the work runs to a terminal
	// status regardless and is observable via polling.
	_ = h.reportService.GenerateReportAsync(c.Request.Context(), id)

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Generate re-launches generation for an existing report.
func (h *ReportHandlers) Generate(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	if _, err := h.reportService.FindByID(c.Request.Context(), id); err != nil {
		h.renderLookupError(c, id, err)
		return
	}

	_ = h.reportService.GenerateReportAsync(c.Request.Context(), id)
	c.JSON(http.StatusAccepted, gin.H{"id": id})
}

func (h *ReportHandlers) GetByID(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	resp, err := h.reportService.FindByID(c.Request.Context(), id)
	if err != nil {
		h.renderLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandlers) GetAll(c *gin.Context) {
	responses, err := h.reportService.FindAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reports"})
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ReportHandlers) reportID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return 0, false
	}
	return id, true
}

func (h *ReportHandlers) renderLookupError(c *gin.Context, id int64, err error) {
	if errors.Is(err, idb.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	h.logger.Errorf("Failed to load report id=%d: %v", id, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load report"})
}
