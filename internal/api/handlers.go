package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/deep4kk/MERN-STACK-FMS/internal/auth"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportSource generates MIS reports from raw query values
type ReportSource interface {
	GenerateReportFromParams(ctx context.Context, yearStr, monthStr string) (*models.MISReport, error)
}

// PDFRenderer renders a MIS report as a PDF document
type PDFRenderer interface {
	GenerateMISReportPDF(report *models.MISReport) ([]byte, error)
}

// Exporter runs background PDF exports
type Exporter interface {
	CreateExport(year, month int) (*models.ExportJob, error)
	GetExport(jobID string) (*models.ExportJob, error)
	OpenExport(ctx context.Context, jobID string) (io.ReadCloser, string, error)
}

// ReportMailing manages monthly email subscribers
type ReportMailing interface {
	Subscribe(ctx context.Context, email, name string) (*models.ReportSubscription, error)
	Unsubscribe(ctx context.Context, email string) error
	Subscriptions(ctx context.Context) ([]models.ReportSubscription, error)
	SendReportEmailAsync(email, name string, year, month int) error
}

// PurchaseSource serves the purchase indent dashboard
type PurchaseSource interface {
	Dashboard(ctx context.Context, refresh bool) (*models.PurchaseDashboard, error)
	Invalidate()
}

// SettingsManager manages designations and the display mode
type SettingsManager interface {
	ListDesignations(ctx context.Context) ([]models.Designation, error)
	CreateDesignation(ctx context.Context, name string) (*models.Designation, error)
	DeleteDesignation(ctx context.Context, id string) error
	DisplayMode(ctx context.Context) (*models.DisplaySettings, error)
	SetDisplayMode(ctx context.Context, mode string) (*models.DisplaySettings, error)
}

// LayoutManager manages per-user report dashboard layouts
type LayoutManager interface {
	Layout(ctx context.Context, userID string) (*models.DashboardLayout, error)
	SaveLayout(ctx context.Context, userID string, widgets []models.DashboardWidget) (*models.DashboardLayout, error)
	Move(ctx context.Context, userID string, from, to int) (*models.DashboardLayout, error)
}

// Summarizer writes narrative summaries of MIS reports
type Summarizer interface {
	SummarizeReport(ctx context.Context, year, month int) (*services.ReportSummary, error)
}

// Dependencies are the services behind the HTTP API. Mailing, Summaries and
// JWT may be nil when the integration is switched off.
type Dependencies struct {
	Reports   ReportSource
	PDF       PDFRenderer
	Exports   Exporter
	Mailing   ReportMailing
	Purchase  PurchaseSource
	Settings  SettingsManager
	Dashboard LayoutManager
	Summaries Summarizer
	JWT       *auth.JWTService
	MockAuth  bool
	Logger    *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	deps   Dependencies
	logger *zap.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(deps Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{deps: deps, logger: logger}
}

// respondError maps service errors to status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request error", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetMISReportHandler handles GET /api/mis/report?year=YYYY&month=M
func (h *Handlers) GetMISReportHandler(c *gin.Context) {
	report, err := h.deps.Reports.GenerateReportFromParams(c.Request.Context(), c.Query("year"), c.Query("month"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMISReportPDFHandler handles GET /api/mis/report/pdf?year=YYYY&month=M
func (h *Handlers) GetMISReportPDFHandler(c *gin.Context) {
	report, err := h.deps.Reports.GenerateReportFromParams(c.Request.Context(), c.Query("year"), c.Query("month"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	pdfData, err := h.deps.PDF.GenerateMISReportPDF(report)
	if err != nil {
		h.respondError(c, fmt.Errorf("failed to render PDF: %w", err))
		return
	}

	filename := fmt.Sprintf("mis-report-%04d-%02d.pdf", report.Period.Year, report.Period.Month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfData)
}

// GetMISReportSummaryHandler handles GET /api/mis/report/summary?year=YYYY&month=M
func (h *Handlers) GetMISReportSummaryHandler(c *gin.Context) {
	if h.deps.Summaries == nil {
		h.respondError(c, fmt.Errorf("report summary: %w", services.ErrNotConfigured))
		return
	}

	year, month, err := services.ParsePeriodParams(c.Query("year"), c.Query("month"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary, err := h.deps.Summaries.SummarizeReport(c.Request.Context(), year, month)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateExportHandler handles POST /api/mis/exports
func (h *Handlers) CreateExportHandler(c *gin.Context) {
	var req models.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.deps.Exports.CreateExport(req.Year, req.Month)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.ExportResponse{
		JobID:  job.ID,
		Status: string(job.Status),
	})
}

// GetExportHandler handles GET /api/mis/exports/:jobId
func (h *Handlers) GetExportHandler(c *gin.Context) {
	job, err := h.deps.Exports.GetExport(c.Param("jobId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DownloadExportHandler handles GET /api/mis/exports/:jobId/download
func (h *Handlers) DownloadExportHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	body, contentType, err := h.deps.Exports.OpenExport(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s.pdf"`, jobID),
	})
}

// mailing returns the mailing service or responds 503
func (h *Handlers) mailing(c *gin.Context) (ReportMailing, bool) {
	if h.deps.Mailing == nil {
		h.respondError(c, fmt.Errorf("monthly email: %w", services.ErrNotConfigured))
		return nil, false
	}
	return h.deps.Mailing, true
}

// OptInHandler handles POST /api/mis/subscriptions/opt-in
func (h *Handlers) OptInHandler(c *gin.Context) {
	mailing, ok := h.mailing(c)
	if !ok {
		return
	}

	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := mailing.Subscribe(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Successfully opted in to monthly MIS reports",
		"subscription": sub,
	})
}

// OptOutHandler handles POST /api/mis/subscriptions/opt-out
func (h *Handlers) OptOutHandler(c *gin.Context) {
	mailing, ok := h.mailing(c)
	if !ok {
		return
	}

	var req models.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := mailing.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully opted out of monthly MIS reports",
		"email":   req.Email,
	})
}

// ListSubscriptionsHandler handles GET /api/mis/subscriptions
func (h *Handlers) ListSubscriptionsHandler(c *gin.Context) {
	mailing, ok := h.mailing(c)
	if !ok {
		return
	}

	subs, err := mailing.Subscriptions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// SendReportEmailHandler handles POST /api/mis/send-email
// The email is built and sent in the background.
func (h *Handlers) SendReportEmailHandler(c *gin.Context) {
	mailing, ok := h.mailing(c)
	if !ok {
		return
	}

	var req models.SendReportEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := mailing.SendReportEmailAsync(req.Email, req.Name, req.Year, req.Month); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "MIS report email generation and sending initiated",
		"email":   req.Email,
		"year":    req.Year,
		"month":   req.Month,
	})
}

// GetPurchaseDashboardHandler handles GET /api/purchase/dashboard[?refresh=true]
func (h *Handlers) GetPurchaseDashboardHandler(c *gin.Context) {
	refresh := false
	if raw := c.Query("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refresh flag"})
			return
		}
		refresh = parsed
	}

	dashboard, err := h.deps.Purchase.Dashboard(c.Request.Context(), refresh)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// InvalidatePurchaseCacheHandler handles POST /api/purchase/cache/invalidate
func (h *Handlers) InvalidatePurchaseCacheHandler(c *gin.Context) {
	h.deps.Purchase.Invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "Purchase cache cleared"})
}

// ListDesignationsHandler handles GET /api/settings/designations
func (h *Handlers) ListDesignationsHandler(c *gin.Context) {
	designations, err := h.deps.Settings.ListDesignations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"designations": designations})
}

// CreateDesignationHandler handles POST /api/settings/designations
func (h *Handlers) CreateDesignationHandler(c *gin.Context) {
	var req models.CreateDesignationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	designation, err := h.deps.Settings.CreateDesignation(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, designation)
}

// DeleteDesignationHandler handles DELETE /api/settings/designations/:id
func (h *Handlers) DeleteDesignationHandler(c *gin.Context) {
	if err := h.deps.Settings.DeleteDesignation(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDisplayModeHandler handles GET /api/settings/display-mode
func (h *Handlers) GetDisplayModeHandler(c *gin.Context) {
	settings, err := h.deps.Settings.DisplayMode(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SetDisplayModeHandler handles PUT /api/settings/display-mode
func (h *Handlers) SetDisplayModeHandler(c *gin.Context) {
	var req models.DisplayModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.deps.Settings.SetDisplayMode(c.Request.Context(), req.Mode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetLayoutHandler handles GET /api/report-dashboard/layout
func (h *Handlers) GetLayoutHandler(c *gin.Context) {
	layout, err := h.deps.Dashboard.Layout(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// SaveLayoutHandler handles PUT /api/report-dashboard/layout
func (h *Handlers) SaveLayoutHandler(c *gin.Context) {
	var req models.SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	layout, err := h.deps.Dashboard.SaveLayout(c.Request.Context(), CurrentUserID(c), req.Widgets)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// MoveWidgetHandler handles POST /api/report-dashboard/layout/move
func (h *Handlers) MoveWidgetHandler(c *gin.Context) {
	var req models.MoveWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	layout, err := h.deps.Dashboard.Move(c.Request.Context(), CurrentUserID(c), *req.From, *req.To)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// IssueTokenHandler handles POST /auth/token
// Only served when mock auth is enabled; intended for local development.
func (h *Handlers) IssueTokenHandler(c *gin.Context) {
	if !h.deps.MockAuth || h.deps.JWT == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mock auth disabled"})
		return
	}

	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.deps.JWT.GenerateToken(req.UserID, req.Username, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("issued mock token", zap.String("user_id", req.UserID))
	c.JSON(http.StatusOK, models.AuthResponse{Token: token})
}
