package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/service"
)

// Handler handles API requests
type Handler struct {
	metrics    *service.MetricService
	dashboards *service.DashboardService
	copilot    *service.CopilotService
}

// NewHandler creates a new API handler
func NewHandler(metrics *service.MetricService, dashboards *service.DashboardService, copilot *service.CopilotService) *Handler {
	return &Handler{
		metrics:    metrics,
		dashboards: dashboards,
		copilot:    copilot,
	}
}

// ---- Metrics ----

// ListMetrics returns metrics matching the query filters
// GET /api/metrics?search=&types=&periods=&fromDate=&toDate=
func (h *Handler) ListMetrics(c *gin.Context) {
	filter, err := parseMetricFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics, err := h.metrics.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

type createMetricRequest struct {
	Key          string                   `json:"key" binding:"required"`
	Name         string                   `json:"name" binding:"required"`
	Type         domain.MetricType        `json:"type" binding:"required"`
	Period       domain.MetricPeriod      `json:"period" binding:"required"`
	InitialValue *float64                 `json:"initialValue" binding:"required"`
	Description  string                   `json:"description"`
	Thresholds   *domain.MetricThresholds `json:"thresholds"`
}

// CreateMetric creates a new metric
// POST /api/metrics
func (h *Handler) CreateMetric(c *gin.Context) {
	var req createMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if !domain.ValidMetricType(req.Type) {
		respondError(c, apperrors.NewBadRequestError(fmt.Sprintf("unknown metric type %q", req.Type)))
		return
	}
	if !domain.ValidMetricPeriod(req.Period) {
		respondError(c, apperrors.NewBadRequestError(fmt.Sprintf("unknown metric period %q", req.Period)))
		return
	}

	metric, err := h.metrics.Create(c.Request.Context(), req.Key, req.Name, req.Type, req.Period, *req.InitialValue, req.Description, req.Thresholds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"metric": metric})
}

// GetMetric returns a single metric
// GET /api/metrics/:id
func (h *Handler) GetMetric(c *gin.Context) {
	metric, err := h.metrics.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metric": metric})
}

type updateMetricRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

// UpdateMetricValue records a new value for a metric
// PUT /api/metrics/:id
func (h *Handler) UpdateMetricValue(c *gin.Context) {
	var req updateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	metric, err := h.metrics.UpdateValue(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metric": metric})
}

// DeleteMetric deletes a metric
// DELETE /api/metrics/:id
func (h *Handler) DeleteMetric(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.metrics.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, apperrors.NewNotFoundError("Metric", id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMetricHistory returns a metric's value history
// GET /api/metrics/:id/history?fromDate=&toDate=
func (h *Handler) GetMetricHistory(c *gin.Context) {
	fromDate, err := parseDateQuery(c, "fromDate")
	if err != nil {
		respondError(c, err)
		return
	}
	toDate, err := parseDateQuery(c, "toDate")
	if err != nil {
		respondError(c, err)
		return
	}

	history, err := h.metrics.History(c.Request.Context(), c.Param("id"), fromDate, toDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetMetricThresholds reports which thresholds a metric has crossed
// GET /api/metrics/:id/thresholds
func (h *Handler) GetMetricThresholds(c *gin.Context) {
	status, err := h.metrics.CheckThresholds(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"thresholds": status})
}

// ---- Dashboards ----

// ListDashboards returns dashboards matching the query filters
// GET /api/dashboards?owner=&search=&tags=&isDefault=
func (h *Handler) ListDashboards(c *gin.Context) {
	filter, err := parseDashboardFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	dashboards, err := h.dashboards.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboards": dashboards})
}

type createDashboardRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Owner       string   `json:"owner" binding:"required"`
	Tags        []string `json:"tags"`
}

// CreateDashboard creates a new dashboard
// POST /api/dashboards
func (h *Handler) CreateDashboard(c *gin.Context) {
	var req createDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	dashboard, err := h.dashboards.Create(c.Request.Context(), req.Name, req.Description, req.Owner, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dashboard": dashboard})
}

// GetDashboard returns a single dashboard
// GET /api/dashboards/:id
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboards.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

type updateDashboardRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// UpdateDashboard applies a partial update to a dashboard
// PUT /api/dashboards/:id
func (h *Handler) UpdateDashboard(c *gin.Context) {
	var req updateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	dashboard, err := h.dashboards.Update(c.Request.Context(), c.Param("id"), service.DashboardUpdate{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

// DeleteDashboard deletes a dashboard
// DELETE /api/dashboards/:id
func (h *Handler) DeleteDashboard(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.dashboards.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, apperrors.NewNotFoundError("Dashboard", id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type addWidgetRequest struct {
	Title     string                 `json:"title" binding:"required"`
	Type      domain.WidgetType      `json:"type" binding:"required"`
	Size      domain.WidgetSize      `json:"size" binding:"required"`
	MetricIDs []string               `json:"metricIds"`
	Position  *domain.WidgetPosition `json:"position" binding:"required"`
}

// AddWidget appends a widget to a dashboard
// POST /api/dashboards/:id/widgets
func (h *Handler) AddWidget(c *gin.Context) {
	var req addWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if !domain.ValidWidgetType(req.Type) {
		respondError(c, apperrors.NewBadRequestError(fmt.Sprintf("unknown widget type %q", req.Type)))
		return
	}
	if !domain.ValidWidgetSize(req.Size) {
		respondError(c, apperrors.NewBadRequestError(fmt.Sprintf("unknown widget size %q", req.Size)))
		return
	}

	dashboard, err := h.dashboards.AddWidget(c.Request.Context(), c.Param("id"), req.Title, req.Type, req.Size, req.MetricIDs, *req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dashboard": dashboard})
}

type updateWidgetRequest struct {
	Title     *string                `json:"title"`
	Type      *domain.WidgetType     `json:"type"`
	Size      *domain.WidgetSize     `json:"size"`
	MetricIDs []string               `json:"metricIds"`
	Position  *domain.WidgetPosition `json:"position"`
	Config    map[string]interface{} `json:"config"`
}

// UpdateWidget applies a partial update to a widget
// PUT /api/dashboards/:id/widgets/:widgetId
func (h *Handler) UpdateWidget(c *gin.Context) {
	var req updateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if req.Type != nil && !domain.ValidWidgetType(*req.Type) {
		respondError(c, apperrors.NewBadRequestError(fmt.Sprintf("unknown widget type %q", *req.Type)))
		return
	}
	if req.Size != nil && !domain.ValidWidgetSize(*req.Size) {
		respondError(c, apperrors.NewBadRequestError(fmt.Sprintf("unknown widget size %q", *req.Size)))
		return
	}

	dashboard, err := h.dashboards.UpdateWidget(c.Request.Context(), c.Param("id"), c.Param("widgetId"), service.WidgetUpdate{
		Title:     req.Title,
		Type:      req.Type,
		Size:      req.Size,
		MetricIDs: req.MetricIDs,
		Position:  req.Position,
		Config:    req.Config,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

// RemoveWidget removes a widget from a dashboard
// DELETE /api/dashboards/:id/widgets/:widgetId
func (h *Handler) RemoveWidget(c *gin.Context) {
	dashboard, err := h.dashboards.RemoveWidget(c.Request.Context(), c.Param("id"), c.Param("widgetId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}

type setDefaultRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// SetDefaultDashboard records a dashboard as a user's default
// POST /api/dashboards/:id/default
func (h *Handler) SetDefaultDashboard(c *gin.Context) {
	var req setDefaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	id := c.Param("id")
	ok, err := h.dashboards.SetAsDefault(c.Request.Context(), id, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondError(c, apperrors.NewNotFoundError("Dashboard", id))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- GitHub Copilot ----

// GetOrgCopilotUsage returns an org usage snapshot with derived metrics
// GET /api/github/copilot/org/:org?start_time=&end_time=
func (h *Handler) GetOrgCopilotUsage(c *gin.Context) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	usage, err := h.copilot.GetOrganizationUsage(c.Request.Context(), c.Param("org"), dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usageData": usage,
		"metrics":   h.copilot.CalculateMetrics(usage.Snapshot()),
	})
}

// GetTeamCopilotUsage returns a team usage snapshot with derived metrics
// GET /api/github/copilot/team/:id?start_time=&end_time=
func (h *Handler) GetTeamCopilotUsage(c *gin.Context) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	usage, err := h.copilot.GetTeamUsage(c.Request.Context(), c.Param("id"), dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usageData": usage,
		"metrics":   h.copilot.CalculateMetrics(usage.Snapshot()),
	})
}

// ListOrganizations returns the organization directory
// GET /api/github/orgs
func (h *Handler) ListOrganizations(c *gin.Context) {
	organizations, err := h.copilot.ListOrganizations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": organizations})
}

// ListOrganizationTeams returns the teams of an organization
// GET /api/github/orgs/:org/teams
func (h *Handler) ListOrganizationTeams(c *gin.Context) {
	teams, err := h.copilot.ListOrganizationTeams(c.Request.Context(), c.Param("org"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// ListTeams returns the teams of the default organization
// GET /api/github/teams
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.copilot.ListTeams(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ---- parsing helpers ----

// parseMetricFilter builds a typed metric filter from query parameters
func parseMetricFilter(c *gin.Context) (*domain.MetricFilter, error) {
	filter := &domain.MetricFilter{Search: c.Query("search")}

	if raw := c.Query("types"); raw != "" {
		for _, value := range strings.Split(raw, ",") {
			t := domain.MetricType(strings.TrimSpace(value))
			if !domain.ValidMetricType(t) {
				return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown metric type %q", t))
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if raw := c.Query("periods"); raw != "" {
		for _, value := range strings.Split(raw, ",") {
			p := domain.MetricPeriod(strings.TrimSpace(value))
			if !domain.ValidMetricPeriod(p) {
				return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown metric period %q", p))
			}
			filter.Periods = append(filter.Periods, p)
		}
	}

	fromDate, err := parseDateQuery(c, "fromDate")
	if err != nil {
		return nil, err
	}
	toDate, err := parseDateQuery(c, "toDate")
	if err != nil {
		return nil, err
	}
	filter.FromDate = fromDate
	filter.ToDate = toDate

	return filter, nil
}

// parseDashboardFilter builds a typed dashboard filter from query parameters
func parseDashboardFilter(c *gin.Context) (*domain.DashboardFilter, error) {
	filter := &domain.DashboardFilter{
		Owner:  c.Query("owner"),
		Search: c.Query("search"),
	}

	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			filter.Tags = append(filter.Tags, strings.TrimSpace(tag))
		}
	}

	if raw := c.Query("isDefault"); raw != "" {
		isDefault, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperrors.NewBadRequestError("isDefault must be true or false")
		}
		filter.IsDefault = &isDefault
	}

	return filter, nil
}

// parseDateQuery parses an optional ISO-8601 query parameter
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	t, err := parseISODate(raw)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s must be an ISO-8601 date: %v", key, err))
	}
	return &t, nil
}

// parseDateRange parses the start_time/end_time query pair. Absence of
// either side disables that bound; it is not an error.
func parseDateRange(c *gin.Context) (*domain.DateRange, error) {
	startRaw := c.Query("start_time")
	endRaw := c.Query("end_time")
	if startRaw == "" && endRaw == "" {
		return nil, nil
	}

	dateRange := &domain.DateRange{}
	if startRaw != "" {
		start, err := parseISODate(startRaw)
		if err != nil {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("start_time must be an ISO-8601 date: %v", err))
		}
		dateRange.StartDate = start
	}
	if endRaw != "" {
		end, err := parseISODate(endRaw)
		if err != nil {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("end_time must be an ISO-8601 date: %v", err))
		}
		dateRange.EndDate = end
	}
	return dateRange, nil
}

// parseISODate accepts RFC 3339 timestamps and bare dates
func parseISODate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// respondError maps application errors to HTTP responses. This is the only
// place errors are classified; everything below the handlers lets them bubble.
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeUpstream:
			if appErr.Status > 0 {
				status = appErr.Status
			}
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
