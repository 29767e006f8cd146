package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	"github.com/kurihiro0119/metrics-dashboard/internal/service"
)

// Client is the API client for metrics-dashboard
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateMetricInput holds the fields for creating a metric
type CreateMetricInput struct {
	Key          string                   `json:"key"`
	Name         string                   `json:"name"`
	Type         domain.MetricType        `json:"type"`
	Period       domain.MetricPeriod      `json:"period"`
	InitialValue float64                  `json:"initialValue"`
	Description  string                   `json:"description,omitempty"`
	Thresholds   *domain.MetricThresholds `json:"thresholds,omitempty"`
}

// MetricFilterParams holds the query filters for listing metrics
type MetricFilterParams struct {
	Search   string
	Types    string // comma-separated
	Periods  string // comma-separated
	FromDate time.Time
	ToDate   time.Time
}

// OrgUsageReport pairs an organization usage snapshot with derived metrics
type OrgUsageReport struct {
	UsageData *domain.CopilotOrgUsage `json:"usageData"`
	Metrics   *domain.UsageMetrics    `json:"metrics"`
}

// TeamUsageReport pairs a team usage snapshot with derived metrics
type TeamUsageReport struct {
	UsageData *domain.CopilotTeamUsage `json:"usageData"`
	Metrics   *domain.UsageMetrics     `json:"metrics"`
}

// ListMetrics retrieves metrics matching the optional filters
func (c *Client) ListMetrics(filter *MetricFilterParams) ([]*domain.Metric, error) {
	params := url.Values{}
	if filter != nil {
		if filter.Search != "" {
			params.Set("search", filter.Search)
		}
		if filter.Types != "" {
			params.Set("types", filter.Types)
		}
		if filter.Periods != "" {
			params.Set("periods", filter.Periods)
		}
		if !filter.FromDate.IsZero() {
			params.Set("fromDate", filter.FromDate.Format(time.RFC3339))
		}
		if !filter.ToDate.IsZero() {
			params.Set("toDate", filter.ToDate.Format(time.RFC3339))
		}
	}

	var response struct {
		Metrics []*domain.Metric `json:"metrics"`
	}
	if err := c.do(http.MethodGet, "/api/metrics", params, nil, &response); err != nil {
		return nil, err
	}
	return response.Metrics, nil
}

// GetMetric retrieves a single metric
func (c *Client) GetMetric(id string) (*domain.Metric, error) {
	var response struct {
		Metric *domain.Metric `json:"metric"`
	}
	if err := c.do(http.MethodGet, "/api/metrics/"+url.PathEscape(id), nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Metric, nil
}

// CreateMetric creates a new metric
func (c *Client) CreateMetric(input CreateMetricInput) (*domain.Metric, error) {
	var response struct {
		Metric *domain.Metric `json:"metric"`
	}
	if err := c.do(http.MethodPost, "/api/metrics", nil, input, &response); err != nil {
		return nil, err
	}
	return response.Metric, nil
}

// UpdateMetricValue records a new value for a metric
func (c *Client) UpdateMetricValue(id string, value float64) (*domain.Metric, error) {
	body := map[string]float64{"value": value}

	var response struct {
		Metric *domain.Metric `json:"metric"`
	}
	if err := c.do(http.MethodPut, "/api/metrics/"+url.PathEscape(id), nil, body, &response); err != nil {
		return nil, err
	}
	return response.Metric, nil
}

// DeleteMetric deletes a metric
func (c *Client) DeleteMetric(id string) error {
	return c.do(http.MethodDelete, "/api/metrics/"+url.PathEscape(id), nil, nil, nil)
}

// GetMetricHistory retrieves a metric's value history
func (c *Client) GetMetricHistory(id string, fromDate, toDate time.Time) ([]domain.MetricValue, error) {
	params := url.Values{}
	if !fromDate.IsZero() {
		params.Set("fromDate", fromDate.Format(time.RFC3339))
	}
	if !toDate.IsZero() {
		params.Set("toDate", toDate.Format(time.RFC3339))
	}

	var response struct {
		History []domain.MetricValue `json:"history"`
	}
	if err := c.do(http.MethodGet, "/api/metrics/"+url.PathEscape(id)+"/history", params, nil, &response); err != nil {
		return nil, err
	}
	return response.History, nil
}

// GetMetricThresholds reports which thresholds a metric has crossed
func (c *Client) GetMetricThresholds(id string) (service.ThresholdStatus, error) {
	var response struct {
		Thresholds service.ThresholdStatus `json:"thresholds"`
	}
	if err := c.do(http.MethodGet, "/api/metrics/"+url.PathEscape(id)+"/thresholds", nil, nil, &response); err != nil {
		return service.ThresholdStatus{}, err
	}
	return response.Thresholds, nil
}

// ListDashboards retrieves dashboards, optionally filtered by owner
func (c *Client) ListDashboards(owner string) ([]*domain.Dashboard, error) {
	params := url.Values{}
	if owner != "" {
		params.Set("owner", owner)
	}

	var response struct {
		Dashboards []*domain.Dashboard `json:"dashboards"`
	}
	if err := c.do(http.MethodGet, "/api/dashboards", params, nil, &response); err != nil {
		return nil, err
	}
	return response.Dashboards, nil
}

// GetDashboard retrieves a single dashboard
func (c *Client) GetDashboard(id string) (*domain.Dashboard, error) {
	var response struct {
		Dashboard *domain.Dashboard `json:"dashboard"`
	}
	if err := c.do(http.MethodGet, "/api/dashboards/"+url.PathEscape(id), nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Dashboard, nil
}

// CreateDashboard creates a new dashboard
func (c *Client) CreateDashboard(name, description, owner string, tags []string) (*domain.Dashboard, error) {
	body := map[string]interface{}{
		"name":        name,
		"description": description,
		"owner":       owner,
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}

	var response struct {
		Dashboard *domain.Dashboard `json:"dashboard"`
	}
	if err := c.do(http.MethodPost, "/api/dashboards", nil, body, &response); err != nil {
		return nil, err
	}
	return response.Dashboard, nil
}

// DeleteDashboard deletes a dashboard
func (c *Client) DeleteDashboard(id string) error {
	return c.do(http.MethodDelete, "/api/dashboards/"+url.PathEscape(id), nil, nil, nil)
}

// SetDefaultDashboard records a dashboard as a user's default
func (c *Client) SetDefaultDashboard(id, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(http.MethodPost, "/api/dashboards/"+url.PathEscape(id)+"/default", nil, body, nil)
}

// GetOrgCopilotUsage retrieves Copilot usage for an organization
func (c *Client) GetOrgCopilotUsage(org string, start, end time.Time) (*OrgUsageReport, error) {
	var report OrgUsageReport
	if err := c.do(http.MethodGet, "/api/github/copilot/org/"+url.PathEscape(org), buildRangeParams(start, end), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetTeamCopilotUsage retrieves Copilot usage for a team
func (c *Client) GetTeamCopilotUsage(team string, start, end time.Time) (*TeamUsageReport, error) {
	var report TeamUsageReport
	if err := c.do(http.MethodGet, "/api/github/copilot/team/"+url.PathEscape(team), buildRangeParams(start, end), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListOrganizations retrieves the organization directory
func (c *Client) ListOrganizations() ([]domain.Organization, error) {
	var response struct {
		Organizations []domain.Organization `json:"organizations"`
	}
	if err := c.do(http.MethodGet, "/api/github/orgs", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Organizations, nil
}

// ListTeams retrieves the teams of the default organization
func (c *Client) ListTeams() ([]domain.Team, error) {
	var response struct {
		Teams []domain.Team `json:"teams"`
	}
	if err := c.do(http.MethodGet, "/api/github/teams", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Teams, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.do(http.MethodGet, "/health", nil, nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func buildRangeParams(start, end time.Time) url.Values {
	params := url.Values{}
	if !start.IsZero() {
		params.Set("start_time", start.Format(time.RFC3339))
	}
	if !end.IsZero() {
		params.Set("end_time", end.Format(time.RFC3339))
	}
	return params
}

func (c *Client) do(method, path string, params url.Values, body, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(raw))
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
