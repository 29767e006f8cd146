package service

import (
	"context"
	"fmt"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
)

// SeedSampleData populates empty stores with sample metrics and a dashboard.
// Seeding runs once at startup and is a no-op when metrics already exist,
// so it is safe against restarts and persistent backends.
func SeedSampleData(ctx context.Context, metrics *MetricService, dashboards *DashboardService) error {
	existing, err := metrics.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to check for existing metrics: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	samples := []struct {
		key         string
		name        string
		metricType  domain.MetricType
		period      domain.MetricPeriod
		value       float64
		next        float64
		description string
		thresholds  *domain.MetricThresholds
	}{
		{
			key: "monthly_active_users", name: "Monthly Active Users",
			metricType: domain.MetricTypeCount, period: domain.MetricPeriodMonthly,
			value: 11800, next: 12500,
			description: "Unique users active in the last 30 days",
		},
		{
			key: "error_rate", name: "Error Rate",
			metricType: domain.MetricTypePercentage, period: domain.MetricPeriodDaily,
			value: 0.9, next: 0.8,
			description: "Server errors as a share of all requests",
			thresholds:  &domain.MetricThresholds{Warning: 1, Critical: 5},
		},
		{
			key: "api_latency_p95", name: "API Latency (p95)",
			metricType: domain.MetricTypeDuration, period: domain.MetricPeriodHourly,
			value: 260, next: 245,
			description: "95th percentile API response time in milliseconds",
			thresholds:  &domain.MetricThresholds{Warning: 300, Critical: 500},
		},
		{
			key: "mrr", name: "Monthly Recurring Revenue",
			metricType: domain.MetricTypeMonetary, period: domain.MetricPeriodMonthly,
			value: 46500, next: 48200,
			description: "Recurring revenue across all plans",
		},
		{
			key: "deployment_frequency", name: "Deployment Frequency",
			metricType: domain.MetricTypeCount, period: domain.MetricPeriodWeekly,
			value: 14, next: 14,
			description: "Production deployments per week",
		},
	}

	created := make([]*domain.Metric, 0, len(samples))
	for _, sample := range samples {
		metric, err := metrics.Create(ctx, sample.key, sample.name, sample.metricType, sample.period, sample.value, sample.description, sample.thresholds)
		if err != nil {
			return fmt.Errorf("failed to seed metric %s: %w", sample.key, err)
		}
		// A second value gives each metric a previous value and a trend
		if metric, err = metrics.UpdateValue(ctx, metric.ID, sample.next); err != nil {
			return fmt.Errorf("failed to seed metric %s history: %w", sample.key, err)
		}
		created = append(created, metric)
	}

	dashboard, err := dashboards.Create(ctx, "Engineering Overview", "Key health and growth metrics", "system", []string{"engineering", "overview"})
	if err != nil {
		return fmt.Errorf("failed to seed dashboard: %w", err)
	}

	widgets := []struct {
		title      string
		widgetType domain.WidgetType
		size       domain.WidgetSize
		metricIdx  []int
		position   domain.WidgetPosition
	}{
		{"Active Users", domain.WidgetTypeCounter, domain.WidgetSizeSmall, []int{0}, domain.WidgetPosition{X: 0, Y: 0, Width: 1, Height: 1}},
		{"Error Rate", domain.WidgetTypeGauge, domain.WidgetSizeSmall, []int{1}, domain.WidgetPosition{X: 1, Y: 0, Width: 1, Height: 1}},
		{"Latency Trend", domain.WidgetTypeLineChart, domain.WidgetSizeMedium, []int{2}, domain.WidgetPosition{X: 0, Y: 1, Width: 2, Height: 1}},
		{"Revenue & Deploys", domain.WidgetTypeTable, domain.WidgetSizeLarge, []int{3, 4}, domain.WidgetPosition{X: 0, Y: 2, Width: 2, Height: 2}},
	}

	for _, w := range widgets {
		metricIDs := make([]string, len(w.metricIdx))
		for i, idx := range w.metricIdx {
			metricIDs[i] = created[idx].ID
		}
		if _, err := dashboards.AddWidget(ctx, dashboard.ID, w.title, w.widgetType, w.size, metricIDs, w.position); err != nil {
			return fmt.Errorf("failed to seed widget %s: %w", w.title, err)
		}
	}

	return nil
}
