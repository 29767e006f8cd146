package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
)

func TestValidMetricType(t *testing.T) {
	assert.True(t, domain.ValidMetricType(domain.MetricTypeCount))
	assert.True(t, domain.ValidMetricType(domain.MetricTypeMonetary))
	assert.False(t, domain.ValidMetricType("bogus"))
}

func TestValidMetricPeriod(t *testing.T) {
	assert.True(t, domain.ValidMetricPeriod(domain.MetricPeriodHourly))
	assert.True(t, domain.ValidMetricPeriod(domain.MetricPeriodYearly))
	assert.False(t, domain.ValidMetricPeriod("fortnightly"))
}

func TestMetricFilterSearch(t *testing.T) {
	metric := domain.NewMetric("error_rate", "Error Rate", domain.MetricTypePercentage, domain.MetricPeriodDaily, 1)
	metric.Metadata.Description = "Server errors as a share of requests"

	tests := []struct {
		name     string
		search   string
		expected bool
	}{
		{"Key Match", "error_rate", true},
		{"Name Match Case Insensitive", "ERROR rate", true},
		{"Description Match", "share of requests", true},
		{"No Match", "latency", false},
		{"Empty Matches All", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := &domain.MetricFilter{Search: tt.search}
			assert.Equal(t, tt.expected, filter.Matches(metric))
		})
	}
}

func TestMetricFilterDateRange(t *testing.T) {
	metric := domain.NewMetric("m", "M", domain.MetricTypeCount, domain.MetricPeriodDaily, 1)
	metric.Metadata.LastUpdated = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	before := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	inRange := &domain.MetricFilter{FromDate: &before, ToDate: &after}
	assert.True(t, inRange.Matches(metric))

	outOfRange := &domain.MetricFilter{ToDate: &before}
	assert.False(t, outOfRange.Matches(metric))

	// A metric that has never been updated passes any date filter
	metric.Metadata.LastUpdated = time.Time{}
	assert.True(t, outOfRange.Matches(metric))
}

func TestNewMetricSeedsHistory(t *testing.T) {
	metric := domain.NewMetric("users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 42)

	assert.NotEmpty(t, metric.ID)
	assert.Equal(t, 42.0, metric.CurrentValue)
	assert.Len(t, metric.History, 1)
	assert.Equal(t, 42.0, metric.History[0].Value)
}
