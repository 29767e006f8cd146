package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MetricType represents the kind of value a metric tracks
type MetricType string

const (
	MetricTypeCount      MetricType = "count"
	MetricTypePercentage MetricType = "percentage"
	MetricTypeDuration   MetricType = "duration"
	MetricTypeMonetary   MetricType = "monetary"
)

// MetricPeriod represents the reporting period of a metric
type MetricPeriod string

const (
	MetricPeriodHourly    MetricPeriod = "hourly"
	MetricPeriodDaily     MetricPeriod = "daily"
	MetricPeriodWeekly    MetricPeriod = "weekly"
	MetricPeriodMonthly   MetricPeriod = "monthly"
	MetricPeriodQuarterly MetricPeriod = "quarterly"
	MetricPeriodYearly    MetricPeriod = "yearly"
)

// TrendDirection represents the direction a metric is moving
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// ValidMetricType reports whether t is a known metric type
func ValidMetricType(t MetricType) bool {
	switch t {
	case MetricTypeCount, MetricTypePercentage, MetricTypeDuration, MetricTypeMonetary:
		return true
	}
	return false
}

// ValidMetricPeriod reports whether p is a known metric period
func ValidMetricPeriod(p MetricPeriod) bool {
	switch p {
	case MetricPeriodHourly, MetricPeriodDaily, MetricPeriodWeekly,
		MetricPeriodMonthly, MetricPeriodQuarterly, MetricPeriodYearly:
		return true
	}
	return false
}

// MetricValue is a single point in a metric's history
type MetricValue struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// MetricThresholds holds alerting thresholds for a metric
type MetricThresholds struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

// MetricMetadata holds descriptive fields for a metric
type MetricMetadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Unit        string    `json:"unit,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	DataSource  string    `json:"dataSource,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Metric represents a measurable value with its history and trend
type Metric struct {
	ID               string            `json:"id"`
	Key              string            `json:"key"`
	Type             MetricType        `json:"type"`
	Period           MetricPeriod      `json:"period"`
	CurrentValue     float64           `json:"currentValue"`
	PreviousValue    *float64          `json:"previousValue,omitempty"`
	Trend            TrendDirection    `json:"trend,omitempty"`
	ChangePercentage float64           `json:"changePercentage"`
	History          []MetricValue     `json:"history"`
	Thresholds       *MetricThresholds `json:"thresholds,omitempty"`
	Metadata         MetricMetadata    `json:"metadata"`
}

// NewMetric creates a metric seeded with its initial value.
// History is never empty after creation.
func NewMetric(key, name string, metricType MetricType, period MetricPeriod, initialValue float64) *Metric {
	now := time.Now()
	return &Metric{
		ID:           uuid.New().String(),
		Key:          key,
		Type:         metricType,
		Period:       period,
		CurrentValue: initialValue,
		History: []MetricValue{
			{Value: initialValue, Timestamp: now},
		},
		Metadata: MetricMetadata{
			Name:        name,
			LastUpdated: now,
		},
	}
}

// MetricFilter restricts GetAll results. Zero-value fields are ignored.
type MetricFilter struct {
	Types    []MetricType
	Periods  []MetricPeriod
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
}

// Matches reports whether m satisfies every populated filter field.
// The date range is inclusive and compared against metadata.lastUpdated;
// a metric without that field passes the date filter unconditionally.
func (f *MetricFilter) Matches(m *Metric) bool {
	if len(f.Types) > 0 && !containsMetricType(f.Types, m.Type) {
		return false
	}
	if len(f.Periods) > 0 && !containsMetricPeriod(f.Periods, m.Period) {
		return false
	}
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Key), search) &&
			!strings.Contains(strings.ToLower(m.Metadata.Name), search) &&
			!strings.Contains(strings.ToLower(m.Metadata.Description), search) {
			return false
		}
	}
	if f.FromDate != nil || f.ToDate != nil {
		lastUpdated := m.Metadata.LastUpdated
		if !lastUpdated.IsZero() {
			if f.FromDate != nil && lastUpdated.Before(*f.FromDate) {
				return false
			}
			if f.ToDate != nil && lastUpdated.After(*f.ToDate) {
				return false
			}
		}
	}
	return true
}

func containsMetricType(types []MetricType, t MetricType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func containsMetricPeriod(periods []MetricPeriod, p MetricPeriod) bool {
	for _, candidate := range periods {
		if candidate == p {
			return true
		}
	}
	return false
}
