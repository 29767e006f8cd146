package service

import (
	"context"
	"math"
	"time"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/store"
)

// MetricService handles metric business logic
type MetricService struct {
	store store.MetricStore
}

// NewMetricService creates a new metric service
func NewMetricService(store store.MetricStore) *MetricService {
	return &MetricService{store: store}
}

// ThresholdStatus reports which thresholds a metric's current value has crossed
type ThresholdStatus struct {
	HasCrossedWarning  bool `json:"hasCrossedWarning"`
	HasCrossedCritical bool `json:"hasCrossedCritical"`
}

// GetByID retrieves a metric by its ID
func (s *MetricService) GetByID(ctx context.Context, id string) (*domain.Metric, error) {
	return s.store.Get(ctx, id)
}

// GetAll retrieves metrics matching the optional filter
func (s *MetricService) GetAll(ctx context.Context, filter *domain.MetricFilter) ([]*domain.Metric, error) {
	return s.store.GetAll(ctx, filter)
}

// Create seeds a new metric and persists it
func (s *MetricService) Create(ctx context.Context, key, name string, metricType domain.MetricType, period domain.MetricPeriod, initialValue float64, description string, thresholds *domain.MetricThresholds) (*domain.Metric, error) {
	metric := domain.NewMetric(key, name, metricType, period, initialValue)

	if description != "" {
		metric.Metadata.Description = description
	}
	if thresholds != nil {
		metric.Thresholds = thresholds
	}

	if err := s.store.Save(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

// UpdateValue records a new value, appending to history and recomputing
// previous/current/trend/changePercentage together.
func (s *MetricService) UpdateValue(ctx context.Context, id string, newValue float64) (*domain.Metric, error) {
	metric, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previousValue := metric.CurrentValue
	changePercentage := 0.0
	if previousValue != 0 {
		changePercentage = (newValue - previousValue) / math.Abs(previousValue) * 100
	}

	// ±1% dead zone keeps the trend from flapping on noise
	trend := domain.TrendStable
	if changePercentage > 1 {
		trend = domain.TrendUp
	} else if changePercentage < -1 {
		trend = domain.TrendDown
	}

	now := time.Now()
	metric.PreviousValue = &previousValue
	metric.CurrentValue = newValue
	metric.Trend = trend
	metric.ChangePercentage = changePercentage
	metric.History = append(metric.History, domain.MetricValue{Value: newValue, Timestamp: now})
	metric.Metadata.LastUpdated = now

	if err := s.store.Save(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

// Delete removes a metric, reporting whether it existed
func (s *MetricService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// History retrieves a metric's value history, optionally bounded by an
// inclusive time range
func (s *MetricService) History(ctx context.Context, id string, fromDate, toDate *time.Time) ([]domain.MetricValue, error) {
	metric, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fromDate == nil && toDate == nil {
		return metric.History, nil
	}

	history := []domain.MetricValue{}
	for _, entry := range metric.History {
		if fromDate != nil && entry.Timestamp.Before(*fromDate) {
			continue
		}
		if toDate != nil && entry.Timestamp.After(*toDate) {
			continue
		}
		history = append(history, entry)
	}
	return history, nil
}

// CheckThresholds reports whether the metric's current value has reached its
// warning or critical thresholds (inclusive). Both flags are false when the
// metric or its thresholds are absent.
func (s *MetricService) CheckThresholds(ctx context.Context, id string) (ThresholdStatus, error) {
	metric, err := s.store.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ThresholdStatus{}, nil
		}
		return ThresholdStatus{}, err
	}
	if metric.Thresholds == nil {
		return ThresholdStatus{}, nil
	}

	return ThresholdStatus{
		HasCrossedWarning:  metric.CurrentValue >= metric.Thresholds.Warning,
		HasCrossedCritical: metric.CurrentValue >= metric.Thresholds.Critical,
	}, nil
}
