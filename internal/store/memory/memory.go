package memory

import (
	"context"
	"sync"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/store"
)

// memoryStore implements store.Store with mutex-guarded maps.
// All reads and writes copy entities so callers never share state
// with the map or with each other.
type memoryStore struct {
	metrics    *metricStore
	dashboards *dashboardStore
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() store.Store {
	return &memoryStore{
		metrics: &metricStore{
			metrics: make(map[string]*domain.Metric),
		},
		dashboards: &dashboardStore{
			dashboards:   make(map[string]*domain.Dashboard),
			userDefaults: make(map[string]string),
		},
	}
}

func (s *memoryStore) Metrics() store.MetricStore       { return s.metrics }
func (s *memoryStore) Dashboards() store.DashboardStore { return s.dashboards }
func (s *memoryStore) Close() error                     { return nil }

type metricStore struct {
	mu      sync.RWMutex
	metrics map[string]*domain.Metric
}

func (s *metricStore) Get(ctx context.Context, id string) (*domain.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metric, ok := s.metrics[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Metric", id)
	}
	return cloneMetric(metric), nil
}

func (s *metricStore) GetAll(ctx context.Context, filter *domain.MetricFilter) ([]*domain.Metric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*domain.Metric{}
	for _, metric := range s.metrics {
		if filter == nil || filter.Matches(metric) {
			result = append(result, cloneMetric(metric))
		}
	}
	return result, nil
}

func (s *metricStore) Save(ctx context.Context, metric *domain.Metric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics[metric.ID] = cloneMetric(metric)
	return nil
}

func (s *metricStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.metrics[id]; !ok {
		return false, nil
	}
	delete(s.metrics, id)
	return true, nil
}

type dashboardStore struct {
	mu           sync.RWMutex
	dashboards   map[string]*domain.Dashboard
	userDefaults map[string]string // userID -> dashboardID
}

func (s *dashboardStore) Get(ctx context.Context, id string) (*domain.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dashboard, ok := s.dashboards[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Dashboard", id)
	}
	return cloneDashboard(dashboard), nil
}

func (s *dashboardStore) GetAll(ctx context.Context, filter *domain.DashboardFilter) ([]*domain.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*domain.Dashboard{}
	for _, dashboard := range s.dashboards {
		if filter == nil || filter.Matches(dashboard) {
			result = append(result, cloneDashboard(dashboard))
		}
	}
	return result, nil
}

func (s *dashboardStore) Save(ctx context.Context, dashboard *domain.Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dashboards[dashboard.ID] = cloneDashboard(dashboard)
	return nil
}

func (s *dashboardStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dashboards[id]; !ok {
		return false, nil
	}
	for userID, dashboardID := range s.userDefaults {
		if dashboardID == id {
			delete(s.userDefaults, userID)
		}
	}
	delete(s.dashboards, id)
	return true, nil
}

func (s *dashboardStore) SetDefault(ctx context.Context, dashboardID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dashboards[dashboardID]; !ok {
		return false, nil
	}
	s.userDefaults[userID] = dashboardID
	return true, nil
}

func cloneMetric(m *domain.Metric) *domain.Metric {
	clone := *m
	clone.History = append([]domain.MetricValue(nil), m.History...)
	if m.PreviousValue != nil {
		previous := *m.PreviousValue
		clone.PreviousValue = &previous
	}
	if m.Thresholds != nil {
		thresholds := *m.Thresholds
		clone.Thresholds = &thresholds
	}
	return &clone
}

func cloneDashboard(d *domain.Dashboard) *domain.Dashboard {
	clone := *d
	clone.Widgets = make([]domain.Widget, len(d.Widgets))
	for i, widget := range d.Widgets {
		w := widget
		w.MetricIDs = append([]string(nil), widget.MetricIDs...)
		if widget.Config != nil {
			w.Config = make(map[string]interface{}, len(widget.Config))
			for k, v := range widget.Config {
				w.Config[k] = v
			}
		}
		clone.Widgets[i] = w
	}
	clone.Tags = append([]string(nil), d.Tags...)
	return &clone
}
