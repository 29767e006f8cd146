package store

import (
	"context"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
)

// MetricStore is the persistence abstraction for metrics
type MetricStore interface {
	// Get retrieves a metric by ID, returning a NOT_FOUND error when absent
	Get(ctx context.Context, id string) (*domain.Metric, error)

	// GetAll retrieves metrics matching the filter; a nil filter matches everything
	GetAll(ctx context.Context, filter *domain.MetricFilter) ([]*domain.Metric, error)

	// Save creates or replaces a metric
	Save(ctx context.Context, metric *domain.Metric) error

	// Delete removes a metric, reporting whether it existed
	Delete(ctx context.Context, id string) (bool, error)
}

// DashboardStore is the persistence abstraction for dashboards
type DashboardStore interface {
	// Get retrieves a dashboard by ID, returning a NOT_FOUND error when absent
	Get(ctx context.Context, id string) (*domain.Dashboard, error)

	// GetAll retrieves dashboards matching the filter; a nil filter matches everything
	GetAll(ctx context.Context, filter *domain.DashboardFilter) ([]*domain.Dashboard, error)

	// Save creates or replaces a dashboard
	Save(ctx context.Context, dashboard *domain.Dashboard) error

	// Delete removes a dashboard and any default assignments pointing at it,
	// reporting whether it existed
	Delete(ctx context.Context, id string) (bool, error)

	// SetDefault records the dashboard as the single default for the user,
	// reporting false when the dashboard does not exist
	SetDefault(ctx context.Context, dashboardID, userID string) (bool, error)
}

// Store bundles the entity stores backed by one data source
type Store interface {
	Metrics() MetricStore
	Dashboards() DashboardStore
	Close() error
}
