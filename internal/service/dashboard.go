package service

import (
	"context"
	"time"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/store"
)

// DashboardService handles dashboard and widget business logic
type DashboardService struct {
	store   store.DashboardStore
	metrics *MetricService
}

// NewDashboardService creates a new dashboard service.
// The metric service is used to validate widget metric references.
func NewDashboardService(store store.DashboardStore, metrics *MetricService) *DashboardService {
	return &DashboardService{store: store, metrics: metrics}
}

// DashboardUpdate holds the fields a dashboard update may change.
// Nil fields are left untouched.
type DashboardUpdate struct {
	Name        *string
	Description *string
	Tags        []string
}

// WidgetUpdate holds the fields a widget update may change.
// Nil fields are left untouched.
type WidgetUpdate struct {
	Title     *string
	Type      *domain.WidgetType
	Size      *domain.WidgetSize
	MetricIDs []string
	Position  *domain.WidgetPosition
	Config    map[string]interface{}
}

// GetByID retrieves a dashboard by its ID
func (s *DashboardService) GetByID(ctx context.Context, id string) (*domain.Dashboard, error) {
	return s.store.Get(ctx, id)
}

// GetAll retrieves dashboards matching the optional filter
func (s *DashboardService) GetAll(ctx context.Context, filter *domain.DashboardFilter) ([]*domain.Dashboard, error) {
	return s.store.GetAll(ctx, filter)
}

// Create persists a new dashboard with an empty widget sequence
func (s *DashboardService) Create(ctx context.Context, name, description, owner string, tags []string) (*domain.Dashboard, error) {
	dashboard := domain.NewDashboard(name, description, owner)
	if len(tags) > 0 {
		dashboard.Tags = tags
	}

	if err := s.store.Save(ctx, dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// Update applies a partial update to a dashboard and bumps updatedAt
func (s *DashboardService) Update(ctx context.Context, id string, updates DashboardUpdate) (*domain.Dashboard, error) {
	dashboard, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		dashboard.Name = *updates.Name
	}
	if updates.Description != nil {
		dashboard.Description = *updates.Description
	}
	if updates.Tags != nil {
		dashboard.Tags = updates.Tags
	}
	dashboard.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// Delete removes a dashboard, reporting whether it existed. Any default
// assignment held for the dashboard is cleared by the store.
func (s *DashboardService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// AddWidget validates every referenced metric then appends a new widget.
// Validation fails fast on the first missing metric ID and leaves the
// dashboard untouched.
func (s *DashboardService) AddWidget(ctx context.Context, dashboardID, title string, widgetType domain.WidgetType, size domain.WidgetSize, metricIDs []string, position domain.WidgetPosition) (*domain.Dashboard, error) {
	dashboard, err := s.store.Get(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	for _, metricID := range metricIDs {
		if _, err := s.metrics.GetByID(ctx, metricID); err != nil {
			return nil, err
		}
	}

	widget := domain.NewWidget(title, widgetType, size, metricIDs, position)
	dashboard.Widgets = append(dashboard.Widgets, *widget)
	dashboard.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// UpdateWidget applies a partial update to a widget on a dashboard
func (s *DashboardService) UpdateWidget(ctx context.Context, dashboardID, widgetID string, updates WidgetUpdate) (*domain.Dashboard, error) {
	dashboard, err := s.store.Get(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, widget := range dashboard.Widgets {
		if widget.ID == widgetID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, apperrors.NewNotFoundError("Widget", widgetID)
	}

	widget := &dashboard.Widgets[index]
	if updates.Title != nil {
		widget.Title = *updates.Title
	}
	if updates.Type != nil {
		widget.Type = *updates.Type
	}
	if updates.Size != nil {
		widget.Size = *updates.Size
	}
	if updates.MetricIDs != nil {
		widget.MetricIDs = updates.MetricIDs
	}
	if updates.Position != nil {
		widget.Position = *updates.Position
	}
	if updates.Config != nil {
		widget.Config = updates.Config
	}
	dashboard.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// RemoveWidget removes a widget by ID. Removing an absent widget is not an
// error; the call is idempotent.
func (s *DashboardService) RemoveWidget(ctx context.Context, dashboardID, widgetID string) (*domain.Dashboard, error) {
	dashboard, err := s.store.Get(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	widgets := dashboard.Widgets[:0]
	for _, widget := range dashboard.Widgets {
		if widget.ID != widgetID {
			widgets = append(widgets, widget)
		}
	}
	dashboard.Widgets = widgets
	dashboard.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// SetAsDefault records the dashboard as the user's default, reporting false
// when the dashboard does not exist
func (s *DashboardService) SetAsDefault(ctx context.Context, dashboardID, userID string) (bool, error) {
	return s.store.SetDefault(ctx, dashboardID, userID)
}
