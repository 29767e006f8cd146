package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/service"
	"github.com/kurihiro0119/metrics-dashboard/internal/store/memory"
)

func newDashboardService(t *testing.T) (*service.DashboardService, *service.MetricService) {
	t.Helper()
	st := memory.NewMemoryStore()
	metrics := service.NewMetricService(st.Metrics())
	return service.NewDashboardService(st.Dashboards(), metrics), metrics
}

func TestCreateDashboard(t *testing.T) {
	svc, _ := newDashboardService(t)
	ctx := context.Background()

	dashboard, err := svc.Create(ctx, "Team Board", "our numbers", "alice", []string{"team"})
	require.NoError(t, err)

	assert.NotEmpty(t, dashboard.ID)
	assert.Equal(t, "alice", dashboard.Owner)
	assert.Empty(t, dashboard.Widgets)
	assert.Equal(t, []string{"team"}, dashboard.Tags)
}

func TestAddWidgetValidatesMetrics(t *testing.T) {
	svc, metrics := newDashboardService(t)
	ctx := context.Background()

	metric, err := metrics.Create(ctx, "users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100, "", nil)
	require.NoError(t, err)

	dashboard, err := svc.Create(ctx, "Board", "", "alice", nil)
	require.NoError(t, err)

	// A widget referencing a missing metric is rejected and nothing is saved
	_, err = svc.AddWidget(ctx, dashboard.ID, "Broken", domain.WidgetTypeCounter, domain.WidgetSizeSmall,
		[]string{metric.ID, "no-such-metric"}, domain.WidgetPosition{Width: 1, Height: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "no-such-metric")

	unchanged, err := svc.GetByID(ctx, dashboard.ID)
	require.NoError(t, err)
	assert.Empty(t, unchanged.Widgets)

	// A valid widget is appended
	updated, err := svc.AddWidget(ctx, dashboard.ID, "Users", domain.WidgetTypeCounter, domain.WidgetSizeSmall,
		[]string{metric.ID}, domain.WidgetPosition{Width: 1, Height: 1})
	require.NoError(t, err)
	require.Len(t, updated.Widgets, 1)
	assert.Equal(t, "Users", updated.Widgets[0].Title)
	assert.NotEmpty(t, updated.Widgets[0].ID)
}

func TestWidgetsPreserveInsertionOrder(t *testing.T) {
	svc, metrics := newDashboardService(t)
	ctx := context.Background()

	metric, err := metrics.Create(ctx, "users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100, "", nil)
	require.NoError(t, err)

	dashboard, err := svc.Create(ctx, "Board", "", "alice", nil)
	require.NoError(t, err)

	titles := []string{"First", "Second", "Third", "Fourth"}
	for _, title := range titles {
		_, err = svc.AddWidget(ctx, dashboard.ID, title, domain.WidgetTypeGauge, domain.WidgetSizeSmall,
			[]string{metric.ID}, domain.WidgetPosition{Width: 1, Height: 1})
		require.NoError(t, err)
	}

	fetched, err := svc.GetByID(ctx, dashboard.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Widgets, len(titles))
	for i, title := range titles {
		assert.Equal(t, title, fetched.Widgets[i].Title)
	}
}

func TestUpdateWidget(t *testing.T) {
	svc, metrics := newDashboardService(t)
	ctx := context.Background()

	metric, err := metrics.Create(ctx, "users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100, "", nil)
	require.NoError(t, err)

	dashboard, err := svc.Create(ctx, "Board", "", "alice", nil)
	require.NoError(t, err)
	dashboard, err = svc.AddWidget(ctx, dashboard.ID, "Users", domain.WidgetTypeCounter, domain.WidgetSizeSmall,
		[]string{metric.ID}, domain.WidgetPosition{Width: 1, Height: 1})
	require.NoError(t, err)

	widgetID := dashboard.Widgets[0].ID
	newTitle := "Active Users"
	newSize := domain.WidgetSizeLarge

	updated, err := svc.UpdateWidget(ctx, dashboard.ID, widgetID, service.WidgetUpdate{
		Title: &newTitle,
		Size:  &newSize,
	})
	require.NoError(t, err)
	assert.Equal(t, "Active Users", updated.Widgets[0].Title)
	assert.Equal(t, domain.WidgetSizeLarge, updated.Widgets[0].Size)
	// Untouched fields survive a partial update
	assert.Equal(t, domain.WidgetTypeCounter, updated.Widgets[0].Type)

	_, err = svc.UpdateWidget(ctx, dashboard.ID, "no-such-widget", service.WidgetUpdate{Title: &newTitle})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveWidgetIdempotent(t *testing.T) {
	svc, metrics := newDashboardService(t)
	ctx := context.Background()

	metric, err := metrics.Create(ctx, "users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100, "", nil)
	require.NoError(t, err)

	dashboard, err := svc.Create(ctx, "Board", "", "alice", nil)
	require.NoError(t, err)
	dashboard, err = svc.AddWidget(ctx, dashboard.ID, "Users", domain.WidgetTypeCounter, domain.WidgetSizeSmall,
		[]string{metric.ID}, domain.WidgetPosition{Width: 1, Height: 1})
	require.NoError(t, err)

	widgetID := dashboard.Widgets[0].ID

	removed, err := svc.RemoveWidget(ctx, dashboard.ID, widgetID)
	require.NoError(t, err)
	assert.Empty(t, removed.Widgets)

	// Removing the same widget again succeeds without changing anything
	removed, err = svc.RemoveWidget(ctx, dashboard.ID, widgetID)
	require.NoError(t, err)
	assert.Empty(t, removed.Widgets)
}

func TestSetAsDefault(t *testing.T) {
	svc, _ := newDashboardService(t)
	ctx := context.Background()

	dashboard, err := svc.Create(ctx, "Board", "", "alice", nil)
	require.NoError(t, err)

	ok, err := svc.SetAsDefault(ctx, dashboard.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.SetAsDefault(ctx, "no-such-dashboard", "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateDashboardPartial(t *testing.T) {
	svc, _ := newDashboardService(t)
	ctx := context.Background()

	dashboard, err := svc.Create(ctx, "Board", "before", "alice", []string{"a"})
	require.NoError(t, err)

	newName := "Renamed Board"
	updated, err := svc.Update(ctx, dashboard.ID, service.DashboardUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Board", updated.Name)
	assert.Equal(t, "before", updated.Description)
	assert.Equal(t, []string{"a"}, updated.Tags)
	assert.True(t, updated.UpdatedAt.After(dashboard.CreatedAt) || updated.UpdatedAt.Equal(dashboard.CreatedAt))
}

func TestDeleteDashboard(t *testing.T) {
	svc, _ := newDashboardService(t)
	ctx := context.Background()

	dashboard, err := svc.Create(ctx, "Board", "", "alice", nil)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, dashboard.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, dashboard.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
