package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/store/memory"
)

func TestMetricStoreRoundTrip(t *testing.T) {
	st := memory.NewMemoryStore()
	metrics := st.Metrics()
	ctx := context.Background()

	metric := domain.NewMetric("users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100)
	require.NoError(t, metrics.Save(ctx, metric))

	fetched, err := metrics.Get(ctx, metric.ID)
	require.NoError(t, err)
	assert.Equal(t, metric.ID, fetched.ID)
	assert.Equal(t, "users", fetched.Key)
	require.Len(t, fetched.History, 1)
}

func TestMetricStoreGetMissing(t *testing.T) {
	st := memory.NewMemoryStore()

	_, err := st.Metrics().Get(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "no-such-id")
}

func TestMetricStoreReturnsClones(t *testing.T) {
	st := memory.NewMemoryStore()
	metrics := st.Metrics()
	ctx := context.Background()

	metric := domain.NewMetric("users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100)
	require.NoError(t, metrics.Save(ctx, metric))

	// Mutating a fetched copy must not leak into the store
	first, err := metrics.Get(ctx, metric.ID)
	require.NoError(t, err)
	first.CurrentValue = 999
	first.History = append(first.History, domain.MetricValue{Value: 999})

	second, err := metrics.Get(ctx, metric.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, second.CurrentValue)
	assert.Len(t, second.History, 1)
}

func TestMetricStoreDelete(t *testing.T) {
	st := memory.NewMemoryStore()
	metrics := st.Metrics()
	ctx := context.Background()

	metric := domain.NewMetric("users", "Users", domain.MetricTypeCount, domain.MetricPeriodDaily, 100)
	require.NoError(t, metrics.Save(ctx, metric))

	deleted, err := metrics.Delete(ctx, metric.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = metrics.Delete(ctx, metric.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMetricStoreFilter(t *testing.T) {
	st := memory.NewMemoryStore()
	metrics := st.Metrics()
	ctx := context.Background()

	a := domain.NewMetric("error_rate", "Error Rate", domain.MetricTypePercentage, domain.MetricPeriodDaily, 1)
	b := domain.NewMetric("mrr", "Revenue", domain.MetricTypeMonetary, domain.MetricPeriodMonthly, 100)
	require.NoError(t, metrics.Save(ctx, a))
	require.NoError(t, metrics.Save(ctx, b))

	all, err := metrics.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	daily, err := metrics.GetAll(ctx, &domain.MetricFilter{Periods: []domain.MetricPeriod{domain.MetricPeriodDaily}})
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "error_rate", daily[0].Key)
}

func TestDashboardStoreDefaultLifecycle(t *testing.T) {
	st := memory.NewMemoryStore()
	dashboards := st.Dashboards()
	ctx := context.Background()

	dashboard := domain.NewDashboard("Board", "", "alice")
	require.NoError(t, dashboards.Save(ctx, dashboard))

	ok, err := dashboards.SetDefault(ctx, dashboard.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dashboards.SetDefault(ctx, "no-such-dashboard", "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting the dashboard clears the default assignment; a fresh
	// dashboard with the same owner is unaffected
	deleted, err := dashboards.Delete(ctx, dashboard.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = dashboards.Get(ctx, dashboard.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDashboardStoreReturnsClones(t *testing.T) {
	st := memory.NewMemoryStore()
	dashboards := st.Dashboards()
	ctx := context.Background()

	dashboard := domain.NewDashboard("Board", "", "alice")
	widget := domain.NewWidget("Users", domain.WidgetTypeCounter, domain.WidgetSizeSmall, []string{"m1"}, domain.WidgetPosition{Width: 1, Height: 1})
	dashboard.Widgets = append(dashboard.Widgets, *widget)
	require.NoError(t, dashboards.Save(ctx, dashboard))

	first, err := dashboards.Get(ctx, dashboard.ID)
	require.NoError(t, err)
	first.Widgets[0].Title = "Mutated"
	first.Widgets[0].MetricIDs[0] = "other"

	second, err := dashboards.Get(ctx, dashboard.ID)
	require.NoError(t, err)
	assert.Equal(t, "Users", second.Widgets[0].Title)
	assert.Equal(t, "m1", second.Widgets[0].MetricIDs[0])
}

func TestDashboardStoreFilter(t *testing.T) {
	st := memory.NewMemoryStore()
	dashboards := st.Dashboards()
	ctx := context.Background()

	a := domain.NewDashboard("Engineering", "", "alice")
	a.Tags = []string{"eng"}
	b := domain.NewDashboard("Sales", "", "bob")
	require.NoError(t, dashboards.Save(ctx, a))
	require.NoError(t, dashboards.Save(ctx, b))

	owned, err := dashboards.GetAll(ctx, &domain.DashboardFilter{Owner: "alice"})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Engineering", owned[0].Name)

	tagged, err := dashboards.GetAll(ctx, &domain.DashboardFilter{Tags: []string{"eng", "other"}})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "Engineering", tagged[0].Name)
}
