package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/metrics-dashboard/internal/service"
)

func TestSeedSampleData(t *testing.T) {
	dashboards, metrics := newDashboardService(t)
	ctx := context.Background()

	require.NoError(t, service.SeedSampleData(ctx, metrics, dashboards))

	seeded, err := metrics.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, seeded, 5)
	for _, metric := range seeded {
		// Every sample has a recorded history and a computed trend
		assert.GreaterOrEqual(t, len(metric.History), 2)
		assert.NotNil(t, metric.PreviousValue)
		assert.NotEmpty(t, metric.Trend)
	}

	boards, err := dashboards.GetAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "Engineering Overview", boards[0].Name)
	assert.Len(t, boards[0].Widgets, 4)
}

func TestSeedSampleDataIsIdempotent(t *testing.T) {
	dashboards, metrics := newDashboardService(t)
	ctx := context.Background()

	require.NoError(t, service.SeedSampleData(ctx, metrics, dashboards))
	require.NoError(t, service.SeedSampleData(ctx, metrics, dashboards))

	seeded, err := metrics.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, seeded, 5)

	boards, err := dashboards.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}
