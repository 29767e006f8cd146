package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
)

func TestValidWidgetTypeAndSize(t *testing.T) {
	assert.True(t, domain.ValidWidgetType(domain.WidgetTypeLineChart))
	assert.False(t, domain.ValidWidgetType("pieChart3d"))

	assert.True(t, domain.ValidWidgetSize(domain.WidgetSizeMedium))
	assert.False(t, domain.ValidWidgetSize("huge"))
}

func TestDashboardFilterMatches(t *testing.T) {
	dashboard := domain.NewDashboard("Engineering Overview", "key metrics", "alice")
	dashboard.Tags = []string{"engineering", "overview"}

	tests := []struct {
		name     string
		filter   domain.DashboardFilter
		expected bool
	}{
		{"Owner Match", domain.DashboardFilter{Owner: "alice"}, true},
		{"Owner Mismatch", domain.DashboardFilter{Owner: "bob"}, false},
		{"Search In Name", domain.DashboardFilter{Search: "overview"}, true},
		{"Search In Description", domain.DashboardFilter{Search: "key metrics"}, true},
		{"Search Mismatch", domain.DashboardFilter{Search: "sales"}, false},
		{"Any Tag Match", domain.DashboardFilter{Tags: []string{"sales", "engineering"}}, true},
		{"No Tag Match", domain.DashboardFilter{Tags: []string{"sales"}}, false},
		{"Empty Filter", domain.DashboardFilter{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(dashboard))
		})
	}
}

func TestDashboardFilterIsDefault(t *testing.T) {
	dashboard := domain.NewDashboard("Board", "", "alice")

	isDefault := true
	filter := domain.DashboardFilter{IsDefault: &isDefault}
	assert.False(t, filter.Matches(dashboard))

	dashboard.IsDefault = true
	assert.True(t, filter.Matches(dashboard))
}

func TestNewWidgetDefaults(t *testing.T) {
	widget := domain.NewWidget("Users", domain.WidgetTypeCounter, domain.WidgetSizeSmall,
		[]string{"m1"}, domain.WidgetPosition{Width: 1, Height: 1})

	assert.NotEmpty(t, widget.ID)
	assert.NotNil(t, widget.Config)
	assert.Empty(t, widget.Config)
}
