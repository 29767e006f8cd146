package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WidgetType represents how a widget renders its metrics
type WidgetType string

const (
	WidgetTypeCounter    WidgetType = "counter"
	WidgetTypeGauge      WidgetType = "gauge"
	WidgetTypeLineChart  WidgetType = "lineChart"
	WidgetTypeBarChart   WidgetType = "barChart"
	WidgetTypeTable      WidgetType = "table"
	WidgetTypeStatusCard WidgetType = "statusCard"
)

// WidgetSize represents the display size of a widget
type WidgetSize string

const (
	WidgetSizeSmall  WidgetSize = "small"
	WidgetSizeMedium WidgetSize = "medium"
	WidgetSizeLarge  WidgetSize = "large"
)

// ValidWidgetType reports whether t is a known widget type
func ValidWidgetType(t WidgetType) bool {
	switch t {
	case WidgetTypeCounter, WidgetTypeGauge, WidgetTypeLineChart,
		WidgetTypeBarChart, WidgetTypeTable, WidgetTypeStatusCard:
		return true
	}
	return false
}

// ValidWidgetSize reports whether s is a known widget size
func ValidWidgetSize(s WidgetSize) bool {
	switch s {
	case WidgetSizeSmall, WidgetSizeMedium, WidgetSizeLarge:
		return true
	}
	return false
}

// WidgetPosition places a widget on the dashboard grid
type WidgetPosition struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Widget displays one or more metrics on a dashboard.
// Widgets are owned by their dashboard and have no independent lifecycle.
type Widget struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Type      WidgetType             `json:"type"`
	Size      WidgetSize             `json:"size"`
	MetricIDs []string               `json:"metricIds"`
	Position  WidgetPosition         `json:"position"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

// NewWidget creates a widget
func NewWidget(title string, widgetType WidgetType, size WidgetSize, metricIDs []string, position WidgetPosition) *Widget {
	return &Widget{
		ID:        uuid.New().String(),
		Title:     title,
		Type:      widgetType,
		Size:      size,
		MetricIDs: metricIDs,
		Position:  position,
		Config:    map[string]interface{}{},
	}
}

// Dashboard is an ordered collection of widgets owned by a user
type Dashboard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Widgets     []Widget  `json:"widgets"`
	Owner       string    `json:"owner"`
	IsDefault   bool      `json:"isDefault,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewDashboard creates a dashboard with an empty widget sequence
func NewDashboard(name, description, owner string) *Dashboard {
	now := time.Now()
	return &Dashboard{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Widgets:     []Widget{},
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DashboardFilter restricts GetAll results. Zero-value fields are ignored.
type DashboardFilter struct {
	Owner     string
	Search    string
	Tags      []string
	IsDefault *bool
}

// Matches reports whether d satisfies every populated filter field.
// Tag filtering matches when the dashboard carries any of the requested tags.
func (f *DashboardFilter) Matches(d *Dashboard) bool {
	if f.Owner != "" && d.Owner != f.Owner {
		return false
	}
	if f.IsDefault != nil && d.IsDefault != *f.IsDefault {
		return false
	}
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.Name), search) &&
			!strings.Contains(strings.ToLower(d.Description), search) {
			return false
		}
	}
	if len(f.Tags) > 0 && !hasAnyTag(d.Tags, f.Tags) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
