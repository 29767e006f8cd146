package github

import (
	"context"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
)

// UsageProvider defines the interface for fetching Copilot usage data.
// Implementations either proxy the GitHub REST API or fabricate snapshots
// for development.
type UsageProvider interface {
	// GetOrganizationUsage retrieves a usage snapshot for an organization.
	// An empty org falls back to the configured default organization.
	GetOrganizationUsage(ctx context.Context, org string, dateRange *domain.DateRange) (*domain.CopilotOrgUsage, error)

	// GetTeamUsage retrieves a usage snapshot for a team, addressed by slug
	GetTeamUsage(ctx context.Context, team string, dateRange *domain.DateRange) (*domain.CopilotTeamUsage, error)

	// ListOrganizations retrieves the organizations visible to the token
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)

	// ListOrganizationTeams retrieves the teams of an organization
	ListOrganizationTeams(ctx context.Context, org string) ([]domain.Team, error)

	// ListTeams retrieves the teams of the default organization
	ListTeams(ctx context.Context) ([]domain.Team, error)
}
