package service

import (
	"context"
	"sort"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	"github.com/kurihiro0119/metrics-dashboard/internal/github"
)

// significanceFloor excludes entities with too few shown suggestions from
// efficiency rankings
const significanceFloor = 100

// rankingSize caps every ranking at the top five entries
const rankingSize = 5

// CopilotService fetches Copilot usage snapshots and derives analytics
// from them. Derivation is pure; nothing here mutates or persists.
type CopilotService struct {
	provider github.UsageProvider
}

// NewCopilotService creates a new Copilot usage service
func NewCopilotService(provider github.UsageProvider) *CopilotService {
	return &CopilotService{provider: provider}
}

// GetOrganizationUsage retrieves a usage snapshot for an organization.
// The date range is passed to the provider verbatim.
func (s *CopilotService) GetOrganizationUsage(ctx context.Context, org string, dateRange *domain.DateRange) (*domain.CopilotOrgUsage, error) {
	return s.provider.GetOrganizationUsage(ctx, org, dateRange)
}

// GetTeamUsage retrieves a usage snapshot for a team addressed by slug
func (s *CopilotService) GetTeamUsage(ctx context.Context, team string, dateRange *domain.DateRange) (*domain.CopilotTeamUsage, error) {
	return s.provider.GetTeamUsage(ctx, team, dateRange)
}

// ListOrganizations retrieves the organization directory
func (s *CopilotService) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return s.provider.ListOrganizations(ctx)
}

// ListOrganizationTeams retrieves the teams of an organization
func (s *CopilotService) ListOrganizationTeams(ctx context.Context, org string) ([]domain.Team, error) {
	return s.provider.ListOrganizationTeams(ctx, org)
}

// ListTeams retrieves the teams of the default organization
func (s *CopilotService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return s.provider.ListTeams(ctx)
}

// CalculateMetrics derives secondary analytics from a usage snapshot.
// All rankings use a stable sort so ties preserve snapshot order.
func (s *CopilotService) CalculateMetrics(snapshot domain.UsageSnapshot) *domain.UsageMetrics {
	metrics := &domain.UsageMetrics{}

	if snapshot.TotalWithAccess > 0 {
		metrics.UsageRate = float64(snapshot.ActiveCount) / float64(snapshot.TotalWithAccess) * 100
	}

	shown := snapshot.Aggregated.Suggestions.Shown
	accepted := snapshot.Aggregated.Suggestions.Accepted
	if shown > 0 {
		metrics.AcceptanceRate = float64(accepted) / float64(shown) * 100
	}

	if snapshot.ActiveCount > 0 {
		metrics.SuggestionsPerActiveUser = float64(shown) / float64(snapshot.ActiveCount)
		metrics.AcceptedSuggestionsPerActiveUser = float64(accepted) / float64(snapshot.ActiveCount)
	}

	metrics.MostActiveRepositories = rankRepositories(snapshot.Aggregated.Repositories, false)
	metrics.MostEfficientRepositories = rankRepositories(snapshot.Aggregated.Repositories, true)
	metrics.MostActiveUsers = rankUsers(snapshot.Users, false)
	metrics.MostEfficientUsers = rankUsers(snapshot.Users, true)

	return metrics
}

// rankRepositories returns the top repositories by shown count, or by
// acceptance rate among repositories above the significance floor
func rankRepositories(repos []domain.CopilotRepositoryStats, byEfficiency bool) []domain.CopilotRepositoryStats {
	ranked := []domain.CopilotRepositoryStats{}
	for _, repo := range repos {
		if byEfficiency && repo.Suggestions.Shown <= significanceFloor {
			continue
		}
		ranked = append(ranked, repo)
	}

	if byEfficiency {
		sort.SliceStable(ranked, func(i, j int) bool {
			return acceptanceRate(ranked[i].Suggestions) > acceptanceRate(ranked[j].Suggestions)
		})
	} else {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Suggestions.Shown > ranked[j].Suggestions.Shown
		})
	}

	if len(ranked) > rankingSize {
		ranked = ranked[:rankingSize]
	}
	return ranked
}

// rankUsers applies the same two rankings to per-user stats
func rankUsers(users []domain.CopilotUserStats, byEfficiency bool) []domain.CopilotUserStats {
	ranked := []domain.CopilotUserStats{}
	for _, user := range users {
		if byEfficiency && user.Suggestions.Shown <= significanceFloor {
			continue
		}
		ranked = append(ranked, user)
	}

	if byEfficiency {
		sort.SliceStable(ranked, func(i, j int) bool {
			return acceptanceRate(ranked[i].Suggestions) > acceptanceRate(ranked[j].Suggestions)
		})
	} else {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Suggestions.Shown > ranked[j].Suggestions.Shown
		})
	}

	if len(ranked) > rankingSize {
		ranked = ranked[:rankingSize]
	}
	return ranked
}

func acceptanceRate(stats domain.CopilotSuggestionStats) float64 {
	if stats.Shown == 0 {
		return 0
	}
	return float64(stats.Accepted) / float64(stats.Shown)
}
