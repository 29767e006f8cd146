package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	"github.com/kurihiro0119/metrics-dashboard/internal/github"
	"github.com/kurihiro0119/metrics-dashboard/internal/service"
)

func suggestionSnapshot(withAccess, active int, shown, accepted int64) domain.UsageSnapshot {
	return domain.UsageSnapshot{
		TotalWithAccess: withAccess,
		ActiveCount:     active,
		Aggregated: domain.CopilotAggregatedStats{
			Suggestions: domain.CopilotSuggestionStats{Shown: shown, Accepted: accepted},
			ActiveUsers: active,
		},
	}
}

func TestCalculateMetricsRates(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())

	metrics := svc.CalculateMetrics(suggestionSnapshot(20, 16, 1000, 650))

	assert.InDelta(t, 80.0, metrics.UsageRate, 1e-9)
	assert.InDelta(t, 65.0, metrics.AcceptanceRate, 1e-9)
	assert.InDelta(t, 62.5, metrics.SuggestionsPerActiveUser, 1e-9)
	assert.InDelta(t, 40.625, metrics.AcceptedSuggestionsPerActiveUser, 1e-9)
}

func TestCalculateMetricsZeroDenominators(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())

	metrics := svc.CalculateMetrics(suggestionSnapshot(0, 0, 0, 0))

	assert.Zero(t, metrics.UsageRate)
	assert.Zero(t, metrics.AcceptanceRate)
	assert.Zero(t, metrics.SuggestionsPerActiveUser)
	assert.Zero(t, metrics.AcceptedSuggestionsPerActiveUser)
}

func TestRankingsTopFiveAndEfficiencyFloor(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())

	snapshot := suggestionSnapshot(10, 10, 100, 50)
	for i := 0; i < 7; i++ {
		snapshot.Aggregated.Repositories = append(snapshot.Aggregated.Repositories, domain.CopilotRepositoryStats{
			RepositoryID:   int64(i),
			RepositoryName: string(rune('a' + i)),
			Suggestions:    domain.CopilotSuggestionStats{Shown: int64(1000 - i*100), Accepted: int64(500 - i*50)},
		})
	}
	// Below the significance floor: high acceptance rate but too few suggestions
	snapshot.Aggregated.Repositories = append(snapshot.Aggregated.Repositories, domain.CopilotRepositoryStats{
		RepositoryID:   99,
		RepositoryName: "tiny",
		Suggestions:    domain.CopilotSuggestionStats{Shown: 50, Accepted: 50},
	})

	metrics := svc.CalculateMetrics(snapshot)

	require.Len(t, metrics.MostActiveRepositories, 5)
	assert.Equal(t, "a", metrics.MostActiveRepositories[0].RepositoryName)
	assert.Equal(t, "e", metrics.MostActiveRepositories[4].RepositoryName)

	require.Len(t, metrics.MostEfficientRepositories, 5)
	for _, repo := range metrics.MostEfficientRepositories {
		assert.NotEqual(t, "tiny", repo.RepositoryName)
		assert.Greater(t, repo.Suggestions.Shown, int64(100))
	}
}

func TestEfficiencyRankingStableOnTies(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())

	// Every repository has the same acceptance rate, so ranking must
	// preserve snapshot order
	snapshot := suggestionSnapshot(10, 10, 100, 50)
	names := []string{"alpha", "beta", "gamma", "delta"}
	for i, name := range names {
		snapshot.Aggregated.Repositories = append(snapshot.Aggregated.Repositories, domain.CopilotRepositoryStats{
			RepositoryID:   int64(i),
			RepositoryName: name,
			Suggestions:    domain.CopilotSuggestionStats{Shown: 1000, Accepted: 500},
		})
	}

	metrics := svc.CalculateMetrics(snapshot)

	require.Len(t, metrics.MostEfficientRepositories, 4)
	for i, name := range names {
		assert.Equal(t, name, metrics.MostEfficientRepositories[i].RepositoryName)
	}
}

func TestUserRankings(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())

	snapshot := suggestionSnapshot(10, 3, 100, 50)
	snapshot.Users = []domain.CopilotUserStats{
		{UserID: 1, UserLogin: "busy", Suggestions: domain.CopilotSuggestionStats{Shown: 2000, Accepted: 600}},
		{UserID: 2, UserLogin: "efficient", Suggestions: domain.CopilotSuggestionStats{Shown: 500, Accepted: 450}},
		{UserID: 3, UserLogin: "quiet", Suggestions: domain.CopilotSuggestionStats{Shown: 80, Accepted: 79}},
	}

	metrics := svc.CalculateMetrics(snapshot)

	require.NotEmpty(t, metrics.MostActiveUsers)
	assert.Equal(t, "busy", metrics.MostActiveUsers[0].UserLogin)

	// "quiet" is under the floor despite the best acceptance rate
	require.Len(t, metrics.MostEfficientUsers, 2)
	assert.Equal(t, "efficient", metrics.MostEfficientUsers[0].UserLogin)
	assert.Equal(t, "busy", metrics.MostEfficientUsers[1].UserLogin)
}

func TestMockProviderOrgUsage(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())
	ctx := context.Background()

	usage, err := svc.GetOrganizationUsage(ctx, "acme", nil)
	require.NoError(t, err)

	assert.Equal(t, "acme", usage.Org)
	assert.Equal(t, len(usage.ActiveUsers)+len(usage.InactiveUsers), usage.TotalUsersWithAccess)
	assert.Equal(t, len(usage.ActiveUsers), usage.Aggregated.ActiveUsers)

	// Aggregated totals equal the sum of per-user totals
	var shown, accepted int64
	for _, user := range usage.Users {
		shown += user.Suggestions.Shown
		accepted += user.Suggestions.Accepted
	}
	assert.Equal(t, shown, usage.Aggregated.Suggestions.Shown)
	assert.Equal(t, accepted, usage.Aggregated.Suggestions.Accepted)

	metrics := svc.CalculateMetrics(usage.Snapshot())
	assert.GreaterOrEqual(t, metrics.UsageRate, 0.0)
	assert.LessOrEqual(t, metrics.UsageRate, 100.0)
	assert.GreaterOrEqual(t, metrics.AcceptanceRate, 0.0)
	assert.LessOrEqual(t, metrics.AcceptanceRate, 100.0)
	assert.LessOrEqual(t, len(metrics.MostActiveRepositories), 5)
	assert.LessOrEqual(t, len(metrics.MostActiveUsers), 5)
}

func TestMockProviderTeamUsage(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())
	ctx := context.Background()

	usage, err := svc.GetTeamUsage(ctx, "engineering", nil)
	require.NoError(t, err)

	assert.Equal(t, "engineering", usage.TeamSlug)
	assert.Equal(t, len(usage.ActiveMembers)+len(usage.InactiveMembers), usage.TotalMembersWithAccess)
	assert.NotEmpty(t, usage.Users)
}

func TestMockProviderDirectories(t *testing.T) {
	svc := service.NewCopilotService(github.NewMockProvider())
	ctx := context.Background()

	orgs, err := svc.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, orgs)

	teams, err := svc.ListTeams(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, teams)
	for _, team := range teams {
		assert.NotEmpty(t, team.Slug)
	}
}
