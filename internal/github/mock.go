package github

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
)

// mockProvider fabricates plausible Copilot usage snapshots for development.
// The exact numbers are random and not a contract; the shape and the internal
// consistency of the aggregates are.
type mockProvider struct{}

// NewMockProvider creates a provider that generates mock usage data
func NewMockProvider() UsageProvider {
	return &mockProvider{}
}

var mockEditors = []string{"VS Code", "Visual Studio", "JetBrains", "Vim", "Neovim"}

var mockRepositories = []struct {
	id   int64
	name string
}{
	{1, "frontend-app"},
	{2, "backend-api"},
	{3, "shared-libs"},
	{4, "internal-tools"},
	{5, "docs-site"},
	{6, "mobile-app"},
}

var mockTeams = []domain.Team{
	{ID: 101, Slug: "engineering", Name: "Engineering"},
	{ID: 102, Slug: "design", Name: "Design"},
	{ID: 103, Slug: "product", Name: "Product"},
	{ID: 104, Slug: "platform", Name: "Platform"},
	{ID: 105, Slug: "devops", Name: "DevOps"},
}

// GetOrganizationUsage generates a mock usage snapshot for an organization
func (p *mockProvider) GetOrganizationUsage(ctx context.Context, org string, dateRange *domain.DateRange) (*domain.CopilotOrgUsage, error) {
	if org == "" {
		org = "mock-organization"
	}

	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now
	if dateRange != nil {
		if !dateRange.StartDate.IsZero() {
			start = dateRange.StartDate
		}
		if !dateRange.EndDate.IsZero() {
			end = dateRange.EndDate
		}
	}

	activeUsers := make([]domain.CopilotUser, 15)
	for i := range activeUsers {
		activeUsers[i] = domain.CopilotUser{
			ID:                 int64(1000 + i),
			Login:              fmt.Sprintf("active-user-%d", i),
			Name:               fmt.Sprintf("Active User %d", i),
			LastActivityAt:     now.Add(-time.Duration(rand.Intn(7*24)) * time.Hour).Format(time.RFC3339),
			LastActivityEditor: mockEditors[rand.Intn(len(mockEditors))],
			Active:             true,
		}
	}

	inactiveUsers := make([]domain.CopilotUser, 8)
	for i := range inactiveUsers {
		inactiveUsers[i] = domain.CopilotUser{
			ID:             int64(2000 + i),
			Login:          fmt.Sprintf("inactive-user-%d", i),
			Name:           fmt.Sprintf("Inactive User %d", i),
			LastActivityAt: now.Add(-time.Duration(30*24+rand.Intn(60*24)) * time.Hour).Format(time.RFC3339),
			Active:         false,
		}
	}

	repoStats := make([]domain.CopilotRepositoryStats, len(mockRepositories))
	for i, repo := range mockRepositories {
		shown := int64(1000 + rand.Intn(10000))
		repoStats[i] = domain.CopilotRepositoryStats{
			RepositoryID:   repo.id,
			RepositoryName: repo.name,
			Suggestions: domain.CopilotSuggestionStats{
				Shown:    shown,
				Accepted: acceptedFor(shown),
			},
			ActiveUsers: 1 + rand.Intn(len(activeUsers)),
		}
	}

	userStats := make([]domain.CopilotUserStats, len(activeUsers))
	for i, user := range activeUsers {
		numRepos := 1 + rand.Intn(4)
		perm := rand.Perm(len(mockRepositories))

		userRepos := make([]domain.CopilotUserRepositoryStats, 0, numRepos)
		var totalShown, totalAccepted int64
		for _, idx := range perm[:numRepos] {
			repo := mockRepositories[idx]
			shown := int64(100 + rand.Intn(2000))
			accepted := acceptedFor(shown)
			totalShown += shown
			totalAccepted += accepted
			userRepos = append(userRepos, domain.CopilotUserRepositoryStats{
				RepositoryID:   repo.id,
				RepositoryName: repo.name,
				Suggestions: domain.CopilotSuggestionStats{
					Shown:    shown,
					Accepted: accepted,
				},
			})
		}

		userStats[i] = domain.CopilotUserStats{
			UserID:       user.ID,
			UserLogin:    user.Login,
			Suggestions:  domain.CopilotSuggestionStats{Shown: totalShown, Accepted: totalAccepted},
			Repositories: userRepos,
		}
	}

	var totalShown, totalAccepted int64
	for _, user := range userStats {
		totalShown += user.Suggestions.Shown
		totalAccepted += user.Suggestions.Accepted
	}

	return &domain.CopilotOrgUsage{
		Org:                  org,
		TotalUsersWithAccess: len(activeUsers) + len(inactiveUsers),
		ActiveUsers:          activeUsers,
		InactiveUsers:        inactiveUsers,
		Aggregated: domain.CopilotAggregatedStats{
			Suggestions:   domain.CopilotSuggestionStats{Shown: totalShown, Accepted: totalAccepted},
			ActiveUsers:   len(activeUsers),
			TotalUsers:    len(activeUsers) + len(inactiveUsers),
			InactiveUsers: len(inactiveUsers),
			Repositories:  repoStats,
		},
		Users:     userStats,
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	}, nil
}

// GetTeamUsage generates a mock usage snapshot for a team as a subset of org data
func (p *mockProvider) GetTeamUsage(ctx context.Context, team string, dateRange *domain.DateRange) (*domain.CopilotTeamUsage, error) {
	orgData, err := p.GetOrganizationUsage(ctx, "mock-organization", dateRange)
	if err != nil {
		return nil, err
	}

	if team == "" {
		team = "mock-team"
	}

	activeMembers := orgData.ActiveUsers[:5]
	inactiveMembers := orgData.InactiveUsers[:3]

	memberIDs := make(map[int64]bool, len(activeMembers))
	for _, member := range activeMembers {
		memberIDs[member.ID] = true
	}

	teamUsers := []domain.CopilotUserStats{}
	teamRepoIDs := map[int64]bool{}
	var totalShown, totalAccepted int64
	for _, user := range orgData.Users {
		if !memberIDs[user.UserID] {
			continue
		}
		teamUsers = append(teamUsers, user)
		totalShown += user.Suggestions.Shown
		totalAccepted += user.Suggestions.Accepted
		for _, repo := range user.Repositories {
			teamRepoIDs[repo.RepositoryID] = true
		}
	}

	teamRepos := []domain.CopilotRepositoryStats{}
	for _, repo := range orgData.Aggregated.Repositories {
		if teamRepoIDs[repo.RepositoryID] {
			teamRepos = append(teamRepos, repo)
		}
	}

	return &domain.CopilotTeamUsage{
		TeamID:                 101,
		TeamName:               team,
		TeamSlug:               team,
		TotalMembersWithAccess: len(activeMembers) + len(inactiveMembers),
		ActiveMembers:          activeMembers,
		InactiveMembers:        inactiveMembers,
		Aggregated: domain.CopilotAggregatedStats{
			Suggestions:   domain.CopilotSuggestionStats{Shown: totalShown, Accepted: totalAccepted},
			ActiveUsers:   len(activeMembers),
			TotalUsers:    len(activeMembers) + len(inactiveMembers),
			InactiveUsers: len(inactiveMembers),
			Repositories:  teamRepos,
		},
		Users:     teamUsers,
		StartTime: orgData.StartTime,
		EndTime:   orgData.EndTime,
	}, nil
}

// ListOrganizations returns a fixed mock organization directory
func (p *mockProvider) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return []domain.Organization{
		{ID: 1, Login: "mock-organization"},
		{ID: 2, Login: "mock-labs"},
	}, nil
}

// ListOrganizationTeams returns the fixed mock team directory
func (p *mockProvider) ListOrganizationTeams(ctx context.Context, org string) ([]domain.Team, error) {
	return append([]domain.Team(nil), mockTeams...), nil
}

// ListTeams returns the fixed mock team directory
func (p *mockProvider) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return append([]domain.Team(nil), mockTeams...), nil
}

// acceptedFor picks an accepted count in the 30-80% acceptance band
func acceptedFor(shown int64) int64 {
	return int64(float64(shown) * (0.3 + rand.Float64()*0.5))
}
