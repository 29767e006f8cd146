package domain

import "time"

// Copilot usage types mirror the GitHub REST API response shapes:
// https://docs.github.com/en/rest/copilot/copilot-usage

// DateRange bounds a usage reporting window. Either side may be zero;
// the range is passed to the upstream API verbatim.
type DateRange struct {
	StartDate time.Time
	EndDate   time.Time
}

// CopilotUser is a seat holder within an org or team
type CopilotUser struct {
	ID                 int64  `json:"id"`
	Login              string `json:"login"`
	Name               string `json:"name,omitempty"`
	LastActivityAt     string `json:"last_activity_at"`
	LastActivityEditor string `json:"last_activity_editor,omitempty"`
	Active             bool   `json:"active"`
}

// CopilotSuggestionStats counts suggestions shown and accepted
type CopilotSuggestionStats struct {
	Shown    int64 `json:"shown"`
	Accepted int64 `json:"accepted"`
}

// CopilotRepositoryStats aggregates suggestion stats per repository
type CopilotRepositoryStats struct {
	RepositoryID   int64                  `json:"repository_id"`
	RepositoryName string                 `json:"repository_name"`
	Suggestions    CopilotSuggestionStats `json:"suggestions"`
	ActiveUsers    int                    `json:"active_users"`
}

// CopilotUserRepositoryStats breaks a user's stats down per repository
type CopilotUserRepositoryStats struct {
	RepositoryID   int64                  `json:"repository_id"`
	RepositoryName string                 `json:"repository_name"`
	Suggestions    CopilotSuggestionStats `json:"suggestions"`
}

// CopilotUserStats aggregates suggestion stats per user
type CopilotUserStats struct {
	UserID       int64                        `json:"user_id"`
	UserLogin    string                       `json:"user_login"`
	Suggestions  CopilotSuggestionStats       `json:"suggestions"`
	Repositories []CopilotUserRepositoryStats `json:"repositories"`
}

// CopilotAggregatedStats holds org- or team-wide totals.
// active_users and the active-entity list of the enclosing snapshot are
// independently reported numbers; consumers must not assume they match.
type CopilotAggregatedStats struct {
	Suggestions   CopilotSuggestionStats   `json:"suggestions"`
	ActiveUsers   int                      `json:"active_users"`
	TotalUsers    int                      `json:"total_users"`
	InactiveUsers int                      `json:"inactive_users"`
	Repositories  []CopilotRepositoryStats `json:"repositories"`
}

// CopilotOrgUsage is a Copilot usage snapshot scoped to an organization
type CopilotOrgUsage struct {
	Org                  string                 `json:"org"`
	TotalUsersWithAccess int                    `json:"total_users_with_access"`
	ActiveUsers          []CopilotUser          `json:"active_users"`
	InactiveUsers        []CopilotUser          `json:"inactive_users"`
	Aggregated           CopilotAggregatedStats `json:"aggregated"`
	Users                []CopilotUserStats     `json:"users"`
	StartTime            string                 `json:"start_time"`
	EndTime              string                 `json:"end_time"`
}

// CopilotTeamUsage is a Copilot usage snapshot scoped to a team
type CopilotTeamUsage struct {
	TeamID                 int64                  `json:"team_id"`
	TeamName               string                 `json:"team_name"`
	TeamSlug               string                 `json:"team_slug,omitempty"`
	TotalMembersWithAccess int                    `json:"total_members_with_access"`
	ActiveMembers          []CopilotUser          `json:"active_members"`
	InactiveMembers        []CopilotUser          `json:"inactive_members"`
	Aggregated             CopilotAggregatedStats `json:"aggregated"`
	Users                  []CopilotUserStats     `json:"users"`
	StartTime              string                 `json:"start_time"`
	EndTime                string                 `json:"end_time"`
}

// UsageSnapshot is the scope-independent view CalculateMetrics works on
type UsageSnapshot struct {
	TotalWithAccess int
	ActiveCount     int
	Aggregated      CopilotAggregatedStats
	Users           []CopilotUserStats
}

// Snapshot extracts the derivation inputs from an org usage snapshot
func (u *CopilotOrgUsage) Snapshot() UsageSnapshot {
	return UsageSnapshot{
		TotalWithAccess: u.TotalUsersWithAccess,
		ActiveCount:     len(u.ActiveUsers),
		Aggregated:      u.Aggregated,
		Users:           u.Users,
	}
}

// Snapshot extracts the derivation inputs from a team usage snapshot
func (u *CopilotTeamUsage) Snapshot() UsageSnapshot {
	return UsageSnapshot{
		TotalWithAccess: u.TotalMembersWithAccess,
		ActiveCount:     len(u.ActiveMembers),
		Aggregated:      u.Aggregated,
		Users:           u.Users,
	}
}

// UsageMetrics holds analytics derived from a usage snapshot
type UsageMetrics struct {
	UsageRate                        float64                  `json:"usageRate"`
	AcceptanceRate                   float64                  `json:"acceptanceRate"`
	SuggestionsPerActiveUser         float64                  `json:"suggestionsPerActiveUser"`
	AcceptedSuggestionsPerActiveUser float64                  `json:"acceptedSuggestionsPerActiveUser"`
	MostActiveRepositories           []CopilotRepositoryStats `json:"mostActiveRepositories"`
	MostEfficientRepositories        []CopilotRepositoryStats `json:"mostEfficientRepositories"`
	MostActiveUsers                  []CopilotUserStats       `json:"mostActiveUsers"`
	MostEfficientUsers               []CopilotUserStats       `json:"mostEfficientUsers"`
}

// Organization is a directory entry for an org the token can see
type Organization struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Team is a directory entry for a team within an organization
type Team struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}
