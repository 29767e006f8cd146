package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
)

// apiProvider implements UsageProvider against the GitHub REST API
type apiProvider struct {
	client     *github.Client
	defaultOrg string
	apiVersion string
}

// APIOptions configures the GitHub-backed provider
type APIOptions struct {
	Token      string
	BaseURL    string // empty for api.github.com
	APIVersion string // X-GitHub-Api-Version override, empty for the client default
	DefaultOrg string
}

// NewAPIProvider creates a provider backed by the GitHub REST API
func NewAPIProvider(opts APIOptions) (UsageProvider, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: opts.Token},
	)
	tc := oauth2.NewClient(ctx, ts)

	client := github.NewClient(tc)
	if opts.BaseURL != "" {
		var err error
		client, err = github.NewEnterpriseClient(opts.BaseURL, opts.BaseURL, tc)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
	}

	return &apiProvider{
		client:     client,
		defaultOrg: opts.DefaultOrg,
		apiVersion: opts.APIVersion,
	}, nil
}

// GetOrganizationUsage retrieves the Copilot usage summary for an organization
func (p *apiProvider) GetOrganizationUsage(ctx context.Context, org string, dateRange *domain.DateRange) (*domain.CopilotOrgUsage, error) {
	if org == "" {
		org = p.defaultOrg
	}

	path := fmt.Sprintf("orgs/%s/copilot/usage", org)
	var usage domain.CopilotOrgUsage
	if err := p.getJSON(ctx, path, dateRange, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// GetTeamUsage retrieves the Copilot usage summary for a team of the default organization
func (p *apiProvider) GetTeamUsage(ctx context.Context, team string, dateRange *domain.DateRange) (*domain.CopilotTeamUsage, error) {
	path := fmt.Sprintf("orgs/%s/team/%s/copilot/usage", p.defaultOrg, team)
	var usage domain.CopilotTeamUsage
	if err := p.getJSON(ctx, path, dateRange, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// ListOrganizations retrieves the organizations of the authenticated user
func (p *apiProvider) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	orgs, _, err := p.client.Organizations.List(ctx, "", &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, upstreamError("failed to list organizations", err)
	}

	result := make([]domain.Organization, 0, len(orgs))
	for _, org := range orgs {
		result = append(result, domain.Organization{
			ID:    org.GetID(),
			Login: org.GetLogin(),
		})
	}
	return result, nil
}

// ListOrganizationTeams retrieves the teams of an organization
func (p *apiProvider) ListOrganizationTeams(ctx context.Context, org string) ([]domain.Team, error) {
	if org == "" {
		org = p.defaultOrg
	}

	teams, _, err := p.client.Teams.ListTeams(ctx, org, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, upstreamError(fmt.Sprintf("failed to list teams for %s", org), err)
	}

	result := make([]domain.Team, 0, len(teams))
	for _, team := range teams {
		result = append(result, domain.Team{
			ID:   team.GetID(),
			Slug: team.GetSlug(),
			Name: team.GetName(),
		})
	}
	return result, nil
}

// ListTeams retrieves the teams of the default organization
func (p *apiProvider) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return p.ListOrganizationTeams(ctx, p.defaultOrg)
}

// getJSON issues a GET for an endpoint go-github has no typed binding for
func (p *apiProvider) getJSON(ctx context.Context, path string, dateRange *domain.DateRange, v interface{}) error {
	if params := rangeParams(dateRange); params != "" {
		path = path + "?" + params
	}

	req, err := p.client.NewRequest("GET", path, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build GitHub API request", err)
	}
	if p.apiVersion != "" {
		req.Header.Set("X-GitHub-Api-Version", p.apiVersion)
	}

	if _, err := p.client.Do(ctx, req, v); err != nil {
		return upstreamError(fmt.Sprintf("failed to fetch %s", path), err)
	}
	return nil
}

// rangeParams encodes a date range the way the Copilot API expects.
// The range is passed through verbatim; ordering is the API's concern.
func rangeParams(dateRange *domain.DateRange) string {
	if dateRange == nil {
		return ""
	}
	params := url.Values{}
	if !dateRange.StartDate.IsZero() {
		params.Set("start_time", dateRange.StartDate.Format(time.RFC3339))
	}
	if !dateRange.EndDate.IsZero() {
		params.Set("end_time", dateRange.EndDate.Format(time.RFC3339))
	}
	return params.Encode()
}

// upstreamError wraps a go-github error preserving the upstream status code
func upstreamError(message string, err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		msg := fmt.Sprintf("GitHub API error: %s", errResp.Message)
		return apperrors.NewUpstreamError(errResp.Response.StatusCode, msg, err)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return apperrors.NewUpstreamError(rateErr.Response.StatusCode, "GitHub API rate limit exceeded", err)
	}

	return apperrors.NewUpstreamError(0, message, err)
}
