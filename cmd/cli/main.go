package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/metrics-dashboard/internal/config"
	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	"github.com/kurihiro0119/metrics-dashboard/pkg/client"
)

var (
	outputJSON bool
	startDate  string
	endDate    string

	metricSearch  string
	metricTypes   string
	metricPeriods string

	metricName        string
	metricDescription string
	metricWarning     float64
	metricCritical    float64

	dashboardOwner string
)

var rootCmd = &cobra.Command{
	Use:   "dashboard-cli",
	Short: "Metrics dashboard tool",
	Long: `A CLI tool for managing dashboard metrics and inspecting GitHub Copilot usage.

This tool talks to a running metrics-dashboard API server. Set API_ENDPOINT
to point it at a non-default server.`,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Manage metrics",
}

var metricsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List metrics",
	Long:  `List metrics, optionally filtered by search text, types or periods.`,
	Args:  cobra.NoArgs,
	RunE:  runMetricsList,
}

var metricsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a metric",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetricsGet,
}

var metricsCreateCmd = &cobra.Command{
	Use:   "create [key] [type] [period] [value]",
	Short: "Create a metric",
	Long:  `Create a metric with the given key, type, period and initial value.`,
	Args:  cobra.ExactArgs(4),
	RunE:  runMetricsCreate,
}

var metricsUpdateCmd = &cobra.Command{
	Use:   "update [id] [value]",
	Short: "Record a new value for a metric",
	Args:  cobra.ExactArgs(2),
	RunE:  runMetricsUpdate,
}

var metricsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a metric",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetricsDelete,
}

var metricsHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show a metric's value history",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetricsHistory,
}

var dashboardsCmd = &cobra.Command{
	Use:   "dashboards",
	Short: "Manage dashboards",
}

var dashboardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dashboards",
	Args:  cobra.NoArgs,
	RunE:  runDashboardsList,
}

var dashboardsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a dashboard and its widgets",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboardsGet,
}

var copilotCmd = &cobra.Command{
	Use:   "copilot",
	Short: "Show GitHub Copilot usage",
}

var copilotOrgCmd = &cobra.Command{
	Use:   "org [org]",
	Short: "Show Copilot usage for an organization",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopilotOrg,
}

var copilotTeamCmd = &cobra.Command{
	Use:   "team [slug]",
	Short: "Show Copilot usage for a team",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopilotTeam,
}

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List accessible organizations",
	Args:  cobra.NoArgs,
	RunE:  runOrgs,
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List teams of the default organization",
	Args:  cobra.NoArgs,
	RunE:  runTeams,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")

	metricsListCmd.Flags().StringVar(&metricSearch, "search", "", "search in key, name and description")
	metricsListCmd.Flags().StringVar(&metricTypes, "types", "", "comma-separated metric types")
	metricsListCmd.Flags().StringVar(&metricPeriods, "periods", "", "comma-separated metric periods")

	metricsCreateCmd.Flags().StringVar(&metricName, "name", "", "display name (defaults to the key)")
	metricsCreateCmd.Flags().StringVar(&metricDescription, "description", "", "metric description")
	metricsCreateCmd.Flags().Float64Var(&metricWarning, "warning", 0, "warning threshold")
	metricsCreateCmd.Flags().Float64Var(&metricCritical, "critical", 0, "critical threshold")

	dashboardsListCmd.Flags().StringVar(&dashboardOwner, "owner", "", "filter by owner")

	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsListCmd)
	metricsCmd.AddCommand(metricsGetCmd)
	metricsCmd.AddCommand(metricsCreateCmd)
	metricsCmd.AddCommand(metricsUpdateCmd)
	metricsCmd.AddCommand(metricsDeleteCmd)
	metricsCmd.AddCommand(metricsHistoryCmd)
	rootCmd.AddCommand(dashboardsCmd)
	dashboardsCmd.AddCommand(dashboardsListCmd)
	dashboardsCmd.AddCommand(dashboardsGetCmd)
	rootCmd.AddCommand(copilotCmd)
	copilotCmd.AddCommand(copilotOrgCmd)
	copilotCmd.AddCommand(copilotTeamCmd)
	rootCmd.AddCommand(orgsCmd)
	rootCmd.AddCommand(teamsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getClient() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return client.NewClient(cfg.APIEndpoint), nil
}

func getDateRange() (time.Time, time.Time) {
	var start, end time.Time

	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			start = t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			end = t
		}
	}
	return start, end
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func runMetricsList(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	metrics, err := c.ListMetrics(&client.MetricFilterParams{
		Search:  metricSearch,
		Types:   metricTypes,
		Periods: metricPeriods,
	})
	if err != nil {
		return fmt.Errorf("failed to list metrics: %w", err)
	}

	if outputJSON {
		return printJSON(metrics)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Key", "Type", "Period", "Current", "Change %", "Trend"})
	for _, m := range metrics {
		table.Append([]string{
			m.ID,
			m.Key,
			string(m.Type),
			string(m.Period),
			strconv.FormatFloat(m.CurrentValue, 'f', -1, 64),
			fmt.Sprintf("%.2f", m.ChangePercentage),
			string(m.Trend),
		})
	}
	table.Render()

	return nil
}

func runMetricsGet(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	metric, err := c.GetMetric(args[0])
	if err != nil {
		return fmt.Errorf("failed to get metric: %w", err)
	}

	if outputJSON {
		return printJSON(metric)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"ID", metric.ID})
	table.Append([]string{"Key", metric.Key})
	table.Append([]string{"Name", metric.Metadata.Name})
	table.Append([]string{"Type", string(metric.Type)})
	table.Append([]string{"Period", string(metric.Period)})
	table.Append([]string{"Current Value", strconv.FormatFloat(metric.CurrentValue, 'f', -1, 64)})
	table.Append([]string{"Change %", fmt.Sprintf("%.2f", metric.ChangePercentage)})
	table.Append([]string{"Trend", string(metric.Trend)})
	table.Append([]string{"History Entries", fmt.Sprintf("%d", len(metric.History))})
	table.Render()

	return nil
}

func runMetricsCreate(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid initial value %q", args[3])
	}

	name := metricName
	if name == "" {
		name = args[0]
	}

	input := client.CreateMetricInput{
		Key:          args[0],
		Name:         name,
		Type:         domain.MetricType(args[1]),
		Period:       domain.MetricPeriod(args[2]),
		InitialValue: value,
		Description:  metricDescription,
	}
	if metricWarning != 0 || metricCritical != 0 {
		input.Thresholds = &domain.MetricThresholds{
			Warning:  metricWarning,
			Critical: metricCritical,
		}
	}

	metric, err := c.CreateMetric(input)
	if err != nil {
		return fmt.Errorf("failed to create metric: %w", err)
	}

	if outputJSON {
		return printJSON(metric)
	}

	fmt.Printf("Created metric %s (%s)\n", metric.Key, metric.ID)
	return nil
}

func runMetricsUpdate(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q", args[1])
	}

	metric, err := c.UpdateMetricValue(args[0], value)
	if err != nil {
		return fmt.Errorf("failed to update metric: %w", err)
	}

	if outputJSON {
		return printJSON(metric)
	}

	fmt.Printf("Updated %s: %s (%+.2f%%, %s)\n",
		metric.Key, strconv.FormatFloat(metric.CurrentValue, 'f', -1, 64), metric.ChangePercentage, metric.Trend)
	return nil
}

func runMetricsDelete(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	if err := c.DeleteMetric(args[0]); err != nil {
		return fmt.Errorf("failed to delete metric: %w", err)
	}

	fmt.Printf("Deleted metric %s\n", args[0])
	return nil
}

func runMetricsHistory(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	start, end := getDateRange()
	history, err := c.GetMetricHistory(args[0], start, end)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if outputJSON {
		return printJSON(history)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "Value"})
	for _, entry := range history {
		table.Append([]string{
			entry.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(entry.Value, 'f', -1, 64),
		})
	}
	table.Render()

	return nil
}

func runDashboardsList(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	dashboards, err := c.ListDashboards(dashboardOwner)
	if err != nil {
		return fmt.Errorf("failed to list dashboards: %w", err)
	}

	if outputJSON {
		return printJSON(dashboards)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Owner", "Widgets", "Tags"})
	for _, d := range dashboards {
		table.Append([]string{
			d.ID,
			d.Name,
			d.Owner,
			fmt.Sprintf("%d", len(d.Widgets)),
			strings.Join(d.Tags, ", "),
		})
	}
	table.Render()

	return nil
}

func runDashboardsGet(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	dashboard, err := c.GetDashboard(args[0])
	if err != nil {
		return fmt.Errorf("failed to get dashboard: %w", err)
	}

	if outputJSON {
		return printJSON(dashboard)
	}

	fmt.Printf("\n%s (%s)\nOwner: %s\n\n", dashboard.Name, dashboard.ID, dashboard.Owner)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Widget", "Type", "Size", "Metrics"})
	for _, w := range dashboard.Widgets {
		table.Append([]string{
			w.Title,
			string(w.Type),
			string(w.Size),
			strings.Join(w.MetricIDs, ", "),
		})
	}
	table.Render()

	return nil
}

func runCopilotOrg(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	start, end := getDateRange()
	report, err := c.GetOrgCopilotUsage(args[0], start, end)
	if err != nil {
		return fmt.Errorf("failed to get Copilot usage: %w", err)
	}

	if outputJSON {
		return printJSON(report)
	}

	fmt.Printf("\nCopilot Usage: %s\n\n", report.UsageData.Org)
	renderUsageReport(report.UsageData.TotalUsersWithAccess, len(report.UsageData.ActiveUsers), report.Metrics)
	return nil
}

func runCopilotTeam(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	start, end := getDateRange()
	report, err := c.GetTeamCopilotUsage(args[0], start, end)
	if err != nil {
		return fmt.Errorf("failed to get Copilot usage: %w", err)
	}

	if outputJSON {
		return printJSON(report)
	}

	fmt.Printf("\nCopilot Usage: team %s\n\n", report.UsageData.TeamName)
	renderUsageReport(report.UsageData.TotalMembersWithAccess, len(report.UsageData.ActiveMembers), report.Metrics)
	return nil
}

func renderUsageReport(withAccess, active int, metrics *domain.UsageMetrics) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Users With Access", fmt.Sprintf("%d", withAccess)})
	table.Append([]string{"Active Users", fmt.Sprintf("%d", active)})
	table.Append([]string{"Usage Rate", fmt.Sprintf("%.1f%%", metrics.UsageRate)})
	table.Append([]string{"Acceptance Rate", fmt.Sprintf("%.1f%%", metrics.AcceptanceRate)})
	table.Append([]string{"Suggestions / Active User", fmt.Sprintf("%.1f", metrics.SuggestionsPerActiveUser)})
	table.Append([]string{"Accepted / Active User", fmt.Sprintf("%.1f", metrics.AcceptedSuggestionsPerActiveUser)})
	table.Render()

	if len(metrics.MostActiveRepositories) > 0 {
		fmt.Println("\nMost Active Repositories")
		repos := tablewriter.NewWriter(os.Stdout)
		repos.SetHeader([]string{"Repository", "Shown", "Accepted"})
		for _, r := range metrics.MostActiveRepositories {
			repos.Append([]string{
				r.RepositoryName,
				fmt.Sprintf("%d", r.Suggestions.Shown),
				fmt.Sprintf("%d", r.Suggestions.Accepted),
			})
		}
		repos.Render()
	}

	if len(metrics.MostActiveUsers) > 0 {
		fmt.Println("\nMost Active Users")
		users := tablewriter.NewWriter(os.Stdout)
		users.SetHeader([]string{"User", "Shown", "Accepted"})
		for _, u := range metrics.MostActiveUsers {
			users.Append([]string{
				u.UserLogin,
				fmt.Sprintf("%d", u.Suggestions.Shown),
				fmt.Sprintf("%d", u.Suggestions.Accepted),
			})
		}
		users.Render()
	}
}

func runOrgs(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	orgs, err := c.ListOrganizations()
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	if outputJSON {
		return printJSON(orgs)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Login"})
	for _, org := range orgs {
		table.Append([]string{fmt.Sprintf("%d", org.ID), org.Login})
	}
	table.Render()

	return nil
}

func runTeams(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	teams, err := c.ListTeams()
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}

	if outputJSON {
		return printJSON(teams)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Slug", "Name"})
	for _, team := range teams {
		table.Append([]string{fmt.Sprintf("%d", team.ID), team.Slug, team.Name})
	}
	table.Render()

	return nil
}
