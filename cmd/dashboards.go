package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/leadpulse/core"
	"github.com/huangsam/leadpulse/internal/contract"
)

// runExecutor adapts a core executor to Cobra's Run.
func runExecutor(exec core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := exec(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// periodsCmd lists the period selector.
var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the named periods and what they resolve to.",
	Long: `Show every option of the period selector with its lookback and default bucket unit.

The lookback is measured back from the newest timestamp in the data, not from today.

Examples:
  # Show the selector as a table
  leadpulse periods

  # Machine-readable listing
  leadpulse periods --output json`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, args []string) error {
		return configSetup(args)
	},
	Run: runExecutor(core.ExecutePeriods, "Cannot list periods"),
}

// trendCmd shows the lead count per bucket.
var trendCmd = &cobra.Command{
	Use:   "trend <input-file>",
	Short: "Show the number of leads per time bucket.",
	Long: `Count rows per time bucket over the selected period.

Examples:
  # Daily counts for the last 30 days
  leadpulse trend leads.xlsx

  # Weekly counts over the last year
  leadpulse trend leads.xlsx --period "Last 1 Year" --granularity week

  # Use another timestamp column
  leadpulse trend assessments.csv --timestamp-column DATE_DAY`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteTrend, "Cannot build trend"),
}

// topCmd shows the most frequent values of a column.
var topCmd = &cobra.Command{
	Use:   "top <input-file>",
	Short: "Show the most frequent values of a column.",
	Long: `Rank the values of a categorical column by how many rows carry them within the selected period.

Examples:
  # Top 10 lead sources this month
  leadpulse top leads.xlsx --column SOURCE

  # Top 5 campaign sites of all time, as CSV
  leadpulse top leads.xlsx --column CAMPAIGN_SITE --limit 5 --period "All Time" --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteTop, "Cannot build top values"),
}

// scoresCmd shows average scores per bucket.
var scoresCmd = &cobra.Command{
	Use:   "scores <input-file>",
	Short: "Show average scores per time bucket.",
	Long: `Average one or more numeric columns per time bucket. Zero and negative
values are treated as "not scored" and left out of the average.

Examples:
  # Overall and vocabulary scores by week
  leadpulse scores assessments.csv --timestamp-column DATE_DAY \
    --columns TALKSCORE_OVERALL,TALKSCORE_VOCAB --period "Last 12 Weeks"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteScores, "Cannot build scores"),
}

// leadsCmd renders the leads page.
var leadsCmd = &cobra.Command{
	Use:   "leads <input-file>",
	Short: "Render the leads page.",
	Long: `Render the leads page: the lead count trend, the top campaigns, sources,
managers and folders, the top completion methods, campaign types and sites,
and the repeat application trend.

Offers: Last 30 days, Last 12 Weeks, Last 1 Year, All Time.
Column names come from the "leads" section of the config file.

Examples:
  leadpulse leads leads.xlsx --period "Last 12 Weeks"
  leadpulse leads leads.xlsx --output parquet --output-file leads.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteLeads, "Cannot build leads page"),
}

// overviewCmd renders the overview page.
var overviewCmd = &cobra.Command{
	Use:   "overview <input-file>",
	Short: "Render the assessment overview page.",
	Long: `Render the overview page: average overall score, lead count, score
components, tests completed and completion rate by site, and rows flagged
for review.

Offers: Last 30 days, Last 12 Weeks, Last 12 Months.
Column names come from the "overview" section of the config file.

Examples:
  leadpulse overview assessments.csv --period "Last 12 Months" --granularity week`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteOverview, "Cannot build overview page"),
}
