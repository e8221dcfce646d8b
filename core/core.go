// Package core builds dashboard pages from a loaded table: it applies the period
// selector, buckets timestamps and aggregates every chart of a page.
package core

import (
	"context"
	"os"
	"time"

	"github.com/huangsam/leadpulse/core/period"
	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/internal/outwriter"
	"github.com/huangsam/leadpulse/schema"
)

// ExecutorFunc defines the function signature for executing a dashboard command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteTrend prints the lead count per bucket of the selected period.
func ExecuteTrend(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executePage(ctx, cfg, mgr, schema.TrendPage)
}

// ExecuteTop prints the most frequent values of the --column column.
func ExecuteTop(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executePage(ctx, cfg, mgr, schema.TopPage)
}

// ExecuteScores prints the average per bucket of every --columns column.
func ExecuteScores(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executePage(ctx, cfg, mgr, schema.ScoresPage)
}

// ExecuteLeads prints the leads page.
func ExecuteLeads(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executePage(ctx, cfg, mgr, schema.LeadsPage)
}

// ExecuteOverview prints the overview page.
func ExecuteOverview(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executePage(ctx, cfg, mgr, schema.OverviewPage)
}

// ExecutePeriods prints the period selector options. It needs no input file.
func ExecutePeriods(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WritePeriods(GetPeriodPolicies(), cfg)
}

// GetPeriodPolicies returns every named period in selector order.
func GetPeriodPolicies() []schema.PeriodPolicy {
	names := period.ListPeriodNames()
	policies := make([]schema.PeriodPolicy, 0, len(names))
	for _, name := range names {
		policy, err := period.ResolveWindow(name)
		if err != nil {
			continue
		}
		policies = append(policies, policy)
	}
	return policies
}

// executePage computes a page and prints it in the configured output format.
func executePage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, page schema.PageName) error {
	start := time.Now()
	if cfg.Output == schema.TextOut {
		outwriter.LogDashboardHeader(os.Stdout, cfg, page)
	}

	result, err := GetDashboardResult(ctx, cfg, mgr, page)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteDashboard(result, cfg, duration)
}
