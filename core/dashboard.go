package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/huangsam/leadpulse/core/period"
	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// bucketing names the derived bucket column of a run and the unit it was cut with.
type bucketing struct {
	column      string
	granularity schema.Granularity
}

// chartSpec describes one chart of a page. build receives the windowed table
// with the bucket column already attached.
type chartSpec struct {
	title  string
	kind   schema.ChartKind
	xLabel string
	yLabel string
	build  func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error)
}

// pageSpec is everything needed to render one page.
type pageSpec struct {
	page      schema.PageName
	tsColumn  string
	periods   []string // allowed period names, nil means every period
	charts    []chartSpec
	paramsFor func() map[string]any
}

// GetDashboardResult loads the input and computes every chart of a page for
// the configured period. Charts without data become placeholders.
func GetDashboardResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, page schema.PageName) (*schema.DashboardResult, error) {
	spec, err := buildPageSpec(cfg, page)
	if err != nil {
		return nil, err
	}

	table, err := cachedLoadTable(cfg, mgr)
	if err != nil {
		return nil, err
	}

	return runDashboard(ctx, cfg, mgr, spec, table)
}

// runDashboard applies the period to table and renders the page, recording the
// run in the history store when one is configured.
func runDashboard(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, spec pageSpec, table *schema.Table) (*schema.DashboardResult, error) {
	policy, err := resolvePagePeriod(spec, cfg.Period)
	if err != nil {
		return nil, err
	}
	granularity := policy.Granularity
	if cfg.Granularity != "" {
		granularity = cfg.Granularity
	}

	ctx = contextWithCacheManager(ctx, mgr)
	ctx = beginRun(ctx, cfg, spec)

	result := &schema.DashboardResult{
		Page:        spec.page,
		Period:      policy.Name,
		Granularity: granularity,
		TotalRows:   table.Len(),
	}
	if err := renderPage(cfg, spec, policy, granularity, table, result); err != nil {
		// The run is still closed, without chart points
		result.Charts = nil
		endRun(ctx, result)
		return nil, err
	}
	endRun(ctx, result)
	return result, nil
}

// renderPage filters table by the period window and fills result with every chart.
func renderPage(cfg *contract.Config, spec pageSpec, policy schema.PeriodPolicy, granularity schema.Granularity, table *schema.Table, result *schema.DashboardResult) error {
	window, reference, err := period.FilterByWindow(table, spec.tsColumn, policy.Lookback)
	if isNoData(err) {
		contract.Logger().Debug("no rows in window",
			zap.String("page", string(spec.page)),
			zap.String("period", policy.Name),
			zap.Error(err))
		for _, c := range spec.charts {
			result.Charts = append(result.Charts, placeholder(c, err))
		}
		return nil
	}
	if err != nil {
		return err
	}
	result.Reference = reference
	result.WindowRows = window.Len()

	b := bucketing{
		column:      period.FreeColumnName(window, cfg.BucketColumn),
		granularity: granularity,
	}
	bucketed, err := period.WithBucketColumn(window, spec.tsColumn, granularity, b.column)
	if err != nil {
		return err
	}
	for _, c := range spec.charts {
		chart, err := renderChart(c, bucketed, b)
		if err != nil {
			return fmt.Errorf("chart %q: %w", c.title, err)
		}
		result.Charts = append(result.Charts, chart)
	}
	return nil
}

// resolvePagePeriod resolves name and checks it against the page's period selector.
func resolvePagePeriod(spec pageSpec, name string) (schema.PeriodPolicy, error) {
	policy, err := period.ResolveWindow(name)
	if err != nil {
		return policy, err
	}
	if spec.periods != nil && !slices.Contains(spec.periods, policy.Name) {
		return policy, fmt.Errorf("%w: %q is not offered on the %s page (must be one of: %s)",
			schema.ErrInvalidPeriod, policy.Name, spec.page, strings.Join(spec.periods, ", "))
	}
	return policy, nil
}

// renderChart builds one chart, turning data errors into a placeholder.
func renderChart(c chartSpec, t *schema.Table, b bucketing) (schema.Chart, error) {
	points, err := c.build(t, b)
	if isNoData(err) {
		return placeholder(c, err), nil
	}
	if err != nil {
		return schema.Chart{}, err
	}
	if len(points) == 0 {
		return placeholder(c, nil), nil
	}
	return schema.Chart{
		Title:  c.title,
		Kind:   c.kind,
		XLabel: c.xLabel,
		YLabel: c.yLabel,
		Points: points,
	}, nil
}

// placeholder returns the empty stand-in for a chart. A missing column is
// named in the reason so a wrong layout is easy to spot.
func placeholder(c chartSpec, err error) schema.Chart {
	reason := schema.NoDataReason
	if errors.Is(err, schema.ErrMissingColumn) {
		reason = fmt.Sprintf("%s (%v)", schema.NoDataReason, err)
	}
	return schema.Chart{
		Title:  c.title,
		Kind:   c.kind,
		XLabel: c.xLabel,
		YLabel: c.yLabel,
		Empty:  true,
		Reason: reason,
	}
}

// isNoData reports whether err means "nothing to show" rather than a failure.
func isNoData(err error) bool {
	return errors.Is(err, schema.ErrEmptyDataset) || errors.Is(err, schema.ErrMissingColumn)
}

// beginRun opens a history run and stores its ID in the context.
func beginRun(ctx context.Context, cfg *contract.Config, spec pageSpec) context.Context {
	mgr := cacheManagerFromContext(ctx)
	if mgr == nil {
		return ctx
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx
	}

	params := map[string]any{
		"page":        string(spec.page),
		"period":      cfg.Period,
		"granularity": string(cfg.Granularity),
		"input_path":  cfg.InputPath,
		"sheet":       cfg.Sheet,
		"timestamp":   spec.tsColumn,
	}
	if spec.paramsFor != nil {
		for k, v := range spec.paramsFor() {
			params[k] = v
		}
	}

	runID, err := store.BeginRun(time.Now(), params)
	if err != nil {
		contract.LogWarn("Run history initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRun records every populated chart and closes the history run.
func endRun(ctx context.Context, result *schema.DashboardResult) {
	runID, ok := getRunID(ctx)
	if !ok {
		return
	}
	mgr := cacheManagerFromContext(ctx)
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	now := time.Now()
	for _, chart := range result.Charts {
		if chart.Empty {
			continue
		}
		if err := store.RecordChartPoints(runID, chart.Title, chart.Points, now); err != nil {
			contract.LogWarn(fmt.Sprintf("Run history failed for chart %q", chart.Title), err)
		}
	}

	summary := schema.RunSummary{
		Page:        result.Page,
		Period:      result.Period,
		Granularity: result.Granularity,
		TotalRows:   result.TotalRows,
		WindowRows:  result.WindowRows,
	}
	if err := store.EndRun(runID, now, summary); err != nil {
		contract.LogWarn("Failed to finalize run history", err)
	}
}
