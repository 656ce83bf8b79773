// Package reporter writes lint results as styled text, JSON, diffs or
// summary tables.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdcheck/pkg/analysis"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

// Reporter writes one run's results and returns how many violations it
// reported.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// aggregated adapts a Renderer: the run is first folded into an
// analysis.Report, then rendered.
type aggregated struct {
	renderer Renderer
	analysis analysis.Options
}

var _ Reporter = aggregated{}

func (a aggregated) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.analysis)
	if err := a.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render %T: %w", a.renderer, err)
	}
	return report.Totals.Violations, nil
}

// New returns the Reporter for opts.Format. Unset options take the
// defaults of withDefaults.
func New(opts Options) (Reporter, error) {
	opts = opts.withDefaults()

	// listed reports whether the renderer needs individual violations or
	// only the aggregates.
	aggregate := func(r Renderer, listed bool) Reporter {
		return aggregated{renderer: r, analysis: analysis.Options{
			IncludeViolations: listed,
			SortBy:            analysis.SortByCount,
			RuleFormat:        opts.RuleFormat,
			WorkingDir:        opts.WorkingDir,
		}}
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatJSON:
		return aggregate(NewJSONRenderer(opts), true), nil
	case FormatSummary:
		return aggregate(NewSummaryRenderer(opts), false), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", opts.Format)
}
