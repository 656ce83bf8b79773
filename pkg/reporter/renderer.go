package reporter

import (
	"context"

	"github.com/yaklabco/mdcheck/pkg/analysis"
)

// Renderer writes an aggregated report. The json and summary formats are
// renderers; text and diff read the runner result directly.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}
