package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/mdcheck/pkg/config"
)

const bufWriterSize = 64 << 10

// Options configures a Reporter. The zero value writes styled text to
// stdout with auto-detected colour.
type Options struct {
	Writer io.Writer
	// ErrorWriter receives warnings and per-file errors; nil means Writer.
	ErrorWriter io.Writer

	Format Format
	// Color is "auto", "always" or "never".
	Color string

	ShowContext  bool
	ShowSummary  bool
	GroupByFile  bool
	Compact      bool
	RuleFormat   config.RuleFormat
	SummaryOrder SummaryOrder

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

func (o Options) withDefaults() Options {
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	if o.Color == "" {
		o.Color = "auto"
	}
	if o.RuleFormat == "" {
		o.RuleFormat = config.RuleFormatID
	}
	if o.SummaryOrder == "" {
		o.SummaryOrder = SummaryOrderRules
	}
	return o
}

func (o Options) errorWriter() io.Writer {
	if o.ErrorWriter != nil {
		return o.ErrorWriter
	}
	return o.Writer
}
