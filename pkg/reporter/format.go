package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names an output format.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatDiff    Format = "diff"
	FormatSummary Format = "summary"
)

// Formats lists the output formats in the order help text shows them.
//
//nolint:gochecknoglobals // Read-only list of formats.
var Formats = []Format{FormatText, FormatJSON, FormatDiff, FormatSummary}

// ParseFormat maps a --format value to a Format; empty means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, joinFormats())
}

func (f Format) String() string { return string(f) }

func (f Format) IsValid() bool { return slices.Contains(Formats, f) }

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// SummaryOrder selects which table the summary format prints first.
type SummaryOrder string

const (
	SummaryOrderRules SummaryOrder = "rules"
	SummaryOrderFiles SummaryOrder = "files"
)

// ParseSummaryOrder parses --summary-order; empty means rules first.
func ParseSummaryOrder(order string) (SummaryOrder, error) {
	switch SummaryOrder(order) {
	case "", SummaryOrderRules:
		return SummaryOrderRules, nil
	case SummaryOrderFiles:
		return SummaryOrderFiles, nil
	}
	return "", fmt.Errorf("unknown summary order %q; valid orders: rules, files", order)
}
