package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
)

const (
	contextIndent = "        "
	ellipsis      = "..."
)

// FormatViolation formats one violation as
// "path:line:col  rule  message", marking fixable violations.
func (s *Styles) FormatViolation(path string, v lint.Violation, ruleFormat config.RuleFormat) string {
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), v.Line)
	if v.Column > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d", v.Column))
	}

	rule := s.RuleID.Render(config.FormatRuleID(ruleFormat, v.RuleID, v.RuleName))

	line := "  " + location + "  " + rule + "  " + s.Message.Render(v.Message)
	if v.HasFix() {
		line += " " + s.Fixable.Render("[fixable]")
	}
	return line + "\n"
}

// FormatSourceContext formats the source line with a caret marker. Lines
// wider than width are truncated.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	line = Truncate(line, width-len(contextIndent))
	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 && column <= lipgloss.Width(line)+1 {
		padding := contextIndent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch issueCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 issue)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatWarning formats a configuration or directive warning.
func (s *Styles) FormatWarning(w lint.Warning) string {
	return s.Warning.Render("warning:") + " " + w.String() + "\n"
}

// Truncate shortens text to at most width cells, ending in "...".
func Truncate(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	if width <= len(ellipsis) {
		return ellipsis[:width]
	}

	runes := []rune(text)
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
