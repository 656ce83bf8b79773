package config

// RuleFormat selects how a rule is named in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"
	RuleFormatID       RuleFormat = "id"
	RuleFormatCombined RuleFormat = "combined"
)

// IsValid returns true if the format is known.
func (f RuleFormat) IsValid() bool {
	return f == RuleFormatName || f == RuleFormatID || f == RuleFormatCombined
}

// FormatRuleID formats a rule identifier based on the given format.
// Falls back to ID if name is empty.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	if ruleName == "" {
		return ruleID
	}

	switch format {
	case RuleFormatName:
		return ruleName
	case RuleFormatCombined:
		return ruleID + "/" + ruleName
	case RuleFormatID:
		return ruleID
	default:
		return ruleID
	}
}
