package lint

import "slices"

// BaseRule carries a rule's catalogue entry. Rules embed it and supply
// Check themselves.
type BaseRule struct {
	id, name, desc string
	tags           []string
	fixable        bool
}

// NewBaseRule returns the catalogue entry for a rule. id is the MDNNN
// code used as the configuration key; name is its long alias.
func NewBaseRule(id, name, desc string, tags []string, fixable bool) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, tags: slices.Clone(tags), fixable: fixable}
}

func (r *BaseRule) ID() string          { return r.id }
func (r *BaseRule) Name() string        { return r.name }
func (r *BaseRule) Description() string { return r.desc }

// Tags returns a copy, so callers cannot edit the shared catalogue.
func (r *BaseRule) Tags() []string { return slices.Clone(r.tags) }

// DefaultEnabled reports true; every built-in rule runs unless configured off.
func (r *BaseRule) DefaultEnabled() bool { return true }

func (r *BaseRule) CanFix() bool { return r.fixable }
