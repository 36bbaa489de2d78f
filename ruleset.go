package formrules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet maps field names to their constraints and remembers the order in
// which fields were declared. Validation walks fields in that order.
type RuleSet struct {
	order []string
	rules map[string]FieldRules
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]FieldRules)}
}

// Field declares the constraints of a field. Declaring a field again replaces
// its constraints and keeps its original position.
func (rs *RuleSet) Field(name string, constraints ...Constraint) *RuleSet {
	if rs.rules == nil {
		rs.rules = make(map[string]FieldRules)
	}
	if _, ok := rs.rules[name]; !ok {
		rs.order = append(rs.order, name)
	}
	rs.rules[name] = slices.Clone(FieldRules(constraints))
	return rs
}

// Fields returns the declared field names in declaration order.
func (rs *RuleSet) Fields() []string {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.order)
}

// Constraints returns a copy of the constraints declared on field.
func (rs *RuleSet) Constraints(field string) FieldRules {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.rules[field])
}

func (rs *RuleSet) Has(field string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.rules[field]
	return ok
}

func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.order)
}

// Clone returns a deep copy. Cloning a nil rule set yields an empty one.
func (rs *RuleSet) Clone() *RuleSet {
	out := NewRuleSet()
	if rs == nil {
		return out
	}
	for _, name := range rs.order {
		out.Field(name, rs.rules[name]...)
	}
	return out
}

// Validate checks every constraint for a rule name and a usable bound.
func (rs *RuleSet) Validate() error {
	if rs == nil {
		return nil
	}
	var errs []error
	for _, name := range rs.order {
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: empty field name", ErrInvalidRuleSet))
			continue
		}
		for _, c := range rs.rules[name] {
			if err := c.validate(); err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// String renders the rule set as "field=constraints" pairs, one per line.
func (rs *RuleSet) String() string {
	if rs == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range rs.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(rs.rules[name].String())
	}
	return b.String()
}

// ParseRuleSet reads a YAML (or JSON) document mapping field names to
// constraints, keeping the document order of fields and constraints:
//
//	name: {minlength: 3, maxlength: 7, required: true}
//	email: {email: true}
//	zip: "required;number"
//
// A constraint set to false is not declared. Length rules take a
// non-negative integer; any other rule takes a boolean. A field may also be
// given as a compact constraint string or a list of them.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidRuleSet, err)
	}

	rs := NewRuleSet()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return rs, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of fields", ErrInvalidRuleSet, root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		field := keyNode.Value
		if field == "" {
			return nil, fmt.Errorf("%w: line %d: empty field name", ErrInvalidRuleSet, keyNode.Line)
		}

		constraints, err := parseFieldNode(valNode)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidRuleSet, field, err)
		}
		rs.Field(field, constraints...)
	}
	return rs, nil
}

func parseFieldNode(n *yaml.Node) (FieldRules, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return ParseConstraints(n.Value)

	case yaml.SequenceNode:
		var out FieldRules
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: list items must be constraint strings", item.Line)
			}
			cs, err := ParseConstraints(item.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, cs...)
		}
		return out, nil

	case yaml.MappingNode:
		var out FieldRules
		for i := 0; i+1 < len(n.Content); i += 2 {
			name, val := n.Content[i].Value, n.Content[i+1]
			c, declared, err := parseConstraintNode(name, val)
			if err != nil {
				return nil, err
			}
			if declared {
				out = append(out, c)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported constraint syntax", n.Line)
	}
}

func parseConstraintNode(name string, val *yaml.Node) (Constraint, bool, error) {
	c := Constraint{Rule: name}

	if isLengthRule(name) {
		var n int
		if err := val.Decode(&n); err != nil {
			return c, false, fmt.Errorf("%w: line %d: %s needs an integer bound", ErrInvalidConstraint, val.Line, name)
		}
		c.Bound = n
		return c, true, c.validate()
	}

	var on bool
	if err := val.Decode(&on); err != nil {
		return c, false, fmt.Errorf("%w: line %d: %s takes true or false", ErrInvalidConstraint, val.Line, name)
	}
	if !on {
		return c, false, nil
	}
	return c, true, c.validate()
}
