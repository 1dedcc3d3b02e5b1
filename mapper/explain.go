package mapper

import (
	"fmt"
	"strings"
)

// Describe renders every resolved pair, one block per pair.
func (p *Plan) Describe() string {
	var sb strings.Builder

	for i, tp := range p.Pairs {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(tp.Describe())
	}

	return sb.String()
}

// Describe renders the pair's bindings in execution order followed by its
// unmapped target slots.
func (tp *TypePlan) Describe() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s -> %s\n", typeLabel(tp.Source), typeLabel(tp.Target))

	for i := range tp.Bindings {
		b := &tp.Bindings[i]

		fmt.Fprintf(&sb, "  [%s] %s -> %s: %s (%s)\n",
			b.Origin, b.sourceRepr(), strings.Join(b.Targets, ", "), b.Strategy, b.Explanation)
	}

	for _, u := range tp.Unmapped {
		fmt.Fprintf(&sb, "  unmapped %s: %s\n", u.Path, u.Reason)
	}

	return sb.String()
}

// sourceRepr names the binding's value origin for display.
func (b *Binding) sourceRepr() string {
	switch {
	case b.Source != "":
		return b.Source
	case b.Expr != "":
		return "expr(" + b.Expr + ")"
	case b.Default != nil:
		return "default(" + *b.Default + ")"
	}

	return "-"
}
