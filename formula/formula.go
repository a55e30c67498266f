// Package formula implements the restricted boolean expression language used
// by validation rules. The grammar is deliberately small: literals,
// identifiers resolved from a caller-supplied context, arithmetic,
// comparisons and logical connectives. There are no function calls, no
// attribute access and no assignment, so externally-authored rule text can
// never reach host code.
package formula

import "fmt"

// Expr is a parsed formula, reusable across evaluations.
type Expr struct {
	src  string
	root node
}

// Parse compiles src into an Expr. Rules are parsed once per run and then
// evaluated once per transaction.
func Parse(src string) (*Expr, error) {
	p := newParser(src)
	root, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.cur.text)
	}
	return &Expr{src: src, root: root}, nil
}

// Eval evaluates the expression against ctx and coerces the result to a
// boolean: booleans pass through, numbers are true when non-zero, anything
// else is a contract violation.
func (e *Expr) Eval(ctx map[string]any) (bool, error) {
	v, err := eval(e.root, ctx)
	if err != nil {
		return false, err
	}
	switch r := v.(type) {
	case bool:
		return r, nil
	case float64:
		return r != 0, nil
	default:
		return false, fmt.Errorf("formula result is %s, not a boolean", typeName(v))
	}
}

// String returns the original source text.
func (e *Expr) String() string { return e.src }

// Eval parses and evaluates src in one step.
func Eval(src string, ctx map[string]any) (bool, error) {
	expr, err := Parse(src)
	if err != nil {
		return false, err
	}
	return expr.Eval(ctx)
}
