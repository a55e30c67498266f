package formula

import (
	"fmt"
	"math"
)

// Runtime values are float64, string, bool or nil. Context values arriving
// as other numeric types are widened to float64 on lookup.
func eval(n node, ctx map[string]any) (any, error) {
	switch n := n.(type) {
	case literal:
		return n.val, nil

	case ident:
		v, ok := ctx[n.name]
		if !ok {
			return nil, fmt.Errorf("unknown name %q", n.name)
		}
		return widen(v)

	case unary:
		x, err := eval(n.x, ctx)
		if err != nil {
			return nil, err
		}
		switch n.op {
		case tokNot:
			b, err := truth(x)
			if err != nil {
				return nil, err
			}
			return !b, nil
		case tokMinus:
			f, ok := x.(float64)
			if !ok {
				return nil, fmt.Errorf("cannot negate %s", typeName(x))
			}
			return -f, nil
		}
		return nil, fmt.Errorf("unsupported unary operator")

	case binary:
		// Logical connectives short-circuit; everything else evaluates both
		// operands first.
		if n.op == tokAnd || n.op == tokOr {
			return evalLogical(n, ctx)
		}
		x, err := eval(n.x, ctx)
		if err != nil {
			return nil, err
		}
		y, err := eval(n.y, ctx)
		if err != nil {
			return nil, err
		}
		switch n.op {
		case tokPlus, tokMinus, tokStar, tokSlash, tokPercent:
			return evalArith(n.op, x, y)
		case tokEq:
			return equals(x, y), nil
		case tokNe:
			return !equals(x, y), nil
		case tokLt, tokLe, tokGt, tokGe:
			return evalCompare(n.op, x, y)
		}
		return nil, fmt.Errorf("unsupported operator")
	}
	return nil, fmt.Errorf("malformed expression")
}

func evalLogical(n binary, ctx map[string]any) (any, error) {
	x, err := eval(n.x, ctx)
	if err != nil {
		return nil, err
	}
	left, err := truth(x)
	if err != nil {
		return nil, err
	}
	if n.op == tokAnd && !left {
		return false, nil
	}
	if n.op == tokOr && left {
		return true, nil
	}
	y, err := eval(n.y, ctx)
	if err != nil {
		return nil, err
	}
	return truth(y)
}

func evalArith(op tokenKind, x, y any) (any, error) {
	a, aok := x.(float64)
	b, bok := y.(float64)
	if !aok || !bok {
		return nil, fmt.Errorf("arithmetic not supported between %s and %s", typeName(x), typeName(y))
	}
	switch op {
	case tokPlus:
		return a + b, nil
	case tokMinus:
		return a - b, nil
	case tokStar:
		return a * b, nil
	case tokSlash:
		// Malformed rules should surface loudly, not propagate infinities.
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case tokPercent:
		if b == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return math.Mod(a, b), nil
	}
	return nil, fmt.Errorf("unsupported arithmetic operator")
}

// equals implements loose equality: null equals only null, and values of
// different types are simply unequal rather than an error.
func equals(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	switch a := x.(type) {
	case float64:
		b, ok := y.(float64)
		return ok && a == b
	case string:
		b, ok := y.(string)
		return ok && a == b
	case bool:
		b, ok := y.(bool)
		return ok && a == b
	}
	return false
}

// evalCompare orders two numbers or two strings. NaN follows IEEE rules and
// compares false; anything else, including null, is an evaluation error.
func evalCompare(op tokenKind, x, y any) (any, error) {
	if a, aok := x.(float64); aok {
		if b, bok := y.(float64); bok {
			switch op {
			case tokLt:
				return a < b, nil
			case tokLe:
				return a <= b, nil
			case tokGt:
				return a > b, nil
			case tokGe:
				return a >= b, nil
			}
		}
	}
	if a, aok := x.(string); aok {
		if b, bok := y.(string); bok {
			switch op {
			case tokLt:
				return a < b, nil
			case tokLe:
				return a <= b, nil
			case tokGt:
				return a > b, nil
			case tokGe:
				return a >= b, nil
			}
		}
	}
	return nil, fmt.Errorf("comparison not supported between %s and %s", typeName(x), typeName(y))
}

func truth(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	}
	return false, fmt.Errorf("cannot use %s as a boolean", typeName(v))
}

// widen normalizes numeric context values to float64 so rule authors never
// see integer/float distinctions.
func widen(v any) (any, error) {
	switch n := v.(type) {
	case nil, bool, string, float64:
		return v, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return nil, fmt.Errorf("unsupported context value of type %T", v)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	}
	return fmt.Sprintf("%T", v)
}
