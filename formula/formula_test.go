package formula

import (
	"math"
	"strings"
	"testing"
)

func TestEvalBooleanResults(t *testing.T) {
	ctx := map[string]any{
		"fee_total":     2.0,
		"fee_maxi":      1.0,
		"fee_operacion": 0.5,
		"fee_proveedor": 0.5,
		"monto_origen":  100.0,
		"origen":        "USD",
		"destino":       "COP",
		"tx_count":      int64(3),
	}

	testCases := []struct {
		name    string
		formula string
		want    bool
	}{
		{"simple comparison", `fee_total >= fee_maxi`, true},
		{"failing comparison", `fee_total < fee_maxi`, false},
		{"equality", `origen == 'USD'`, true},
		{"inequality", `origen != destino`, true},
		{"double quoted string", `destino == "COP"`, true},
		{"arithmetic sum", `fee_maxi + fee_operacion + fee_proveedor == fee_total`, true},
		{"multiplication precedence", `fee_maxi + fee_operacion * 2 == 2.0`, true},
		{"parentheses", `(fee_maxi + fee_operacion) * 2 == 3.0`, true},
		{"modulo", `monto_origen % 3 == 1`, true},
		{"word connectives", `fee_total > 0 and origen == 'USD'`, true},
		{"word or", `fee_total > 100 or fee_maxi > 0`, true},
		{"word not", `not fee_total < fee_maxi`, true},
		{"symbol connectives", `fee_total > 0 && fee_maxi > 0 || false`, true},
		{"symbol not", `!(fee_total < 0)`, true},
		{"unary minus", `-fee_maxi < 0`, true},
		{"integer context widened", `tx_count == 3`, true},
		{"numeric truthiness nonzero", `fee_total`, true},
		{"numeric truthiness zero", `fee_total - 2.0`, false},
		{"boolean literal", `true`, true},
		{"null equality", `null == null`, true},
		{"null inequality with number", `fee_total != null`, true},
		{"string ordering", `origen < 'ZZZ'`, true},
		{"not binds looser than comparison", `not fee_total > 100`, true},
		// `not fee_total == 1` negates the comparison, `!fee_total == 1`
		// negates fee_total first and then compares.
		{"word not negates the comparison", `not fee_total == 1`, true},
		{"symbol not binds tighter than comparison", `!fee_total == 1`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Eval(tc.formula, ctx)
			if err != nil {
				t.Fatalf("Eval(%q) failed: %v", tc.formula, err)
			}
			if got != tc.want {
				t.Errorf("Eval(%q) = %v, want %v", tc.formula, got, tc.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	ctx := map[string]any{
		"fee_total":     1.5,
		"origen":        "USD",
		"monto_destino": nil,
	}

	testCases := []struct {
		name    string
		formula string
		errPart string
	}{
		{"unknown name", `fee_maxi > 0`, "unknown name"},
		{"null ordering", `monto_destino > 0`, "comparison not supported"},
		{"null arithmetic", `monto_destino + 1 > 0`, "arithmetic not supported"},
		{"string arithmetic", `origen + 1 == 2`, "arithmetic not supported"},
		{"division by zero", `fee_total / 0 > 1`, "division by zero"},
		{"modulo by zero", `fee_total % 0 == 0`, "modulo by zero"},
		{"string truthiness", `origen and true`, "as a boolean"},
		{"null truthiness", `monto_destino or false`, "as a boolean"},
		{"string result", `'USD'`, "not a boolean"},
		{"null result", `monto_destino`, "not a boolean"},
		{"negating a string", `-origen == 0`, "cannot negate"},
		{"function call", `abs(fee_total) > 0`, "function calls are not allowed"},
		{"attribute access", `tx.fee_total > 0`, "attribute access is not allowed"},
		{"assignment", `fee_total = 1`, "assignment is not allowed"},
		{"dangling operator", `fee_total >=`, "unexpected end"},
		{"unterminated string", `origen == 'USD`, "unterminated string"},
		{"missing paren", `(fee_total > 0`, "missing closing parenthesis"},
		{"trailing garbage", `fee_total > 0 )`, "unexpected"},
		{"empty formula", ``, "unexpected end"},
		{"stray character", `fee_total > 0 ; true`, "unexpected character"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Eval(tc.formula, ctx)
			if err == nil {
				t.Fatalf("Eval(%q) should have failed", tc.formula)
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("Eval(%q) error = %q, want it to contain %q", tc.formula, err, tc.errPart)
			}
		})
	}
}

func TestEvalShortCircuit(t *testing.T) {
	// The right operand references an unknown name; short-circuiting must
	// keep it from being evaluated.
	ctx := map[string]any{"a": 0.0}

	got, err := Eval(`a > 0 and missing > 0`, ctx)
	if err != nil {
		t.Fatalf("and should short-circuit: %v", err)
	}
	if got {
		t.Error("a > 0 and ... should be false")
	}

	got, err = Eval(`a == 0 or missing > 0`, ctx)
	if err != nil {
		t.Fatalf("or should short-circuit: %v", err)
	}
	if !got {
		t.Error("a == 0 or ... should be true")
	}
}

func TestEvalNaNComparesFalse(t *testing.T) {
	ctx := map[string]any{"x": math.NaN()}

	for _, f := range []string{`x > 0`, `x < 0`, `x >= 0`, `x <= 0`, `x == 0`} {
		got, err := Eval(f, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) failed: %v", f, err)
		}
		if got {
			t.Errorf("Eval(%q) = true, NaN comparisons must be false", f)
		}
	}
}

func TestParseReuse(t *testing.T) {
	expr, err := Parse(`fee_total >= fee_maxi`)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	testCases := []struct {
		total, maxi float64
		want        bool
	}{
		{2.0, 1.0, true},
		{0.5, 1.0, false},
		{1.0, 1.0, true},
	}

	for _, tc := range testCases {
		got, err := expr.Eval(map[string]any{"fee_total": tc.total, "fee_maxi": tc.maxi})
		if err != nil {
			t.Fatalf("Eval() failed: %v", err)
		}
		if got != tc.want {
			t.Errorf("Eval(total=%v, maxi=%v) = %v, want %v", tc.total, tc.maxi, got, tc.want)
		}
	}
}

func TestEvalDeterministic(t *testing.T) {
	ctx := map[string]any{"fee_total": 1.25, "fee_maxi": 0.75}

	first, err := Eval(`fee_total - fee_maxi == 0.5`, ctx)
	if err != nil {
		t.Fatalf("Eval() failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Eval(`fee_total - fee_maxi == 0.5`, ctx)
		if err != nil {
			t.Fatalf("Eval() failed on repeat: %v", err)
		}
		if again != first {
			t.Fatal("repeated evaluation with identical context diverged")
		}
	}
}
