package shared

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// UnaryDeviceName spells a unary op as a device function name (spec.md
// §4.E point 4), matching original_source's UOP_DEVICE_NAME table. Abs on
// Float32 is special-cased by callers to "fabs" (X86Codegen.cpp's
// visit(Unary*)); every other combination uses these plain names.
func UnaryDeviceName(op ir.UnaryOp) (string, bool) {
	switch op {
	case ir.Neg:
		return "-", true // spelled as a prefix operator, not a call; see callers.
	case ir.Abs:
		return "abs", true
	case ir.Floor:
		return "floor", true
	case ir.Ceil:
		return "ceil", true
	case ir.Round:
		return "round", true
	default:
		return "", false
	}
}

// ConstLiteral prints a Const's Go value using the target's canonical
// spelling for its ScalarType (spec.md §4.E point 4: "true/false for
// Bool").
func ConstLiteral(t ir.ScalarType, value any) string {
	if t.Kind == ir.Bool {
		if b, _ := value.(bool); b {
			return "true"
		}
		return "false"
	}
	if t.Float() {
		switch v := value.(type) {
		case float64:
			return fmt.Sprintf("%g", v)
		case int64:
			return fmt.Sprintf("%g", float64(v))
		case uint64:
			return fmt.Sprintf("%g", float64(v))
		}
	}
	switch v := value.(type) {
	case int64:
		return fmt.Sprintf("%d", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%d", int64(v))
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}
