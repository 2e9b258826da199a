package ir

import "fmt"

// ScalarKind enumerates the scalar types the IR can carry. Each has a
// fixed width, a signedness, and a canonical textual spelling in the
// target syntax (see CName).
type ScalarKind int

const (
	Int16 ScalarKind = iota
	Int32
	Int64
	UInt8
	UInt64
	Float32
	Float64
	Bool
)

// String returns the Go-side name, mainly for diagnostics.
func (k ScalarKind) String() string {
	switch k {
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case UInt8:
		return "UInt8"
	case UInt64:
		return "UInt64"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	default:
		return fmt.Sprintf("ScalarKind(%d)", int(k))
	}
}

// ScalarType wraps a ScalarKind. It is a distinct type (rather than a bare
// alias for ScalarKind) so that future attributes such as vector width
// could be added without breaking callers.
type ScalarType struct {
	Kind ScalarKind
}

// Width returns the type's width in bits.
func (t ScalarType) Width() int {
	switch t.Kind {
	case Bool, UInt8:
		return 8
	case Int16:
		return 16
	case Int32, Float32:
		return 32
	case Int64, UInt64, Float64:
		return 64
	default:
		return 0
	}
}

// Signed reports whether the type is a signed integer type. Floats and
// Bool report false; they are never the operand of a signedness-sensitive
// rule in this IR.
func (t ScalarType) Signed() bool {
	switch t.Kind {
	case Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// Float reports whether the type is a floating-point type.
func (t ScalarType) Float() bool {
	return t.Kind == Float32 || t.Kind == Float64
}

// CName returns the canonical C/CUDA spelling of the scalar type, used by
// both the CPU and GPU code generators.
func (t ScalarType) CName() string {
	switch t.Kind {
	case Int16:
		return "int16_t"
	case Int32:
		return "int32_t"
	case Int64:
		return "int64_t"
	case UInt8:
		return "uint8_t"
	case UInt64:
		return "uint64_t"
	case Float32:
		return "float"
	case Float64:
		return "double"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("<invalid-scalar-%d>", int(t.Kind))
	}
}

func (t ScalarType) String() string { return t.CName() }

// rank establishes the promotion order from spec.md invariant 4:
// Bool ≺ U8 ≺ I16 ≺ I32 ≺ I64/U64 ≺ F32 ≺ F64.
func (k ScalarKind) rank() int {
	switch k {
	case Bool:
		return 0
	case UInt8:
		return 1
	case Int16:
		return 2
	case Int32:
		return 3
	case Int64, UInt64:
		return 4
	case Float32:
		return 5
	case Float64:
		return 6
	default:
		return -1
	}
}

// Unify returns the unified type of two operands per the fixed promotion
// table. When both operands share the same rank (Int64 vs UInt64), the
// signed variant loses to the unsigned one, matching the C integer
// promotion convention the emitted target language itself follows.
func Unify(a, b ScalarType) ScalarType {
	ra, rb := a.Kind.rank(), b.Kind.rank()
	if ra == rb {
		if a.Kind == UInt64 || b.Kind == UInt64 {
			return ScalarType{Kind: UInt64}
		}
		return a
	}
	if ra > rb {
		return a
	}
	return b
}

// Convenience constructors for the scalar types, mirroring the teacher's
// preference for small value constructors over exported struct literals
// sprinkled across call sites (cmd/hwygen/ir/types.go's NewIRNode family).
func TInt16() ScalarType   { return ScalarType{Kind: Int16} }
func TInt32() ScalarType   { return ScalarType{Kind: Int32} }
func TInt64() ScalarType   { return ScalarType{Kind: Int64} }
func TUInt8() ScalarType   { return ScalarType{Kind: UInt8} }
func TUInt64() ScalarType  { return ScalarType{Kind: UInt64} }
func TFloat32() ScalarType { return ScalarType{Kind: Float32} }
func TFloat64() ScalarType { return ScalarType{Kind: Float64} }
func TBool() ScalarType    { return ScalarType{Kind: Bool} }
