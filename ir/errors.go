package ir

import "fmt"

// CompileErrorKind classifies a build-time failure per spec.md §7.
type CompileErrorKind int

const (
	// KindTypeMismatch: shape arity or promotion rule violated.
	KindTypeMismatch CompileErrorKind = iota
	// KindUnboundVariable: an IterVar appears free.
	KindUnboundVariable
	// KindCyclicDependency: the tensor-definition DAG is not acyclic, or a
	// tensor has more than one producer.
	KindCyclicDependency
)

func (k CompileErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "IRTypeMismatch"
	case KindUnboundVariable:
		return "UnboundVariable"
	case KindCyclicDependency:
		return "CyclicDependency"
	default:
		return "CompileErrorKind(?)"
	}
}

// CompileError is a single-line, non-recoverable build-time diagnostic.
// ValidateTensor reports its type-mismatch and unbound-variable findings
// through this type; other build-time failures are not CompileErrors
// (op-list decoding returns wrapped fmt errors, lowerings return
// *lower.Error, and codegen returns ErrUnsupportedCall or
// ErrCyclicDependency from codegen/shared). Partial output is never
// returned alongside any of them.
type CompileError struct {
	Kind CompileErrorKind
	Func string
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[Fatal] %s: %s: %s", e.Kind, e.Func, e.Msg)
}

// NewCompileError constructs a CompileError naming the failing function,
// matching the "file, function, line" diagnostic shape spec.md §7
// requires (line numbers are not meaningful for a generated IR graph, so
// the function name carries the locating information instead).
func NewCompileError(kind CompileErrorKind, fn, msg string) *CompileError {
	return &CompileError{Kind: kind, Func: fn, Msg: msg}
}
