package ir

// Expr is a value-level IR node. It pairs a statically-known ScalarType
// (computed once, at construction time, by the builders in builders.go)
// with one of the closed set of ExprKind variants below. Expr is a value
// type: it is copied by assignment and never mutated after a builder
// returns it, matching the "immutable after construction" lifecycle in
// spec.md §3.
type Expr struct {
	Type ScalarType
	Kind ExprKind
}

// IsZero reports whether e is the zero Expr (no Kind set). Builders never
// return a zero Expr for a successful construction; it marks an absent
// operand, such as the unused RHS of a Not Logical.
func (e Expr) IsZero() bool { return e.Kind == nil }

// ExprKind is the closed, unexported marker interface implemented by each
// expression variant. Because it is unexported, no type outside this
// package can add a new variant — the sum type stays closed, and the
// visitor in visitor.go can type-switch over it exhaustively.
type ExprKind interface {
	exprKind()
}

// Const is a compile-time-known numeric or boolean literal. Value holds
// int64 (Int16/Int32/Int64), uint64 (UInt8/UInt64), float64
// (Float32/Float64), or bool (Bool), matching the enclosing Expr.Type.
type Const struct {
	Value any
}

func (Const) exprKind() {}

// ScalarVar is either a named free placeholder (Tensor == nil) or an
// indexed tensor access tensor[i0,...,in] (Tensor != nil). The arity of
// Indices must equal the arity of Tensor.Shape (spec.md invariant 1).
type ScalarVar struct {
	Tensor      *TensorVar
	Indices     []Expr
	Placeholder string
}

func (ScalarVar) exprKind() {}

// IsPlaceholder reports whether this ScalarVar is a free named variable
// rather than a tensor access.
func (s ScalarVar) IsPlaceholder() bool { return s.Tensor == nil }

// IterVarRef refers to an enclosing loop index by identity.
type IterVarRef struct {
	Var *IterVar
}

func (IterVarRef) exprKind() {}

// Binary is a two-operand arithmetic/bitwise expression.
type Binary struct {
	Op       BinaryOp
	LHS, RHS Expr
}

func (Binary) exprKind() {}

// Unary is a one-operand expression, including Cast(T) (T is carried in
// the enclosing Expr.Type).
type Unary struct {
	Op Op
	X  Expr
}

func (Unary) exprKind() {}

// Op is an alias retained for readability at call sites (ir.Unary{Op:
// ir.Floor, ...} reads more naturally than ir.Unary{Op: ir.UnaryOp...}).
type Op = UnaryOp

// Logical is a comparison or boolean-connective expression; its Expr.Type
// is always Bool (spec.md invariant 4).
type Logical struct {
	Op       LogicalOp
	LHS, RHS Expr
}

func (Logical) exprKind() {}

// Select is the value-position ternary: cond ? tBranch : fBranch. Its
// Expr.Type is the unified type of tBranch and fBranch.
type Select struct {
	Cond, True, False Expr
}

func (Select) exprKind() {}

// Call invokes one of the closed CallFunction members. ResultType is
// carried in the enclosing Expr.Type.
type Call struct {
	Func CallFunction
	Args []Expr
}

func (Call) exprKind() {}

// Let is an SSA-style binding: the scalar placeholder Var is bound to
// Value for the remainder of Body. See spec.md's "Call-as-statement
// splicing" design note — Let is rarely needed by the op lowerings in
// this compiler (none of them produce one directly), but the code
// generator still handles it so the IR's sum type stays exhaustively
// matchable.
type Let struct {
	Var   *ScalarVar
	Value Expr
	Body  Expr
}

func (Let) exprKind() {}
