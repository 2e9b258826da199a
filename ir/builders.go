package ir

// This file holds the API builders of spec.md §4.B: each returns a
// freshly allocated IR subtree and never mutates its arguments.

// numeric constrains the Go types Constant accepts; each maps onto one
// ScalarKind (spec.md: "this is the only place numeric literals enter
// the IR").
type numeric interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint64 | ~float32 | ~float64 | ~bool
}

// Constant binds v to the ScalarType its Go type implies.
func Constant[T numeric](v T) Expr {
	switch x := any(v).(type) {
	case int:
		return Expr{Type: TInt32(), Kind: Const{Value: int64(x)}}
	case int16:
		return Expr{Type: TInt16(), Kind: Const{Value: int64(x)}}
	case int32:
		return Expr{Type: TInt32(), Kind: Const{Value: int64(x)}}
	case int64:
		return Expr{Type: TInt64(), Kind: Const{Value: x}}
	case uint8:
		return Expr{Type: TUInt8(), Kind: Const{Value: uint64(x)}}
	case uint64:
		return Expr{Type: TUInt64(), Kind: Const{Value: x}}
	case float32:
		return Expr{Type: TFloat32(), Kind: Const{Value: float64(x)}}
	case float64:
		return Expr{Type: TFloat64(), Kind: Const{Value: x}}
	case bool:
		return Expr{Type: TBool(), Kind: Const{Value: x}}
	default:
		panic("ir: unsupported constant type")
	}
}

// Placeholder builds a free named scalar variable of type t — used for
// the runtime-supplied parameters (crop_top, norm_mean_0, pad_value, ...)
// that the op lowerings splice into the IR without a backing tensor.
func Placeholder(name string, t ScalarType) Expr {
	return Expr{Type: t, Kind: ScalarVar{Placeholder: name}}
}

// ConstructIndices returns one fresh IterVar per shape dimension, each
// ranging over [0, shape[k]).
func ConstructIndices(shape []Expr) []*IterVar {
	out := make([]*IterVar, len(shape))
	for k, dim := range shape {
		out[k] = NewIterVar(indexName(k), Constant(uint64(0)), dim)
	}
	return out
}

func indexName(k int) string {
	const letters = "ijklmn"
	if k < len(letters) {
		return string(letters[k])
	}
	return "i" + itoa(k)
}

func itoa(k int) string {
	if k == 0 {
		return "0"
	}
	neg := k < 0
	if neg {
		k = -k
	}
	var buf [20]byte
	i := len(buf)
	for k > 0 {
		i--
		buf[i] = byte('0' + k%10)
		k /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Compute constructs a new TensorVar of the given shape, bound to a
// ComputeOp whose FCompute is body. The element type is inferred from
// body's type.
func Compute(shape []Expr, iterVars []*IterVar, body Expr, name string) *TensorVar {
	tv := &TensorVar{Name: name, Shape: shape, ElementType: body.Type}
	tv.Producer = &ComputeOp{IterVars: iterVars, FCompute: body, Output: tv, Name: name}
	return tv
}

// ComputeReduce constructs a TensorVar whose body is a Reduce.
func ComputeReduce(shape []Expr, iterVars []*IterVar, reduce Reduce, name string) *TensorVar {
	tv := &TensorVar{Name: name, Shape: shape, ElementType: reduce.Accumulate.Type}
	body := Expr{Type: reduce.Accumulate.Type, Kind: reduce}
	tv.Producer = &ComputeOp{IterVars: iterVars, FCompute: body, Output: tv, Name: name}
	return tv
}

// ComputeFromCall constructs a tensor whose producer is an
// Evaluate(call): this is how the bilinear precomputation tables are
// wired into the graph (spec.md §4.B second `compute` overload). elemType
// is the element type of the (otherwise side-effect-defined) tensor.
func ComputeFromCall(shape []Expr, iterVars []*IterVar, elemType ScalarType, call Expr, name string) *TensorVar {
	tv := &TensorVar{Name: name, Shape: shape, ElementType: elemType}
	tv.Producer = &ComputeOp{IterVars: iterVars, Output: tv, Name: name, Call: &call}
	return tv
}

// IfThenElse yields a value-position Select when used as an Expr; see
// IfThenElseStmt for the statement-position IfThenElse.
func IfThenElse(cond, t, f Expr) Expr {
	return Expr{Type: Unify(t.Type, f.Type), Kind: Select{Cond: cond, True: t, False: f}}
}

// IfThenElseStmt builds the statement-position conditional (an IfStmt).
// els may be the zero Stmt for a one-armed if.
func IfThenElseStmt(cond Expr, then, els Stmt) Stmt {
	return Stmt{Kind: IfStmt{Cond: cond, Then: then, Else: els}}
}

// LetExpr binds value to a fresh placeholder named name for the scope of
// the body builder function, which receives an Expr reading that
// placeholder.
func LetExpr(name string, value Expr, body func(Expr) Expr) Expr {
	ph := ScalarVar{Placeholder: name}
	bound := Expr{Type: value.Type, Kind: ph}
	inner := body(bound)
	return Expr{Type: inner.Type, Kind: Let{Var: &ph, Value: value, Body: inner}}
}

func binary(op BinaryOp, a, b Expr) Expr {
	return Expr{Type: Unify(a.Type, b.Type), Kind: Binary{Op: op, LHS: a, RHS: b}}
}

func AddE(a, b Expr) Expr    { return binary(Add, a, b) }
func SubE(a, b Expr) Expr    { return binary(Sub, a, b) }
func MulE(a, b Expr) Expr    { return binary(Mul, a, b) }
func DivE(a, b Expr) Expr    { return binary(Div, a, b) }
func ModE(a, b Expr) Expr    { return binary(Mod, a, b) }
func MaxE(a, b Expr) Expr    { return binary(Max, a, b) }
func MinE(a, b Expr) Expr    { return binary(Min, a, b) }
func ShlE(a, b Expr) Expr    { return binary(Shl, a, b) }
func ShrE(a, b Expr) Expr    { return binary(Shr, a, b) }
func BitAndE(a, b Expr) Expr { return binary(BitAnd, a, b) }
func BitOrE(a, b Expr) Expr  { return binary(BitOr, a, b) }
func BitXorE(a, b Expr) Expr { return binary(BitXor, a, b) }

func unary(op UnaryOp, x Expr) Expr {
	return Expr{Type: x.Type, Kind: Unary{Op: op, X: x}}
}

func NegE(x Expr) Expr   { return unary(Neg, x) }
func AbsE(x Expr) Expr   { return unary(Abs, x) }
func FloorE(x Expr) Expr { return unary(Floor, x) }
func CeilE(x Expr) Expr  { return unary(Ceil, x) }
func RoundE(x Expr) Expr { return unary(Round, x) }

// CastE yields an Expr of type t converting x.
func CastE(t ScalarType, x Expr) Expr {
	return Expr{Type: t, Kind: Unary{Op: Cast, X: x}}
}

func logical(op LogicalOp, a, b Expr) Expr {
	return Expr{Type: TBool(), Kind: Logical{Op: op, LHS: a, RHS: b}}
}

func EqE(a, b Expr) Expr  { return logical(Eq, a, b) }
func NeE(a, b Expr) Expr  { return logical(Ne, a, b) }
func LtE(a, b Expr) Expr  { return logical(Lt, a, b) }
func LeE(a, b Expr) Expr  { return logical(Le, a, b) }
func GtE(a, b Expr) Expr  { return logical(Gt, a, b) }
func GeE(a, b Expr) Expr  { return logical(Ge, a, b) }
func AndE(a, b Expr) Expr { return logical(And, a, b) }
func OrE(a, b Expr) Expr  { return logical(Or, a, b) }
func NotE(a Expr) Expr    { return Expr{Type: TBool(), Kind: Logical{Op: Not, LHS: a}} }

// CallE constructs a Call expression of the given result type.
func CallE(resultType ScalarType, fn CallFunction, args ...Expr) Expr {
	return Expr{Type: resultType, Kind: Call{Func: fn, Args: args}}
}
