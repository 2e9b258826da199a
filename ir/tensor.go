package ir

// Range is an iteration bound [Init, Init+Extent).
type Range struct {
	Init, Extent Expr
}

// IterVar is a named loop index with an attached Range and scheduling
// attribute. IterVars are compared by pointer identity: two IterVars
// with the same name are still distinct variables unless they are the
// same *IterVar value (spec.md invariant 2 is checked against identity,
// not name).
type IterVar struct {
	Name  string
	Range Range
	Attr  IterAttrType
	Type  ScalarType
}

// NewIterVar constructs a fresh loop index over [init, init+extent) with
// the default (non-unrolled, non-thread-bound) attribute. Image-pipeline
// loop indices are always non-negative array offsets, so the canonical
// type is UInt64; callers needing a different width (rare) can mutate
// the returned pointer's Type field before the IterVar is referenced.
func NewIterVar(name string, init, extent Expr) *IterVar {
	return &IterVar{
		Name:  name,
		Range: Range{Init: init, Extent: extent},
		Attr:  AttrDefault,
		Type:  TUInt64(),
	}
}

// Ref returns an Expr referencing this IterVar by identity.
func (v *IterVar) Ref() Expr {
	return Expr{Type: v.Type, Kind: IterVarRef{Var: v}}
}

// TensorVar names a tensor of a given shape and element type. A
// TensorVar is *defined* by exactly one Producer (a ComputeOp) or, for a
// pipeline input/output, by having a nil Producer; it is *used* wherever
// a ScalarVar refers to it (spec.md §3).
type TensorVar struct {
	Name        string
	Shape       []Expr
	ElementType ScalarType
	Producer    *ComputeOp
}

// Rank returns the tensor's shape arity.
func (t *TensorVar) Rank() int { return len(t.Shape) }

// At returns an Expr reading t at the given indices. len(indices) must
// equal t.Rank() (spec.md invariant 1). At does not check this, since it
// is a low-level builder used throughout lowering; ValidateTensor reports
// a violation as a CompileError of KindTypeMismatch.
func (t *TensorVar) At(indices ...Expr) Expr {
	return Expr{
		Type: t.ElementType,
		Kind: ScalarVar{Tensor: t, Indices: indices},
	}
}

// ComputeOp defines an output tensor as a function over the cartesian
// product of IterVars. Evaluating a ComputeOp means: for every point in
// that product, Output's element at that index equals FCompute (or, if
// FCompute is a Reduce, the Reduce's accumulate expression folded over
// ReduceAxis).
type ComputeOp struct {
	IterVars []*IterVar
	FCompute Expr
	Output   *TensorVar
	Name     string

	// Call, when non-nil, makes this ComputeOp a side-effecting
	// precomputation: the tensor is defined by an Evaluate(Call)
	// statement rather than a pure per-index expression (spec.md §4.B
	// second `compute` overload, used to wire
	// bilinear_resize_preprocess into the graph).
	Call *Expr
}

// Reduce is a ComputeOp body that folds Combiner over ReduceAxis,
// starting from Init, and yields Accumulate.
type Reduce struct {
	Init      Expr
	Combiner  Expr
	Accumulate Expr
	ReduceAxis []*IterVar
}

func (Reduce) exprKind() {}
