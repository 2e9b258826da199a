package shared

import (
	"errors"
	"fmt"
	"io"

	"github.com/ajroetker/fusekernel/ir"
)

// ErrUnsupportedCall is returned when a Call node names a function the
// target's intrinsic table does not recognize (spec.md §4.E point 5:
// "names unknown to that table are a hard error at code-gen time").
var ErrUnsupportedCall = errors.New("codegen: unsupported call")

// Hooks captures the handful of places the CPU and GPU backends diverge
// (spec.md §4.E closing paragraph): thread-extent expansion, the Sync
// call spelling, and intrinsic lookups beyond the fixed unary/binary
// tables both targets share.
type Hooks struct {
	// ThreadExtentLoop: true expands Attr(ThreadExtent,...) into an
	// ordinary for loop (CPU); false binds Node to a thread-index
	// expression instead and emits no loop (GPU).
	ThreadExtentLoop bool
	// ThreadIndexExpr returns the device thread-index expression a
	// ThreadExtent-bound IterVar substitutes to, when ThreadExtentLoop is
	// false.
	ThreadIndexExpr func(it *ir.IterVar) string
	// EmitSync writes the Sync call's spelling: a comment on CPU,
	// "__syncthreads()" on GPU (spec.md §4.E point 5).
	EmitSync func(w io.Writer) error
	// Intrinsic resolves a Call's function to a callable name for
	// functions beyond Sync (e.g. bilinear_resize_preprocess); ok is
	// false when the target's table has no entry.
	Intrinsic func(fn ir.CallFunction) (name string, ok bool)
}

// Emitter writes IR expressions and statements as C-family target code.
// The two backends differ only through Hooks; all structural emission
// (parenthesization, loop shape, ComputeOp lowering) is shared, per
// spec.md §4.E's "two concrete code generators share this skeleton".
type Emitter struct {
	W     io.Writer
	Hooks Hooks

	err error
}

func (e *Emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, err := fmt.Fprintf(e.W, format, args...)
	if err != nil {
		e.err = err
	}
}

// Err returns the first write error Emitter encountered, if any.
func (e *Emitter) Err() error { return e.err }

// threadBound reports whether it is bound to a device thread index rather
// than an ordinary loop: GPU generators set ThreadExtentLoop false and
// mark the output's spatial IterVars AttrThreadBlockX/Y (spec.md §4.E
// point 3, §5 "each output pixel is one thread"); CPU always expands a
// loop regardless of Attr.
func (e *Emitter) threadBound(it *ir.IterVar) bool {
	return !e.Hooks.ThreadExtentLoop && (it.Attr == ir.AttrThreadBlockX || it.Attr == ir.AttrThreadBlockY)
}

// EmitExpr writes e in fully parenthesized form (spec.md §4.E point 4).
func (e *Emitter) EmitExpr(expr ir.Expr) error {
	if e.err != nil {
		return e.err
	}
	switch k := expr.Kind.(type) {
	case ir.Const:
		e.printf("%s", ConstLiteral(expr.Type, k.Value))
	case ir.ScalarVar:
		if k.IsPlaceholder() {
			e.printf("%s", MakeIdentifier(k.Placeholder))
			return e.err
		}
		e.printf("%s", MakeIdentifier(k.Tensor.Name))
		for _, idx := range k.Indices {
			e.printf("[")
			if err := e.EmitExpr(idx); err != nil {
				return err
			}
			e.printf("]")
		}
	case ir.IterVarRef:
		if e.threadBound(k.Var) {
			if e.Hooks.ThreadIndexExpr != nil {
				if sub := e.Hooks.ThreadIndexExpr(k.Var); sub != "" {
					e.printf("%s", sub)
					return e.err
				}
			}
		}
		e.printf("%s", MakeIdentifier(k.Var.Name))
	case ir.Binary:
		return e.emitBinary(k)
	case ir.Unary:
		return e.emitUnary(expr.Type, k)
	case ir.Logical:
		return e.emitLogical(k)
	case ir.Select:
		e.printf("(")
		if err := e.EmitExpr(k.Cond); err != nil {
			return err
		}
		e.printf(" ? ")
		if err := e.EmitExpr(k.True); err != nil {
			return err
		}
		e.printf(" : ")
		if err := e.EmitExpr(k.False); err != nil {
			return err
		}
		e.printf(")")
	case ir.Call:
		return e.emitCall(k)
	case ir.Let:
		// No op lowering in this compiler currently produces a Let; this
		// branch only keeps the sum type exhaustively handled. A GCC/Clang
		// statement expression is the only standard way to bind-then-use
		// in C value position.
		e.printf("({ %s %s = ", k.Value.Type.CName(), MakeIdentifier(k.Var.Placeholder))
		if err := e.EmitExpr(k.Value); err != nil {
			return err
		}
		e.printf("; ")
		if err := e.EmitExpr(k.Body); err != nil {
			return err
		}
		e.printf("; })")
	case ir.Reduce:
		return e.EmitExpr(k.Accumulate)
	default:
		return fmt.Errorf("codegen: EmitExpr: unhandled ExprKind %T", k)
	}
	return e.err
}

func (e *Emitter) emitBinary(k ir.Binary) error {
	if k.Op == ir.Max || k.Op == ir.Min {
		name := "max"
		if k.Op == ir.Min {
			name = "min"
		}
		e.printf("%s(", name)
		if err := e.EmitExpr(k.LHS); err != nil {
			return err
		}
		e.printf(", ")
		if err := e.EmitExpr(k.RHS); err != nil {
			return err
		}
		e.printf(")")
		return e.err
	}
	sym, ok := k.Op.Symbol()
	if !ok {
		return fmt.Errorf("codegen: binary operator %v has no infix spelling", k.Op)
	}
	e.printf("(")
	if err := e.EmitExpr(k.LHS); err != nil {
		return err
	}
	e.printf(" %s ", sym)
	if err := e.EmitExpr(k.RHS); err != nil {
		return err
	}
	e.printf(")")
	return e.err
}

func (e *Emitter) emitUnary(t ir.ScalarType, k ir.Unary) error {
	if k.Op == ir.Cast {
		e.printf("((%s)(", t.CName())
		if err := e.EmitExpr(k.X); err != nil {
			return err
		}
		e.printf("))")
		return e.err
	}
	if k.Op == ir.Neg {
		e.printf("(-(")
		if err := e.EmitExpr(k.X); err != nil {
			return err
		}
		e.printf("))")
		return e.err
	}
	name, ok := UnaryDeviceName(k.Op)
	if !ok {
		return fmt.Errorf("codegen: unary operator %v has no device spelling", k.Op)
	}
	if k.Op == ir.Abs && t.Kind == ir.Float32 {
		name = "fabs"
	}
	e.printf("(%s(", name)
	if err := e.EmitExpr(k.X); err != nil {
		return err
	}
	e.printf("))")
	return e.err
}

func (e *Emitter) emitLogical(k ir.Logical) error {
	if k.Op == ir.Not {
		e.printf("(!(")
		if err := e.EmitExpr(k.LHS); err != nil {
			return err
		}
		e.printf("))")
		return e.err
	}
	e.printf("(")
	if err := e.EmitExpr(k.LHS); err != nil {
		return err
	}
	e.printf(" %s ", k.Op.Symbol())
	if err := e.EmitExpr(k.RHS); err != nil {
		return err
	}
	e.printf(")")
	return e.err
}

func (e *Emitter) emitCall(k ir.Call) error {
	if k.Func == ir.Sync {
		if e.Hooks.EmitSync == nil {
			return fmt.Errorf("%w: Sync", ErrUnsupportedCall)
		}
		return e.Hooks.EmitSync(e.W)
	}
	name := ""
	ok := false
	if e.Hooks.Intrinsic != nil {
		name, ok = e.Hooks.Intrinsic(k.Func)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedCall, k.Func)
	}
	e.printf("%s(", name)
	for i, a := range k.Args {
		if i > 0 {
			e.printf(", ")
		}
		if ptr, isAddr := addressOf(a); isAddr {
			e.printf("&")
			if err := e.EmitExpr(ptr); err != nil {
				return err
			}
			continue
		}
		if err := e.EmitExpr(a); err != nil {
			return err
		}
	}
	e.printf(")")
	return e.err
}

// addressOf reports whether arg is a ScalarVar read that should be
// passed by reference (the precompute helpers' by-reference output
// table-pointer arguments, spec.md §9). Any ScalarVar argument to a
// Call is, in this IR, always such an output parameter: ordinary value
// reads never need to be spliced into a call argument list this way.
func addressOf(arg ir.Expr) (ir.Expr, bool) {
	if _, ok := arg.Kind.(ir.ScalarVar); ok {
		return arg, true
	}
	return ir.Expr{}, false
}

// EmitStmt writes s in target statement form.
func (e *Emitter) EmitStmt(s ir.Stmt) error {
	if e.err != nil {
		return e.err
	}
	if s.IsZero() {
		return nil
	}
	switch k := s.Kind.(type) {
	case ir.Block:
		for _, stmt := range k.Stmts {
			if err := e.EmitStmt(stmt); err != nil {
				return err
			}
		}
	case ir.For:
		return e.emitFor(k)
	case ir.Store:
		return e.emitIndexedAssign(k.Var, k.Index, k.Value)
	case ir.Provide:
		return e.emitIndexedAssign(k.Var, k.Index, k.Value)
	case ir.Allocate:
		e.printf("%s %s", k.Var.ElementType.CName(), MakeIdentifier(k.Var.Name))
		for _, rg := range k.Bound {
			e.printf("[")
			if err := e.EmitExpr(rg.Extent); err != nil {
				return err
			}
			e.printf("]")
		}
		e.printf(";\n")
		return e.EmitStmt(k.Body)
	case ir.Attr:
		return e.emitAttr(k)
	case ir.Evaluate:
		if err := e.EmitExpr(k.Value); err != nil {
			return err
		}
		e.printf(";\n")
	case ir.IfStmt:
		e.printf("if (")
		if err := e.EmitExpr(k.Cond); err != nil {
			return err
		}
		e.printf(") {\n")
		if err := e.EmitStmt(k.Then); err != nil {
			return err
		}
		e.printf("}")
		if !k.Else.IsZero() {
			e.printf(" else {\n")
			if err := e.EmitStmt(k.Else); err != nil {
				return err
			}
			e.printf("}")
		}
		e.printf("\n")
	default:
		return fmt.Errorf("codegen: EmitStmt: unhandled StmtKind %T", k)
	}
	return e.err
}

func (e *Emitter) emitIndexedAssign(v *ir.TensorVar, index []ir.Expr, value ir.Expr) error {
	e.printf("%s", MakeIdentifier(v.Name))
	for _, idx := range index {
		e.printf("[")
		if err := e.EmitExpr(idx); err != nil {
			return err
		}
		e.printf("]")
	}
	e.printf(" = ")
	if err := e.EmitExpr(value); err != nil {
		return err
	}
	e.printf(";\n")
	return e.err
}

func (e *Emitter) emitFor(f ir.For) error {
	if f.It.Attr == ir.AttrUnrolled {
		e.printf("#pragma unroll\n")
	}
	name := MakeIdentifier(f.It.Name)
	e.printf("for (%s %s = ", f.It.Type.CName(), name)
	if err := e.EmitExpr(f.Init); err != nil {
		return err
	}
	e.printf("; %s < ", name)
	if err := e.EmitExpr(f.Init); err != nil {
		return err
	}
	e.printf(" + ")
	if err := e.EmitExpr(f.Extent); err != nil {
		return err
	}
	e.printf("; ++%s) {\n", name)
	if err := e.EmitStmt(f.Body); err != nil {
		return err
	}
	e.printf("}\n")
	return e.err
}

func (e *Emitter) emitAttr(a ir.Attr) error {
	if a.Key != ir.ThreadExtent {
		return fmt.Errorf("codegen: unhandled attr key %v", a.Key)
	}
	if e.Hooks.ThreadExtentLoop {
		name := MakeIdentifier(a.Node.Name)
		e.printf("for (%s %s = 0; %s < ", a.Node.Type.CName(), name, name)
		if err := e.EmitExpr(a.Value); err != nil {
			return err
		}
		e.printf("; ++%s) {\n", name)
		if err := e.EmitStmt(a.Body); err != nil {
			return err
		}
		e.printf("}\n")
		return e.err
	}
	return e.EmitStmt(a.Body)
}

// EmitDecl writes tv's Allocate declaration (type, sanitized name, and
// one bracketed extent per shape dimension), without a body — callers
// follow it with EmitComputeOp or a spliced Evaluate(Call), per whether
// tv is a plain compute or a call-producing scratch tensor (spec.md §9).
func (e *Emitter) EmitDecl(tv *ir.TensorVar) error {
	e.printf("%s %s", tv.ElementType.CName(), MakeIdentifier(tv.Name))
	for _, dim := range tv.Shape {
		e.printf("[")
		if err := e.EmitExpr(dim); err != nil {
			return err
		}
		e.printf("]")
	}
	e.printf(";\n")
	return e.err
}

// EmitComputeOp emits a tensor's producer per spec.md §4.E point 6: a
// loop nest over its IterVars assigning fcompute (or, for a Reduce, the
// accumulator declaration/init ahead of the reduction loop).
func (e *Emitter) EmitComputeOp(op *ir.ComputeOp) error {
	opened := 0
	for _, it := range op.IterVars {
		if e.threadBound(it) {
			continue // bound to blockIdx/threadIdx instead; no loop to open.
		}
		name := MakeIdentifier(it.Name)
		e.printf("for (%s %s = ", it.Type.CName(), name)
		if err := e.EmitExpr(it.Range.Init); err != nil {
			return err
		}
		e.printf("; %s < ", name)
		if err := e.EmitExpr(it.Range.Extent); err != nil {
			return err
		}
		e.printf("; ++%s) {\n", name)
		opened++
	}

	assignHead := func() {
		e.printf("%s", MakeIdentifier(op.Output.Name))
		for _, it := range op.IterVars {
			e.printf("[")
			if err := e.EmitExpr(it.Ref()); err != nil {
				return
			}
			e.printf("]")
		}
		e.printf(" = ")
	}

	if reduce, ok := op.FCompute.Kind.(ir.Reduce); ok {
		e.printf("%s %s_acc = ", reduce.Accumulate.Type.CName(), MakeIdentifier(op.Output.Name))
		if err := e.EmitExpr(reduce.Init); err != nil {
			return err
		}
		e.printf(";\n")
		for _, it := range reduce.ReduceAxis {
			name := MakeIdentifier(it.Name)
			e.printf("for (%s %s = ", it.Type.CName(), name)
			if err := e.EmitExpr(it.Range.Init); err != nil {
				return err
			}
			e.printf("; %s < ", name)
			if err := e.EmitExpr(it.Range.Extent); err != nil {
				return err
			}
			e.printf("; ++%s) {\n", name)
		}
		e.printf("%s_acc = ", MakeIdentifier(op.Output.Name))
		if err := e.EmitExpr(reduce.Combiner); err != nil {
			return err
		}
		e.printf(";\n")
		for range reduce.ReduceAxis {
			e.printf("}\n")
		}
		assignHead()
		e.printf("%s_acc;\n", MakeIdentifier(op.Output.Name))
	} else {
		assignHead()
		if err := e.EmitExpr(op.FCompute); err != nil {
			return err
		}
		e.printf(";\n")
	}

	for i := 0; i < opened; i++ {
		e.printf("}\n")
	}
	return e.err
}
