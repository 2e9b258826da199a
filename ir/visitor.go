package ir

import "fmt"

// Visitor holds one optional callback per ExprKind variant. Walk invokes
// the matching callback in post-order (children first), which is what
// the code generator's expression emission needs: operands must already
// be text before an operator can wrap them.
type Visitor struct {
	OnConst      func(Const, ScalarType)
	OnScalarVar  func(ScalarVar, ScalarType)
	OnIterVarRef func(IterVarRef, ScalarType)
	OnBinary     func(Binary, ScalarType)
	OnUnary      func(Unary, ScalarType)
	OnLogical    func(Logical, ScalarType)
	OnSelect     func(Select, ScalarType)
	OnCall       func(Call, ScalarType)
	OnLet        func(Let, ScalarType)
	OnReduce     func(Reduce, ScalarType)
}

// Walk performs a stack-recursive post-order traversal of e. Depth is
// bounded by pipeline length times spatial loop-nest depth (typically
// ≤ 20, per spec.md §4.A), so plain recursion is used rather than an
// explicit stack.
func Walk(e Expr, v *Visitor) {
	if e.IsZero() {
		return
	}
	switch k := e.Kind.(type) {
	case Const:
		if v.OnConst != nil {
			v.OnConst(k, e.Type)
		}
	case ScalarVar:
		for _, idx := range k.Indices {
			Walk(idx, v)
		}
		if v.OnScalarVar != nil {
			v.OnScalarVar(k, e.Type)
		}
	case IterVarRef:
		if v.OnIterVarRef != nil {
			v.OnIterVarRef(k, e.Type)
		}
	case Binary:
		Walk(k.LHS, v)
		Walk(k.RHS, v)
		if v.OnBinary != nil {
			v.OnBinary(k, e.Type)
		}
	case Unary:
		Walk(k.X, v)
		if v.OnUnary != nil {
			v.OnUnary(k, e.Type)
		}
	case Logical:
		Walk(k.LHS, v)
		if !k.RHS.IsZero() {
			Walk(k.RHS, v)
		}
		if v.OnLogical != nil {
			v.OnLogical(k, e.Type)
		}
	case Select:
		Walk(k.Cond, v)
		Walk(k.True, v)
		Walk(k.False, v)
		if v.OnSelect != nil {
			v.OnSelect(k, e.Type)
		}
	case Call:
		for _, a := range k.Args {
			Walk(a, v)
		}
		if v.OnCall != nil {
			v.OnCall(k, e.Type)
		}
	case Let:
		Walk(k.Value, v)
		Walk(k.Body, v)
		if v.OnLet != nil {
			v.OnLet(k, e.Type)
		}
	case Reduce:
		Walk(k.Init, v)
		Walk(k.Combiner, v)
		Walk(k.Accumulate, v)
		if v.OnReduce != nil {
			v.OnReduce(k, e.Type)
		}
	default:
		panic(fmt.Sprintf("ir: Walk: unhandled ExprKind %T", k))
	}
}

// WalkStmt performs a post-order traversal of statement nodes, invoking
// onExpr (if non-nil) on every Expr embedded in s.
func WalkStmt(s Stmt, onExpr func(Expr)) {
	if s.IsZero() {
		return
	}
	switch k := s.Kind.(type) {
	case For:
		onExprIfSet(onExpr, k.Init)
		onExprIfSet(onExpr, k.Extent)
		WalkStmt(k.Body, onExpr)
	case Store:
		for _, idx := range k.Index {
			onExprIfSet(onExpr, idx)
		}
		onExprIfSet(onExpr, k.Value)
	case Provide:
		for _, idx := range k.Index {
			onExprIfSet(onExpr, idx)
		}
		onExprIfSet(onExpr, k.Value)
	case Allocate:
		WalkStmt(k.Body, onExpr)
	case Attr:
		onExprIfSet(onExpr, k.Value)
		WalkStmt(k.Body, onExpr)
	case Evaluate:
		onExprIfSet(onExpr, k.Value)
	case IfStmt:
		onExprIfSet(onExpr, k.Cond)
		WalkStmt(k.Then, onExpr)
		WalkStmt(k.Else, onExpr)
	case Block:
		for _, inner := range k.Stmts {
			WalkStmt(inner, onExpr)
		}
	default:
		panic(fmt.Sprintf("ir: WalkStmt: unhandled StmtKind %T", k))
	}
}

func onExprIfSet(fn func(Expr), e Expr) {
	if fn != nil && !e.IsZero() {
		fn(e)
	}
}
