package ir

import "fmt"

// ValidateTensor checks spec.md §3 invariants 1 and 2 over tv's producer:
// every ScalarVar's index arity matches its tensor's shape arity, and
// every IterVar referenced appears in an enclosing ComputeOp.IterVars or
// Reduce.ReduceAxis scope.
func ValidateTensor(tv *TensorVar) error {
	if tv.Producer == nil {
		return nil
	}
	scope := make(map[*IterVar]bool, len(tv.Producer.IterVars))
	for _, v := range tv.Producer.IterVars {
		scope[v] = true
	}
	if tv.Producer.Call != nil {
		return validateExpr(*tv.Producer.Call, scope, tv.Name)
	}
	return validateExpr(tv.Producer.FCompute, scope, tv.Name)
}

func validateExpr(e Expr, scope map[*IterVar]bool, owner string) error {
	if e.IsZero() {
		return nil
	}
	switch k := e.Kind.(type) {
	case Const:
		return nil
	case ScalarVar:
		if !k.IsPlaceholder() {
			if len(k.Indices) != k.Tensor.Rank() {
				return NewCompileError(KindTypeMismatch, owner,
					fmt.Sprintf("tensor %q: index arity %d does not match shape arity %d",
						k.Tensor.Name, len(k.Indices), k.Tensor.Rank()))
			}
		}
		for _, idx := range k.Indices {
			if err := validateExpr(idx, scope, owner); err != nil {
				return err
			}
		}
		return nil
	case IterVarRef:
		if !scope[k.Var] {
			return NewCompileError(KindUnboundVariable, owner,
				fmt.Sprintf("iteration variable %q is free", k.Var.Name))
		}
		return nil
	case Binary:
		if err := validateExpr(k.LHS, scope, owner); err != nil {
			return err
		}
		return validateExpr(k.RHS, scope, owner)
	case Unary:
		return validateExpr(k.X, scope, owner)
	case Logical:
		if err := validateExpr(k.LHS, scope, owner); err != nil {
			return err
		}
		return validateExpr(k.RHS, scope, owner)
	case Select:
		if err := validateExpr(k.Cond, scope, owner); err != nil {
			return err
		}
		if err := validateExpr(k.True, scope, owner); err != nil {
			return err
		}
		return validateExpr(k.False, scope, owner)
	case Call:
		for _, a := range k.Args {
			if err := validateExpr(a, scope, owner); err != nil {
				return err
			}
		}
		return nil
	case Let:
		if err := validateExpr(k.Value, scope, owner); err != nil {
			return err
		}
		return validateExpr(k.Body, scope, owner)
	case Reduce:
		inner := make(map[*IterVar]bool, len(scope)+len(k.ReduceAxis))
		for v := range scope {
			inner[v] = true
		}
		for _, v := range k.ReduceAxis {
			inner[v] = true
		}
		if err := validateExpr(k.Init, scope, owner); err != nil {
			return err
		}
		if err := validateExpr(k.Combiner, inner, owner); err != nil {
			return err
		}
		return validateExpr(k.Accumulate, inner, owner)
	default:
		return fmt.Errorf("ir: validateExpr: unhandled ExprKind %T", k)
	}
}
