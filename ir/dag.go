package ir

// Dependencies returns the distinct tensors tv's producer directly reads,
// in first-encountered order. It is the building block the code
// generator's topological sorter (codegen/shared) walks to decide
// Allocate-before-read ordering (spec.md §4.E point 1).
func Dependencies(tv *TensorVar) []*TensorVar {
	if tv.Producer == nil {
		return nil
	}
	var seen map[*TensorVar]bool
	var out []*TensorVar
	add := func(t *TensorVar) {
		if seen == nil {
			seen = make(map[*TensorVar]bool)
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	var walkShape func([]Expr)
	var walk func(Expr)
	walkShape = func(shape []Expr) {
		for _, d := range shape {
			walk(d)
		}
	}
	walk = func(e Expr) {
		if e.IsZero() {
			return
		}
		switch k := e.Kind.(type) {
		case ScalarVar:
			if !k.IsPlaceholder() {
				if k.Tensor != tv {
					add(k.Tensor)
				}
				walkShape(k.Tensor.Shape)
			}
			for _, idx := range k.Indices {
				walk(idx)
			}
		case IterVarRef:
			walk(k.Var.Range.Init)
			walk(k.Var.Range.Extent)
		case Binary:
			walk(k.LHS)
			walk(k.RHS)
		case Unary:
			walk(k.X)
		case Logical:
			walk(k.LHS)
			walk(k.RHS)
		case Select:
			walk(k.Cond)
			walk(k.True)
			walk(k.False)
		case Call:
			for _, a := range k.Args {
				walk(a)
			}
		case Let:
			walk(k.Value)
			walk(k.Body)
		case Reduce:
			walk(k.Init)
			walk(k.Combiner)
			walk(k.Accumulate)
		}
	}
	walkShape(tv.Shape)
	for _, iv := range tv.Producer.IterVars {
		walk(iv.Range.Init)
		walk(iv.Range.Extent)
	}
	if tv.Producer.Call != nil {
		walk(*tv.Producer.Call)
	}
	walk(tv.Producer.FCompute)
	return out
}
