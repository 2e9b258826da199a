package lower

import "github.com/ajroetker/fusekernel/ir"

// CastFloat lowers the CastFloat op: an elementwise Cast to Float32,
// index rewrite is the identity (spec.md §4.C: "trivial index or type
// rewrite").
func CastFloat(in *ir.TensorVar) (*ir.TensorVar, error) {
	outShape := append([]ir.Expr(nil), in.Shape...)
	iters := ir.ConstructIndices(outShape)
	idx := make([]ir.Expr, len(iters))
	for k, iv := range iters {
		idx[k] = iv.Ref()
	}
	body := ir.CastE(ir.TFloat32(), in.At(idx...))
	return ir.Compute(outShape, iters, body, "CastFloat"), nil
}
