package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// Normalize lowers the per-channel normalization op, per spec.md §4.C:
//
//	out[y,x,c] = (in[y,x,c] - mean[c]) / std[c]
//
// mean and std must each hold exactly in.Shape[2]'s static channel count
// of per-channel Expr (typically Placeholders bound to norm_mean_{c} /
// norm_std_{c} at FuseKernel call time). The result is always Float32.
func Normalize(in *ir.TensorVar, mean, std []ir.Expr) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "Normalize", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	if len(mean) != len(std) {
		return nil, &Error{Op: "Normalize", Err: fmt.Errorf("mean has %d channels, std has %d", len(mean), len(std))}
	}

	outShape := append([]ir.Expr(nil), in.Shape...)
	iters := ir.ConstructIndices(outShape)
	y, x, c := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	normalized := ir.DivE(
		ir.SubE(ir.CastE(ir.TFloat32(), in.At(y, x, c)), selectChannel(mean, c)),
		selectChannel(std, c),
	)
	return ir.Compute(outShape, iters, normalized, "Normalize"), nil
}

// selectChannel builds a chain of Select nodes picking values[k] when
// c == k; Select is the only branching value form the IR has. The chain
// is emitted as nested ternaries inside the per-pixel loop body.
func selectChannel(values []ir.Expr, c ir.Expr) ir.Expr {
	result := values[len(values)-1]
	for k := len(values) - 2; k >= 0; k-- {
		cond := ir.EqE(c, ir.Constant(int32(k)))
		result = ir.IfThenElse(cond, values[k], result)
	}
	return result
}
