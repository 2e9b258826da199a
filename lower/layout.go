package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// HWC2CHW lowers the layout-transpose op, per spec.md §4.C:
//
//	out[c,y,x] = in[y,x,c]
//
// a trivial index rewrite; the element type is unchanged.
func HWC2CHW(in *ir.TensorVar) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "HWC2CHW", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	h, w, c := in.Shape[0], in.Shape[1], in.Shape[2]
	outShape := []ir.Expr{c, h, w}
	iters := ir.ConstructIndices(outShape)
	cOut, yOut, xOut := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	body := in.At(yOut, xOut, cOut)
	return ir.Compute(outShape, iters, body, "HWC2CHW"), nil
}
