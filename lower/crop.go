package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// CenterCrop lowers the center-crop op, per spec.md §4.C:
//
//	out[y,x,c] = in[top+y, left+x, c]
//
// top and left may be constants or runtime placeholders; both are
// ordinary Exprs to this lowering. pipeline.Assemble passes the op's
// tlbr offsets as constants when the op has a tlbr, and the
// crop_top/crop_left placeholders bound at FuseKernel call time
// otherwise; the op's dynamic field is not consulted.
func CenterCrop(in *ir.TensorVar, outH, outW, top, left ir.Expr) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "CenterCrop", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	channels := in.Shape[2]
	outShape := []ir.Expr{outH, outW, channels}
	iters := ir.ConstructIndices(outShape)
	y, x, c := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	body := in.At(ir.AddE(top, y), ir.AddE(left, x), c)
	return ir.Compute(outShape, iters, body, "CenterCrop"), nil
}
