package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// Pad lowers the padding op, per spec.md §4.C:
//
//	out[y,x,c] = in[y-top, x-left, c] if inside the source window,
//	             pad_value            otherwise
//
// outH, outW are the padded output's spatial extents (in.Shape[0]+top+
// bottom, in.Shape[1]+left+right, already resolved by the caller); top
// and left locate the source window within it. padValue is an Expr;
// pipeline.Assemble always passes the op's pad_val as a constant, and
// the op's `dynamic` field is not consulted.
func Pad(in *ir.TensorVar, outH, outW, top, left, padValue ir.Expr) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "Pad", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	channels := in.Shape[2]
	outShape := []ir.Expr{outH, outW, channels}
	iters := ir.ConstructIndices(outShape)
	y, x, c := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	srcY := ir.SubE(y, top)
	srcX := ir.SubE(x, left)
	inside := ir.AndE(
		ir.AndE(ir.GeE(srcY, ir.Constant(int32(0))), ir.LtE(srcY, in.Shape[0])),
		ir.AndE(ir.GeE(srcX, ir.Constant(int32(0))), ir.LtE(srcX, in.Shape[1])),
	)
	body := ir.IfThenElse(inside, in.At(srcY, srcX, c), padValue)
	return ir.Compute(outShape, iters, body, "Pad"), nil
}
