package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// ResizeNearest lowers the nearest-neighbor resize op, per spec.md §4.C:
//
//	scale[k] = Hs/H for k=0, Ws/W for k=1                      (Float32)
//	out[y,x,c] = in[min(floor(y*scale[0]), Hs-1),
//	              min(floor(x*scale[1]), Ws-1), c]
//
// grounded on original_source/examples/MMDeploy/Resize.hpp's
// `Resize::Nearest`.
func ResizeNearest(in *ir.TensorVar, outH, outW ir.Expr) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "Resize/Nearest", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	channels := in.Shape[2]
	outShape := []ir.Expr{outH, outW, channels}

	scaleShape := []ir.Expr{ir.Constant(uint64(2))}
	scaleIters := ir.ConstructIndices(scaleShape)
	isFirstAxis := ir.EqE(scaleIters[0].Ref(), ir.Constant(int32(0)))
	hScale := ir.DivE(ir.CastE(ir.TFloat32(), in.Shape[0]), ir.CastE(ir.TFloat32(), outH))
	wScale := ir.DivE(ir.CastE(ir.TFloat32(), in.Shape[1]), ir.CastE(ir.TFloat32(), outW))
	scale := ir.Compute(scaleShape, scaleIters, ir.IfThenElse(isFirstAxis, hScale, wScale), "scale")

	boundH := ir.CastE(ir.TFloat32(), ir.SubE(in.Shape[0], ir.Constant(int32(1))))
	boundW := ir.CastE(ir.TFloat32(), ir.SubE(in.Shape[1], ir.Constant(int32(1))))

	iters := ir.ConstructIndices(outShape)
	y, x, c := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	srcY := ir.CastE(ir.TUInt64(), ir.MinE(ir.FloorE(ir.MulE(y, scale.At(ir.Constant(int32(0))))), boundH))
	srcX := ir.CastE(ir.TUInt64(), ir.MinE(ir.FloorE(ir.MulE(x, scale.At(ir.Constant(int32(1))))), boundW))

	body := in.At(srcY, srcX, c)
	return ir.Compute(outShape, iters, body, "ResizeNearest"), nil
}
