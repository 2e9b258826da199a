package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// ResizeBilinearGPU lowers the bilinear resize op for the device target.
// Unlike the CPU path, the weight/index tables are not host-precomputed:
// each GPU thread derives its own pair of taps in-kernel, from a single
// call into the matching `bilinear[_float]_resize_preprocess` device
// function (spec.md §4.F, §9).
//
// That call fills four 2-element scratch tensors (cubh, cubw, inth, intw)
// through by-reference output parameters. All four share one *ir.Expr
// Call instance by pointer identity: this is spec.md §9's "allocate then
// evaluate" pattern read as a single atomic unit, not four independent
// producers. codegen's topological sorter must emit each tensor's
// Allocate followed by exactly one Evaluate(Call) for the group — see
// ir.SharedCallGroups.
//
// Grounded on original_source/examples/MMDeploy/Resize.hpp's
// `Resize::BilinearCUDA` / `BilinearFloatCUDA`.
func ResizeBilinearGPU(in *ir.TensorVar, outH, outW, srcH, srcW ir.Expr, fixedPoint bool) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "Resize/Bilinear", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	channels := in.Shape[2]
	outShape := []ir.Expr{outH, outW, channels}

	weightType := ir.TInt16()
	fn := ir.BilinearResizePreprocess
	if !fixedPoint {
		weightType = ir.TFloat32()
		fn = ir.BilinearFloatResizePreprocess
	}

	two := []ir.Expr{ir.Constant(uint64(2))}
	cubh := &ir.TensorVar{Name: "cubh", Shape: two, ElementType: weightType}
	cubw := &ir.TensorVar{Name: "cubw", Shape: two, ElementType: weightType}
	inth := &ir.TensorVar{Name: "inth", Shape: two, ElementType: ir.TInt32()}
	intw := &ir.TensorVar{Name: "intw", Shape: two, ElementType: ir.TInt32()}

	iters := ir.ConstructIndices(outShape)
	y, x, c := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	zero := ir.Constant(uint64(0))
	call := ir.CallE(ir.TInt32(), fn,
		srcH, outH, y, srcW, outW, x,
		cubh.At(zero), inth.At(zero), cubw.At(zero), intw.At(zero),
	)
	// The scratch tensors' own shape is a flat 2-element scratch extent,
	// unrelated to any loop axis; but the call filling them is spliced
	// into the outer (y,x,c) loop, ahead of the point-wise read below, so
	// its IterVars for validation purposes are the outer y/x axes the
	// call actually references, not a loop over the scratch extent.
	outerScope := []*ir.IterVar{iters[0], iters[1]}
	for _, tv := range []*ir.TensorVar{cubh, cubw, inth, intw} {
		tv.Producer = &ir.ComputeOp{IterVars: outerScope, Output: tv, Name: tv.Name, Call: &call}
	}

	one := ir.Constant(uint64(1))
	term := func(hi, wi ir.Expr) ir.Expr {
		return ir.MulE(
			ir.MulE(cubh.At(hi), cubw.At(wi)),
			in.At(inth.At(hi), intw.At(wi), c),
		)
	}
	sum := ir.AddE(ir.AddE(term(zero, zero), term(one, zero)), ir.AddE(term(zero, one), term(one, one)))

	body := sum
	if fixedPoint {
		half := int32(1 << (FixedPointShift - 1))
		body = ir.DivE(ir.AddE(sum, ir.Constant(half)), ir.Constant(int32(1<<FixedPointShift)))
	}
	return ir.Compute(outShape, iters, body, "ResizeBilinear"), nil
}
