package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// BilinearTables names the four host-precomputed weight/index tensors a
// CPU bilinear resize reads. Their element is addressed as table[i,y] (or
// table[j,x]): the first axis selects between the two taps, the second
// selects the destination row (or column). They are pipeline inputs,
// filled at runtime by the matching precompute helper in package rtasm —
// lowering only wires the reads.
type BilinearTables struct {
	WeightH, WeightW *ir.TensorVar // wh, ww
	IndexH, IndexW   *ir.TensorVar // ih, iw
}

// FixedPointShift is the rounding shift spec.md's fixed-point bilinear
// path applies: (S + 2^(shift-1)) >> shift, with weights scaled so that
// wh[0]+wh[1] = ww[0]+ww[1] = 2^(shift/2)... spec.md fixes shift=22 and
// the per-axis weight sum at 2048 (2^11), matching the uint8 path's
// 2048*2048 = 2^22 total scale.
const FixedPointShift = 22

// ResizeBilinearCPU lowers the bilinear resize op for the host target,
// per spec.md §4.C:
//
//	out[y,x,c] = Σ(i,j∈{0,1}) wh[i,y]*ww[j,x]*in[ih[i,y], iw[j,x], c]
//
// fixedPoint selects the Int16-weighted, 22-bit-rounded uint8 path; when
// false, the float path (no scaling/rounding) is used. Grounded on
// original_source/examples/MMDeploy/Resize.hpp's `Resize::Bilinear` and
// `Resize::BilinearFloat`.
func ResizeBilinearCPU(in *ir.TensorVar, tables BilinearTables, outH, outW ir.Expr, fixedPoint bool) (*ir.TensorVar, error) {
	if in.Rank() != 3 {
		return nil, &Error{Op: "Resize/Bilinear", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	channels := in.Shape[2]
	outShape := []ir.Expr{outH, outW, channels}
	iters := ir.ConstructIndices(outShape)
	y, x, c := iters[0].Ref(), iters[1].Ref(), iters[2].Ref()

	zero := ir.Constant(uint64(0))
	one := ir.Constant(uint64(1))
	term := func(hi, wi ir.Expr) ir.Expr {
		return ir.MulE(
			ir.MulE(tables.WeightH.At(hi, y), tables.WeightW.At(wi, x)),
			in.At(tables.IndexH.At(hi, y), tables.IndexW.At(wi, x), c),
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

// NewBilinearTables declares the four host-filled table tensors for a
// destination of size outH×outW, with weight element type wt (Int16 for
// the fixed-point path, Float32 for the float path). They carry no
// Producer: they are pipeline inputs, named so the runtime assembler can
// bind them to the `cubfh`/`cubfw`/`inth`/`intw` buffers its dispatcher
// allocates before calling the precompute helper.
func NewBilinearTables(outH, outW ir.Expr, wt ir.ScalarType) BilinearTables {
	two := ir.Constant(uint64(2))
	return BilinearTables{
		WeightH: &ir.TensorVar{Name: "cubfh", Shape: []ir.Expr{two, outH}, ElementType: wt},
		WeightW: &ir.TensorVar{Name: "cubfw", Shape: []ir.Expr{two, outW}, ElementType: wt},
		IndexH:  &ir.TensorVar{Name: "inth", Shape: []ir.Expr{two, outH}, ElementType: ir.TInt32()},
		IndexW:  &ir.TensorVar{Name: "intw", Shape: []ir.Expr{two, outW}, ElementType: ir.TInt32()},
	}
}
