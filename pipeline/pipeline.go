// Package pipeline threads an op list through the op lowerings (package
// lower) in order, materializing the final fused compute tensor.
package pipeline

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
	"github.com/ajroetker/fusekernel/oplist"
)

// Result is the outcome of assembling one op list: the final tensor every
// upstream op fed into, the pixel format it was assembled for, and
// whether resize (if any) took the nearest or bilinear path — the
// runtime assembler needs both to gate dispatch generation.
type Result struct {
	Output        *ir.TensorVar
	Format        lower.Format
	Interpolation string // "", "nearest", or "bilinear"
	Target        lower.Target
}

// Assemble threads input through ops in list order, selecting Format from
// the first cvtColor* op encountered (default BGR per spec.md §6).
func Assemble(ops []oplist.Op, target lower.Target, input *ir.TensorVar) (*Result, error) {
	res := &Result{Output: input, Format: lower.BGR, Target: target}
	formatSeen := false
	current := input
	// Every op but HWC2CHW keeps the row/col spatial axes at indices 0/1
	// (HWC layout); HWC2CHW's out[c,y,x] shifts them to 1/2. Tracked so
	// bindThreadIndices can find the final output's spatial IterVars
	// regardless of what the op list's last op happened to be.
	rowAxis, colAxis := 0, 1

	for _, op := range ops {
		var err error
		switch op.Kind {
		case oplist.CvtColorBGR, oplist.CvtColorRGB, oplist.CvtColorGray:
			if !formatSeen {
				res.Format = formatFromKind(op.Kind)
				formatSeen = true
			}
			current, err = lower.CvtColor(current, res.Format)

		case oplist.Resize:
			outH := ir.Constant(op.Shape[0])
			outW := ir.Constant(op.Shape[1])
			res.Interpolation = op.Interpolation
			switch op.Interpolation {
			case "nearest":
				current, err = lower.ResizeNearest(current, outH, outW)
			case "bilinear":
				current, err = assembleBilinear(current, outH, outW, res, target)
			default:
				err = fmt.Errorf("pipeline: Resize op: unrecognized interpolation %q", op.Interpolation)
			}

		case oplist.CenterCrop:
			outH := ir.Constant(op.Shape[0])
			outW := ir.Constant(op.Shape[1])
			top, left := cropOffsets(op)
			current, err = lower.CenterCrop(current, outH, outW, top, left)

		case oplist.Normalize:
			mean := []ir.Expr{ir.Constant(op.Mean[0]), ir.Constant(op.Mean[1]), ir.Constant(op.Mean[2])}
			std := []ir.Expr{ir.Constant(op.Std[0]), ir.Constant(op.Std[1]), ir.Constant(op.Std[2])}
			current, err = lower.Normalize(current, mean, std)

		case oplist.Pad:
			outH := ir.Constant(op.Shape[0])
			outW := ir.Constant(op.Shape[1])
			top := ir.Constant(op.Paddings[0])
			left := ir.Constant(op.Paddings[1])
			padVal := ir.Constant(op.PadVal)
			current, err = lower.Pad(current, outH, outW, top, left, padVal)

		case oplist.CastFloat:
			current, err = lower.CastFloat(current)

		case oplist.HWC2CHW:
			current, err = lower.HWC2CHW(current)
			if err == nil {
				rowAxis, colAxis = 1, 2
			}

		default:
			err = fmt.Errorf("pipeline: unrecognized op kind %q", op.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: assembling op %q: %w", op.Kind, err)
		}
	}

	res.Output = current
	if target == lower.GPU {
		bindThreadIndices(current, rowAxis, colAxis)
	}
	return res, nil
}

// bindThreadIndices marks the final output's spatial IterVars
// AttrThreadBlockY/X so codegen/gpu binds one device thread per output
// pixel instead of looping (spec.md §4.E point 3, §5). A Call-producer
// tensor (the bilinear scratch tables) never reaches here as a pipeline
// output, but the nil/Call guards keep this safe if one ever did.
func bindThreadIndices(tv *ir.TensorVar, rowAxis, colAxis int) {
	if tv.Producer == nil || tv.Producer.Call != nil {
		return
	}
	iv := tv.Producer.IterVars
	if rowAxis >= len(iv) || colAxis >= len(iv) {
		return
	}
	iv[rowAxis].Attr = ir.AttrThreadBlockY
	iv[colAxis].Attr = ir.AttrThreadBlockX
}

func formatFromKind(k oplist.Kind) lower.Format {
	switch k {
	case oplist.CvtColorRGB:
		return lower.RGB
	case oplist.CvtColorGray:
		return lower.GRAY
	default:
		return lower.BGR
	}
}

func cropOffsets(op oplist.Op) (top, left ir.Expr) {
	if op.HasTLBR {
		return ir.Constant(op.TLBR[0]), ir.Constant(op.TLBR[1])
	}
	return ir.Placeholder("crop_top", ir.TInt32()), ir.Placeholder("crop_left", ir.TInt32())
}

// assembleBilinear selects the fixed-point or floating weight type per
// the dispatcher rule (spec.md §4.F: NV12/NV21 always float) and wires
// the CPU or GPU lowering accordingly.
func assembleBilinear(in *ir.TensorVar, outH, outW ir.Expr, res *Result, target lower.Target) (*ir.TensorVar, error) {
	fixedPoint := !res.Format.FloatBilinear()
	if target == lower.GPU {
		srcH, srcW := in.Shape[0], in.Shape[1]
		return lower.ResizeBilinearGPU(in, outH, outW, srcH, srcW, fixedPoint)
	}
	weightType := ir.TInt16()
	if !fixedPoint {
		weightType = ir.TFloat32()
	}
	tables := lower.NewBilinearTables(outH, outW, weightType)
	return lower.ResizeBilinearCPU(in, tables, outH, outW, fixedPoint)
}
