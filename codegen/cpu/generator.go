// Package cpu implements the x86 code generator, grounded on
// original_source's X86Codegen.cpp: ThreadExtent attributes expand into
// ordinary for loops, Sync is a no-op comment, and the intrinsic table
// carries no device-only entries.
package cpu

import (
	"fmt"
	"io"

	"github.com/ajroetker/fusekernel/codegen"
	"github.com/ajroetker/fusekernel/codegen/shared"
	"github.com/ajroetker/fusekernel/ir"
)

// Generator implements codegen.Backend for the host CPU target.
type Generator struct{}

var _ codegen.Backend = Generator{}

// Emit writes output's full producer chain: every tensor in topological
// order gets an Allocate followed by its defining loop nest (plain
// ComputeOp) or, for a shared-Call group, its Allocates followed by
// exactly one Evaluate(Call) (spec.md §9).
func (Generator) Emit(w io.Writer, output *ir.TensorVar) error {
	order, err := shared.Sort(output)
	if err != nil {
		return fmt.Errorf("codegen/cpu: %w", err)
	}

	em := &shared.Emitter{
		W: w,
		Hooks: shared.Hooks{
			ThreadExtentLoop: true,
			EmitSync: func(w io.Writer) error {
				_, err := io.WriteString(w, "/* sync() */;\n")
				return err
			},
			Intrinsic: intrinsicTable,
		},
	}

	groups := ir.SharedCallGroups(order)
	emitted := make(map[*ir.TensorVar]bool, len(order))
	for _, tv := range order {
		if emitted[tv] {
			continue
		}
		if tv.Producer == nil {
			continue // pipeline input: declared by the caller's function signature.
		}
		if tv.Producer.Call != nil {
			group := groups[tv.Producer.Call]
			if group == nil {
				group = []*ir.TensorVar{tv}
			}
			if err := emitSharedCallGroup(em, group); err != nil {
				return err
			}
			for _, m := range group {
				emitted[m] = true
			}
			continue
		}
		if err := emitAllocatedCompute(em, tv); err != nil {
			return err
		}
		emitted[tv] = true
	}
	return em.Err()
}

func intrinsicTable(fn ir.CallFunction) (string, bool) {
	switch fn {
	case ir.BilinearResizePreprocess:
		return "bilinear_resize_preprocess", true
	case ir.BilinearFloatResizePreprocess:
		return "bilinear_float_resize_preprocess", true
	default:
		return "", false
	}
}

func emitAllocate(em *shared.Emitter, tv *ir.TensorVar) error {
	if err := em.EmitDecl(tv); err != nil {
		return err
	}
	return em.Err()
}

func emitAllocatedCompute(em *shared.Emitter, tv *ir.TensorVar) error {
	if err := emitAllocate(em, tv); err != nil {
		return err
	}
	return em.EmitComputeOp(tv.Producer)
}

func emitSharedCallGroup(em *shared.Emitter, members []*ir.TensorVar) error {
	for _, tv := range members {
		if err := emitAllocate(em, tv); err != nil {
			return err
		}
	}
	if err := em.EmitExpr(*members[0].Producer.Call); err != nil {
		return err
	}
	_, err := io.WriteString(em.W, ";\n")
	return err
}
