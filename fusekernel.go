// Package fusekernel ties the op-list decoder (package oplist), the
// tensor-IR lowering stage (package lower, orchestrated by package
// pipeline), the code generators (package codegen/cpu, codegen/gpu) and
// the runtime assembler (package rtasm) into a single Compile
// entrypoint: op-list JSON in, a standalone C/CUDA translation unit out.
package fusekernel

import (
	"bytes"
	"fmt"

	"github.com/ajroetker/fusekernel/codegen"
	"github.com/ajroetker/fusekernel/codegen/cpu"
	"github.com/ajroetker/fusekernel/codegen/gpu"
	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
	"github.com/ajroetker/fusekernel/oplist"
	"github.com/ajroetker/fusekernel/pipeline"
	"github.com/ajroetker/fusekernel/rtasm"
)

// Input describes the raw tensor an op list is compiled against: its
// source extent and element type (spec.md §2 — always HWC on entry).
type Input struct {
	Height, Width, Channels uint64
	ElementType             ir.ScalarType
}

// tensorVar builds the pipeline-input TensorVar spec.md §2's op lists
// always start from: a rank-3 (H,W,C) tensor with no Producer.
func (in Input) tensorVar() *ir.TensorVar {
	return &ir.TensorVar{
		Name: "src_raw_data",
		Shape: []ir.Expr{
			ir.Constant(in.Height),
			ir.Constant(in.Width),
			ir.Constant(in.Channels),
		},
		ElementType: in.ElementType,
	}
}

// Compile decodes opListJSON, lowers it to tensor IR for target, emits
// backend source for the resulting compute tensor, and wraps that body
// in a standalone translation unit via package rtasm. The returned
// string is ready to hand to a C (CPU) or nvcc (GPU) compiler unchanged.
func Compile(opListJSON []byte, target lower.Target, input Input) (string, error) {
	ops, err := oplist.Decode(opListJSON)
	if err != nil {
		return "", fmt.Errorf("fusekernel: %w", err)
	}

	res, err := pipeline.Assemble(ops, target, input.tensorVar())
	if err != nil {
		return "", fmt.Errorf("fusekernel: %w", err)
	}

	var backend codegen.Backend
	if target == lower.GPU {
		backend = gpu.Generator{}
	} else {
		backend = cpu.Generator{}
	}

	var body bytes.Buffer
	if err := backend.Emit(&body, res.Output); err != nil {
		return "", fmt.Errorf("fusekernel: codegen: %w", err)
	}

	interpolation := res.Interpolation
	if interpolation == "" {
		interpolation = "nearest"
	}
	kernel := rtasm.Kernel{Format: res.Format, Interpolation: interpolation, Body: body.String()}

	if target == lower.GPU {
		out, err := rtasm.AssembleCU([]rtasm.Kernel{kernel})
		if err != nil {
			return "", fmt.Errorf("fusekernel: %w", err)
		}
		return out, nil
	}
	out, err := rtasm.Assemble([]rtasm.Kernel{kernel})
	if err != nil {
		return "", fmt.Errorf("fusekernel: %w", err)
	}
	return out, nil
}
