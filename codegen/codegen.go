// Package codegen defines the common interface the CPU and GPU
// backends (codegen/cpu, codegen/gpu) both satisfy; package
// codegen/shared holds what they share (spec.md §4.E).
package codegen

import (
	"io"

	"github.com/ajroetker/fusekernel/ir"
)

// Backend visits the tensor DAG rooted at output and writes its body as
// target code, in the shape a kernel function wrapper expects (no
// signature, no braces around the body — rtasm supplies those).
type Backend interface {
	Emit(w io.Writer, output *ir.TensorVar) error
}
