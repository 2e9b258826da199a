package rtasm

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/fusekernel/lower"
)

// Kernel is one codegen.Backend-emitted per-pixel body, ready to be
// wrapped into a named function and wired into the dispatcher.
type Kernel struct {
	Format        lower.Format
	Interpolation string // "nearest" or "bilinear"
	Body          string // the statements codegen.Backend.Emit produced
}

// Assemble concatenates prelude, helpers, every wrapped kernel, and the
// FuseKernel dispatcher into one CPU translation unit.
func Assemble(kernels []Kernel) (string, error) {
	return assemble(kernels, lower.CPU)
}

// AssembleCU is Assemble's CUDA counterpart: it emits FuseKernelCU and
// __global__ kernel wrappers instead.
func AssembleCU(kernels []Kernel) (string, error) {
	return assemble(kernels, lower.GPU)
}

func assemble(kernels []Kernel, target lower.Target) (string, error) {
	if len(kernels) == 0 {
		return "", fmt.Errorf("rtasm: no kernels to assemble")
	}
	declared, err := declaredFormats(kernels)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(prelude)
	if target == lower.GPU {
		b.WriteString(cudaPrelude)
	}
	b.WriteString(cpuBilinearPreprocess)
	b.WriteString(cpuFloatBilinearPreprocess)
	if target == lower.GPU {
		b.WriteString(cudaBilinearPreprocess)
		b.WriteString(cudaFloatBilinearPreprocess)
	}

	for _, k := range kernels {
		b.WriteString(wrapKernel(k, target))
	}

	if target == lower.GPU {
		b.WriteString(buildFuseKernelCU(declared))
	} else {
		b.WriteString(buildFuseKernel(declared))
	}
	return b.String(), nil
}

// declaredFormats returns the formats kernels actually covers, in
// allFormats order, rejecting a kernel for a format outside the closed
// set spec.md §6 names.
func declaredFormats(kernels []Kernel) ([]lower.Format, error) {
	for _, k := range kernels {
		if !lo.Contains(allFormats, k.Format) {
			return nil, fmt.Errorf("rtasm: kernel has unrecognized format %v", k.Format)
		}
	}
	present := lo.SliceToMap(kernels, func(k Kernel) (lower.Format, bool) { return k.Format, true })
	declared := lo.Filter(allFormats, func(f lower.Format, _ int) bool { return present[f] })
	if len(declared) == 0 {
		return nil, fmt.Errorf("rtasm: no recognized format among %d kernels", len(kernels))
	}
	return declared, nil
}

func wrapKernel(k Kernel, target lower.Target) string {
	params := kernelParams
	// Only the CPU entry point precomputes its weight/index tables on the
	// host and passes them in; the GPU bilinear kernels derive their own
	// taps per-thread (see helpers.go's cudaBilinearPreprocess), so the
	// device wrapper takes no extra table pointers. Passing them here
	// anyway would both under-supply the <<<...>>> launch (dispatch.go
	// only ever forwards kernelArgs()) and collide with the device
	// function's own inth/intw scratch locals of the same name.
	if target == lower.CPU && k.Interpolation == "bilinear" {
		if k.Format.FloatBilinear() {
			params += ", int32_t *inth, int32_t *intw, float *cubfh, float *cubfw"
		} else {
			params += ", int32_t *inth, int32_t *intw, int16_t *cubfh, int16_t *cubfw"
		}
	}
	qualifier := "extern \"C\" void"
	if target == lower.GPU {
		qualifier = "extern \"C\" __global__ void"
	}
	return fmt.Sprintf("%s %s(%s) {\n%s\n}\n", qualifier, KernelName(k.Format, k.Interpolation), params, k.Body)
}
