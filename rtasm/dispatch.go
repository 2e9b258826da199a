package rtasm

import (
	"fmt"
	"strings"

	"github.com/ajroetker/fusekernel/lower"
)

// fuseKernelParams is the CPU entry point's fixed parameter list, one
// slot per field any op in the closed op-list (spec.md §6) can
// contribute, in the order Runtime.hpp's FuseKernel declares them.
const fuseKernelParams = `uint64_t resize_h, uint64_t resize_w, uint64_t crop_h, uint64_t crop_w, int32_t crop_top, int32_t crop_left, ` +
	`float norm_mean_0, float norm_mean_1, float norm_mean_2, float norm_std_0, float norm_std_1, float norm_std_2, ` +
	`uint64_t pad_h, uint64_t pad_w, int32_t pad_top, int32_t pad_left, int32_t pad_bottom, int32_t pad_right, float pad_value, ` +
	`const uint8_t *src_raw_data, float *dst_raw_data, uint64_t src_h, uint64_t src_w`

// fuseKernelCUParams is fuseKernelParams with the stream handle and the
// destination extent the grid-sizing arithmetic needs prepended/appended;
// dst_h/dst_w are redundant with resize_h/resize_w whenever a resize op
// is present, but crop- or pad-only pipelines still need an explicit
// output extent to size the launch grid against.
const fuseKernelCUParams = `cudaStream_t stream, ` + fuseKernelParams + `, uint64_t dst_h, uint64_t dst_w`

// kernelParams is the parameter list a per-format kernel function
// (BGR_Nearest_Kernel, ...) takes: the same fields minus the dispatch
// selectors (format, interpolation) FuseKernel already consumed.
const kernelParams = fuseKernelParams

// allFormats lists every format the dispatcher gates on, in the
// declaration order Runtime.hpp's EQUAL chain checks them.
var allFormats = []lower.Format{lower.BGR, lower.RGB, lower.GRAY, lower.BGRA, lower.NV12, lower.NV21}

// KernelName returns the symbol a per-format, per-interpolation kernel
// is emitted under, e.g. KernelName(lower.BGR, "nearest") ==
// "BGR_Nearest_Kernel".
func KernelName(format lower.Format, interpolation string) string {
	title := strings.ToUpper(interpolation[:1]) + interpolation[1:]
	return fmt.Sprintf("%s_%s_Kernel", format, title)
}

// GridDim computes the CUDA launch grid spec.md §4.G's dispatcher uses
// to cover a dstH×dstW output with BLOCK_SIZE×BLOCK_SIZE thread blocks
// (grid.z is always 1; there is no batch axis). Exposed as a plain Go
// function so the grid-sizing arithmetic baked into the emitted dim3(...)
// text can be exercised without a CUDA compiler.
func GridDim(dstH, dstW uint64) (x, y, z int) {
	ceilDiv := func(n uint64) int { return int((n + blockSize - 1) / blockSize) }
	return ceilDiv(dstW), ceilDiv(dstH), 1
}

// buildFuseKernel assembles the host entry point. declared names the
// formats among the assembled kernels (for a Compile call, the op list's
// first cvtColor format, or BGR when the op list has none).
func buildFuseKernel(declared []lower.Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "extern \"C\" void FuseKernel(%s, const char *format, const char *interpolation) {\n", fuseKernelParams)
	fmt.Fprintf(&b, "  if (EQUAL(interpolation, \"nearest\")) {\n")
	writeFormatDispatch(&b, declared, "nearest", false)
	fmt.Fprintf(&b, "  } else if (EQUAL(interpolation, \"bilinear\")) {\n")
	fmt.Fprintf(&b, "    int32_t *inth = (int32_t *)malloc(sizeof(int32_t) * resize_h * 2);\n")
	fmt.Fprintf(&b, "    int32_t *intw = (int32_t *)malloc(sizeof(int32_t) * resize_w * 2);\n")
	for _, f := range declared {
		cond := fmt.Sprintf("EQUAL(format, \"%s\")", f)
		fmt.Fprintf(&b, "    if (%s) {\n", cond)
		if f.FloatBilinear() {
			fmt.Fprintf(&b, "      float *cubfh = (float *)malloc(sizeof(float) * resize_h * 2);\n")
			fmt.Fprintf(&b, "      float *cubfw = (float *)malloc(sizeof(float) * resize_w * 2);\n")
			fmt.Fprintf(&b, "      bilinear_float_resize_preprocess(src_h, src_w, resize_h, resize_w, cubfh, cubfw, inth, intw);\n")
		} else {
			fmt.Fprintf(&b, "      int16_t *cubfh = (int16_t *)malloc(sizeof(int16_t) * resize_h * 2);\n")
			fmt.Fprintf(&b, "      int16_t *cubfw = (int16_t *)malloc(sizeof(int16_t) * resize_w * 2);\n")
			fmt.Fprintf(&b, "      bilinear_resize_preprocess(src_h, src_w, resize_h, resize_w, cubfh, cubfw, inth, intw);\n")
		}
		fmt.Fprintf(&b, "      %s(%s, inth, intw, cubfh, cubfw);\n", KernelName(f, "bilinear"), kernelArgs())
		fmt.Fprintf(&b, "      free(cubfh);\n      free(cubfw);\n")
		fmt.Fprintf(&b, "    } else ")
	}
	fmt.Fprintf(&b, "{\n      free(inth);\n      free(intw);\n      ABORT(\"format not supported\");\n    }\n")
	fmt.Fprintf(&b, "    free(inth);\n    free(intw);\n")
	fmt.Fprintf(&b, "  } else {\n    ABORT(\"interpolation not supported\");\n  }\n}\n")
	return b.String()
}

// buildFuseKernelCU assembles the device entry point. Unlike the host
// version it never allocates precompute tables itself: the bilinear
// device kernels compute their own taps per-thread (spec.md §9), so the
// dispatcher's only extra responsibility over the nearest path is
// picking a launch grid.
func buildFuseKernelCU(declared []lower.Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "extern \"C\" void FuseKernelCU(%s, const char *format, const char *interpolation) {\n", fuseKernelCUParams)
	fmt.Fprintf(&b, "  dim3 grid((dst_w + BLOCK_SIZE - 1) / BLOCK_SIZE, (dst_h + BLOCK_SIZE - 1) / BLOCK_SIZE, 1);\n")
	fmt.Fprintf(&b, "  dim3 block(BLOCK_SIZE, BLOCK_SIZE, 1);\n")
	fmt.Fprintf(&b, "  if (EQUAL(interpolation, \"nearest\")) {\n")
	writeFormatDispatch(&b, declared, "nearest", true)
	fmt.Fprintf(&b, "  } else if (EQUAL(interpolation, \"bilinear\")) {\n")
	writeFormatDispatch(&b, declared, "bilinear", true)
	fmt.Fprintf(&b, "  } else {\n    ABORT(\"interpolation not supported\");\n  }\n}\n")
	return b.String()
}

func writeFormatDispatch(b *strings.Builder, declared []lower.Format, interpolation string, gpu bool) {
	for _, f := range declared {
		fmt.Fprintf(b, "    if (EQUAL(format, \"%s\")) {\n", f)
		if gpu {
			fmt.Fprintf(b, "      %s<<<grid, block, 0, stream>>>(%s);\n", KernelName(f, interpolation), kernelArgs())
		} else {
			fmt.Fprintf(b, "      %s(%s);\n", KernelName(f, interpolation), kernelArgs())
		}
		fmt.Fprintf(b, "    } else ")
	}
	fmt.Fprintf(b, "{\n      ABORT(\"format not supported\");\n    }\n")
}

func kernelArgs() string {
	return "resize_h, resize_w, crop_h, crop_w, crop_top, crop_left, " +
		"norm_mean_0, norm_mean_1, norm_mean_2, norm_std_0, norm_std_1, norm_std_2, " +
		"pad_h, pad_w, pad_top, pad_left, pad_bottom, pad_right, pad_value, " +
		"src_raw_data, dst_raw_data, src_h, src_w"
}
