package rtasm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/lower"
)

func TestAssembleIncludesPreludeAndDispatcher(t *testing.T) {
	kernels := []Kernel{
		{Format: lower.BGR, Interpolation: "nearest", Body: "  dst_raw_data[0] = src_raw_data[0];"},
	}
	out, err := Assemble(kernels)
	require.NoError(t, err)
	assert.Contains(t, out, "#define EQUAL(a, b)")
	assert.Contains(t, out, "FuseKernel(")
	assert.Contains(t, out, "BGR_Nearest_Kernel")
	assert.NotContains(t, out, "__global__")
}

func TestAssembleCUUsesGlobalQualifierAndDeviceHelpers(t *testing.T) {
	kernels := []Kernel{
		{Format: lower.BGR, Interpolation: "nearest", Body: "  dst_raw_data[0] = src_raw_data[0];"},
	}
	out, err := AssembleCU(kernels)
	require.NoError(t, err)
	assert.Contains(t, out, "__global__ void BGR_Nearest_Kernel")
	assert.Contains(t, out, "FuseKernelCU(")
	assert.Contains(t, out, "__device__ void bilinear_resize_preprocess")
	assert.Contains(t, out, "BLOCK_SIZE")
}

// TestUnsupportedFormatAbortsWithMessage covers S5: a format or
// interpolation string outside the dispatcher's recognized set must reach
// ABORT with a message containing "not supported".
func TestUnsupportedFormatAbortsWithMessage(t *testing.T) {
	kernels := []Kernel{
		{Format: lower.BGR, Interpolation: "nearest", Body: "  ;"},
	}
	out, err := Assemble(kernels)
	require.NoError(t, err)
	require.Contains(t, out, `ABORT("format not supported")`)
	require.Contains(t, out, `ABORT("interpolation not supported")`)
	require.Contains(t, out, `ABORT(msg)`)

	idx := strings.Index(out, "ABORT(msg)")
	require.GreaterOrEqual(t, idx, 0)
	macroBody := out[idx : idx+300]
	assert.Contains(t, macroBody, "__FUNCTION__")
	assert.Contains(t, macroBody, "msg")
}

func TestAssembleRejectsEmptyKernelList(t *testing.T) {
	_, err := Assemble(nil)
	require.Error(t, err)
}

func TestAssembleRejectsUnrecognizedFormat(t *testing.T) {
	_, err := Assemble([]Kernel{{Format: lower.Format(99), Interpolation: "nearest", Body: ";"}})
	require.Error(t, err)
}

// TestGridDimMatchesBlockTiling covers S6: a 17x33 destination tiled by
// 16x16 blocks must round up to a 3x2 grid, leaving the z axis at 1.
func TestGridDimMatchesBlockTiling(t *testing.T) {
	x, y, z := GridDim(17, 33)
	assert.Equal(t, 2, y, "dst_h=17 over BLOCK_SIZE=16 rounds up to 2 block rows")
	assert.Equal(t, 3, x, "dst_w=33 over BLOCK_SIZE=16 rounds up to 3 block columns")
	assert.Equal(t, 1, z)
}

func TestGridDimExactMultiple(t *testing.T) {
	x, y, _ := GridDim(32, 16)
	assert.Equal(t, 2, y)
	assert.Equal(t, 1, x)
}

func TestKernelNameFormatsTitleCaseInterpolation(t *testing.T) {
	assert.Equal(t, "BGR_Nearest_Kernel", KernelName(lower.BGR, "nearest"))
	assert.Equal(t, "NV12_Bilinear_Kernel", KernelName(lower.NV12, "bilinear"))
}
