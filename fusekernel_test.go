package fusekernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
)

const nearestOpList = `[
	{"type": "cvtColorBGR"},
	{"type": "Resize", "interpolation": "nearest", "shape": [224, 224]},
	{"type": "CastFloat"},
	{"type": "HWC2CHW"}
]`

func TestCompileCPUNearestProducesRunnableSource(t *testing.T) {
	src, err := Compile([]byte(nearestOpList), lower.CPU, Input{Height: 480, Width: 640, Channels: 3, ElementType: ir.TUInt8()})
	require.NoError(t, err)
	assert.Contains(t, src, "BGR_Nearest_Kernel")
	assert.Contains(t, src, "FuseKernel(")
	assert.NotContains(t, src, "__global__")
}

func TestCompileGPUBilinearProducesDeviceSource(t *testing.T) {
	opList := `[
		{"type": "cvtColorBGR"},
		{"type": "Resize", "interpolation": "bilinear", "shape": [224, 224]}
	]`
	src, err := Compile([]byte(opList), lower.GPU, Input{Height: 480, Width: 640, Channels: 3, ElementType: ir.TUInt8()})
	require.NoError(t, err)
	assert.Contains(t, src, "BGR_Bilinear_Kernel")
	assert.Contains(t, src, "FuseKernelCU(")
	assert.Contains(t, src, "__global__")
}

func TestCompileRejectsMalformedOpList(t *testing.T) {
	_, err := Compile([]byte(`not json`), lower.CPU, Input{Height: 4, Width: 4, Channels: 3, ElementType: ir.TUInt8()})
	require.Error(t, err)
}

func TestCompileRejectsUnknownInterpolation(t *testing.T) {
	opList := `[{"type": "Resize", "interpolation": "bicubic", "shape": [2, 2]}]`
	_, err := Compile([]byte(opList), lower.CPU, Input{Height: 4, Width: 4, Channels: 3, ElementType: ir.TUInt8()})
	require.Error(t, err)
}
