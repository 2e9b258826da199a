package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
)

func testInput(h, w, c int) *ir.TensorVar {
	return &ir.TensorVar{
		Name: "in",
		Shape: []ir.Expr{
			ir.Constant(uint64(h)), ir.Constant(uint64(w)), ir.Constant(uint64(c)),
		},
		ElementType: ir.TUInt8(),
	}
}

func TestResizeNearestRejectsWrongRank(t *testing.T) {
	bad := &ir.TensorVar{Name: "in", Shape: []ir.Expr{ir.Constant(uint64(4))}, ElementType: ir.TUInt8()}
	_, err := ResizeNearest(bad, ir.Constant(uint64(2)), ir.Constant(uint64(2)))
	require.Error(t, err)
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "Resize/Nearest", le.Op)
}

func TestResizeNearestProducesValidTensor(t *testing.T) {
	in := testInput(8, 8, 3)
	out, err := ResizeNearest(in, ir.Constant(uint64(4)), ir.Constant(uint64(4)))
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	assert.Len(t, out.Shape, 3)
}

func TestResizeBilinearCPUFixedPointProducesValidTensor(t *testing.T) {
	in := testInput(8, 8, 3)
	outH, outW := ir.Constant(uint64(4)), ir.Constant(uint64(4))
	tables := NewBilinearTables(outH, outW, ir.TInt16())
	out, err := ResizeBilinearCPU(in, tables, outH, outW, true)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	bin, isBinary := out.Producer.FCompute.Kind.(ir.Binary)
	require.True(t, isBinary, "fixed-point path body should be the rounding Div by the fixed-point scale")
	assert.Equal(t, ir.Div, bin.Op, "fixed-point path body should be the rounding Div by the fixed-point scale")
}

func TestResizeBilinearCPUFloatPathSkipsRounding(t *testing.T) {
	in := testInput(8, 8, 3)
	outH, outW := ir.Constant(uint64(4)), ir.Constant(uint64(4))
	tables := NewBilinearTables(outH, outW, ir.TFloat32())
	out, err := ResizeBilinearCPU(in, tables, outH, outW, false)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	bin, isBinary := out.Producer.FCompute.Kind.(ir.Binary)
	require.True(t, isBinary, "float path body should be the raw weighted sum (a Binary Add tree), not a Div by the fixed-point scale")
	assert.Equal(t, ir.Add, bin.Op, "float path body should be the raw weighted sum (a Binary Add tree), not a Div by the fixed-point scale")
}

func TestResizeBilinearGPUSharesOneCallAcrossScratchTensors(t *testing.T) {
	in := testInput(8, 8, 3)
	outH, outW := ir.Constant(uint64(4)), ir.Constant(uint64(4))
	srcH, srcW := ir.Constant(uint64(8)), ir.Constant(uint64(8))
	out, err := ResizeBilinearGPU(in, outH, outW, srcH, srcW, true)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))

	deps := ir.Dependencies(out)
	require.Len(t, deps, 5, "expected the input plus the four scratch tensors cubh/cubw/inth/intw as dependencies")
	groups := ir.SharedCallGroups(deps)
	require.Len(t, groups, 1, "all four scratch tensors should share exactly one Call instance")
	for _, members := range groups {
		assert.Len(t, members, 4)
	}
}
