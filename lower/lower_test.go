package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
)

func TestCvtColorIsIdentityOnMatchingFormat(t *testing.T) {
	in := testInput(4, 4, 3)
	out, err := CvtColor(in, BGR)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestCvtColorRejectsUnknownFormat(t *testing.T) {
	in := testInput(4, 4, 3)
	_, err := CvtColor(in, Format(99))
	require.Error(t, err)
}

func TestCenterCropIndexesWithOffset(t *testing.T) {
	in := testInput(4, 4, 3)
	top, left := ir.Constant(int32(1)), ir.Constant(int32(1))
	out, err := CenterCrop(in, ir.Constant(uint64(2)), ir.Constant(uint64(2)), top, left)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
}

func TestNormalizeProducesFloat32(t *testing.T) {
	in := testInput(2, 2, 3)
	mean := []ir.Expr{ir.Placeholder("norm_mean_0", ir.TFloat32()), ir.Placeholder("norm_mean_1", ir.TFloat32()), ir.Placeholder("norm_mean_2", ir.TFloat32())}
	std := []ir.Expr{ir.Placeholder("norm_std_0", ir.TFloat32()), ir.Placeholder("norm_std_1", ir.TFloat32()), ir.Placeholder("norm_std_2", ir.TFloat32())}
	out, err := Normalize(in, mean, std)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	assert.Equal(t, ir.TFloat32(), out.ElementType)
}

func TestNormalizeRejectsMismatchedChannelCounts(t *testing.T) {
	in := testInput(2, 2, 3)
	mean := []ir.Expr{ir.Constant(float32(0))}
	std := []ir.Expr{ir.Constant(float32(1)), ir.Constant(float32(1))}
	_, err := Normalize(in, mean, std)
	require.Error(t, err)
}

func TestPadSelectsSourceWindow(t *testing.T) {
	in := testInput(1, 1, 3)
	top, left := ir.Constant(int32(1)), ir.Constant(int32(1))
	padValue := ir.Constant(float32(0))
	out, err := Pad(in, ir.Constant(uint64(3)), ir.Constant(uint64(3)), top, left, padValue)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	_, isSelect := out.Producer.FCompute.Kind.(ir.Select)
	assert.True(t, isSelect, "Pad's body should be a Select between the source read and pad_value")
}

func TestCastFloatPreservesShape(t *testing.T) {
	in := testInput(2, 2, 3)
	out, err := CastFloat(in)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	assert.Equal(t, ir.TFloat32(), out.ElementType)
	assert.Len(t, out.Shape, 3)
}

func TestHWC2CHWTransposesShape(t *testing.T) {
	in := testInput(2, 2, 3)
	out, err := HWC2CHW(in)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(out))
	require.Len(t, out.Shape, 3)
	assert.Equal(t, in.Shape[2], out.Shape[0], "the channel extent should move to the front")
}
