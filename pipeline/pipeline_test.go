package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
	"github.com/ajroetker/fusekernel/oplist"
)

func input4x4x3() *ir.TensorVar {
	return &ir.TensorVar{
		Name:        "src",
		Shape:       []ir.Expr{ir.Constant(uint64(4)), ir.Constant(uint64(4)), ir.Constant(uint64(3))},
		ElementType: ir.TUInt8(),
	}
}

func TestAssembleS1NearestPipeline(t *testing.T) {
	ops, err := oplist.Decode([]byte(`[
		{"type":"cvtColorBGR"},
		{"type":"Resize","interpolation":"nearest","shape":[2,2],"dynamic":false},
		{"type":"CastFloat"}
	]`))
	require.NoError(t, err)

	res, err := Assemble(ops, lower.CPU, input4x4x3())
	require.NoError(t, err)
	assert.Equal(t, lower.BGR, res.Format)
	assert.Equal(t, "nearest", res.Interpolation)
	require.NoError(t, ir.ValidateTensor(res.Output))
	assert.Equal(t, ir.TFloat32(), res.Output.ElementType)
}

func TestAssembleS3NormalizeAndPad(t *testing.T) {
	ops, err := oplist.Decode([]byte(`[
		{"type":"cvtColorBGR"},
		{"type":"Normalize","mean":[128,128,128],"std":[128,128,128]},
		{"type":"Pad","paddings":[1,1,1,1],"shape":[3,3],"pad_val":0,"dynamic":false}
	]`))
	require.NoError(t, err)

	in := &ir.TensorVar{
		Name:        "src",
		Shape:       []ir.Expr{ir.Constant(uint64(1)), ir.Constant(uint64(1)), ir.Constant(uint64(3))},
		ElementType: ir.TUInt8(),
	}
	res, err := Assemble(ops, lower.CPU, in)
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(res.Output))
	assert.Len(t, res.Output.Shape, 3)
}

func TestAssembleRejectsUnknownInterpolation(t *testing.T) {
	ops := []oplist.Op{{Kind: oplist.Resize, Interpolation: "cubic", Shape: [2]uint64{2, 2}}}
	_, err := Assemble(ops, lower.CPU, input4x4x3())
	require.Error(t, err)
}

func TestAssembleGPUBilinearSharesScratchCall(t *testing.T) {
	ops, err := oplist.Decode([]byte(`[
		{"type":"cvtColorRGB"},
		{"type":"Resize","interpolation":"bilinear","shape":[3,3],"dynamic":false}
	]`))
	require.NoError(t, err)

	res, err := Assemble(ops, lower.GPU, input4x4x3())
	require.NoError(t, err)
	require.NoError(t, ir.ValidateTensor(res.Output))
	deps := ir.Dependencies(res.Output)
	groups := ir.SharedCallGroups(deps)
	require.Len(t, groups, 1)
}
