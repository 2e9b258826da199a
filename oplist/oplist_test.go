package oplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFullPipeline(t *testing.T) {
	data := []byte(`[
		{"type":"cvtColorBGR"},
		{"type":"Resize","interpolation":"nearest","shape":[2,2],"dynamic":false},
		{"type":"CenterCrop","shape":[2,2],"tlbr":[1,1,1,1],"dynamic":false},
		{"type":"Normalize","mean":[128,128,128],"std":[128,128,128]},
		{"type":"Pad","paddings":[1,1,1,1],"shape":[4,4],"pad_val":0,"dynamic":false},
		{"type":"CastFloat"},
		{"type":"HWC2CHW"}
	]`)
	ops, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, ops, 7)

	assert.Equal(t, CvtColorBGR, ops[0].Kind)

	assert.Equal(t, Resize, ops[1].Kind)
	assert.Equal(t, "nearest", ops[1].Interpolation)
	assert.Equal(t, [2]uint64{2, 2}, ops[1].Shape)

	assert.Equal(t, CenterCrop, ops[2].Kind)
	require.True(t, ops[2].HasTLBR)
	assert.Equal(t, [4]int32{1, 1, 1, 1}, ops[2].TLBR)

	assert.Equal(t, Normalize, ops[3].Kind)
	assert.Equal(t, [3]float32{128, 128, 128}, ops[3].Mean)

	assert.Equal(t, Pad, ops[4].Kind)
	assert.Equal(t, [4]int32{1, 1, 1, 1}, ops[4].Paddings)

	assert.Equal(t, CastFloat, ops[5].Kind)
	assert.Equal(t, HWC2CHW, ops[6].Kind)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode([]byte(`[{"type":"Blur"}]`))
	require.Error(t, err)
}

func TestDecodeRejectsBadInterpolation(t *testing.T) {
	_, err := Decode([]byte(`[{"type":"Resize","interpolation":"cubic","shape":[2,2]}]`))
	require.Error(t, err)
}

func TestDecodeRejectsEmptyArray(t *testing.T) {
	_, err := Decode([]byte(`[]`))
	require.Error(t, err)
}

func TestCenterCropWithoutTLBR(t *testing.T) {
	ops, err := Decode([]byte(`[{"type":"CenterCrop","shape":[4,4],"dynamic":true}]`))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.False(t, ops[0].HasTLBR)
	assert.True(t, ops[0].Dynamic)
}
