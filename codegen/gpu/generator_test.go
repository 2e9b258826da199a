package gpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
)

func TestEmitBilinearGPUEmitsOneSharedPrecomputeCall(t *testing.T) {
	in := &ir.TensorVar{
		Name:        "in",
		Shape:       []ir.Expr{ir.Constant(uint64(8)), ir.Constant(uint64(8)), ir.Constant(uint64(3))},
		ElementType: ir.TUInt8(),
	}
	outH, outW := ir.Constant(uint64(4)), ir.Constant(uint64(4))
	srcH, srcW := ir.Constant(uint64(8)), ir.Constant(uint64(8))
	out, err := lower.ResizeBilinearGPU(in, outH, outW, srcH, srcW, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (Generator{}).Emit(&buf, out))
	text := buf.String()
	assert.Equal(t, 1, strings.Count(text, "bilinear_resize_preprocess("))
	assert.Contains(t, text, "cubh")
	assert.Contains(t, text, "cubw")
	assert.Contains(t, text, "inth")
	assert.Contains(t, text, "intw")
}

func TestEmitSyncUsesDeviceBarrier(t *testing.T) {
	shape := []ir.Expr{ir.Constant(uint64(1))}
	iters := ir.ConstructIndices(shape)
	body := ir.CallE(ir.TInt32(), ir.Sync)
	out := ir.Compute(shape, iters, body, "s")

	var buf bytes.Buffer
	require.NoError(t, (Generator{}).Emit(&buf, out))
	assert.Contains(t, buf.String(), "__syncthreads()")
}
