package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
)

func TestEmitResizeNearestIsDeterministic(t *testing.T) {
	in := &ir.TensorVar{
		Name:        "in",
		Shape:       []ir.Expr{ir.Constant(uint64(4)), ir.Constant(uint64(4)), ir.Constant(uint64(3))},
		ElementType: ir.TUInt8(),
	}
	out, err := lower.ResizeNearest(in, ir.Constant(uint64(2)), ir.Constant(uint64(2)))
	require.NoError(t, err)

	var buf1, buf2 bytes.Buffer
	require.NoError(t, (Generator{}).Emit(&buf1, out))
	require.NoError(t, (Generator{}).Emit(&buf2, out))
	assert.Equal(t, buf1.String(), buf2.String(), "code generation must be deterministic")
	assert.Contains(t, buf1.String(), "for (")
	assert.Contains(t, buf1.String(), "min(")
}

func TestEmitMaxMinAsFunctionCalls(t *testing.T) {
	shape := []ir.Expr{ir.Constant(uint64(1))}
	iters := ir.ConstructIndices(shape)
	body := ir.MaxE(ir.Constant(int32(1)), ir.Constant(int32(2)))
	out := ir.Compute(shape, iters, body, "m")

	var buf bytes.Buffer
	require.NoError(t, (Generator{}).Emit(&buf, out))
	assert.True(t, strings.Contains(buf.String(), "max("))
}

func TestEmitPadUsesTernarySelect(t *testing.T) {
	in := &ir.TensorVar{
		Name:        "in",
		Shape:       []ir.Expr{ir.Constant(uint64(1)), ir.Constant(uint64(1)), ir.Constant(uint64(3))},
		ElementType: ir.TUInt8(),
	}
	top, left := ir.Constant(int32(1)), ir.Constant(int32(1))
	padVal := ir.Constant(float32(0))
	out, err := lower.Pad(in, ir.Constant(uint64(3)), ir.Constant(uint64(3)), top, left, padVal)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (Generator{}).Emit(&buf, out))
	assert.Contains(t, buf.String(), "?")
	assert.Contains(t, buf.String(), ":")
}

func TestEmitUnknownCallIsHardError(t *testing.T) {
	shape := []ir.Expr{ir.Constant(uint64(1))}
	iters := ir.ConstructIndices(shape)
	body := ir.CallE(ir.TInt32(), ir.CallFunction(99))
	out := ir.Compute(shape, iters, body, "bad")

	var buf bytes.Buffer
	err := (Generator{}).Emit(&buf, out)
	require.Error(t, err)
}
