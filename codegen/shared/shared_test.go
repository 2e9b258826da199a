package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/fusekernel/ir"
)

func TestMakeIdentifierSanitizes(t *testing.T) {
	assert.Equal(t, "_1abc", MakeIdentifier("1abc"))
	assert.Equal(t, "a_b_c", MakeIdentifier("a-b c"))
	assert.Equal(t, "plain", MakeIdentifier("plain"))
}

func TestSortOrdersDependenciesBeforeDependents(t *testing.T) {
	shape := []ir.Expr{ir.Constant(uint64(2))}
	iters := ir.ConstructIndices(shape)
	a := ir.Compute(shape, iters, ir.Constant(float32(1)), "a")
	iters2 := ir.ConstructIndices(shape)
	b := ir.Compute(shape, iters2, ir.AddE(a.At(iters2[0].Ref()), a.At(iters2[0].Ref())), "b")

	order, err := Sort(b)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, "a", order[0].Name)
	assert.Equal(t, "b", order[1].Name)
}

func TestSortDetectsCycle(t *testing.T) {
	shape := []ir.Expr{ir.Constant(uint64(2))}
	a := &ir.TensorVar{Name: "a", Shape: shape, ElementType: ir.TFloat32()}
	b := &ir.TensorVar{Name: "b", Shape: shape, ElementType: ir.TFloat32()}
	itersA := ir.ConstructIndices(shape)
	itersB := ir.ConstructIndices(shape)
	a.Producer = &ir.ComputeOp{IterVars: itersA, Output: a, Name: "a", FCompute: b.At(itersA[0].Ref())}
	b.Producer = &ir.ComputeOp{IterVars: itersB, Output: b, Name: "b", FCompute: a.At(itersB[0].Ref())}

	_, err := Sort(a)
	require.Error(t, err)
}

func TestSortKeepsSharedCallGroupContiguous(t *testing.T) {
	two := []ir.Expr{ir.Constant(uint64(2))}
	cubh := &ir.TensorVar{Name: "cubh", Shape: two, ElementType: ir.TInt16()}
	inth := &ir.TensorVar{Name: "inth", Shape: two, ElementType: ir.TInt32()}
	call := ir.CallE(ir.TInt32(), ir.BilinearResizePreprocess, ir.Constant(uint64(8)))
	scratchIters := ir.ConstructIndices(two)
	cubh.Producer = &ir.ComputeOp{IterVars: scratchIters, Output: cubh, Name: "cubh", Call: &call}
	inth.Producer = &ir.ComputeOp{IterVars: scratchIters, Output: inth, Name: "inth", Call: &call}

	outShape := []ir.Expr{ir.Constant(uint64(4))}
	outIters := ir.ConstructIndices(outShape)
	body := ir.AddE(ir.CastE(ir.TFloat32(), cubh.At(ir.Constant(uint64(0)))), ir.CastE(ir.TFloat32(), inth.At(ir.Constant(uint64(0)))))
	out := ir.Compute(outShape, outIters, body, "out")

	order, err := Sort(out)
	require.NoError(t, err)
	require.Len(t, order, 3)
	names := []string{order[0].Name, order[1].Name}
	assert.ElementsMatch(t, []string{"cubh", "inth"}, names, "shared-call group members must be emitted contiguously")
	assert.Equal(t, "out", order[2].Name)
}
