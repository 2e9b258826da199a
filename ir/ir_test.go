package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyPromotionTable(t *testing.T) {
	tests := []struct {
		name string
		a, b ScalarType
		want ScalarType
	}{
		{"bool-u8", TBool(), TUInt8(), TUInt8()},
		{"u8-i16", TUInt8(), TInt16(), TInt16()},
		{"i16-i32", TInt16(), TInt32(), TInt32()},
		{"i32-i64", TInt32(), TInt64(), TInt64()},
		{"i64-u64-tie-favors-unsigned", TInt64(), TUInt64(), TUInt64()},
		{"i64-f32", TInt64(), TFloat32(), TFloat32()},
		{"f32-f64", TFloat32(), TFloat64(), TFloat64()},
		{"same", TFloat32(), TFloat32(), TFloat32()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unify(tt.a, tt.b))
			assert.Equal(t, tt.want, Unify(tt.b, tt.a), "Unify must be symmetric")
		})
	}
}

func TestScalarTypeCName(t *testing.T) {
	tests := []struct {
		t    ScalarType
		want string
	}{
		{TInt16(), "int16_t"},
		{TInt32(), "int32_t"},
		{TInt64(), "int64_t"},
		{TUInt8(), "uint8_t"},
		{TUInt64(), "uint64_t"},
		{TFloat32(), "float"},
		{TFloat64(), "double"},
		{TBool(), "bool"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.t.CName())
	}
}

func TestComputeBuildsSingleProducer(t *testing.T) {
	shape := []Expr{Constant(uint64(4)), Constant(uint64(4)), Constant(uint64(3))}
	iters := ConstructIndices(shape)
	in := &TensorVar{Name: "in", Shape: shape, ElementType: TFloat32()}
	body := in.At(iters[0].Ref(), iters[1].Ref(), iters[2].Ref())
	out := Compute(shape, iters, body, "out")

	require.NotNil(t, out.Producer)
	assert.Equal(t, "out", out.Producer.Name)
	assert.Equal(t, TFloat32(), out.ElementType)
	assert.NoError(t, ValidateTensor(out))
}

func TestValidateTensorDetectsArityMismatch(t *testing.T) {
	in := &TensorVar{Name: "in", Shape: []Expr{Constant(uint64(4)), Constant(uint64(4))}, ElementType: TFloat32()}
	shape := []Expr{Constant(uint64(4))}
	iters := ConstructIndices(shape)
	// in has rank 2 but is indexed with a single index: arity mismatch.
	body := in.At(iters[0].Ref())
	out := Compute(shape, iters, body, "bad")

	err := ValidateTensor(out)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindTypeMismatch, ce.Kind)
}

func TestValidateTensorDetectsFreeIterVar(t *testing.T) {
	shape := []Expr{Constant(uint64(4))}
	iters := ConstructIndices(shape)
	free := NewIterVar("stray", Constant(uint64(0)), Constant(uint64(4)))
	// body references `free`, which is not among out's iter_vars.
	body := Expr{Type: TFloat32(), Kind: Binary{Op: Add, LHS: Constant(float32(0)), RHS: free.Ref()}}
	out := Compute(shape, iters, body, "bad")

	err := ValidateTensor(out)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUnboundVariable, ce.Kind)
}

func TestDependenciesCollectsDistinctProducers(t *testing.T) {
	shape := []Expr{Constant(uint64(2))}
	iters := ConstructIndices(shape)
	a := Compute(shape, iters, Constant(float32(1)), "a")
	iters2 := ConstructIndices(shape)
	b := Compute(shape, iters2, AddE(a.At(iters2[0].Ref()), a.At(iters2[0].Ref())), "b")

	deps := Dependencies(b)
	require.Len(t, deps, 1)
	assert.Equal(t, "a", deps[0].Name)
}

func TestIfThenElseUnifiesBranchTypes(t *testing.T) {
	e := IfThenElse(Constant(true), Constant(int32(1)), Constant(float32(2)))
	assert.Equal(t, TFloat32(), e.Type)
}

func TestSeqDropsZeroStatements(t *testing.T) {
	s := Seq(Stmt{}, Stmt{Kind: Evaluate{Value: Constant(int32(1))}}, Stmt{})
	blk, ok := s.Kind.(Evaluate)
	require.True(t, ok, "Seq should collapse a single non-zero statement instead of wrapping it in a Block")
	_ = blk
}
