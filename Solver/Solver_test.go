package Solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveSimpleSystem(t *testing.T) {
	A := [][]float64{
		{2, 1},
		{1, 3},
	}
	b := []float64{5, 10}

	x, err := Solve(A, b)
	require.NoError(t, err)
	require.NotNil(t, x)
	assert.InDelta(t, 1.0, x[0], 1e-9)
	assert.InDelta(t, 3.0, x[1], 1e-9)
}

func TestSolveIdentity(t *testing.T) {
	A := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	b := []float64{7, -2, 0.5}

	x, err := Solve(A, b)
	require.NoError(t, err)
	require.NotNil(t, x)
	for i := range b {
		assert.InDelta(t, b[i], x[i], 1e-12)
	}
}

func TestSolveSingularMatrix(t *testing.T) {
	// 第二行是第一行的两倍，秩亏
	A := [][]float64{
		{1, 2},
		{2, 4},
	}
	b := []float64{3, 6}

	x, err := Solve(A, b)
	assert.NoError(t, err)
	assert.Nil(t, x)
}

func TestSolveZeroRow(t *testing.T) {
	A := [][]float64{
		{0, 0},
		{1, 1},
	}
	b := []float64{0, 2}

	x, err := Solve(A, b)
	assert.NoError(t, err)
	assert.Nil(t, x)
}

func TestSolveInvalidInput(t *testing.T) {
	_, err := Solve(nil, nil)
	assert.Error(t, err)

	_, err = Solve([][]float64{{1, 2}}, []float64{1})
	assert.Error(t, err)

	_, err = Solve([][]float64{{1, 2}, {3, 4}}, []float64{1})
	assert.Error(t, err)
}

func TestSolveNeedsPivoting(t *testing.T) {
	// 首元为0，必须换行
	A := [][]float64{
		{0, 1},
		{1, 0},
	}
	b := []float64{2, 3}

	x, err := Solve(A, b)
	require.NoError(t, err)
	require.NotNil(t, x)
	assert.InDelta(t, 3.0, x[0], 1e-9)
	assert.InDelta(t, 2.0, x[1], 1e-9)
}

func TestSolveDoesNotMutateInput(t *testing.T) {
	A := [][]float64{
		{2, 1},
		{1, 3},
	}
	b := []float64{5, 10}

	_, err := Solve(A, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 1}, {1, 3}}, A)
	assert.Equal(t, []float64{5, 10}, b)
}
