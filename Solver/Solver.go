package Solver

import (
	"fmt"
	"math"
)

// 主元绝对值低于该阈值视为奇异
const pivotThreshold = 1e-12

// Solve 求解稠密线性方程组 Ax = b
// 先按行最大绝对值做行缩放改善条件数，再做带列主元的高斯消元与回代
// 矩阵奇异或病态时返回(nil, nil)，由调用方决定回退策略；结构非法返回错误
func Solve(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	if n == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	if len(b) != n {
		return nil, fmt.Errorf("matrix size %d does not match vector size %d", n, len(b))
	}
	for i, row := range A {
		if len(row) != n {
			return nil, fmt.Errorf("matrix is not square: row %d has %d columns, expected %d", i, len(row), n)
		}
	}

	// 工作副本，避免修改调用方数据
	m := make([][]float64, n)
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n)
		copy(m[i], A[i])
		v[i] = b[i]
	}

	// 行缩放
	for i := 0; i < n; i++ {
		maxAbs := 0.0
		for j := 0; j < n; j++ {
			if a := math.Abs(m[i][j]); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs < pivotThreshold {
			return nil, nil
		}
		for j := 0; j < n; j++ {
			m[i][j] /= maxAbs
		}
		v[i] /= maxAbs
	}

	// 带列主元的前向消元
	for col := 0; col < n; col++ {
		maxRow := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[maxRow][col]) {
				maxRow = row
			}
		}
		if maxRow != col {
			m[col], m[maxRow] = m[maxRow], m[col]
			v[col], v[maxRow] = v[maxRow], v[col]
		}

		pivot := m[col][col]
		if math.Abs(pivot) < pivotThreshold {
			return nil, nil
		}

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / pivot
			if factor == 0 {
				continue
			}
			for j := col; j < n; j++ {
				m[row][j] -= factor * m[col][j]
			}
			v[row] -= factor * v[col]
		}
	}

	// 回代
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := v[i]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}
