package Interpolator

import (
	"fmt"
	"math"

	"github.com/GrainArc/SurfaceMap/Solver"
	"github.com/GrainArc/SurfaceMap/Tin"
)

// Polynomial 多项式回归趋势面
// 坐标归一化后做最小二乘拟合，阶数1到3
type Polynomial struct {
	opts Options
}

// polyTerms 归一化坐标的多项式项
func polyTerms(nx, ny float64, order int) []float64 {
	terms := []float64{1, nx, ny}
	if order >= 2 {
		terms = append(terms, nx*nx, nx*ny, ny*ny)
	}
	if order >= 3 {
		terms = append(terms, nx*nx*nx, nx*nx*ny, nx*ny*ny, ny*ny*ny)
	}
	return terms
}

func (it *Polynomial) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}
	order := it.opts.Order
	if order < 1 {
		order = 1
	}
	if order > 3 {
		return nil, fmt.Errorf("polynomial order must be between 1 and 3, got %d", order)
	}

	minX, minY, maxX, maxY := BoundsOf(points)
	extent := math.Max(maxX-minX, maxY-minY)
	if extent <= 0 {
		extent = 1
	}
	norm := func(p *Tin.Point3D) (float64, float64) {
		return (p.X - minX) / extent, (p.Y - minY) / extent
	}

	nTerms := len(polyTerms(0, 0, order))
	if len(points) < nTerms {
		// 样本不足以确定系数，退回IDW
		fallback := &IDW{opts: it.opts}
		return fallback.Interpolate(points, gridX, gridY, progress)
	}

	// 法方程 (XᵀX)β = Xᵀz
	A := make([][]float64, nTerms)
	b := make([]float64, nTerms)
	for i := range A {
		A[i] = make([]float64, nTerms)
	}
	for _, p := range points {
		px, py := norm(p)
		t := polyTerms(px, py, order)
		for i := 0; i < nTerms; i++ {
			for j := 0; j < nTerms; j++ {
				A[i][j] += t[i] * t[j]
			}
			b[i] += t[i] * p.Z
		}
	}

	coef, err := Solver.Solve(A, b)
	if err != nil {
		return nil, err
	}
	if coef == nil {
		fallback := &IDW{opts: it.opts}
		return fallback.Interpolate(points, gridX, gridY, progress)
	}

	for iy, y := range gridY {
		for ix, x := range gridX {
			t := polyTerms((x-minX)/extent, (y-minY)/extent, order)
			var v float64
			for i, c := range coef {
				v += c * t[i]
			}
			lat.Set(ix, iy, v)
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}
