package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Solver"
	"github.com/GrainArc/SurfaceMap/Tin"
)

// 全局方程组的规模上限，超出时只取前500个点作为基函数中心
const maxRBFCenters = 500

// RBF 径向基函数插值，一次全局求解后逐格求和
type RBF struct {
	opts Options
}

func rbfBasis(r, shape float64, basis string) float64 {
	switch basis {
	case "inverse_multiquadric":
		return 1 / math.Sqrt(r*r+shape*shape)
	case "thin_plate":
		if r < 1e-12 {
			return 0
		}
		return r * r * math.Log(r)
	case "gaussian":
		return math.Exp(-r * r / (shape * shape))
	case "linear":
		return r
	default: // multiquadric
		return math.Sqrt(r*r + shape*shape)
	}
}

func (it *RBF) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	centers := points
	if len(centers) > maxRBFCenters {
		centers = centers[:maxRBFCenters]
	}
	n := len(centers)

	shape := it.opts.Shape
	if shape <= 0 {
		// 默认形状参数取点集范围除以点数的平方根
		minX, minY, maxX, maxY := BoundsOf(centers)
		shape = math.Max(maxX-minX, maxY-minY) / math.Sqrt(float64(n))
		if shape <= 0 {
			shape = 1
		}
	}

	A := make([][]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		A[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			dx := centers[i].X - centers[j].X
			dy := centers[i].Y - centers[j].Y
			A[i][j] = rbfBasis(math.Sqrt(dx*dx+dy*dy), shape, it.opts.Basis)
		}
		A[i][i] += it.opts.Smoothing
		b[i] = centers[i].Z
	}

	coef, err := Solver.Solve(A, b)
	if err != nil || coef == nil {
		// 全局方程组奇异时整体退回IDW
		fallback := &IDW{opts: it.opts}
		return fallback.Interpolate(points, gridX, gridY, progress)
	}

	for iy, y := range gridY {
		for ix, x := range gridX {
			var sum float64
			for j := 0; j < n; j++ {
				dx := x - centers[j].X
				dy := y - centers[j].Y
				sum += coef[j] * rbfBasis(math.Sqrt(dx*dx+dy*dy), shape, it.opts.Basis)
			}
			lat.Set(ix, iy, sum)
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}
