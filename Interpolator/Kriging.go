package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Solver"
	"github.com/GrainArc/SurfaceMap/Tin"
)

// 克里金数值验收阈值，未通过时回退IDW
const (
	weightSumTolerance = 0.05
	maxWeightMagnitude = 100.0
)

// Kriging 克里金插值（普通/泛/简单），每个格子用k近邻建局部方程组
type Kriging struct {
	opts Options
}

func (it *Kriging) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	vp := estimateVariogram(points, it.opts.VariogramModel)

	opts := it.opts
	opts.SearchMode = SearchKNN
	ns := newNeighborSearch(points, opts)

	// 漂移项的坐标归一化基准
	minX, minY, maxX, maxY := BoundsOf(points)
	extent := math.Max(maxX-minX, maxY-minY)
	if extent <= 0 {
		extent = 1
	}

	var mean float64
	for _, p := range points {
		mean += p.Z
	}
	mean /= float64(len(points))

	for iy, y := range gridY {
		for ix, x := range gridX {
			ids, dists := ns.neighbors(x, y)
			if len(ids) == 0 {
				continue
			}
			if dists[0] < exactMatchDistance {
				lat.Set(ix, iy, points[ids[0]].Z)
				continue
			}

			est, ok := it.krigeCell(points, ids, dists, x, y, vp, mean, minX, minY, extent)
			if !ok {
				est = idwEstimate(points, ids, dists, it.opts.Power)
			}
			lat.Set(ix, iy, est)
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}

// driftTerms 归一化坐标的多项式漂移项
func driftTerms(x, y, minX, minY, extent float64, order int) []float64 {
	nx := (x - minX) / extent
	ny := (y - minY) / extent
	if order >= 2 {
		return []float64{nx, ny, nx * nx, nx * ny, ny * ny}
	}
	return []float64{nx, ny}
}

// krigeCell 构建并求解一个格子的克里金方程组，返回估计值与是否通过验收
func (it *Kriging) krigeCell(points []*Tin.Point3D, ids []int, dists []float64, x, y float64,
	vp variogramParams, mean, minX, minY, extent float64) (float64, bool) {

	n := len(ids)
	dist := func(i, j int) float64 {
		dx := points[ids[i]].X - points[ids[j]].X
		dy := points[ids[i]].Y - points[ids[j]].Y
		return math.Sqrt(dx*dx + dy*dy)
	}

	var weights []float64
	switch it.opts.KrigingType {
	case "simple":
		// 协方差形式，无拉格朗日约束
		totalSill := vp.Sill + vp.Nugget
		A := make([][]float64, n)
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			A[i] = make([]float64, n)
			for j := 0; j < n; j++ {
				A[i][j] = totalSill - variogramValue(dist(i, j), vp)
			}
			b[i] = totalSill - variogramValue(dists[i], vp)
		}
		w, err := Solver.Solve(A, b)
		if err != nil || w == nil {
			return 0, false
		}
		weights = w

	case "universal":
		drift := driftTerms(x, y, minX, minY, extent, it.opts.DriftOrder)
		nd := len(drift)
		size := n + 1 + nd
		A := make([][]float64, size)
		b := make([]float64, size)
		for i := range A {
			A[i] = make([]float64, size)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				A[i][j] = variogramValue(dist(i, j), vp)
			}
			A[i][n] = 1
			A[n][i] = 1
			di := driftTerms(points[ids[i]].X, points[ids[i]].Y, minX, minY, extent, it.opts.DriftOrder)
			for k := 0; k < nd; k++ {
				A[i][n+1+k] = di[k]
				A[n+1+k][i] = di[k]
			}
			b[i] = variogramValue(dists[i], vp)
		}
		b[n] = 1
		for k := 0; k < nd; k++ {
			b[n+1+k] = drift[k]
		}
		w, err := Solver.Solve(A, b)
		if err != nil || w == nil {
			return 0, false
		}
		weights = w[:n]

	default: // ordinary
		size := n + 1
		A := make([][]float64, size)
		b := make([]float64, size)
		for i := range A {
			A[i] = make([]float64, size)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				A[i][j] = variogramValue(dist(i, j), vp)
			}
			A[i][n] = 1
			A[n][i] = 1
			b[i] = variogramValue(dists[i], vp)
		}
		b[n] = 1
		w, err := Solver.Solve(A, b)
		if err != nil || w == nil {
			return 0, false
		}
		weights = w[:n]
	}

	// 权重验收：权重和接近1且幅值有界
	var sumW float64
	for _, w := range weights {
		if math.IsNaN(w) || math.Abs(w) > maxWeightMagnitude {
			return 0, false
		}
		sumW += w
	}
	if math.Abs(sumW-1) > weightSumTolerance {
		return 0, false
	}

	var est float64
	if it.opts.KrigingType == "simple" {
		est = mean
		for i, w := range weights {
			est += w * (points[ids[i]].Z - mean)
		}
	} else {
		for i, w := range weights {
			est += w * points[ids[i]].Z
		}
	}

	// 泛克里金额外限制估计值落在局部高程范围附近
	if it.opts.KrigingType == "universal" {
		zMin, zMax := math.Inf(1), math.Inf(-1)
		for _, id := range ids {
			zMin = math.Min(zMin, points[id].Z)
			zMax = math.Max(zMax, points[id].Z)
		}
		margin := (zMax - zMin) * 0.5
		if margin == 0 {
			margin = math.Max(math.Abs(zMax)*0.1, 1e-6)
		}
		if est < zMin-margin || est > zMax+margin {
			return 0, false
		}
	}

	if math.IsNaN(est) || math.IsInf(est, 0) {
		return 0, false
	}
	return est, true
}
