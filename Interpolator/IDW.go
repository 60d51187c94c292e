package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// 距离低于该阈值视为恰好命中样本点
const exactMatchDistance = 1e-10

// IDW 反距离加权插值
type IDW struct {
	opts Options
}

func (it *IDW) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	ns := newNeighborSearch(points, it.opts)
	for iy, y := range gridY {
		for ix, x := range gridX {
			ids, dists := ns.neighbors(x, y)
			lat.Set(ix, iy, idwEstimate(points, ids, dists, it.opts.Power))
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}

// idwEstimate 按 1/d^power 加权平均，恰好命中样本时直接返回样本值
// 克里金校验失败时也走这里兜底
func idwEstimate(points []*Tin.Point3D, ids []int, dists []float64, power float64) float64 {
	if len(ids) == 0 {
		return math.NaN()
	}
	var sumW, sumWZ float64
	for i, id := range ids {
		d := dists[i]
		if d < exactMatchDistance {
			return points[id].Z
		}
		w := 1 / math.Pow(d, power)
		sumW += w
		sumWZ += w * points[id].Z
	}
	if sumW == 0 {
		return math.NaN()
	}
	return sumWZ / sumW
}
