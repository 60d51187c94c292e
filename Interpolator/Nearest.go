package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// Nearest 最近样本点插值
type Nearest struct {
	opts Options
}

func (it *Nearest) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	idx := newNeighborSearch(points, it.opts).idx
	for iy, y := range gridY {
		for ix, x := range gridX {
			ids, _ := idx.KNearest(x, y, 1)
			if len(ids) > 0 {
				lat.Set(ix, iy, points[ids[0]].Z)
			}
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}

// MovingAverage 移动平均插值，半径内样本的等权或反距离加权均值
type MovingAverage struct {
	opts Options
}

func (it *MovingAverage) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	opts := it.opts
	if opts.Radius <= 0 {
		// 未给半径时按格网尺度取一个覆盖数个格子的默认值
		minX, minY, maxX, maxY := BoundsOf(points)
		opts.Radius = math.Max(maxX-minX, maxY-minY) / 10
	}
	opts.SearchMode = SearchRadius
	ns := newNeighborSearch(points, opts)

	for iy, y := range gridY {
		for ix, x := range gridX {
			ids, dists := ns.neighbors(x, y)
			if len(ids) == 0 {
				continue
			}
			if it.opts.Weighted {
				// 半径加权：越靠近格心权重越大
				var sumW, sumWZ float64
				for i, id := range ids {
					w := 1 - dists[i]/opts.Radius
					if w < 0 {
						w = 0
					}
					sumW += w
					sumWZ += w * points[id].Z
				}
				if sumW > 0 {
					lat.Set(ix, iy, sumWZ/sumW)
				}
				continue
			}
			var sum float64
			for _, id := range ids {
				sum += points[id].Z
			}
			lat.Set(ix, iy, sum/float64(len(ids)))
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}
