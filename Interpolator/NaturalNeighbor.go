package Interpolator

import (
	"github.com/GrainArc/SurfaceMap/Tin"
)

// NaturalNeighbor 自然邻域插值的Sibson近似
// 权重取 max(0, 1/d − 1/dMax)² 后归一化，dMax为k近邻中的最远距离
type NaturalNeighbor struct {
	opts Options
}

func (it *NaturalNeighbor) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	opts := it.opts
	opts.SearchMode = SearchKNN
	ns := newNeighborSearch(points, opts)

	for iy, y := range gridY {
		for ix, x := range gridX {
			ids, dists := ns.neighbors(x, y)
			if len(ids) == 0 {
				continue
			}

			dMax := dists[len(dists)-1]
			if dMax < exactMatchDistance {
				lat.Set(ix, iy, points[ids[0]].Z)
				continue
			}

			var sumW, sumWZ float64
			exact := false
			for i, id := range ids {
				d := dists[i]
				if d < exactMatchDistance {
					lat.Set(ix, iy, points[id].Z)
					exact = true
					break
				}
				w := 1/d - 1/dMax
				if w < 0 {
					w = 0
				}
				w *= w
				sumW += w
				sumWZ += w * points[id].Z
			}
			if exact {
				continue
			}
			if sumW > 0 {
				lat.Set(ix, iy, sumWZ/sumW)
			} else {
				// 所有邻居都在dMax上，退化为等权平均
				var sum float64
				for _, id := range ids {
					sum += points[id].Z
				}
				lat.Set(ix, iy, sum/float64(len(ids)))
			}
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}
