package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// ModifiedShepard 改进谢泼德法
// 以邻域内最大距离R为截断，权重取 ((R−d)/(R·d))^power 后归一化
type ModifiedShepard struct {
	opts Options
}

func (it *ModifiedShepard) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	ns := newNeighborSearch(points, it.opts)
	for iy, y := range gridY {
		for ix, x := range gridX {
			ids, dists := ns.neighbors(x, y)
			if len(ids) == 0 {
				continue
			}

			var dMax float64
			for _, d := range dists {
				if d > dMax {
					dMax = d
				}
			}
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
				base := (dMax - d) / (dMax * d)
				if base < 0 {
					base = 0
				}
				w := math.Pow(base, it.opts.Power)
				sumW += w
				sumWZ += w * points[id].Z
			}
			if exact {
				continue
			}
			if sumW > 0 {
				lat.Set(ix, iy, sumWZ/sumW)
			} else {
				lat.Set(ix, iy, idwEstimate(points, ids, dists, it.opts.Power))
			}
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}
