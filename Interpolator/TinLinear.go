package Interpolator

import (
	"github.com/GrainArc/SurfaceMap/Tin"
)

// TinLinear 先构TIN再逐格做重心线性插值，凸包外的格子无值
type TinLinear struct {
	opts Options
}

func (it *TinLinear) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) < 3 {
		return lat, nil
	}

	tin, err := Tin.Triangulate(points, nil)
	if err != nil {
		return nil, err
	}
	locator := Tin.NewTriangleLocator(tin)

	for iy, y := range gridY {
		for ix, x := range gridX {
			ti := locator.Locate(x, y)
			if ti < 0 {
				continue
			}
			lat.Set(ix, iy, tin.InterpolateZ(x, y, ti))
		}
		reportRow(progress, iy, len(gridY))
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}
