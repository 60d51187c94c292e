package Contour

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Interpolator"
)

// Band 一个填充色带：值域区间与参与的格网单元
type Band struct {
	Low, High float64
	Cells     [][2]int // (ix, iy) 单元左下角
}

// FilledBands 把值域按 [levels[i], levels[i+1]) 分带并收集每带的贡献单元
// 这是单元级近似，不做真正的多边形裁剪
func FilledBands(lat *Interpolator.Lattice, levels []float64) []*Band {
	if len(levels) < 2 {
		return nil
	}

	bands := make([]*Band, 0, len(levels)-1)
	for i := 0; i < len(levels)-1; i++ {
		bands = append(bands, &Band{Low: levels[i], High: levels[i+1]})
	}

	nx, ny := lat.NX(), lat.NY()
	for iy := 0; iy < ny-1; iy++ {
		for ix := 0; ix < nx-1; ix++ {
			c0 := lat.At(ix, iy)
			c1 := lat.At(ix+1, iy)
			c2 := lat.At(ix+1, iy+1)
			c3 := lat.At(ix, iy+1)
			if math.IsNaN(c0) || math.IsNaN(c1) || math.IsNaN(c2) || math.IsNaN(c3) {
				continue
			}
			cellMin := math.Min(math.Min(c0, c1), math.Min(c2, c3))
			cellMax := math.Max(math.Max(c0, c1), math.Max(c2, c3))

			for _, band := range bands {
				if cellMin < band.High && cellMax >= band.Low {
					band.Cells = append(band.Cells, [2]int{ix, iy})
				}
			}
		}
	}
	return bands
}
