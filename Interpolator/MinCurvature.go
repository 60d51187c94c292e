package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// MinCurvature 最小曲率插值
// 先用IDW生成初值，再对自由格子向拉普拉斯/双调和混合目标松弛
// 张力参数tension在二阶与四阶差分平滑之间取权，样本格子固定不动
type MinCurvature struct {
	opts Options
}

func (it *MinCurvature) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}

	// IDW种子面
	seed := &IDW{opts: Options{
		Algorithm:    AlgoIDW,
		Power:        it.opts.Power,
		SearchMode:   SearchKNN,
		MaxNeighbors: it.opts.MaxNeighbors,
	}}
	seeded, err := seed.Interpolate(points, gridX, gridY, nil)
	if err != nil {
		return nil, err
	}
	copy(lat.Values, seeded.Values)

	nx, ny := lat.NX(), lat.NY()

	// 样本钉扎：每个样本落入最近的格子，格子取样本均值
	pinSum := make([]float64, nx*ny)
	pinCount := make([]int, nx*ny)
	for _, p := range points {
		ix := nearestAxisIndex(gridX, p.X)
		iy := nearestAxisIndex(gridY, p.Y)
		if ix < 0 || iy < 0 {
			continue
		}
		pinSum[iy*nx+ix] += p.Z
		pinCount[iy*nx+ix]++
	}
	pinned := make([]bool, nx*ny)
	for i := range pinned {
		if pinCount[i] > 0 {
			pinned[i] = true
			lat.Values[i] = pinSum[i] / float64(pinCount[i])
		}
	}

	tension := it.opts.Tension
	if tension < 0 {
		tension = 0
	}
	if tension > 1 {
		tension = 1
	}

	zMin, zMax := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		zMin = math.Min(zMin, p.Z)
		zMax = math.Max(zMax, p.Z)
	}
	zRange := zMax - zMin
	if zRange <= 0 {
		zRange = 1
	}
	threshold := it.opts.Convergence * zRange

	at := func(ix, iy int) float64 { return lat.Values[iy*nx+ix] }

	for iter := 0; iter < it.opts.MaxIterations; iter++ {
		maxChange := 0.0
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				idx := iy*nx + ix
				if pinned[idx] {
					continue
				}

				var target float64
				if ix >= 2 && ix < nx-2 && iy >= 2 && iy < ny-2 {
					// 内部格子：拉普拉斯与双调和目标按张力混合
					lap := (at(ix-1, iy) + at(ix+1, iy) + at(ix, iy-1) + at(ix, iy+1)) / 4
					bih := (8*(at(ix-1, iy)+at(ix+1, iy)+at(ix, iy-1)+at(ix, iy+1)) -
						2*(at(ix-1, iy-1)+at(ix+1, iy-1)+at(ix-1, iy+1)+at(ix+1, iy+1)) -
						(at(ix-2, iy) + at(ix+2, iy) + at(ix, iy-2) + at(ix, iy+2))) / 20
					target = tension*lap + (1-tension)*bih
				} else {
					// 边缘格子：可用邻居的简单拉普拉斯
					var sum float64
					var cnt int
					if ix > 0 {
						sum += at(ix-1, iy)
						cnt++
					}
					if ix < nx-1 {
						sum += at(ix+1, iy)
						cnt++
					}
					if iy > 0 {
						sum += at(ix, iy-1)
						cnt++
					}
					if iy < ny-1 {
						sum += at(ix, iy+1)
						cnt++
					}
					if cnt == 0 {
						continue
					}
					target = sum / float64(cnt)
				}

				old := lat.Values[idx]
				if math.IsNaN(old) || math.IsNaN(target) {
					continue
				}
				lat.Values[idx] = target
				if change := math.Abs(target - old); change > maxChange {
					maxChange = change
				}
			}
		}
		if progress != nil {
			progress(float64(iter+1) / float64(it.opts.MaxIterations))
		}
		if maxChange < threshold {
			break
		}
	}
	if progress != nil {
		progress(1)
	}

	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}

// nearestAxisIndex 返回轴上最接近v的下标，轴为空返回-1
func nearestAxisIndex(axis []float64, v float64) int {
	if len(axis) == 0 {
		return -1
	}
	best := 0
	bestDist := math.Abs(axis[0] - v)
	for i := 1; i < len(axis); i++ {
		if d := math.Abs(axis[i] - v); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
