package Interpolator

import (
	"fmt"
	"math"
	"sort"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// DataMetrics 分格统计：样本按所在格子归箱后逐格计算统计量
type DataMetrics struct {
	opts Options
}

func (it *DataMetrics) Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error) {
	lat := NewLattice(gridX, gridY)
	if len(points) == 0 {
		return lat, nil
	}
	switch it.opts.Metric {
	case "mean", "median", "count", "min", "max", "range", "stddev", "sum":
	default:
		return nil, fmt.Errorf("unknown data metric: %s", it.opts.Metric)
	}

	nx, ny := lat.NX(), lat.NY()
	bins := make([][]float64, nx*ny)
	for _, p := range points {
		ix := nearestAxisIndex(gridX, p.X)
		iy := nearestAxisIndex(gridY, p.Y)
		if ix < 0 || iy < 0 {
			continue
		}
		idx := iy*nx + ix
		bins[idx] = append(bins[idx], p.Z)
	}

	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			vals := bins[iy*nx+ix]
			if len(vals) == 0 {
				if it.opts.Metric == "count" {
					lat.Set(ix, iy, 0)
				}
				continue
			}
			lat.Set(ix, iy, cellMetric(vals, it.opts.Metric))
		}
		reportRow(progress, iy, ny)
	}
	applyBoundaryMask(lat, it.opts.Boundaries)
	return lat, nil
}

func cellMetric(vals []float64, metric string) float64 {
	switch metric {
	case "count":
		return float64(len(vals))
	case "sum":
		var s float64
		for _, v := range vals {
			s += v
		}
		return s
	case "min":
		m := vals[0]
		for _, v := range vals {
			m = math.Min(m, v)
		}
		return m
	case "max":
		m := vals[0]
		for _, v := range vals {
			m = math.Max(m, v)
		}
		return m
	case "range":
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		return hi - lo
	case "median":
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	case "stddev":
		var mean float64
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		var ss float64
		for _, v := range vals {
			ss += (v - mean) * (v - mean)
		}
		return math.Sqrt(ss / float64(len(vals)))
	default: // mean
		var s float64
		for _, v := range vals {
			s += v
		}
		return s / float64(len(vals))
	}
}
