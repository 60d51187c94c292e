package Interpolator

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

const (
	// 参与经验变差函数估计的最大样本数，超出时按步长抽样
	maxVariogramSamples = 200
	variogramBins       = 20
)

// variogramParams 变差函数模型参数
type variogramParams struct {
	Sill   float64
	Range  float64
	Nugget float64
	Model  string // spherical / exponential / gaussian
}

// variogramValue 计算距离h处的半变差
func variogramValue(h float64, p variogramParams) float64 {
	if h <= 0 {
		return 0
	}
	gamma := p.Nugget
	switch p.Model {
	case "exponential":
		gamma += p.Sill * (1 - math.Exp(-3*h/p.Range))
	case "gaussian":
		gamma += p.Sill * (1 - math.Exp(-3*h*h/(p.Range*p.Range)))
	default: // spherical
		if h < p.Range {
			r := h / p.Range
			gamma += p.Sill * (1.5*r - 0.5*r*r*r)
		} else {
			gamma += p.Sill
		}
	}
	return gamma
}

// estimateVariogram 从距离抽样子集的分箱经验半变差估计基台、变程与块金
// 变程取经验曲线首次达到95%基台处的距离
func estimateVariogram(points []*Tin.Point3D, model string) variogramParams {
	p := variogramParams{Model: model, Sill: 1, Range: 1, Nugget: 0}
	n := len(points)
	if n < 2 {
		return p
	}

	// 距离抽样：等步长取子集，保持空间分布
	step := 1
	if n > maxVariogramSamples {
		step = n / maxVariogramSamples
	}
	var sample []*Tin.Point3D
	for i := 0; i < n; i += step {
		sample = append(sample, points[i])
	}

	minX, minY, maxX, maxY := BoundsOf(points)
	maxDist := math.Sqrt((maxX-minX)*(maxX-minX)+(maxY-minY)*(maxY-minY)) / 2
	if maxDist <= 0 {
		return p
	}

	binGamma := make([]float64, variogramBins)
	binCount := make([]int, variogramBins)
	for i := 0; i < len(sample); i++ {
		for j := i + 1; j < len(sample); j++ {
			dx := sample[i].X - sample[j].X
			dy := sample[i].Y - sample[j].Y
			d := math.Sqrt(dx*dx + dy*dy)
			if d <= 0 || d > maxDist {
				continue
			}
			bin := int(d / maxDist * float64(variogramBins))
			if bin >= variogramBins {
				bin = variogramBins - 1
			}
			dz := sample[i].Z - sample[j].Z
			binGamma[bin] += 0.5 * dz * dz
			binCount[bin]++
		}
	}

	var filled int
	for b := 0; b < variogramBins; b++ {
		if binCount[b] > 0 {
			binGamma[b] /= float64(binCount[b])
			filled++
		}
	}
	if filled == 0 {
		return p
	}

	// 基台取后三分之一分箱的平均（平台段）
	var sillSum float64
	var sillCount int
	for b := variogramBins * 2 / 3; b < variogramBins; b++ {
		if binCount[b] > 0 {
			sillSum += binGamma[b]
			sillCount++
		}
	}
	if sillCount > 0 {
		p.Sill = sillSum / float64(sillCount)
	} else {
		for b := 0; b < variogramBins; b++ {
			if binCount[b] > 0 {
				p.Sill = binGamma[b]
			}
		}
	}
	if p.Sill <= 0 {
		p.Sill = 1e-8
	}

	// 块金取第一个非空分箱的值，不超过基台的一半
	for b := 0; b < variogramBins; b++ {
		if binCount[b] > 0 {
			p.Nugget = math.Min(binGamma[b], p.Sill/2)
			break
		}
	}
	if p.Nugget < 0 {
		p.Nugget = 0
	}

	// 变程：经验半变差首次达到95%基台处的距离
	p.Range = maxDist
	target := 0.95 * p.Sill
	for b := 0; b < variogramBins; b++ {
		if binCount[b] > 0 && binGamma[b] >= target {
			p.Range = (float64(b) + 0.5) / float64(variogramBins) * maxDist
			break
		}
	}
	if p.Range <= 0 {
		p.Range = maxDist
	}

	return p
}
