package Contour

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/GrainArc/SurfaceMap/Interpolator"
	"github.com/GrainArc/SurfaceMap/Tin"
)

// Segment 一条未拼接的等值线原始线段
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
}

// ContourLine 某一级别的等值线：拼接后的折线与原始线段
type ContourLine struct {
	Level    float64
	Lines    []orb.LineString
	Closed   []bool
	Segments []Segment
}

// Levels 生成从min到max按interval递增的级别序列，严格升序
func Levels(min, max, interval float64) []float64 {
	if interval <= 0 || max < min {
		return nil
	}
	var levels []float64
	// 起始级别对齐到interval的整数倍
	start := math.Ceil(min/interval) * interval
	for v := start; v <= max+interval*1e-9; v += interval {
		levels = append(levels, v)
	}
	return levels
}

// guardedLerp 对(va,vb)之间的level求插值比例，梯度近零时取中点防止除零
func guardedLerp(level, va, vb float64) float64 {
	denom := vb - va
	if math.Abs(denom) < 1e-12 {
		return 0.5
	}
	t := (level - va) / denom
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// GridContours 对格网做行进方格法等值线提取
func GridContours(lat *Interpolator.Lattice, levels []float64) []*ContourLine {
	result := make([]*ContourLine, 0, len(levels))
	for _, level := range levels {
		cl := &ContourLine{Level: level}
		cl.Segments = gridLevelSegments(lat, level)
		cl.Lines, cl.Closed = ChainSegments(cl.Segments)
		result = append(result, cl)
	}
	return result
}

// gridLevelSegments 单一级别的行进方格扫描
func gridLevelSegments(lat *Interpolator.Lattice, level float64) []Segment {
	var segs []Segment
	nx, ny := lat.NX(), lat.NY()

	for iy := 0; iy < ny-1; iy++ {
		y0, y1 := lat.GridY[iy], lat.GridY[iy+1]
		for ix := 0; ix < nx-1; ix++ {
			x0, x1 := lat.GridX[ix], lat.GridX[ix+1]

			// 角点编号：c0左下 c1右下 c2右上 c3左上
			c0 := lat.At(ix, iy)
			c1 := lat.At(ix+1, iy)
			c2 := lat.At(ix+1, iy+1)
			c3 := lat.At(ix, iy+1)
			if math.IsNaN(c0) || math.IsNaN(c1) || math.IsNaN(c2) || math.IsNaN(c3) {
				continue
			}

			code := 0
			if c0 >= level {
				code |= 1
			}
			if c1 >= level {
				code |= 2
			}
			if c2 >= level {
				code |= 4
			}
			if c3 >= level {
				code |= 8
			}
			if code == 0 || code == 15 {
				continue
			}

			// 四条边上的穿越点
			bottom := func() (float64, float64) {
				t := guardedLerp(level, c0, c1)
				return x0 + t*(x1-x0), y0
			}
			right := func() (float64, float64) {
				t := guardedLerp(level, c1, c2)
				return x1, y0 + t*(y1-y0)
			}
			top := func() (float64, float64) {
				t := guardedLerp(level, c3, c2)
				return x0 + t*(x1-x0), y1
			}
			left := func() (float64, float64) {
				t := guardedLerp(level, c0, c3)
				return x0, y0 + t*(y1-y0)
			}

			seg := func(ax, ay, bx, by float64) {
				segs = append(segs, Segment{X1: ax, Y1: ay, X2: bx, Y2: by})
			}

			switch code {
			case 1, 14:
				ax, ay := left()
				bx, by := bottom()
				seg(ax, ay, bx, by)
			case 2, 13:
				ax, ay := bottom()
				bx, by := right()
				seg(ax, ay, bx, by)
			case 3, 12:
				ax, ay := left()
				bx, by := right()
				seg(ax, ay, bx, by)
			case 4, 11:
				ax, ay := right()
				bx, by := top()
				seg(ax, ay, bx, by)
			case 6, 9:
				ax, ay := bottom()
				bx, by := top()
				seg(ax, ay, bx, by)
			case 7, 8:
				ax, ay := top()
				bx, by := left()
				seg(ax, ay, bx, by)
			case 5:
				// 鞍点：用格心均值决定对角配对，保证同侧角点连通
				center := (c0 + c1 + c2 + c3) / 4
				if center >= level {
					ax, ay := bottom()
					bx, by := right()
					seg(ax, ay, bx, by)
					cx, cy := top()
					dx, dy := left()
					seg(cx, cy, dx, dy)
				} else {
					ax, ay := left()
					bx, by := bottom()
					seg(ax, ay, bx, by)
					cx, cy := right()
					dx, dy := top()
					seg(cx, cy, dx, dy)
				}
			case 10:
				center := (c0 + c1 + c2 + c3) / 4
				if center >= level {
					ax, ay := left()
					bx, by := bottom()
					seg(ax, ay, bx, by)
					cx, cy := right()
					dx, dy := top()
					seg(cx, cy, dx, dy)
				} else {
					ax, ay := bottom()
					bx, by := right()
					seg(ax, ay, bx, by)
					cx, cy := top()
					dx, dy := left()
					seg(cx, cy, dx, dy)
				}
			}
		}
	}
	return segs
}

// TinContours 直接在TIN三角形上提取等值线，无需先栅格化
func TinContours(tin *Tin.TIN, levels []float64) []*ContourLine {
	result := make([]*ContourLine, 0, len(levels))
	for _, level := range levels {
		cl := &ContourLine{Level: level}
		for _, t := range tin.Triangles {
			p := [3]*Tin.Point3D{tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]]}

			above := 0
			for _, v := range p {
				if v.Z >= level {
					above++
				}
			}
			if above == 0 || above == 3 {
				continue
			}

			// 跨越该级别的两条三角形边各产生一个穿越点
			var px, py []float64
			for i := 0; i < 3; i++ {
				a, b := p[i], p[(i+1)%3]
				if (a.Z >= level) == (b.Z >= level) {
					continue
				}
				f := guardedLerp(level, a.Z, b.Z)
				px = append(px, a.X+f*(b.X-a.X))
				py = append(py, a.Y+f*(b.Y-a.Y))
			}
			if len(px) == 2 {
				cl.Segments = append(cl.Segments, Segment{X1: px[0], Y1: py[0], X2: px[1], Y2: py[1]})
			}
		}
		cl.Lines, cl.Closed = ChainSegments(cl.Segments)
		result = append(result, cl)
	}
	return result
}
