package Contour

import (
	"math"
	"testing"

	"github.com/GrainArc/SurfaceMap/Interpolator"
	"github.com/GrainArc/SurfaceMap/Tin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 规则格网，z = y
func rampLattice() *Interpolator.Lattice {
	gx := []float64{0, 1, 2, 3, 4}
	gy := []float64{0, 1, 2, 3, 4}
	lat := Interpolator.NewLattice(gx, gy)
	for iy := range gy {
		for ix := range gx {
			lat.Set(ix, iy, gy[iy])
		}
	}
	return lat
}

func TestLevels(t *testing.T) {
	levels := Levels(0.3, 2.2, 0.5)
	assert.Equal(t, []float64{0.5, 1.0, 1.5, 2.0}, levels)

	assert.Nil(t, Levels(0, 10, 0))
	assert.Nil(t, Levels(10, 0, 1))

	// 级别对齐到间隔的整数倍
	levels = Levels(-1.2, 1.2, 1)
	assert.Equal(t, []float64{-1, 0, 1}, levels)
}

func TestGuardedLerp(t *testing.T) {
	// 两端同值时取中点
	assert.Equal(t, 0.5, guardedLerp(3, 3, 3))
	assert.InDelta(t, 0.5, guardedLerp(1, 0, 2), 1e-12)
	// 结果被压到[0,1]内
	assert.Equal(t, 0.0, guardedLerp(-5, 0, 2))
	assert.Equal(t, 1.0, guardedLerp(5, 0, 2))
}

func TestGridContoursRamp(t *testing.T) {
	lat := rampLattice()
	contours := GridContours(lat, []float64{1.5})
	require.Len(t, contours, 1)

	cl := contours[0]
	assert.Equal(t, 1.5, cl.Level)
	require.Len(t, cl.Lines, 1)
	assert.False(t, cl.Closed[0])

	// 等值线应是y=1.5处横穿整个格网的直线
	line := cl.Lines[0]
	for _, pt := range line {
		assert.InDelta(t, 1.5, pt[1], 1e-9)
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, pt := range line {
		minX = math.Min(minX, pt[0])
		maxX = math.Max(maxX, pt[0])
	}
	assert.Equal(t, 0.0, minX)
	assert.Equal(t, 4.0, maxX)
}

func TestGridContoursNoCrossing(t *testing.T) {
	lat := rampLattice()
	// 所有格点值都低于级别
	contours := GridContours(lat, []float64{100})
	require.Len(t, contours, 1)
	assert.Empty(t, contours[0].Segments)
	assert.Empty(t, contours[0].Lines)

	contours = GridContours(lat, []float64{-100})
	assert.Empty(t, contours[0].Segments)
}

func TestGridContoursClosedRing(t *testing.T) {
	gx := []float64{0, 1, 2, 3, 4}
	gy := []float64{0, 1, 2, 3, 4}
	lat := Interpolator.NewLattice(gx, gy)
	for iy := range gy {
		for ix := range gx {
			lat.Set(ix, iy, 0)
		}
	}
	// 中心孤峰
	lat.Set(2, 2, 10)

	contours := GridContours(lat, []float64{5})
	require.Len(t, contours, 1)
	require.Len(t, contours[0].Lines, 1)
	assert.True(t, contours[0].Closed[0])
}

func TestGridContoursSkipsNaN(t *testing.T) {
	lat := rampLattice()
	lat.Set(0, 1, math.NaN())
	lat.Set(0, 2, math.NaN())

	contours := GridContours(lat, []float64{1.5})
	// NaN角点的单元被跳过，其余单元照常出线
	require.Len(t, contours, 1)
	assert.NotEmpty(t, contours[0].Segments)
	for _, s := range contours[0].Segments {
		assert.False(t, math.IsNaN(s.X1) || math.IsNaN(s.Y1))
		assert.False(t, math.IsNaN(s.X2) || math.IsNaN(s.Y2))
	}
}

func TestChainSegmentsJoinsPieces(t *testing.T) {
	segs := []Segment{
		{X1: 2, Y1: 0, X2: 3, Y2: 0},
		{X1: 0, Y1: 0, X2: 1, Y2: 0},
		{X1: 1, Y1: 0, X2: 2, Y2: 0},
	}
	lines, closed := ChainSegments(segs)
	require.Len(t, lines, 1)
	assert.False(t, closed[0])
	assert.Len(t, lines[0], 4)
}

func TestChainSegmentsClosedRing(t *testing.T) {
	segs := []Segment{
		{X1: 0, Y1: 0, X2: 1, Y2: 0},
		{X1: 1, Y1: 0, X2: 1, Y2: 1},
		{X1: 1, Y1: 1, X2: 0, Y2: 1},
		{X1: 0, Y1: 1, X2: 0, Y2: 0},
	}
	lines, closed := ChainSegments(segs)
	require.Len(t, lines, 1)
	assert.True(t, closed[0])
	// 闭合链去掉缝合重复点
	assert.Len(t, lines[0], 4)
}

func TestChainSegmentsEmpty(t *testing.T) {
	lines, closed := ChainSegments(nil)
	assert.Empty(t, lines)
	assert.Empty(t, closed)
}

func TestSmoothContoursPreservesEndpoints(t *testing.T) {
	lat := rampLattice()
	contours := GridContours(lat, []float64{1.5})
	require.Len(t, contours[0].Lines, 1)

	before := contours[0].Lines[0]
	first := before[0]
	last := before[len(before)-1]
	beforeLen := len(before)

	SmoothContours(contours, 1)
	after := contours[0].Lines[0]
	assert.Greater(t, len(after), beforeLen)
	assert.Equal(t, first, after[0])
	assert.Equal(t, last, after[len(after)-1])
}

func TestTinContours(t *testing.T) {
	pts := []*Tin.Point3D{
		{X: 0, Y: 0, Z: 0, ID: 0},
		{X: 2, Y: 0, Z: 0, ID: 1},
		{X: 1, Y: 2, Z: 2, ID: 2},
	}
	tin, err := Tin.Triangulate(pts, nil)
	require.NoError(t, err)

	contours := TinContours(tin, []float64{1})
	require.Len(t, contours, 1)
	require.NotEmpty(t, contours[0].Segments)
	// 等值线穿过两条侧边的中点
	for _, s := range contours[0].Segments {
		assert.InDelta(t, 1.0, s.Y1, 1e-9)
		assert.InDelta(t, 1.0, s.Y2, 1e-9)
	}
}

func TestFilledBands(t *testing.T) {
	lat := rampLattice()
	bands := FilledBands(lat, []float64{0, 2, 4})
	require.Len(t, bands, 2)
	assert.Equal(t, 0.0, bands[0].Low)
	assert.Equal(t, 2.0, bands[0].High)
	assert.NotEmpty(t, bands[0].Cells)
	assert.NotEmpty(t, bands[1].Cells)

	assert.Nil(t, FilledBands(lat, []float64{1}))
}
