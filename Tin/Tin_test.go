package Tin

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePoints() []*Point3D {
	return []*Point3D{
		{X: 0, Y: 0, Z: 1, ID: 0},
		{X: 1, Y: 0, Z: 2, ID: 1},
		{X: 1, Y: 1, Z: 3, ID: 2},
		{X: 0, Y: 1, Z: 4, ID: 3},
	}
}

func TestTriangulateTooFewPoints(t *testing.T) {
	tin, err := Triangulate([]*Point3D{{X: 0, Y: 0}, {X: 1, Y: 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tin.TriangleCount())
}

func TestTriangulateSquare(t *testing.T) {
	tin, err := Triangulate(squarePoints(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tin.TriangleCount())
	assert.Len(t, tin.Edges(), 5)

	// 四条外边必在网中，对角线二选一
	assert.True(t, tin.HasEdge(0, 1))
	assert.True(t, tin.HasEdge(1, 2))
	assert.True(t, tin.HasEdge(2, 3))
	assert.True(t, tin.HasEdge(3, 0))
	assert.True(t, tin.HasEdge(0, 2) || tin.HasEdge(1, 3))
}

func TestTriangulateExcludesSuperVertices(t *testing.T) {
	pts := squarePoints()
	tin, err := Triangulate(pts, nil)
	require.NoError(t, err)
	for _, tri := range tin.Triangles {
		for _, v := range tri {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, len(pts))
		}
	}
}

func TestTriangulateGridCount(t *testing.T) {
	// 3×3规则点阵：n=9，凸包点8个，三角形数 2n-h-2 = 8
	var pts []*Point3D
	id := 0
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 3; ix++ {
			pts = append(pts, &Point3D{X: float64(ix), Y: float64(iy), Z: 0, ID: id})
			id++
		}
	}
	tin, err := Triangulate(pts, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, tin.TriangleCount())
}

func TestTriangulateEmptyCircumcircle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var pts []*Point3D
	for i := 0; i < 60; i++ {
		pts = append(pts, &Point3D{
			X:  rng.Float64() * 100,
			Y:  rng.Float64() * 100,
			Z:  rng.Float64() * 10,
			ID: i,
		})
	}
	tin, err := Triangulate(pts, nil)
	require.NoError(t, err)
	require.Greater(t, tin.TriangleCount(), 0)

	for _, tri := range tin.Triangles {
		a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]
		cx, cy, r := circumcircle(a.X, a.Y, b.X, b.Y, c.X, c.Y)
		for i, p := range pts {
			if i == tri[0] || i == tri[1] || i == tri[2] {
				continue
			}
			d := math.Hypot(p.X-cx, p.Y-cy)
			assert.GreaterOrEqual(t, d, r-1e-7,
				"point %d strictly inside circumcircle of triangle %v", i, tri)
		}
	}
}

func TestTriangulateWithConstraint(t *testing.T) {
	// 点位设计使无约束时对角线偏向(1,3)，约束强制(0,2)
	pts := []*Point3D{
		{X: 0, Y: 0, Z: 0, ID: 0},
		{X: 2, Y: 0, Z: 0, ID: 1},
		{X: 2, Y: 2, Z: 0, ID: 2},
		{X: 0, Y: 2, Z: 0, ID: 3},
	}
	tin, err := Triangulate(pts, [][2]int{{0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, tin.TriangleCount())
	assert.True(t, tin.HasEdge(0, 2))
	assert.False(t, tin.HasEdge(1, 3))
	assert.True(t, tin.Constrained[MakeEdgeKey(0, 2)])
}

func TestTriangulateConstraintSurvivesRestore(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var pts []*Point3D
	for i := 0; i < 40; i++ {
		pts = append(pts, &Point3D{
			X:  rng.Float64() * 10,
			Y:  rng.Float64() * 10,
			Z:  0,
			ID: i,
		})
	}
	// 任取两个相距较远的点作特征线
	tin, err := Triangulate(pts, [][2]int{{0, 39}})
	require.NoError(t, err)
	assert.True(t, tin.HasEdge(0, 39))
}

func TestInterpolateZOnPlane(t *testing.T) {
	// z = x + 2y 平面
	pts := []*Point3D{
		{X: 0, Y: 0, Z: 0, ID: 0},
		{X: 1, Y: 0, Z: 1, ID: 1},
		{X: 0, Y: 1, Z: 2, ID: 2},
	}
	tin, err := Triangulate(pts, nil)
	require.NoError(t, err)
	require.Equal(t, 1, tin.TriangleCount())

	z := tin.InterpolateZ(0.25, 0.25, 0)
	assert.InDelta(t, 0.25+2*0.25, z, 1e-9)
}

func TestGetElevationAt(t *testing.T) {
	tin, err := Triangulate(squarePoints(), nil)
	require.NoError(t, err)

	z, err := tin.GetElevationAt(0.5, 0.5)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(z))

	_, err = tin.GetElevationAt(10, 10)
	assert.Error(t, err)
}

func TestTriangleLocator(t *testing.T) {
	tin, err := Triangulate(squarePoints(), nil)
	require.NoError(t, err)
	tl := NewTriangleLocator(tin)

	ti := tl.Locate(0.5, 0.5)
	assert.GreaterOrEqual(t, ti, 0)
	assert.True(t, tin.PointInTriangle(0.5, 0.5, ti))

	assert.Equal(t, -1, tl.Locate(100, 100))
}

func TestTriangleArea(t *testing.T) {
	pts := []*Point3D{
		{X: 0, Y: 0, Z: 0, ID: 0},
		{X: 2, Y: 0, Z: 0, ID: 1},
		{X: 0, Y: 2, Z: 0, ID: 2},
	}
	tin, err := Triangulate(pts, nil)
	require.NoError(t, err)
	require.Equal(t, 1, tin.TriangleCount())
	assert.InDelta(t, 2.0, tin.TriangleArea(0), 1e-9)
}

func TestConcaveHullConvexInput(t *testing.T) {
	tin, err := Triangulate(squarePoints(), nil)
	require.NoError(t, err)

	ring := tin.ConcaveHull(0)
	assert.Len(t, ring, 4)
	seen := make(map[int]bool)
	for _, vi := range ring {
		assert.False(t, seen[vi], "hull ring repeats vertex %d", vi)
		seen[vi] = true
	}
}

func TestZRange(t *testing.T) {
	tin, err := Triangulate(squarePoints(), nil)
	require.NoError(t, err)
	minZ, maxZ := tin.ZRange()
	assert.Equal(t, 1.0, minZ)
	assert.Equal(t, 4.0, maxZ)
}

func TestMakeEdgeKey(t *testing.T) {
	assert.Equal(t, MakeEdgeKey(3, 1), MakeEdgeKey(1, 3))
	assert.Equal(t, EdgeKey{1, 3}, MakeEdgeKey(3, 1))
}
