package SpatialIndex

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/GrainArc/SurfaceMap/Tin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePoints(coords [][2]float64) []*Tin.Point3D {
	pts := make([]*Tin.Point3D, len(coords))
	for i, c := range coords {
		pts[i] = &Tin.Point3D{X: c[0], Y: c[1], ID: i}
	}
	return pts
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil, 0)
	assert.Equal(t, 0, idx.Size())
	assert.Empty(t, idx.RadiusQuery(0, 0, 10))
	ids, dists := idx.KNearest(0, 0, 3)
	assert.Empty(t, ids)
	assert.Empty(t, dists)
}

func TestRadiusQuery(t *testing.T) {
	pts := makePoints([][2]float64{
		{0, 0}, {1, 0}, {0, 1}, {5, 5}, {2, 0},
	})
	idx := BuildIndex(pts, 1)

	got := idx.RadiusQuery(0, 0, 1.5)
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2}, got)

	// 半径边界上的点包含在内
	got = idx.RadiusQuery(0, 0, 2)
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2, 4}, got)

	assert.Empty(t, idx.RadiusQuery(100, 100, 1))
}

func TestKNearestOrdering(t *testing.T) {
	pts := makePoints([][2]float64{
		{10, 0}, {1, 0}, {3, 0}, {2, 0}, {50, 50},
	})
	idx := BuildIndex(pts, 0)

	ids, dists := idx.KNearest(0, 0, 3)
	require.Len(t, ids, 3)
	assert.Equal(t, []int{1, 3, 2}, ids)
	assert.InDelta(t, 1.0, dists[0], 1e-12)
	assert.InDelta(t, 2.0, dists[1], 1e-12)
	assert.InDelta(t, 3.0, dists[2], 1e-12)
}

func TestKNearestFewerPointsThanK(t *testing.T) {
	pts := makePoints([][2]float64{{0, 0}, {1, 1}})
	idx := BuildIndex(pts, 0)

	ids, dists := idx.KNearest(0, 0, 10)
	assert.Len(t, ids, 2)
	assert.Len(t, dists, 2)
}

func TestKNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var coords [][2]float64
	for i := 0; i < 300; i++ {
		coords = append(coords, [2]float64{rng.Float64() * 100, rng.Float64() * 100})
	}
	pts := makePoints(coords)
	idx := BuildIndex(pts, 0)

	for trial := 0; trial < 20; trial++ {
		qx := rng.Float64() * 100
		qy := rng.Float64() * 100
		k := 1 + rng.Intn(8)

		ids, dists := idx.KNearest(qx, qy, k)
		require.Len(t, ids, k)

		// 暴力验证
		brute := make([]float64, len(pts))
		for i, p := range pts {
			brute[i] = math.Hypot(p.X-qx, p.Y-qy)
		}
		sort.Float64s(brute)
		for i := 0; i < k; i++ {
			assert.InDelta(t, brute[i], dists[i], 1e-9)
		}
		// 距离单调不减
		for i := 1; i < k; i++ {
			assert.LessOrEqual(t, dists[i-1], dists[i])
		}
	}
}

func TestDefaultCellSize(t *testing.T) {
	pts := makePoints([][2]float64{{0, 0}, {100, 0}, {0, 100}, {100, 100}})
	idx := BuildIndex(pts, 0)
	assert.Greater(t, idx.CellSize(), 0.0)
}
