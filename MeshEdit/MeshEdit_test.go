package MeshEdit

import (
	"testing"

	"github.com/GrainArc/SurfaceMap/Tin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareMesh(t *testing.T) *Mesh {
	pts := []*Tin.Point3D{
		{X: 0, Y: 0, Z: 1, ID: 0},
		{X: 2, Y: 0, Z: 2, ID: 1},
		{X: 2, Y: 2, Z: 3, ID: 2},
		{X: 0, Y: 2, Z: 4, ID: 3},
	}
	tin, err := Tin.Triangulate(pts, nil)
	require.NoError(t, err)
	require.Equal(t, 2, tin.TriangleCount())
	return BuildMesh(tin)
}

// 正方形网格当前的对角线端点
func diagonalOf(m *Mesh) (int, int) {
	if m.HasEdge(0, 2) {
		return 0, 2
	}
	return 1, 3
}

func TestBuildMeshStats(t *testing.T) {
	m := squareMesh(t)
	stats := m.GetStats()
	assert.Equal(t, 4, stats.VertexCount)
	assert.Equal(t, 2, stats.TriangleCount)
	assert.False(t, stats.CanUndo)
	assert.False(t, stats.CanRedo)
}

func TestSwapEdge(t *testing.T) {
	m := squareMesh(t)
	a, b := diagonalOf(m)
	c, d := 1, 3
	if a == 1 {
		c, d = 0, 2
	}

	ok := m.SwapEdge(a, b)
	require.True(t, ok)
	assert.False(t, m.HasEdge(a, b))
	assert.True(t, m.HasEdge(c, d))
	assert.Equal(t, 2, m.GetStats().TriangleCount)
}

func TestSwapEdgeBoundaryFails(t *testing.T) {
	m := squareMesh(t)
	// 外边只有一个邻接三角形，不可交换
	assert.False(t, m.SwapEdge(0, 1))
}

func TestSwapEdgeLockedFails(t *testing.T) {
	m := squareMesh(t)
	a, b := diagonalOf(m)

	var ti int
	for i, tri := range m.Triangles {
		if tri.Alive {
			ti = i
			break
		}
	}
	require.True(t, m.LockTriangle(ti, true))
	assert.False(t, m.SwapEdge(a, b))
}

func TestInsertPoint(t *testing.T) {
	m := squareMesh(t)
	before := m.GetStats()

	ok := m.InsertPoint(0.5, 0.2, 7)
	require.True(t, ok)
	after := m.GetStats()
	assert.Equal(t, before.VertexCount+1, after.VertexCount)
	assert.Equal(t, before.TriangleCount+2, after.TriangleCount)
}

func TestInsertPointOutsideFails(t *testing.T) {
	m := squareMesh(t)
	assert.False(t, m.InsertPoint(100, 100, 0))
}

func TestDeletePoint(t *testing.T) {
	m := squareMesh(t)
	require.True(t, m.InsertPoint(0.5, 0.2, 5))

	// 找到刚插入的内部点
	vi := m.NearestVertex(0.5, 0.2, 0.01)
	require.GreaterOrEqual(t, vi, 0)

	ok := m.DeletePoint(vi)
	require.True(t, ok)
	stats := m.GetStats()
	assert.Equal(t, 4, stats.VertexCount)
	assert.Equal(t, 2, stats.TriangleCount)
}

func TestDeleteTriangle(t *testing.T) {
	m := squareMesh(t)
	ok := m.DeleteTriangle(0)
	require.True(t, ok)
	assert.Equal(t, 1, m.GetStats().TriangleCount)
	assert.False(t, m.DeleteTriangle(0))
}

func TestFlattenTriangle(t *testing.T) {
	m := squareMesh(t)
	tri := m.Triangles[0]
	var want float64
	for _, v := range tri.V {
		want += m.Vertices[v].Z
	}
	want /= 3

	ok := m.FlattenTriangle(0)
	require.True(t, ok)
	for _, v := range m.Triangles[0].V {
		assert.InDelta(t, want, m.Vertices[v].Z, 1e-12)
	}
}

func TestModifyVertexZ(t *testing.T) {
	m := squareMesh(t)
	require.True(t, m.ModifyVertexZ(0, 99))
	assert.Equal(t, 99.0, m.Vertices[0].Z)
	assert.False(t, m.ModifyVertexZ(-1, 0))
	assert.False(t, m.ModifyVertexZ(1000, 0))
}

func TestUndoRedo(t *testing.T) {
	m := squareMesh(t)
	assert.False(t, m.Undo())
	assert.False(t, m.Redo())

	require.True(t, m.ModifyVertexZ(0, 42))
	assert.True(t, m.CanUndo())

	require.True(t, m.Undo())
	assert.Equal(t, 1.0, m.Vertices[0].Z)
	assert.True(t, m.CanRedo())

	require.True(t, m.Redo())
	assert.Equal(t, 42.0, m.Vertices[0].Z)
}

func TestUndoRestoresTopology(t *testing.T) {
	m := squareMesh(t)
	a, b := diagonalOf(m)
	require.True(t, m.SwapEdge(a, b))
	require.False(t, m.HasEdge(a, b))

	require.True(t, m.Undo())
	assert.True(t, m.HasEdge(a, b))
	assert.Equal(t, 2, m.GetStats().TriangleCount)
}

func TestNewEditClearsRedo(t *testing.T) {
	m := squareMesh(t)
	require.True(t, m.ModifyVertexZ(0, 42))
	require.True(t, m.Undo())
	assert.True(t, m.CanRedo())

	require.True(t, m.ModifyVertexZ(1, 7))
	assert.False(t, m.CanRedo())
}

func TestAddBreakline(t *testing.T) {
	m := squareMesh(t)
	a, _ := diagonalOf(m)
	c, d := 1, 3
	if a == 1 {
		c, d = 0, 2
	}

	// 把对角线换成另一条并声明为特征线
	ok := m.AddBreakline(c, d)
	require.True(t, ok)
	assert.True(t, m.HasEdge(c, d))
	assert.True(t, m.Constrained[Tin.MakeEdgeKey(c, d)])

	// 特征线不可再交换
	assert.False(t, m.SwapEdge(c, d))
}

func TestFindTriangleAt(t *testing.T) {
	m := squareMesh(t)
	ti := m.FindTriangleAt(0.5, 0.5)
	assert.GreaterOrEqual(t, ti, 0)
	assert.Equal(t, -1, m.FindTriangleAt(100, 100))
}

func TestNearestVertex(t *testing.T) {
	m := squareMesh(t)
	assert.Equal(t, 0, m.NearestVertex(0.1, 0.1, 1))
	assert.Equal(t, -1, m.NearestVertex(50, 50, 1))
}

func TestNearestEdge(t *testing.T) {
	m := squareMesh(t)
	k, ok := m.NearestEdge(1, 0.01, 0.1)
	require.True(t, ok)
	assert.Equal(t, Tin.MakeEdgeKey(0, 1), k)

	_, ok = m.NearestEdge(50, 50, 0.1)
	assert.False(t, ok)
}

func TestToTIN(t *testing.T) {
	m := squareMesh(t)
	require.True(t, m.InsertPoint(0.5, 0.2, 5))

	tin := m.ToTIN()
	assert.Equal(t, 5, len(tin.Points))
	assert.Equal(t, m.GetStats().TriangleCount, tin.TriangleCount())
}

func TestHistoryDepthBounded(t *testing.T) {
	m := squareMesh(t)
	for i := 0; i < maxHistoryDepth+10; i++ {
		require.True(t, m.ModifyVertexZ(0, float64(i)))
	}
	undone := 0
	for m.Undo() {
		undone++
	}
	assert.Equal(t, maxHistoryDepth, undone)
}
