package Tin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordsToPoint3D(t *testing.T) {
	pts, err := CoordsToPoint3D([][]float64{{1, 2, 3}, {4, 5}})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 3.0, pts[0].Z)
	// 缺少Z时默认0
	assert.Equal(t, 0.0, pts[1].Z)
	assert.Equal(t, 1, pts[1].ID)

	_, err = CoordsToPoint3D(nil)
	assert.Error(t, err)

	_, err = CoordsToPoint3D([][]float64{{1}})
	assert.Error(t, err)
}

func TestGeometryStringToPolygon2D(t *testing.T) {
	geomStr := `{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]]]}`
	poly, err := GeometryStringToPolygon2D(geomStr)
	require.NoError(t, err)
	// 闭合重复点被去掉
	assert.Len(t, poly.Points, 4)

	assert.True(t, poly.ContainsPoint(2, 2))
	assert.False(t, poly.ContainsPoint(5, 5))
}

func TestGeometryStringToPolygon2DMultiPolygon(t *testing.T) {
	geomStr := `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,1],[0,0]]],[[[10,10],[11,10],[11,11],[10,11],[10,10]]]]}`
	poly, err := GeometryStringToPolygon2D(geomStr)
	require.NoError(t, err)
	assert.True(t, poly.ContainsPoint(0.5, 0.5))
	assert.False(t, poly.ContainsPoint(10.5, 10.5))
}

func TestGeometryStringToMultiPolygon2D(t *testing.T) {
	geomStr := `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,1],[0,0]]],[[[10,10],[11,10],[11,11],[10,11],[10,10]]]]}`
	polys, err := GeometryStringToMultiPolygon2D(geomStr)
	require.NoError(t, err)
	require.Len(t, polys, 2)
	assert.True(t, polys[1].ContainsPoint(10.5, 10.5))
}

func TestGeometryStringToBreaklines(t *testing.T) {
	geomStr := `{"type":"LineString","coordinates":[[0,0],[1,1],[2,0]]}`
	lines, err := GeometryStringToBreaklines(geomStr)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 3)

	geomStr = `{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2],[3,3]]]}`
	lines, err = GeometryStringToBreaklines(geomStr)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	_, err = GeometryStringToBreaklines(`{"type":"Point","coordinates":[0,0]}`)
	assert.Error(t, err)
}

func TestGeometryStringInvalid(t *testing.T) {
	_, err := GeometryStringToPolygon2D(`not json`)
	assert.Error(t, err)

	_, err = GeometryStringToPolygon2D(`{"type":"Polygon","coordinates":[]}`)
	assert.Error(t, err)

	_, err = GeometryStringToPolygon2D(`{"type":"Circle","coordinates":[0,0]}`)
	assert.Error(t, err)
}

func TestContainsPointOnRayEdgeCases(t *testing.T) {
	poly := &Polygon2D{Points: []*Point2D{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	}}
	assert.True(t, poly.ContainsPoint(1, 1))
	assert.False(t, poly.ContainsPoint(-1, 1))
	assert.False(t, poly.ContainsPoint(1, 5))
}
