package MeshEdit

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// FindTriangleAt 返回包含(x,y)的活三角形id，找不到返回-1
// 用带容差的重心坐标符号判断
func (m *Mesh) FindTriangleAt(x, y float64) int {
	const eps = 1e-10
	for ti := range m.Triangles {
		if !m.Triangles[ti].Alive {
			continue
		}
		v := m.Triangles[ti].V
		p1, p2, p3 := m.Vertices[v[0]], m.Vertices[v[1]], m.Vertices[v[2]]

		denominator := (p2.Y-p3.Y)*(p1.X-p3.X) + (p3.X-p2.X)*(p1.Y-p3.Y)
		if math.Abs(denominator) < 1e-10 {
			continue
		}
		a := ((p2.Y-p3.Y)*(x-p3.X) + (p3.X-p2.X)*(y-p3.Y)) / denominator
		b := ((p3.Y-p1.Y)*(x-p3.X) + (p1.X-p3.X)*(y-p3.Y)) / denominator
		c := 1 - a - b
		if a >= -eps && b >= -eps && c >= -eps {
			return ti
		}
	}
	return -1
}

// NearestVertex 在容差tol内查找距(x,y)最近的活顶点，找不到返回-1
func (m *Mesh) NearestVertex(x, y, tol float64) int {
	best := -1
	bestDist := tol
	for vi := range m.Vertices {
		if !m.Vertices[vi].Alive {
			continue
		}
		dx := m.Vertices[vi].X - x
		dy := m.Vertices[vi].Y - y
		d := math.Sqrt(dx*dx + dy*dy)
		if d <= bestDist {
			bestDist = d
			best = vi
		}
	}
	return best
}

// pointSegmentDistance 点到线段的距离
func pointSegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Sqrt((px-ax)*(px-ax) + (py-ay)*(py-ay))
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	cx := ax + t*dx
	cy := ay + t*dy
	return math.Sqrt((px-cx)*(px-cx) + (py-cy)*(py-cy))
}

// NearestEdge 在容差tol内查找距(x,y)最近的活网边，找不到返回零值和false
func (m *Mesh) NearestEdge(x, y, tol float64) (Tin.EdgeKey, bool) {
	var best Tin.EdgeKey
	found := false
	bestDist := tol

	seen := make(map[Tin.EdgeKey]bool)
	for ti := range m.Triangles {
		if !m.Triangles[ti].Alive {
			continue
		}
		v := m.Triangles[ti].V
		for i := 0; i < 3; i++ {
			k := Tin.MakeEdgeKey(v[i], v[(i+1)%3])
			if seen[k] {
				continue
			}
			seen[k] = true
			pa, pb := m.Vertices[k[0]], m.Vertices[k[1]]
			d := pointSegmentDistance(x, y, pa.X, pa.Y, pb.X, pb.Y)
			if d <= bestDist {
				bestDist = d
				best = k
				found = true
			}
		}
	}
	return best, found
}
