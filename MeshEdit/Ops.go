package MeshEdit

import (
	"math"
	"sort"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// 网格编辑中翻边循环的迭代上限
const (
	maxInsertFlips    = 256
	maxBreaklineFlips = 4096
)

func crossZ(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
}

// segmentsCross 两条线段是否严格相交（不含端点相触）
func (m *Mesh) segmentsCross(a, b, c, d int) bool {
	pa, pb := m.Vertices[a], m.Vertices[b]
	pc, pd := m.Vertices[c], m.Vertices[d]
	o1 := crossZ(pa.X, pa.Y, pb.X, pb.Y, pc.X, pc.Y)
	o2 := crossZ(pa.X, pa.Y, pb.X, pb.Y, pd.X, pd.Y)
	o3 := crossZ(pc.X, pc.Y, pd.X, pd.Y, pa.X, pa.Y)
	o4 := crossZ(pc.X, pc.Y, pd.X, pd.Y, pb.X, pb.Y)
	return ((o1 > 0 && o2 < 0) || (o1 < 0 && o2 > 0)) &&
		((o3 > 0 && o4 < 0) || (o3 < 0 && o4 > 0))
}

func oppositeOf(v [3]int, a, b int) int {
	for i := 0; i < 3; i++ {
		if v[i] != a && v[i] != b {
			return v[i]
		}
	}
	return -1
}

// liveEdgeTriangles 边两侧的活三角形
func (m *Mesh) liveEdgeTriangles(k Tin.EdgeKey) []int {
	var out []int
	for _, ti := range m.edgeTris[k] {
		if m.Triangles[ti].Alive {
			out = append(out, ti)
		}
	}
	return out
}

// HasEdge 判断边在当前网格中是否存在
func (m *Mesh) HasEdge(a, b int) bool {
	return len(m.liveEdgeTriangles(Tin.MakeEdgeKey(a, b))) > 0
}

// SwapEdge 翻转边(a,b)
// 要求边存在且非约束、两侧三角形都未锁定、对角四边形为凸
func (m *Mesh) SwapEdge(a, b int) bool {
	k := Tin.MakeEdgeKey(a, b)
	if m.Constrained[k] {
		return false
	}
	tris := m.liveEdgeTriangles(k)
	if len(tris) != 2 {
		return false
	}
	if m.Triangles[tris[0]].Locked || m.Triangles[tris[1]].Locked {
		return false
	}
	c := oppositeOf(m.Triangles[tris[0]].V, a, b)
	d := oppositeOf(m.Triangles[tris[1]].V, a, b)
	if c < 0 || d < 0 {
		return false
	}
	if !m.segmentsCross(a, b, c, d) {
		return false
	}

	m.beginEdit()
	m.killTriangle(tris[0])
	m.killTriangle(tris[1])
	m.allocTriangle(c, d, a)
	m.allocTriangle(c, d, b)
	m.rebuildAdjacency()
	return true
}

// InsertPoint 在(x,y)处插入新顶点
// 定位包含三角形后三分裂，再从新点的对边开始做栈式传播的局部Delaunay恢复
func (m *Mesh) InsertPoint(x, y, z float64) bool {
	ti := m.FindTriangleAt(x, y)
	if ti < 0 {
		return false
	}
	if m.Triangles[ti].Locked {
		return false
	}

	m.beginEdit()
	v := m.allocVertex(x, y, z)
	tv := m.Triangles[ti].V
	m.killTriangle(ti)
	m.allocTriangle(tv[0], tv[1], v)
	m.allocTriangle(tv[1], tv[2], v)
	m.allocTriangle(tv[2], tv[0], v)
	m.rebuildAdjacency()

	// 待检查的新点对边栈
	stack := []Tin.EdgeKey{
		Tin.MakeEdgeKey(tv[0], tv[1]),
		Tin.MakeEdgeKey(tv[1], tv[2]),
		Tin.MakeEdgeKey(tv[2], tv[0]),
	}
	for iter := 0; len(stack) > 0 && iter < maxInsertFlips; iter++ {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if m.Constrained[e] {
			continue
		}

		tris := m.liveEdgeTriangles(e)
		if len(tris) != 2 {
			continue
		}
		var mine, other = -1, -1
		for _, t := range tris {
			if oppositeOf(m.Triangles[t].V, e[0], e[1]) == v {
				mine = t
			} else {
				other = t
			}
		}
		if mine < 0 || other < 0 {
			continue
		}
		if m.Triangles[mine].Locked || m.Triangles[other].Locked {
			continue
		}
		if !m.vertexInCircumcircle(other, v) {
			continue
		}
		w := oppositeOf(m.Triangles[other].V, e[0], e[1])
		if w < 0 || !m.segmentsCross(e[0], e[1], v, w) {
			continue
		}

		m.killTriangle(mine)
		m.killTriangle(other)
		m.allocTriangle(v, e[0], w)
		m.allocTriangle(v, w, e[1])
		m.rebuildAdjacency()
		stack = append(stack, Tin.MakeEdgeKey(e[0], w), Tin.MakeEdgeKey(w, e[1]))
	}
	return true
}

// DeletePoint 删除顶点：收集关联三角形，边界环按方位角排序后扇形补洞
func (m *Mesh) DeletePoint(vi int) bool {
	if vi < 0 || vi >= len(m.Vertices) || !m.Vertices[vi].Alive {
		return false
	}

	var incident []int
	seen := make(map[int]bool)
	for _, ti := range m.vertTris[vi] {
		if m.Triangles[ti].Alive && !seen[ti] {
			seen[ti] = true
			incident = append(incident, ti)
		}
	}
	if len(incident) == 0 {
		return false
	}
	for _, ti := range incident {
		if m.Triangles[ti].Locked {
			return false
		}
	}

	// 边界环顶点
	ringSet := make(map[int]bool)
	for _, ti := range incident {
		for _, w := range m.Triangles[ti].V {
			if w != vi {
				ringSet[w] = true
			}
		}
	}
	ring := make([]int, 0, len(ringSet))
	for w := range ringSet {
		ring = append(ring, w)
	}

	// 按相对被删点的方位角排序
	cx, cy := m.Vertices[vi].X, m.Vertices[vi].Y
	sort.Slice(ring, func(i, j int) bool {
		ai := math.Atan2(m.Vertices[ring[i]].Y-cy, m.Vertices[ring[i]].X-cx)
		aj := math.Atan2(m.Vertices[ring[j]].Y-cy, m.Vertices[ring[j]].X-cx)
		return ai < aj
	})

	m.beginEdit()
	for _, ti := range incident {
		m.killTriangle(ti)
	}
	m.killVertex(vi)

	// 扇形重构补洞
	for i := 1; i < len(ring)-1; i++ {
		p0 := m.Vertices[ring[0]]
		p1 := m.Vertices[ring[i]]
		p2 := m.Vertices[ring[i+1]]
		if math.Abs(crossZ(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)) < 1e-12 {
			continue
		}
		m.allocTriangle(ring[0], ring[i], ring[i+1])
	}
	m.rebuildAdjacency()
	return true
}

// DeleteTriangle 删除一个三角形
func (m *Mesh) DeleteTriangle(ti int) bool {
	if ti < 0 || ti >= len(m.Triangles) || !m.Triangles[ti].Alive || m.Triangles[ti].Locked {
		return false
	}
	m.beginEdit()
	m.killTriangle(ti)
	m.rebuildAdjacency()
	return true
}

// FlattenTriangle 把三角形三个顶点的高程拉平为其均值
func (m *Mesh) FlattenTriangle(ti int) bool {
	if ti < 0 || ti >= len(m.Triangles) || !m.Triangles[ti].Alive || m.Triangles[ti].Locked {
		return false
	}
	v := m.Triangles[ti].V
	avg := (m.Vertices[v[0]].Z + m.Vertices[v[1]].Z + m.Vertices[v[2]].Z) / 3

	m.beginEdit()
	m.Vertices[v[0]].Z = avg
	m.Vertices[v[1]].Z = avg
	m.Vertices[v[2]].Z = avg
	return true
}

// ModifyVertexZ 修改单个顶点的高程
func (m *Mesh) ModifyVertexZ(vi int, z float64) bool {
	if vi < 0 || vi >= len(m.Vertices) || !m.Vertices[vi].Alive {
		return false
	}
	m.beginEdit()
	m.Vertices[vi].Z = z
	return true
}

// LockTriangle 设置三角形锁定状态，锁定的三角形不会被编辑操作改动
func (m *Mesh) LockTriangle(ti int, locked bool) bool {
	if ti < 0 || ti >= len(m.Triangles) || !m.Triangles[ti].Alive {
		return false
	}
	m.beginEdit()
	m.Triangles[ti].Locked = locked
	return true
}

// findCrossingEdges 与线段(a,b)严格相交的活网边
func (m *Mesh) findCrossingEdges(a, b int) []Tin.EdgeKey {
	seen := make(map[Tin.EdgeKey]bool)
	var out []Tin.EdgeKey
	for ti := range m.Triangles {
		if !m.Triangles[ti].Alive {
			continue
		}
		v := m.Triangles[ti].V
		for i := 0; i < 3; i++ {
			ea, eb := v[i], v[(i+1)%3]
			if ea == a || ea == b || eb == a || eb == b {
				continue
			}
			k := Tin.MakeEdgeKey(ea, eb)
			if seen[k] {
				continue
			}
			if m.segmentsCross(a, b, ea, eb) {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// AddBreakline 在活网格上嵌入特征线(a,b)，流程与构网时的约束边嵌入一致
// 成功后边被标记为约束；迭代超限时保留尽力而为的结果并返回false
func (m *Mesh) AddBreakline(a, b int) bool {
	if a == b || a < 0 || b < 0 || a >= len(m.Vertices) || b >= len(m.Vertices) {
		return false
	}
	if !m.Vertices[a].Alive || !m.Vertices[b].Alive {
		return false
	}

	m.beginEdit()
	if m.HasEdge(a, b) {
		m.Constrained[Tin.MakeEdgeKey(a, b)] = true
		return true
	}

	queue := m.findCrossingEdges(a, b)
	for iter := 0; len(queue) > 0 && iter < maxBreaklineFlips; iter++ {
		e := queue[0]
		queue = queue[1:]
		if m.Constrained[e] {
			continue
		}

		tris := m.liveEdgeTriangles(e)
		if len(tris) != 2 {
			continue
		}
		if m.Triangles[tris[0]].Locked || m.Triangles[tris[1]].Locked {
			continue
		}
		c := oppositeOf(m.Triangles[tris[0]].V, e[0], e[1])
		d := oppositeOf(m.Triangles[tris[1]].V, e[0], e[1])
		if c < 0 || d < 0 {
			continue
		}

		if m.segmentsCross(e[0], e[1], c, d) {
			m.killTriangle(tris[0])
			m.killTriangle(tris[1])
			m.allocTriangle(c, d, e[0])
			m.allocTriangle(c, d, e[1])
			m.rebuildAdjacency()
			if c != a && c != b && d != a && d != b && m.segmentsCross(a, b, c, d) {
				queue = append(queue, Tin.MakeEdgeKey(c, d))
			}
		} else {
			// 四边形非凸，放回队尾等局部形状变化后再试
			queue = append(queue, e)
		}

		if m.HasEdge(a, b) {
			m.Constrained[Tin.MakeEdgeKey(a, b)] = true
			return true
		}
		if len(queue) == 0 {
			queue = m.findCrossingEdges(a, b)
		}
	}

	if m.HasEdge(a, b) {
		m.Constrained[Tin.MakeEdgeKey(a, b)] = true
		return true
	}
	return false
}
