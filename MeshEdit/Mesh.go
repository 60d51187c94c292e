package MeshEdit

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// 撤销/重做栈的最大深度，超出时丢弃最老的快照
const maxHistoryDepth = 20

// Vertex 网格顶点，按整数id寻址
type Vertex struct {
	X, Y, Z float64
	Alive   bool
}

// Triangle 网格三角形，Locked的三角形不参与翻边
type Triangle struct {
	V      [3]int
	Alive  bool
	Locked bool
}

// Mesh 可交互编辑的三角网
// 顶点与三角形存放在索引稳定的数组里，删除走空闲链回收，不产生引用环
// 单写者使用，调用方负责串行化
type Mesh struct {
	Vertices    []Vertex
	Triangles   []Triangle
	Constrained map[Tin.EdgeKey]bool

	freeVerts []int
	freeTris  []int

	// 邻接索引，每次编辑后同步重建
	edgeTris map[Tin.EdgeKey][]int
	vertTris map[int][]int

	undo []*snapshot
	redo []*snapshot
}

// snapshot 全量状态快照
type snapshot struct {
	vertices    []Vertex
	triangles   []Triangle
	constrained map[Tin.EdgeKey]bool
	freeVerts   []int
	freeTris    []int
}

// BuildMesh 从TIN构建可编辑网格，一次性建立全部邻接索引
func BuildMesh(tin *Tin.TIN) *Mesh {
	m := &Mesh{
		Constrained: make(map[Tin.EdgeKey]bool),
	}
	m.Vertices = make([]Vertex, len(tin.Points))
	for i, p := range tin.Points {
		m.Vertices[i] = Vertex{X: p.X, Y: p.Y, Z: p.Z, Alive: true}
	}
	m.Triangles = make([]Triangle, len(tin.Triangles))
	for i, t := range tin.Triangles {
		m.Triangles[i] = Triangle{V: t, Alive: true}
	}
	for k, v := range tin.Constrained {
		if v {
			m.Constrained[k] = true
		}
	}
	m.rebuildAdjacency()
	return m
}

// rebuildAdjacency 重建边和顶点到三角形的映射
func (m *Mesh) rebuildAdjacency() {
	m.edgeTris = make(map[Tin.EdgeKey][]int)
	m.vertTris = make(map[int][]int)
	for ti := range m.Triangles {
		if !m.Triangles[ti].Alive {
			continue
		}
		v := m.Triangles[ti].V
		for i := 0; i < 3; i++ {
			k := Tin.MakeEdgeKey(v[i], v[(i+1)%3])
			m.edgeTris[k] = append(m.edgeTris[k], ti)
			m.vertTris[v[i]] = append(m.vertTris[v[i]], ti)
		}
	}
}

func (m *Mesh) takeSnapshot() *snapshot {
	s := &snapshot{
		vertices:    make([]Vertex, len(m.Vertices)),
		triangles:   make([]Triangle, len(m.Triangles)),
		constrained: make(map[Tin.EdgeKey]bool, len(m.Constrained)),
		freeVerts:   append([]int(nil), m.freeVerts...),
		freeTris:    append([]int(nil), m.freeTris...),
	}
	copy(s.vertices, m.Vertices)
	copy(s.triangles, m.Triangles)
	for k, v := range m.Constrained {
		s.constrained[k] = v
	}
	return s
}

func (m *Mesh) restoreSnapshot(s *snapshot) {
	m.Vertices = make([]Vertex, len(s.vertices))
	copy(m.Vertices, s.vertices)
	m.Triangles = make([]Triangle, len(s.triangles))
	copy(m.Triangles, s.triangles)
	m.Constrained = make(map[Tin.EdgeKey]bool, len(s.constrained))
	for k, v := range s.constrained {
		m.Constrained[k] = v
	}
	m.freeVerts = append([]int(nil), s.freeVerts...)
	m.freeTris = append([]int(nil), s.freeTris...)
	m.rebuildAdjacency()
}

// beginEdit 每次变更前压入撤销快照并清空重做栈
func (m *Mesh) beginEdit() {
	m.undo = append(m.undo, m.takeSnapshot())
	if len(m.undo) > maxHistoryDepth {
		m.undo = m.undo[1:]
	}
	m.redo = nil
}

// Undo 撤销上一次编辑
func (m *Mesh) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	m.redo = append(m.redo, m.takeSnapshot())
	if len(m.redo) > maxHistoryDepth {
		m.redo = m.redo[1:]
	}
	s := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.restoreSnapshot(s)
	return true
}

// Redo 重做上一次撤销
func (m *Mesh) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	m.undo = append(m.undo, m.takeSnapshot())
	if len(m.undo) > maxHistoryDepth {
		m.undo = m.undo[1:]
	}
	s := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.restoreSnapshot(s)
	return true
}

// CanUndo 是否可撤销
func (m *Mesh) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo 是否可重做
func (m *Mesh) CanRedo() bool { return len(m.redo) > 0 }

// allocVertex 分配顶点id，优先复用空闲链
func (m *Mesh) allocVertex(x, y, z float64) int {
	if n := len(m.freeVerts); n > 0 {
		id := m.freeVerts[n-1]
		m.freeVerts = m.freeVerts[:n-1]
		m.Vertices[id] = Vertex{X: x, Y: y, Z: z, Alive: true}
		return id
	}
	m.Vertices = append(m.Vertices, Vertex{X: x, Y: y, Z: z, Alive: true})
	return len(m.Vertices) - 1
}

// allocTriangle 分配三角形id，优先复用空闲链
func (m *Mesh) allocTriangle(a, b, c int) int {
	if n := len(m.freeTris); n > 0 {
		id := m.freeTris[n-1]
		m.freeTris = m.freeTris[:n-1]
		m.Triangles[id] = Triangle{V: [3]int{a, b, c}, Alive: true}
		return id
	}
	m.Triangles = append(m.Triangles, Triangle{V: [3]int{a, b, c}, Alive: true})
	return len(m.Triangles) - 1
}

// killTriangle 标记三角形死亡并回收id
func (m *Mesh) killTriangle(ti int) {
	if m.Triangles[ti].Alive {
		m.Triangles[ti].Alive = false
		m.freeTris = append(m.freeTris, ti)
	}
}

// killVertex 标记顶点死亡并回收id
func (m *Mesh) killVertex(vi int) {
	if m.Vertices[vi].Alive {
		m.Vertices[vi].Alive = false
		m.freeVerts = append(m.freeVerts, vi)
	}
}

// Stats 网格概要统计
type Stats struct {
	VertexCount      int  `json:"vertex_count"`
	TriangleCount    int  `json:"triangle_count"`
	LockedCount      int  `json:"locked_count"`
	ConstrainedCount int  `json:"constrained_count"`
	CanUndo          bool `json:"can_undo"`
	CanRedo          bool `json:"can_redo"`
}

// GetStats 返回网格概要
func (m *Mesh) GetStats() Stats {
	s := Stats{CanUndo: m.CanUndo(), CanRedo: m.CanRedo()}
	for _, v := range m.Vertices {
		if v.Alive {
			s.VertexCount++
		}
	}
	for _, t := range m.Triangles {
		if t.Alive {
			s.TriangleCount++
			if t.Locked {
				s.LockedCount++
			}
		}
	}
	s.ConstrainedCount = len(m.Constrained)
	return s
}

// ToTIN 把当前网格导出为TIN供后续采样或等值线提取
func (m *Mesh) ToTIN() *Tin.TIN {
	tin := &Tin.TIN{Constrained: make(map[Tin.EdgeKey]bool)}

	remap := make(map[int]int)
	for vi := range m.Vertices {
		if !m.Vertices[vi].Alive {
			continue
		}
		remap[vi] = len(tin.Points)
		tin.Points = append(tin.Points, &Tin.Point3D{
			X: m.Vertices[vi].X, Y: m.Vertices[vi].Y, Z: m.Vertices[vi].Z,
			ID: len(tin.Points),
		})
	}
	for ti := range m.Triangles {
		if !m.Triangles[ti].Alive {
			continue
		}
		v := m.Triangles[ti].V
		tin.Triangles = append(tin.Triangles, [3]int{remap[v[0]], remap[v[1]], remap[v[2]]})
	}
	for k, ok := range m.Constrained {
		if !ok {
			continue
		}
		a, aok := remap[k[0]]
		b, bok := remap[k[1]]
		if aok && bok {
			tin.Constrained[Tin.MakeEdgeKey(a, b)] = true
		}
	}
	return tin
}

// circumcircleOf 网格三角形的外接圆
func (m *Mesh) circumcircleOf(ti int) (cx, cy, r float64) {
	v := m.Triangles[ti].V
	p1, p2, p3 := m.Vertices[v[0]], m.Vertices[v[1]], m.Vertices[v[2]]

	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < 1e-10 {
		return 0, 0, math.Inf(1)
	}
	ux := (p1.X*p1.X+p1.Y*p1.Y)*(p2.Y-p3.Y) + (p2.X*p2.X+p2.Y*p2.Y)*(p3.Y-p1.Y) + (p3.X*p3.X+p3.Y*p3.Y)*(p1.Y-p2.Y)
	uy := (p1.X*p1.X+p1.Y*p1.Y)*(p3.X-p2.X) + (p2.X*p2.X+p2.Y*p2.Y)*(p1.X-p3.X) + (p3.X*p3.X+p3.Y*p3.Y)*(p2.X-p1.X)
	cx = ux / d
	cy = uy / d
	r = math.Sqrt((cx-p1.X)*(cx-p1.X) + (cy-p1.Y)*(cy-p1.Y))
	return cx, cy, r
}

// vertexInCircumcircle 顶点是否位于三角形外接圆内
func (m *Mesh) vertexInCircumcircle(ti, vi int) bool {
	cx, cy, r := m.circumcircleOf(ti)
	if math.IsInf(r, 1) {
		return false
	}
	p := m.Vertices[vi]
	dist := math.Sqrt((p.X-cx)*(p.X-cx) + (p.Y-cy)*(p.Y-cy))
	return dist < r
}
