package Tin

// Point3D 表示一个三维点
type Point3D struct {
	X, Y, Z float64
	ID      int
}

// Point2D 表示一个二维点
type Point2D struct {
	X, Y float64
	ID   int
}

// Polygon2D 表示一个二维多边形面
type Polygon2D struct {
	Points []*Point2D
}

// EdgeKey 规范化的边键（小索引在前）
type EdgeKey [2]int

func MakeEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{a, b}
}

// TIN 不规则三角网，三角形以顶点索引三元组存储
type TIN struct {
	Points      []*Point3D
	Triangles   [][3]int
	Constrained map[EdgeKey]bool
}

// TriangleCount 返回三角形数量
func (tin *TIN) TriangleCount() int {
	return len(tin.Triangles)
}

// Edges 收集全部去重后的边
func (tin *TIN) Edges() []EdgeKey {
	seen := make(map[EdgeKey]bool)
	var edges []EdgeKey
	for _, t := range tin.Triangles {
		for i := 0; i < 3; i++ {
			k := MakeEdgeKey(t[i], t[(i+1)%3])
			if !seen[k] {
				seen[k] = true
				edges = append(edges, k)
			}
		}
	}
	return edges
}

// HasEdge 判断边是否存在于网中
func (tin *TIN) HasEdge(a, b int) bool {
	k := MakeEdgeKey(a, b)
	for _, t := range tin.Triangles {
		for i := 0; i < 3; i++ {
			if MakeEdgeKey(t[i], t[(i+1)%3]) == k {
				return true
			}
		}
	}
	return false
}

// ZRange 返回高程范围
func (tin *TIN) ZRange() (minZ, maxZ float64) {
	if len(tin.Points) == 0 {
		return 0, 0
	}
	minZ, maxZ = tin.Points[0].Z, tin.Points[0].Z
	for _, p := range tin.Points {
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
	}
	return minZ, maxZ
}
