package Tin

import (
	"fmt"
	"math"
)

// 计算重心坐标，退化三角形返回ok=false
func barycentric(px, py float64, p1, p2, p3 *Point3D) (a, b, c float64, ok bool) {
	denominator := (p2.Y-p3.Y)*(p1.X-p3.X) + (p3.X-p2.X)*(p1.Y-p3.Y)
	if math.Abs(denominator) < 1e-10 {
		return 0, 0, 0, false
	}
	a = ((p2.Y-p3.Y)*(px-p3.X) + (p3.X-p2.X)*(py-p3.Y)) / denominator
	b = ((p3.Y-p1.Y)*(px-p3.X) + (p1.X-p3.X)*(py-p3.Y)) / denominator
	c = 1 - a - b
	return a, b, c, true
}

// PointInTriangle 判断二维点是否在第ti个三角形内部（基于重心坐标）
func (tin *TIN) PointInTriangle(px, py float64, ti int) bool {
	t := tin.Triangles[ti]
	a, b, c, ok := barycentric(px, py, tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]])
	if !ok {
		return false
	}
	const eps = 1e-10
	return a >= -eps && b >= -eps && c >= -eps
}

// InterpolateZ 使用重心坐标在第ti个三角形内插值高程
func (tin *TIN) InterpolateZ(px, py float64, ti int) float64 {
	t := tin.Triangles[ti]
	p1, p2, p3 := tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]]
	a, b, c, ok := barycentric(px, py, p1, p2, p3)
	if !ok {
		// 三角形退化，返回平均高程
		return (p1.Z + p2.Z + p3.Z) / 3.0
	}
	return a*p1.Z + b*p2.Z + c*p3.Z
}

// TriangleLocator 按包围盒把三角形挂入均匀格网桶，加速定位
type TriangleLocator struct {
	tin        *TIN
	minX, minY float64
	cell       float64
	nx, ny     int
	buckets    [][]int
}

// NewTriangleLocator 构建三角形定位索引
func NewTriangleLocator(tin *TIN) *TriangleLocator {
	tl := &TriangleLocator{tin: tin}
	if len(tin.Triangles) == 0 || len(tin.Points) == 0 {
		tl.nx, tl.ny = 1, 1
		tl.cell = 1
		tl.buckets = make([][]int, 1)
		return tl
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range tin.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	extent := math.Max(maxX-minX, maxY-minY)
	if extent <= 0 {
		extent = 1
	}
	div := math.Sqrt(float64(len(tin.Triangles)))
	if div < 1 {
		div = 1
	}
	tl.cell = extent / div
	tl.minX, tl.minY = minX, minY
	tl.nx = int((maxX-minX)/tl.cell) + 1
	tl.ny = int((maxY-minY)/tl.cell) + 1
	tl.buckets = make([][]int, tl.nx*tl.ny)

	for ti, t := range tin.Triangles {
		p1, p2, p3 := tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]]
		bMinX := math.Min(p1.X, math.Min(p2.X, p3.X))
		bMaxX := math.Max(p1.X, math.Max(p2.X, p3.X))
		bMinY := math.Min(p1.Y, math.Min(p2.Y, p3.Y))
		bMaxY := math.Max(p1.Y, math.Max(p2.Y, p3.Y))

		c0 := tl.clampCol(int((bMinX - minX) / tl.cell))
		c1 := tl.clampCol(int((bMaxX - minX) / tl.cell))
		r0 := tl.clampRow(int((bMinY - minY) / tl.cell))
		r1 := tl.clampRow(int((bMaxY - minY) / tl.cell))
		for r := r0; r <= r1; r++ {
			for col := c0; col <= c1; col++ {
				idx := r*tl.nx + col
				tl.buckets[idx] = append(tl.buckets[idx], ti)
			}
		}
	}
	return tl
}

func (tl *TriangleLocator) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= tl.nx {
		return tl.nx - 1
	}
	return c
}

func (tl *TriangleLocator) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= tl.ny {
		return tl.ny - 1
	}
	return r
}

// Locate 返回包含该点的三角形索引，位于凸包之外返回-1
func (tl *TriangleLocator) Locate(x, y float64) int {
	if len(tl.tin.Triangles) == 0 {
		return -1
	}
	col := tl.clampCol(int((x - tl.minX) / tl.cell))
	row := tl.clampRow(int((y - tl.minY) / tl.cell))
	for _, ti := range tl.buckets[row*tl.nx+col] {
		if tl.tin.PointInTriangle(x, y, ti) {
			return ti
		}
	}
	return -1
}

// GetElevationAt 获取二维点在TIN表面上的投影高程
func (tin *TIN) GetElevationAt(x, y float64) (float64, error) {
	for ti := range tin.Triangles {
		if tin.PointInTriangle(x, y, ti) {
			return tin.InterpolateZ(x, y, ti), nil
		}
	}
	return 0, fmt.Errorf("point (%.2f, %.2f) is not inside any triangle of the TIN", x, y)
}

// TriangleArea 计算第ti个三角形的三维表面积
func (tin *TIN) TriangleArea(ti int) float64 {
	t := tin.Triangles[ti]
	p1, p2, p3 := tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]]

	v1x, v1y, v1z := p2.X-p1.X, p2.Y-p1.Y, p2.Z-p1.Z
	v2x, v2y, v2z := p3.X-p1.X, p3.Y-p1.Y, p3.Z-p1.Z

	cx := v1y*v2z - v1z*v2y
	cy := v1z*v2x - v1x*v2z
	cz := v1x*v2y - v1y*v2x

	return math.Sqrt(cx*cx+cy*cy+cz*cz) / 2.0
}

// TriangleNormal 计算第ti个三角形的单位法向量
func (tin *TIN) TriangleNormal(ti int) (float64, float64, float64) {
	t := tin.Triangles[ti]
	p1, p2, p3 := tin.Points[t[0]], tin.Points[t[1]], tin.Points[t[2]]

	v1x, v1y, v1z := p2.X-p1.X, p2.Y-p1.Y, p2.Z-p1.Z
	v2x, v2y, v2z := p3.X-p1.X, p3.Y-p1.Y, p3.Z-p1.Z

	nx := v1y*v2z - v1z*v2y
	ny := v1z*v2x - v1x*v2z
	nz := v1x*v2y - v1y*v2x

	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length > 0 {
		nx /= length
		ny /= length
		nz /= length
	}
	return nx, ny, nz
}

func edgeLength(p1, p2 *Point3D) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// boundaryEdges 统计每条边被几个三角形使用，只被一个使用的是边界边
func boundaryEdgeMap(tris [][3]int, removed map[int]bool) map[EdgeKey][]int {
	use := make(map[EdgeKey][]int)
	for ti, t := range tris {
		if removed[ti] {
			continue
		}
		for i := 0; i < 3; i++ {
			k := MakeEdgeKey(t[i], t[(i+1)%3])
			use[k] = append(use[k], ti)
		}
	}
	boundary := make(map[EdgeKey][]int)
	for k, owners := range use {
		if len(owners) == 1 {
			boundary[k] = owners
		}
	}
	return boundary
}

// ConcaveHull 从Delaunay边界向内"啃食"长边得到凹壳轮廓
// 掘进阈值为 平均边长 × (1.2 − concavity)，经验常数
// 返回按顺序连接的轮廓顶点索引环
func (tin *TIN) ConcaveHull(concavity float64) []int {
	if len(tin.Triangles) == 0 {
		return nil
	}

	var totalLen float64
	edges := tin.Edges()
	for _, e := range edges {
		totalLen += edgeLength(tin.Points[e[0]], tin.Points[e[1]])
	}
	meanEdgeLength := totalLen / float64(len(edges))
	threshold := meanEdgeLength * (1.2 - concavity)

	removed := make(map[int]bool)
	for {
		boundary := boundaryEdgeMap(tin.Triangles, removed)
		ate := false
		for k, owners := range boundary {
			if edgeLength(tin.Points[k[0]], tin.Points[k[1]]) <= threshold {
				continue
			}
			ti := owners[0]
			opp := oppositeVertex(tin.Triangles[ti], k[0], k[1])
			if opp < 0 {
				continue
			}
			// 对侧顶点已在边界上时移除会捏断轮廓，跳过
			onBoundary := false
			for bk := range boundary {
				if bk[0] == opp || bk[1] == opp {
					onBoundary = true
					break
				}
			}
			if onBoundary {
				continue
			}
			removed[ti] = true
			ate = true
			break
		}
		if !ate {
			break
		}
	}

	// 把剩余边界边串成顶点环
	boundary := boundaryEdgeMap(tin.Triangles, removed)
	next := make(map[int][]int)
	for k := range boundary {
		next[k[0]] = append(next[k[0]], k[1])
		next[k[1]] = append(next[k[1]], k[0])
	}

	var start int = -1
	for v := range next {
		start = v
		break
	}
	if start < 0 {
		return nil
	}

	ring := []int{start}
	visited := map[EdgeKey]bool{}
	cur := start
	for {
		advanced := false
		for _, nb := range next[cur] {
			k := MakeEdgeKey(cur, nb)
			if visited[k] {
				continue
			}
			visited[k] = true
			if nb == start {
				return ring
			}
			ring = append(ring, nb)
			cur = nb
			advanced = true
			break
		}
		if !advanced {
			return ring
		}
	}
}
