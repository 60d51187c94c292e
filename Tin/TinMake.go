package Tin

import (
	"math"
	"sort"
)

// 计算三角形外接圆圆心和半径（基于XY平面投影）
func circumcircle(ax, ay, bx, by, cx, cy float64) (ox, oy, r float64) {
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-10 {
		// 近共线三角形：半径记为无穷大，永远不会被选为坏三角形
		return 0, 0, math.Inf(1)
	}

	ux := (ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)
	uy := (ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)

	ox = ux / d
	oy = uy / d
	r = math.Sqrt((ox-ax)*(ox-ax) + (oy-ay)*(oy-ay))

	return ox, oy, r
}

// workTri 构网过程中的工作三角形，缓存外接圆
type workTri struct {
	v         [3]int
	cx, cy, r float64
	alive     bool
}

type triangulator struct {
	pts  []*Point3D // 输入点 + 末尾3个超级三角形顶点
	n    int        // 真实点数量
	tris []workTri
}

func (tb *triangulator) newTriangle(a, b, c int) {
	ox, oy, r := circumcircle(
		tb.pts[a].X, tb.pts[a].Y,
		tb.pts[b].X, tb.pts[b].Y,
		tb.pts[c].X, tb.pts[c].Y)
	tb.tris = append(tb.tris, workTri{v: [3]int{a, b, c}, cx: ox, cy: oy, r: r, alive: true})
}

// 判断点是否在三角形外接圆内
func (tb *triangulator) inCircumcircle(ti, pi int) bool {
	t := &tb.tris[ti]
	if math.IsInf(t.r, 1) {
		return false
	}
	p := tb.pts[pi]
	dist := math.Sqrt((p.X-t.cx)*(p.X-t.cx) + (p.Y-t.cy)*(p.Y-t.cy))
	return dist < t.r
}

// 创建超级三角形顶点，约为点集范围的20倍
func makeSuperVertices(points []*Point3D) (p1, p2, p3 *Point3D) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	dx := maxX - minX
	dy := maxY - minY
	deltaMax := math.Max(dx, dy)
	if deltaMax == 0 {
		deltaMax = 1
	}
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2

	p1 = &Point3D{X: midX - 20*deltaMax, Y: midY - deltaMax, Z: 0, ID: -1}
	p2 = &Point3D{X: midX, Y: midY + 20*deltaMax, Z: 0, ID: -2}
	p3 = &Point3D{X: midX + 20*deltaMax, Y: midY - deltaMax, Z: 0, ID: -3}
	return p1, p2, p3
}

// binSortOrder 按Sloan的分箱方式排列插入顺序，提升局部性
func binSortOrder(points []*Point3D) []int {
	n := len(points)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n < 4 {
		return order
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	w := maxX - minX
	h := maxY - minY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	ndiv := int(math.Pow(float64(n), 0.25) + 0.5)
	if ndiv < 1 {
		ndiv = 1
	}

	bin := make([]int, n)
	for i, p := range points {
		row := int(float64(ndiv) * (p.Y - minY) / h * 0.999)
		col := int(float64(ndiv) * (p.X - minX) / w * 0.999)
		// 蛇形编号，相邻箱在空间上也相邻
		if row%2 == 0 {
			bin[i] = row*ndiv + col
		} else {
			bin[i] = (row+1)*ndiv - col - 1
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return bin[order[a]] < bin[order[b]]
	})
	return order
}

type workEdge struct {
	a, b int
}

// insertPoint 将一个点插入当前三角网（Bowyer-Watson）
func (tb *triangulator) insertPoint(pi int) {
	// 找到外接圆包含该点的所有坏三角形
	var bad []int
	for ti := range tb.tris {
		if tb.tris[ti].alive && tb.inCircumcircle(ti, pi) {
			bad = append(bad, ti)
		}
	}

	// 求坏三角形并集的边界多边形：被两个坏三角形共享的边是内部边，剔除
	edgeCount := make(map[EdgeKey]int)
	edgeDir := make(map[EdgeKey]workEdge)
	for _, ti := range bad {
		t := tb.tris[ti].v
		for i := 0; i < 3; i++ {
			a, b := t[i], t[(i+1)%3]
			k := MakeEdgeKey(a, b)
			edgeCount[k]++
			edgeDir[k] = workEdge{a, b}
		}
	}

	// 删除坏三角形
	for _, ti := range bad {
		tb.tris[ti].alive = false
	}

	// 以新点为扇心，对每条边界边重建三角形
	for k, cnt := range edgeCount {
		if cnt != 1 {
			continue
		}
		e := edgeDir[k]
		tb.newTriangle(e.a, e.b, pi)
	}
}

// Triangulate 对散点做Delaunay三角剖分，constraints为需要强制嵌入的约束边（点索引对）
// 点数不足3时返回空TIN
func Triangulate(points []*Point3D, constraints [][2]int) (*TIN, error) {
	tin := &TIN{
		Points:      points,
		Constrained: make(map[EdgeKey]bool),
	}
	if len(points) < 3 {
		return tin, nil
	}

	n := len(points)
	s1, s2, s3 := makeSuperVertices(points)

	tb := &triangulator{
		pts: make([]*Point3D, 0, n+3),
		n:   n,
	}
	tb.pts = append(tb.pts, points...)
	tb.pts = append(tb.pts, s1, s2, s3)
	tb.newTriangle(n, n+1, n+2)

	for _, pi := range binSortOrder(points) {
		tb.insertPoint(pi)
	}

	// 嵌入约束边并局部恢复Delaunay性质
	if len(constraints) > 0 {
		tb.enforceConstraints(constraints, tin.Constrained)
		tb.restoreDelaunay(tin.Constrained)
	}

	// 移除包含超级三角形顶点的三角形
	for _, t := range tb.tris {
		if !t.alive {
			continue
		}
		if t.v[0] >= n || t.v[1] >= n || t.v[2] >= n {
			continue
		}
		tin.Triangles = append(tin.Triangles, t.v)
	}

	return tin, nil
}
