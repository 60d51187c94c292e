package Tin

// 翻边循环的迭代上限，超限后保留尽力而为的结果
const (
	maxConstraintFlips = 4096
	maxRestorePasses   = 64
)

// 向量叉积的Z分量
func crossZ(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
}

// 判断两条线段是否严格相交（不含端点相触）
func properlyCross(p1, p2, p3, p4 *Point3D) bool {
	o1 := crossZ(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
	o2 := crossZ(p1.X, p1.Y, p2.X, p2.Y, p4.X, p4.Y)
	o3 := crossZ(p3.X, p3.Y, p4.X, p4.Y, p1.X, p1.Y)
	o4 := crossZ(p3.X, p3.Y, p4.X, p4.Y, p2.X, p2.Y)
	return ((o1 > 0 && o2 < 0) || (o1 < 0 && o2 > 0)) &&
		((o3 > 0 && o4 < 0) || (o3 < 0 && o4 > 0))
}

// 构建活三角形的边到三角形索引的映射
func (tb *triangulator) edgeTriangles() map[EdgeKey][]int {
	m := make(map[EdgeKey][]int)
	for ti := range tb.tris {
		if !tb.tris[ti].alive {
			continue
		}
		v := tb.tris[ti].v
		for i := 0; i < 3; i++ {
			k := MakeEdgeKey(v[i], v[(i+1)%3])
			m[k] = append(m[k], ti)
		}
	}
	return m
}

// 三角形中不在边(a,b)上的顶点，找不到返回-1
func oppositeVertex(v [3]int, a, b int) int {
	for i := 0; i < 3; i++ {
		if v[i] != a && v[i] != b {
			return v[i]
		}
	}
	return -1
}

func (tb *triangulator) hasLiveEdge(a, b int) bool {
	k := MakeEdgeKey(a, b)
	for ti := range tb.tris {
		if !tb.tris[ti].alive {
			continue
		}
		v := tb.tris[ti].v
		for i := 0; i < 3; i++ {
			if MakeEdgeKey(v[i], v[(i+1)%3]) == k {
				return true
			}
		}
	}
	return false
}

// flipEdge 翻转两个三角形的公共边(a,b)，返回新对角线的两端
// 仅在对角四边形为凸时调用
func (tb *triangulator) flipEdge(t1, t2 int, a, b int) (int, int) {
	c := oppositeVertex(tb.tris[t1].v, a, b)
	d := oppositeVertex(tb.tris[t2].v, a, b)
	tb.tris[t1].alive = false
	tb.tris[t2].alive = false
	tb.newTriangle(c, d, a)
	tb.newTriangle(c, d, b)
	return c, d
}

// findCrossingEdges 收集与约束线段(a,b)严格相交的网边
func (tb *triangulator) findCrossingEdges(a, b int) []EdgeKey {
	pa, pb := tb.pts[a], tb.pts[b]
	seen := make(map[EdgeKey]bool)
	var out []EdgeKey
	for ti := range tb.tris {
		if !tb.tris[ti].alive {
			continue
		}
		v := tb.tris[ti].v
		for i := 0; i < 3; i++ {
			ea, eb := v[i], v[(i+1)%3]
			if ea == a || ea == b || eb == a || eb == b {
				continue
			}
			k := MakeEdgeKey(ea, eb)
			if seen[k] {
				continue
			}
			if properlyCross(pa, pb, tb.pts[ea], tb.pts[eb]) {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// enforceConstraint 通过受保护的翻边把约束边(a,b)嵌入三角网（Sloan法）
// 迭代超限时放弃该边，结果为尽力而为
func (tb *triangulator) enforceConstraint(a, b int, constrained map[EdgeKey]bool) {
	if a == b || a < 0 || b < 0 || a >= tb.n || b >= tb.n {
		return
	}
	key := MakeEdgeKey(a, b)
	if tb.hasLiveEdge(a, b) {
		constrained[key] = true
		return
	}

	queue := tb.findCrossingEdges(a, b)
	iter := 0
	for len(queue) > 0 && iter < maxConstraintFlips {
		iter++
		e := queue[0]
		queue = queue[1:]

		em := tb.edgeTriangles()
		tris := em[e]
		if len(tris) != 2 {
			continue
		}
		c := oppositeVertex(tb.tris[tris[0]].v, e[0], e[1])
		d := oppositeVertex(tb.tris[tris[1]].v, e[0], e[1])
		if c < 0 || d < 0 {
			continue
		}

		// 只有对角四边形为凸时才能翻转，否则放回队尾等下一轮
		if properlyCross(tb.pts[e[0]], tb.pts[e[1]], tb.pts[c], tb.pts[d]) {
			nc, nd := tb.flipEdge(tris[0], tris[1], e[0], e[1])
			// 新对角线仍然跨越约束线段时继续处理
			if nc != a && nc != b && nd != a && nd != b &&
				properlyCross(tb.pts[a], tb.pts[b], tb.pts[nc], tb.pts[nd]) {
				queue = append(queue, MakeEdgeKey(nc, nd))
			}
		} else {
			queue = append(queue, e)
		}

		if tb.hasLiveEdge(a, b) {
			break
		}
		if len(queue) == 0 {
			queue = tb.findCrossingEdges(a, b)
		}
	}

	if tb.hasLiveEdge(a, b) {
		constrained[key] = true
	}
}

func (tb *triangulator) enforceConstraints(constraints [][2]int, constrained map[EdgeKey]bool) {
	for _, c := range constraints {
		tb.enforceConstraint(c[0], c[1], constrained)
	}
}

// restoreDelaunay 对非约束边做有界的局部翻边，恢复空外接圆性质
func (tb *triangulator) restoreDelaunay(constrained map[EdgeKey]bool) {
	for pass := 0; pass < maxRestorePasses; pass++ {
		flips := 0
		em := tb.edgeTriangles()
		for k, tris := range em {
			if len(tris) != 2 || constrained[k] {
				continue
			}
			t1, t2 := tris[0], tris[1]
			// 同一轮里先前的翻转可能已使三角形失效
			if !tb.tris[t1].alive || !tb.tris[t2].alive {
				continue
			}
			c := oppositeVertex(tb.tris[t1].v, k[0], k[1])
			d := oppositeVertex(tb.tris[t2].v, k[0], k[1])
			if c < 0 || d < 0 {
				continue
			}
			// 对侧顶点落入外接圆内则违反Delaunay性质
			if !tb.inCircumcircle(t1, d) {
				continue
			}
			if !properlyCross(tb.pts[k[0]], tb.pts[k[1]], tb.pts[c], tb.pts[d]) {
				continue
			}
			tb.flipEdge(t1, t2, k[0], k[1])
			flips++
		}
		if flips == 0 {
			break
		}
	}
}
