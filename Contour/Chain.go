package Contour

import (
	"math"

	"github.com/paulmach/orb"
)

// chainEpsilon 计算相对于坐标量级的拼接容差，绝不使用固定参数
func chainEpsilon(segs []Segment) float64 {
	maxAbs := 0.0
	for _, s := range segs {
		maxAbs = math.Max(maxAbs, math.Abs(s.X1))
		maxAbs = math.Max(maxAbs, math.Abs(s.Y1))
		maxAbs = math.Max(maxAbs, math.Abs(s.X2))
		maxAbs = math.Max(maxAbs, math.Abs(s.Y2))
	}
	if maxAbs == 0 {
		maxAbs = 1
	}
	return maxAbs * 1e-9
}

type endpointRef struct {
	seg int
	end int // 0起点 1终点
}

// ChainSegments 把原始线段拼接为折线
// 端点坐标按容差量化后挂入空间桶，从链的两端持续延伸直到无段可接
// 两端点在容差内重合的链标记为闭合并去掉缝合重复点
func ChainSegments(segs []Segment) ([]orb.LineString, []bool) {
	var lines []orb.LineString
	var closed []bool
	if len(segs) == 0 {
		return lines, closed
	}

	eps := chainEpsilon(segs)
	quant := func(v float64) int64 {
		return int64(math.Round(v / eps))
	}
	keyOf := func(x, y float64) [2]int64 {
		return [2]int64{quant(x), quant(y)}
	}

	buckets := make(map[[2]int64][]endpointRef)
	endXY := func(s Segment, end int) (float64, float64) {
		if end == 0 {
			return s.X1, s.Y1
		}
		return s.X2, s.Y2
	}
	for i, s := range segs {
		for end := 0; end < 2; end++ {
			x, y := endXY(s, end)
			k := keyOf(x, y)
			buckets[k] = append(buckets[k], endpointRef{seg: i, end: end})
		}
	}

	same := func(ax, ay, bx, by float64) bool {
		return math.Abs(ax-bx) <= eps && math.Abs(ay-by) <= eps
	}

	used := make([]bool, len(segs))

	// 在量化桶及其八邻域内找一个能接上(x,y)的未用线段
	findMatch := func(x, y float64) (endpointRef, bool) {
		k := keyOf(x, y)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, ref := range buckets[[2]int64{k[0] + dx, k[1] + dy}] {
					if used[ref.seg] {
						continue
					}
					px, py := endXY(segs[ref.seg], ref.end)
					if same(x, y, px, py) {
						return ref, true
					}
				}
			}
		}
		return endpointRef{}, false
	}

	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		chain := []orb.Point{
			{segs[i].X1, segs[i].Y1},
			{segs[i].X2, segs[i].Y2},
		}

		// 从尾端延伸
		for {
			tail := chain[len(chain)-1]
			ref, ok := findMatch(tail[0], tail[1])
			if !ok {
				break
			}
			used[ref.seg] = true
			ox, oy := endXY(segs[ref.seg], 1-ref.end)
			chain = append(chain, orb.Point{ox, oy})
		}
		// 从首端延伸
		for {
			head := chain[0]
			ref, ok := findMatch(head[0], head[1])
			if !ok {
				break
			}
			used[ref.seg] = true
			ox, oy := endXY(segs[ref.seg], 1-ref.end)
			chain = append([]orb.Point{{ox, oy}}, chain...)
		}

		isClosed := false
		if len(chain) > 2 {
			first, last := chain[0], chain[len(chain)-1]
			if same(first[0], first[1], last[0], last[1]) {
				// 闭环去掉缝合重复点
				chain = chain[:len(chain)-1]
				isClosed = true
			}
		}

		lines = append(lines, orb.LineString(chain))
		closed = append(closed, isClosed)
	}
	return lines, closed
}
