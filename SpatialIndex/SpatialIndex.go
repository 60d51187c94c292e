package SpatialIndex

import (
	"math"

	"github.com/GrainArc/SurfaceMap/Tin"
)

// 半径扩张的最大翻倍次数
const maxRadiusDoublings = 16

// Index 均匀格网桶索引，坐标量化到同一格的点落入同一桶
type Index struct {
	points     []*Tin.Point3D
	xs, ys     []float64
	cell       float64
	minX, minY float64
	buckets    map[[2]int][]int
}

// BuildIndex 对不可变点集快照构建桶索引
// cellSize<=0时按点集范围与数量推导默认格大小：max(extentX, extentY) / min(sqrt(n), 100)
func BuildIndex(points []*Tin.Point3D, cellSize float64) *Index {
	idx := &Index{
		points:  points,
		buckets: make(map[[2]int][]int),
	}
	n := len(points)
	if n == 0 {
		idx.cell = 1
		return idx
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	idx.xs = make([]float64, n)
	idx.ys = make([]float64, n)
	for i, p := range points {
		idx.xs[i] = p.X
		idx.ys[i] = p.Y
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	if cellSize <= 0 {
		extent := math.Max(maxX-minX, maxY-minY)
		div := math.Min(math.Sqrt(float64(n)), 100)
		if div < 1 {
			div = 1
		}
		cellSize = extent / div
		if cellSize <= 0 {
			cellSize = 1
		}
	}
	idx.cell = cellSize
	idx.minX, idx.minY = minX, minY

	for i := range points {
		key := idx.cellOf(idx.xs[i], idx.ys[i])
		idx.buckets[key] = append(idx.buckets[key], i)
	}
	return idx
}

func (idx *Index) cellOf(x, y float64) [2]int {
	return [2]int{
		int(math.Floor((x - idx.minX) / idx.cell)),
		int(math.Floor((y - idx.minY) / idx.cell)),
	}
}

// Size 返回索引的点数量
func (idx *Index) Size() int {
	return len(idx.points)
}

// CellSize 返回格大小
func (idx *Index) CellSize() float64 {
	return idx.cell
}

// RadiusQuery 返回与(x,y)距离不超过r的点索引（含边界），无序
func (idx *Index) RadiusQuery(x, y, r float64) []int {
	var result []int
	if len(idx.points) == 0 || r < 0 {
		return result
	}

	c0 := idx.cellOf(x-r, y-r)
	c1 := idx.cellOf(x+r, y+r)
	r2 := r * r
	for cx := c0[0]; cx <= c1[0]; cx++ {
		for cy := c0[1]; cy <= c1[1]; cy++ {
			for _, i := range idx.buckets[[2]int{cx, cy}] {
				dx := idx.xs[i] - x
				dy := idx.ys[i] - y
				if dx*dx+dy*dy <= r2 {
					result = append(result, i)
				}
			}
		}
	}
	return result
}

// KNearest 返回距离(x,y)最近的min(k,n)个点，按距离升序，距离相同按发现顺序
// 从2倍格大小的种子半径开始几何扩张，只扫描覆盖到的桶；扩张不足时退化为全量扫描
func (idx *Index) KNearest(x, y float64, k int) ([]int, []float64) {
	n := len(idx.points)
	if n == 0 || k <= 0 {
		return []int{}, []float64{}
	}
	if k > n {
		k = n
	}

	found := make([]int, 0, k)
	dists := make([]float64, 0, k)

	// 有序缓冲的插入排序，等距时新点排在后面保持发现顺序
	insert := func(i int, d float64) {
		pos := len(dists)
		for pos > 0 && dists[pos-1] > d {
			pos--
		}
		if pos >= k {
			return
		}
		found = append(found, 0)
		dists = append(dists, 0)
		copy(found[pos+1:], found[pos:])
		copy(dists[pos+1:], dists[pos:])
		found[pos] = i
		dists[pos] = d
		if len(found) > k {
			found = found[:k]
			dists = dists[:k]
		}
	}

	visited := make(map[[2]int]bool)
	radius := 2 * idx.cell
	for pass := 0; pass < maxRadiusDoublings; pass++ {
		c0 := idx.cellOf(x-radius, y-radius)
		c1 := idx.cellOf(x+radius, y+radius)
		for cx := c0[0]; cx <= c1[0]; cx++ {
			for cy := c0[1]; cy <= c1[1]; cy++ {
				key := [2]int{cx, cy}
				if visited[key] {
					continue
				}
				visited[key] = true
				for _, i := range idx.buckets[key] {
					dx := idx.xs[i] - x
					dy := idx.ys[i] - y
					insert(i, math.Sqrt(dx*dx+dy*dy))
				}
			}
		}
		// 缓冲已满且第k个点确实落在已扫描半径内时结束
		if len(found) == k && dists[k-1] <= radius {
			return found, dists
		}
		radius *= 2
	}

	// 扩张次数用尽仍不够，退化为全量扫描
	found = found[:0]
	dists = dists[:0]
	for i := 0; i < n; i++ {
		dx := idx.xs[i] - x
		dy := idx.ys[i] - y
		insert(i, math.Sqrt(dx*dx+dy*dy))
	}
	return found, dists
}
