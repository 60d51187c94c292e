package Interpolator

import (
	"fmt"
	"math"

	"github.com/GrainArc/SurfaceMap/SpatialIndex"
	"github.com/GrainArc/SurfaceMap/Tin"
)

// Algorithm 插值算法标识
type Algorithm string

const (
	AlgoIDW           Algorithm = "idw"
	AlgoNearest       Algorithm = "nearest"
	AlgoMovingAverage Algorithm = "moving_average"
	AlgoNatural       Algorithm = "natural_neighbor"
	AlgoMinCurvature  Algorithm = "min_curvature"
	AlgoKriging       Algorithm = "kriging"
	AlgoRBF           Algorithm = "rbf"
	AlgoTinLinear     Algorithm = "tin_linear"
	AlgoShepard       Algorithm = "modified_shepard"
	AlgoPolynomial    Algorithm = "polynomial"
	AlgoMetrics       Algorithm = "data_metrics"
)

// SearchMode 邻域搜索方式
type SearchMode string

const (
	SearchKNN    SearchMode = "knn"
	SearchRadius SearchMode = "radius"
	SearchAll    SearchMode = "all"
)

// Options 插值配置
type Options struct {
	Algorithm Algorithm

	// 通用邻域参数
	Power        float64
	SearchMode   SearchMode
	Radius       float64
	MaxNeighbors int

	// 克里金
	KrigingType    string // ordinary / universal / simple
	VariogramModel string // spherical / exponential / gaussian
	DriftOrder     int

	// 径向基函数
	Basis     string // multiquadric / inverse_multiquadric / thin_plate / gaussian / linear
	Shape     float64
	Smoothing float64

	// 多项式回归
	Order int

	// 最小曲率
	Tension       float64
	MaxIterations int
	Convergence   float64

	// 移动平均
	Weighted bool

	// 分格统计
	Metric string // mean / median / count / min / max / range / stddev / sum

	// 掩膜边界，格心落在边界外的格子置为无值
	Boundaries []*Tin.Polygon2D
}

// Lattice 规则格网，Values按行主序存储，长度恒等于 len(GridX)*len(GridY)
// 无估计值的格子用NaN表示
type Lattice struct {
	GridX  []float64
	GridY  []float64
	Values []float64
}

// NewLattice 创建全NaN的格网
func NewLattice(gridX, gridY []float64) *Lattice {
	lat := &Lattice{
		GridX:  gridX,
		GridY:  gridY,
		Values: make([]float64, len(gridX)*len(gridY)),
	}
	for i := range lat.Values {
		lat.Values[i] = math.NaN()
	}
	return lat
}

// At 读取格网值（ix列 iy行）
func (l *Lattice) At(ix, iy int) float64 {
	return l.Values[iy*len(l.GridX)+ix]
}

// Set 写入格网值
func (l *Lattice) Set(ix, iy int, v float64) {
	l.Values[iy*len(l.GridX)+ix] = v
}

// NX 列数
func (l *Lattice) NX() int { return len(l.GridX) }

// NY 行数
func (l *Lattice) NY() int { return len(l.GridY) }

// Interpolator 插值器公共契约：散点×坐标轴→格网
// progress可为nil，非nil时按有界间隔收到单调递增的0到1进度
type Interpolator interface {
	Interpolate(points []*Tin.Point3D, gridX, gridY []float64, progress func(float64)) (*Lattice, error)
}

// New 根据配置创建插值器
func New(opts Options) (Interpolator, error) {
	applyDefaults(&opts)
	switch opts.Algorithm {
	case AlgoIDW:
		return &IDW{opts: opts}, nil
	case AlgoNearest:
		return &Nearest{opts: opts}, nil
	case AlgoMovingAverage:
		return &MovingAverage{opts: opts}, nil
	case AlgoNatural:
		return &NaturalNeighbor{opts: opts}, nil
	case AlgoMinCurvature:
		return &MinCurvature{opts: opts}, nil
	case AlgoKriging:
		return &Kriging{opts: opts}, nil
	case AlgoRBF:
		return &RBF{opts: opts}, nil
	case AlgoTinLinear:
		return &TinLinear{opts: opts}, nil
	case AlgoShepard:
		return &ModifiedShepard{opts: opts}, nil
	case AlgoPolynomial:
		return &Polynomial{opts: opts}, nil
	case AlgoMetrics:
		return &DataMetrics{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown interpolation algorithm: %s", opts.Algorithm)
	}
}

func applyDefaults(opts *Options) {
	if opts.Power <= 0 {
		opts.Power = 2
	}
	if opts.SearchMode == "" {
		opts.SearchMode = SearchKNN
	}
	if opts.MaxNeighbors <= 0 {
		opts.MaxNeighbors = 12
	}
	if opts.KrigingType == "" {
		opts.KrigingType = "ordinary"
	}
	if opts.VariogramModel == "" {
		opts.VariogramModel = "spherical"
	}
	if opts.Basis == "" {
		opts.Basis = "multiquadric"
	}
	if opts.Order <= 0 {
		opts.Order = 2
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 200
	}
	if opts.Convergence <= 0 {
		opts.Convergence = 1e-4
	}
	if opts.Metric == "" {
		opts.Metric = "mean"
	}
}

// MakeGridAxes 按包围盒和格大小生成坐标轴数组
func MakeGridAxes(minX, minY, maxX, maxY, cellSize float64) ([]float64, []float64, error) {
	if cellSize <= 0 {
		return nil, nil, fmt.Errorf("cell size must be positive, got %f", cellSize)
	}
	if maxX < minX || maxY < minY {
		return nil, nil, fmt.Errorf("invalid bounding box")
	}
	var gridX, gridY []float64
	for x := minX; x <= maxX+cellSize*1e-9; x += cellSize {
		gridX = append(gridX, x)
	}
	for y := minY; y <= maxY+cellSize*1e-9; y += cellSize {
		gridY = append(gridY, y)
	}
	return gridX, gridY, nil
}

// MakeGridAxesN 按格子数量生成坐标轴数组
func MakeGridAxesN(minX, minY, maxX, maxY float64, nx, ny int) ([]float64, []float64, error) {
	if nx < 2 || ny < 2 {
		return nil, nil, fmt.Errorf("grid dimensions must be at least 2x2, got %dx%d", nx, ny)
	}
	gridX := make([]float64, nx)
	gridY := make([]float64, ny)
	for i := 0; i < nx; i++ {
		gridX[i] = minX + (maxX-minX)*float64(i)/float64(nx-1)
	}
	for i := 0; i < ny; i++ {
		gridY[i] = minY + (maxY-minY)*float64(i)/float64(ny-1)
	}
	return gridX, gridY, nil
}

// BoundsOf 计算点集包围盒
func BoundsOf(points []*Tin.Point3D) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

// neighborSearch 封装三种邻域搜索方式
type neighborSearch struct {
	idx    *SpatialIndex.Index
	points []*Tin.Point3D
	mode   SearchMode
	radius float64
	k      int
}

func newNeighborSearch(points []*Tin.Point3D, opts Options) *neighborSearch {
	return &neighborSearch{
		idx:    SpatialIndex.BuildIndex(points, 0),
		points: points,
		mode:   opts.SearchMode,
		radius: opts.Radius,
		k:      opts.MaxNeighbors,
	}
}

// neighbors 返回(x,y)处参与估计的样本索引与距离
func (ns *neighborSearch) neighbors(x, y float64) ([]int, []float64) {
	switch ns.mode {
	case SearchRadius:
		ids := ns.idx.RadiusQuery(x, y, ns.radius)
		dists := make([]float64, len(ids))
		for i, id := range ids {
			dx := ns.points[id].X - x
			dy := ns.points[id].Y - y
			dists[i] = math.Sqrt(dx*dx + dy*dy)
		}
		return ids, dists
	case SearchAll:
		ids := make([]int, len(ns.points))
		dists := make([]float64, len(ns.points))
		for i, p := range ns.points {
			ids[i] = i
			dx := p.X - x
			dy := p.Y - y
			dists[i] = math.Sqrt(dx*dx + dy*dy)
		}
		return ids, dists
	default:
		return ns.idx.KNearest(x, y, ns.k)
	}
}

// applyBoundaryMask 把格心落在全部边界外的格子置为NaN
func applyBoundaryMask(lat *Lattice, boundaries []*Tin.Polygon2D) {
	if len(boundaries) == 0 {
		return
	}
	for iy, y := range lat.GridY {
		for ix, x := range lat.GridX {
			inside := false
			for _, pg := range boundaries {
				if pg.ContainsPoint(x, y) {
					inside = true
					break
				}
			}
			if !inside {
				lat.Set(ix, iy, math.NaN())
			}
		}
	}
}

// reportRow 按行上报进度，保证单调且有界的回调频率
func reportRow(progress func(float64), iy, ny int) {
	if progress != nil && ny > 0 {
		progress(float64(iy+1) / float64(ny))
	}
}
