package views

import (
	"fmt"
	"math"

	"github.com/GrainArc/SurfaceMap/Contour"
	"github.com/GrainArc/SurfaceMap/Interpolator"
	"github.com/GrainArc/SurfaceMap/MeshEdit"
	"github.com/GrainArc/SurfaceMap/Tin"
	"github.com/GrainArc/SurfaceMap/config"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)


func optionsFromData(data *InterpolateData) (Interpolator.Options, error) {
	if data.Algorithm == "" {
		data.Algorithm = string(Interpolator.AlgoIDW)
	}
	if data.Power <= 0 {
		data.Power = config.DefaultPower
	}
	if data.MaxNeighbors <= 0 {
		data.MaxNeighbors = config.DefaultNeighbors
	}
	opts := Interpolator.Options{
		Algorithm:      Interpolator.Algorithm(data.Algorithm),
		Power:          data.Power,
		SearchMode:     Interpolator.SearchMode(data.SearchMode),
		Radius:         data.Radius,
		MaxNeighbors:   data.MaxNeighbors,
		KrigingType:    data.KrigingType,
		VariogramModel: data.VariogramModel,
		DriftOrder:     data.DriftOrder,
		Basis:          data.Basis,
		Shape:          data.Shape,
		Smoothing:      data.Smoothing,
		Order:          data.Order,
		Tension:        data.Tension,
		MaxIterations:  data.MaxIterations,
		Convergence:    data.Convergence,
		Weighted:       data.Weighted,
		Metric:         data.Metric,
	}
	if data.Boundary != "" {
		polys, err := Tin.GeometryStringToMultiPolygon2D(data.Boundary)
		if err != nil {
			return opts, fmt.Errorf("边界解析失败: %v", err)
		}
		opts.Boundaries = polys
	}
	return opts, nil
}

// 按请求生成网格轴
func gridAxesFromData(points []*Tin.Point3D, data *InterpolateData) ([]float64, []float64, error) {
	minX, minY, maxX, maxY := Interpolator.BoundsOf(points)
	if data.GridNX > 0 && data.GridNY > 0 {
		return Interpolator.MakeGridAxesN(minX, minY, maxX, maxY, data.GridNX, data.GridNY)
	}
	cell := data.CellSize
	if cell <= 0 {
		// 默认100×100左右的格网
		cell = (maxX - minX) / 100
		if (maxY-minY)/100 > cell {
			cell = (maxY - minY) / 100
		}
		if cell <= 0 {
			cell = 1
		}
	}
	gx, gy, err := Interpolator.MakeGridAxes(minX, minY, maxX, maxY, cell)
	if err != nil {
		return nil, nil, err
	}
	if len(gx)*len(gy) > 4000000 {
		return nil, nil, fmt.Errorf("格网规模过大: %d×%d", len(gx), len(gy))
	}
	return gx, gy, nil
}

// 等值线转GeoJSON要素集
func contoursToGeojson(contours []*Contour.ContourLine) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, cl := range contours {
		for i, line := range cl.Lines {
			ls := make(orb.LineString, len(line))
			copy(ls, line)
			if cl.Closed[i] && len(ls) > 1 {
				ls = append(ls, ls[0])
			}
			feature := geojson.NewFeature(ls)
			feature.Properties["level"] = cl.Level
			feature.Properties["closed"] = cl.Closed[i]
			fc.Append(feature)
		}
	}
	return fc
}

// 三角网转GeoJSON要素集
func tinToGeojson(tin *Tin.TIN) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, tri := range tin.Triangles {
		a, b, c := tin.Points[tri[0]], tin.Points[tri[1]], tin.Points[tri[2]]
		ring := orb.Ring{
			{a.X, a.Y},
			{b.X, b.Y},
			{c.X, c.Y},
			{a.X, a.Y},
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["id"] = i
		feature.Properties["z"] = []float64{a.Z, b.Z, c.Z}
		fc.Append(feature)
	}
	return fc
}

func meshToGeojson(mesh *MeshEdit.Mesh) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for ti, tri := range mesh.Triangles {
		if !tri.Alive {
			continue
		}
		a := mesh.Vertices[tri.V[0]]
		b := mesh.Vertices[tri.V[1]]
		c := mesh.Vertices[tri.V[2]]
		ring := orb.Ring{
			{a.X, a.Y},
			{b.X, b.Y},
			{c.X, c.Y},
			{a.X, a.Y},
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["id"] = ti
		feature.Properties["locked"] = tri.Locked
		feature.Properties["z"] = []float64{a.Z, b.Z, c.Z}
		fc.Append(feature)
	}
	return fc
}

// 无值格网点的占位值，JSON不支持NaN
const NodataValue = -99999.0

// 格网结果响应
type latticeResponse struct {
	GridX  []float64   `json:"grid_x"`
	GridY  []float64   `json:"grid_y"`
	Nodata float64     `json:"nodata"`
	Values [][]float64 `json:"values"` // 行优先，南到北
}

func latticeToResponse(lat *Interpolator.Lattice) *latticeResponse {
	resp := &latticeResponse{
		GridX:  lat.GridX,
		GridY:  lat.GridY,
		Nodata: NodataValue,
		Values: make([][]float64, lat.NY()),
	}
	for iy := 0; iy < lat.NY(); iy++ {
		row := make([]float64, lat.NX())
		for ix := 0; ix < lat.NX(); ix++ {
			v := lat.At(ix, iy)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = NodataValue
			}
			row[ix] = v
		}
		resp.Values[iy] = row
	}
	return resp
}
