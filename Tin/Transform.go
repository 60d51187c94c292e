package Tin

import (
	"encoding/json"
	"fmt"
	"math"
)

// CoordsToPoint3D 将坐标数组转换为三维点，缺少Z时默认0
func CoordsToPoint3D(coords [][]float64) ([]*Point3D, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("coords is empty")
	}

	points := make([]*Point3D, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate at index %d has insufficient dimensions (need at least 2, got %d)", i, len(coord))
		}
		point := &Point3D{X: coord[0], Y: coord[1], Z: 0.0, ID: i}
		if len(coord) >= 3 {
			point.Z = coord[2]
		}
		points[i] = point
	}
	return points, nil
}

// GeoJSONGeometry 表示GeoJSON几何对象的结构
type GeoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// GeometryStringToPolygon2D 将GeoJSON Geometry字符串转换为Polygon2D对象
// 支持Polygon和MultiPolygon；MultiPolygon取第一个多边形，带洞时只取外环
func GeometryStringToPolygon2D(geometryStr string) (*Polygon2D, error) {
	var geom GeoJSONGeometry
	if err := json.Unmarshal([]byte(geometryStr), &geom); err != nil {
		return nil, fmt.Errorf("failed to parse geometry JSON: %v", err)
	}

	switch geom.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(geom.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("failed to parse polygon coordinates: %v", err)
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		return coordsToPolygon2D(rings[0])
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(geom.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("failed to parse multipolygon coordinates: %v", err)
		}
		if len(multi) == 0 || len(multi[0]) == 0 {
			return nil, fmt.Errorf("multipolygon has no rings")
		}
		return coordsToPolygon2D(multi[0][0])
	default:
		return nil, fmt.Errorf("unsupported geometry type: %s (only Polygon and MultiPolygon are supported)", geom.Type)
	}
}

// GeometryStringToMultiPolygon2D 将GeoJSON Geometry字符串转换为多个独立的Polygon2D对象
// 每个多边形只保留外环
func GeometryStringToMultiPolygon2D(geometryStr string) ([]*Polygon2D, error) {
	var geom GeoJSONGeometry
	if err := json.Unmarshal([]byte(geometryStr), &geom); err != nil {
		return nil, fmt.Errorf("failed to parse geometry JSON: %v", err)
	}

	switch geom.Type {
	case "Polygon":
		polygon, err := GeometryStringToPolygon2D(geometryStr)
		if err != nil {
			return nil, err
		}
		return []*Polygon2D{polygon}, nil
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(geom.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("failed to parse multipolygon coordinates: %v", err)
		}
		if len(multi) == 0 {
			return nil, fmt.Errorf("multipolygon has no polygons")
		}
		polygons := make([]*Polygon2D, 0, len(multi))
		for i, polygon := range multi {
			if len(polygon) == 0 {
				return nil, fmt.Errorf("polygon %d has no rings", i)
			}
			poly, err := coordsToPolygon2D(polygon[0])
			if err != nil {
				return nil, fmt.Errorf("failed to parse polygon %d: %v", i, err)
			}
			polygons = append(polygons, poly)
		}
		return polygons, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type: %s", geom.Type)
	}
}

// GeometryStringToBreaklines 将GeoJSON LineString/MultiLineString字符串转换为折线点列
// 用作构网的特征线输入
func GeometryStringToBreaklines(geometryStr string) ([][]*Point2D, error) {
	var geom GeoJSONGeometry
	if err := json.Unmarshal([]byte(geometryStr), &geom); err != nil {
		return nil, fmt.Errorf("failed to parse geometry JSON: %v", err)
	}

	makeLine := func(coords [][]float64) ([]*Point2D, error) {
		if len(coords) < 2 {
			return nil, fmt.Errorf("breakline must have at least 2 points")
		}
		line := make([]*Point2D, len(coords))
		for i, coord := range coords {
			if len(coord) < 2 {
				return nil, fmt.Errorf("coordinate at index %d has insufficient dimensions", i)
			}
			line[i] = &Point2D{X: coord[0], Y: coord[1], ID: i}
		}
		return line, nil
	}

	switch geom.Type {
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(geom.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("failed to parse linestring coordinates: %v", err)
		}
		line, err := makeLine(coords)
		if err != nil {
			return nil, err
		}
		return [][]*Point2D{line}, nil
	case "MultiLineString":
		var multi [][][]float64
		if err := json.Unmarshal(geom.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("failed to parse multilinestring coordinates: %v", err)
		}
		var lines [][]*Point2D
		for i, coords := range multi {
			line, err := makeLine(coords)
			if err != nil {
				return nil, fmt.Errorf("failed to parse line %d: %v", i, err)
			}
			lines = append(lines, line)
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type: %s (only LineString and MultiLineString are supported)", geom.Type)
	}
}

// coordsToPolygon2D 将坐标数组转换为Polygon2D
func coordsToPolygon2D(coords [][]float64) (*Polygon2D, error) {
	if len(coords) < 3 {
		return nil, fmt.Errorf("polygon must have at least 3 points")
	}

	points := make([]*Point2D, 0, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate at index %d has insufficient dimensions", i)
		}
		if math.IsNaN(coord[0]) || math.IsInf(coord[0], 0) ||
			math.IsNaN(coord[1]) || math.IsInf(coord[1], 0) {
			return nil, fmt.Errorf("invalid coordinate at index %d: [%f, %f]", i, coord[0], coord[1])
		}
		points = append(points, &Point2D{X: coord[0], Y: coord[1], ID: i})
	}

	// 移除GeoJSON闭合多边形重复的首尾点
	if len(points) > 1 {
		first := points[0]
		last := points[len(points)-1]
		if math.Abs(first.X-last.X) < 1e-10 && math.Abs(first.Y-last.Y) < 1e-10 {
			points = points[:len(points)-1]
			for i := range points {
				points[i].ID = i
			}
		}
	}

	return &Polygon2D{Points: points}, nil
}

// ContainsPoint 判断点是否在多边形内（射线法）
func (pg *Polygon2D) ContainsPoint(x, y float64) bool {
	n := len(pg.Points)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := pg.Points[i], pg.Points[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
