package methods

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gitee.com/LJ_COOL/go-shp"
	"github.com/GrainArc/SurfaceMap/Contour"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
)

// ConvertContoursToDXF 将等值线按高程分层导出为DXF文件
func ConvertContoursToDXF(contours []*Contour.ContourLine, outputFilename string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	for _, cl := range contours {
		// 每个高程值一个图层
		layerName := fmt.Sprintf("DGX_%g", cl.Level)
		d.AddLayer(layerName, color.Red, dxf.DefaultLineType, true)
		d.ChangeLayer(layerName)
		for i, line := range cl.Lines {
			if len(line) < 2 {
				continue
			}
			n := len(line)
			if cl.Closed[i] {
				n += 1 // 闭合线补首点
			}
			lwp := entity.NewLwPolyline(n)
			for j, pt := range line {
				lwp.Vertices[j] = []float64{pt[0], pt[1]}
			}
			if cl.Closed[i] {
				lwp.Vertices[n-1] = []float64{line[0][0], line[0][1]}
			}
			d.AddEntity(lwp)
		}
	}

	err := d.SaveAs(outputFilename)
	if err != nil {
		log.Println(err)
		return err
	}
	return nil
}

// ConvertContoursToShp 将等值线导出为SHP并打包zip
func ConvertContoursToShp(contours []*Contour.ContourLine, outDir string, name string) (string, error) {
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return "", err
	}
	shpPath := filepath.Join(outDir, name+".shp")
	shpFile, err := shp.Create(shpPath, shp.POLYLINE)
	if err != nil {
		return "", err
	}

	fields := []shp.Field{
		shp.StringField([]byte("level"), 32),
		shp.StringField([]byte("closed"), 8),
	}
	shpFile.SetFields(fields)

	ln := 0
	for _, cl := range contours {
		for i, line := range cl.Lines {
			if len(line) < 2 {
				continue
			}
			var points []shp.Point
			for _, pt := range line {
				points = append(points, shp.Point{X: pt[0], Y: pt[1]})
			}
			if cl.Closed[i] {
				points = append(points, shp.Point{X: line[0][0], Y: line[0][1]})
			}
			PL := [][]shp.Point{points}
			NEWPL := shp.NewPolyLine(PL)
			shpFile.Write(NEWPL)
			err = shpFile.WriteAttribute(ln, 0, fmt.Sprintf("%g", cl.Level))
			if err != nil {
				fmt.Println(err.Error())
			}
			err = shpFile.WriteAttribute(ln, 1, fmt.Sprintf("%v", cl.Closed[i]))
			if err != nil {
				fmt.Println(err.Error())
			}
			ln += 1
		}
	}
	shpFile.Close()

	if err := ZipFolder(outDir, name); err != nil {
		return "", err
	}
	return filepath.Join(outDir, name+".zip"), nil
}
