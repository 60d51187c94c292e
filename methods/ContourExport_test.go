package methods

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/GrainArc/SurfaceMap/Contour"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContours() []*Contour.ContourLine {
	return []*Contour.ContourLine{
		{
			Level: 100,
			Lines: []orb.LineString{
				{{0, 0}, {5, 0}, {5, 5}},
			},
			Closed: []bool{false},
		},
		{
			Level: 105,
			Lines: []orb.LineString{
				{{1, 1}, {4, 1}, {4, 4}, {1, 4}},
			},
			Closed: []bool{true},
		},
	}
}

func TestConvertContoursToDXF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dgx.dxf")
	require.NoError(t, ConvertContoursToDXF(sampleContours(), out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestConvertContoursToShp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shpout")
	zipPath, err := ConvertContoursToShp(sampleContours(), dir, "dgx")
	require.NoError(t, err)

	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer reader.Close()

	names := make(map[string]bool)
	for _, f := range reader.File {
		names[f.Name] = true
	}
	assert.True(t, names["dgx.shp"])
	assert.True(t, names["dgx.dbf"])
}
