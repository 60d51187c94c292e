package views

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/GrainArc/SurfaceMap/Contour"
	"github.com/GrainArc/SurfaceMap/Interpolator"
	"github.com/GrainArc/SurfaceMap/SpatialIndex"
	"github.com/GrainArc/SurfaceMap/Tin"
	"github.com/GrainArc/SurfaceMap/config"
	"github.com/GrainArc/SurfaceMap/methods"
	"github.com/GrainArc/SurfaceMap/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/datatypes"
)

type SurfaceController struct {
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 生产环境需要严格检查
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// 异步任务状态
type taskState struct {
	mu       sync.RWMutex
	Status   string
	Progress float64
	Message  string
	Result   interface{}
}

func (t *taskState) set(status string, progress float64, message string) {
	t.mu.Lock()
	t.Status = status
	t.Progress = progress
	t.Message = message
	t.mu.Unlock()
}

func (t *taskState) get() (string, float64, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Status, t.Progress, t.Message
}

var taskHub = struct {
	sync.RWMutex
	tasks map[string]*taskState
}{tasks: make(map[string]*taskState)}

func getTask(taskid string) *taskState {
	taskHub.RLock()
	defer taskHub.RUnlock()
	return taskHub.tasks[taskid]
}

func newTask(taskid string) *taskState {
	st := &taskState{Status: "running"}
	taskHub.Lock()
	taskHub.tasks[taskid] = st
	taskHub.Unlock()
	return st
}

// 执行一次插值，返回结果格网
func runInterpolate(data *InterpolateData, progress func(float64)) (*Interpolator.Lattice, error) {
	points, err := Tin.CoordsToPoint3D(data.Points)
	if err != nil {
		return nil, err
	}
	opts, err := optionsFromData(data)
	if err != nil {
		return nil, err
	}
	gridX, gridY, err := gridAxesFromData(points, data)
	if err != nil {
		return nil, err
	}
	interp, err := Interpolator.New(opts)
	if err != nil {
		return nil, err
	}
	return interp.Interpolate(points, gridX, gridY, progress)
}

// 执行一次等值线提取
func runContour(data *ContourData, progress func(float64)) ([]*Contour.ContourLine, error) {
	lat, err := runInterpolate(&data.InterpolateData, progress)
	if err != nil {
		return nil, err
	}
	levels := data.Levels
	if len(levels) == 0 {
		if data.Interval <= 0 {
			return nil, fmt.Errorf("等值线间隔必须大于0")
		}
		points, err := Tin.CoordsToPoint3D(data.Points)
		if err != nil {
			return nil, err
		}
		minZ, maxZ := points[0].Z, points[0].Z
		for _, p := range points {
			if p.Z < minZ {
				minZ = p.Z
			}
			if p.Z > maxZ {
				maxZ = p.Z
			}
		}
		levels = Contour.Levels(minZ, maxZ, data.Interval)
	}
	contours := Contour.GridContours(lat, levels)
	if data.SmoothFactor > 0 {
		Contour.SmoothContours(contours, data.SmoothFactor)
	}
	return contours, nil
}

// 任务记录入库
func saveGridTask(taskid string, data *InterpolateData) {
	if models.DB == nil {
		return
	}
	params, _ := json.Marshal(data)
	task := models.GridTask{
		TaskID:    taskid,
		Algorithm: data.Algorithm,
		Params:    datatypes.JSON(params),
		Status:    "running",
		CreatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	models.DB.Create(&task)
}

func updateGridTask(taskid string, status string, progress float64, message string) {
	if models.DB == nil {
		return
	}
	models.DB.Model(&models.GridTask{}).Where("task_id = ?", taskid).
		Updates(map[string]interface{}{"status": status, "progress": progress, "message": message})
}

// Interpolate 散点插值生成格网
func (con *SurfaceController) Interpolate(c *gin.Context) {
	var data InterpolateData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if data.Async {
		taskid := uuid.New().String()
		st := newTask(taskid)
		saveGridTask(taskid, &data)
		go func() {
			lat, err := runInterpolate(&data, func(p float64) {
				st.set("running", p, "")
			})
			if err != nil {
				log.Printf("插值任务失败 %s: %v", taskid, err)
				st.set("failed", 0, err.Error())
				updateGridTask(taskid, "failed", 0, err.Error())
				return
			}
			st.mu.Lock()
			st.Result = latticeToResponse(lat)
			st.mu.Unlock()
			st.set("done", 1, "")
			updateGridTask(taskid, "done", 1, "")
		}()
		c.JSON(200, gin.H{"taskid": taskid})
		return
	}

	lat, err := runInterpolate(&data, nil)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, latticeToResponse(lat))
}

// Contour 散点插值并提取等值线
func (con *SurfaceController) Contour(c *gin.Context) {
	var data ContourData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if data.Async {
		taskid := uuid.New().String()
		st := newTask(taskid)
		saveGridTask(taskid, &data.InterpolateData)
		go func() {
			contours, err := runContour(&data, func(p float64) {
				st.set("running", p, "")
			})
			if err != nil {
				log.Printf("等值线任务失败 %s: %v", taskid, err)
				st.set("failed", 0, err.Error())
				updateGridTask(taskid, "failed", 0, err.Error())
				return
			}
			st.mu.Lock()
			st.Result = contoursToGeojson(contours)
			st.mu.Unlock()
			st.set("done", 1, "")
			updateGridTask(taskid, "done", 1, "")
		}()
		c.JSON(200, gin.H{"taskid": taskid})
		return
	}

	contours, err := runContour(&data, nil)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, contoursToGeojson(contours))
}

// Triangulate 构建约束三角网
func (con *SurfaceController) Triangulate(c *gin.Context) {
	var data TriangulateData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	points, err := Tin.CoordsToPoint3D(data.Points)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	var constraints [][2]int
	if data.Breakline != "" {
		lines, err := Tin.GeometryStringToBreaklines(data.Breakline)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		constraints = snapBreaklines(points, lines)
	}

	tin, err := Tin.Triangulate(points, constraints)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	result := gin.H{
		"triangles": tinToGeojson(tin),
		"count":     tin.TriangleCount(),
	}
	if data.Concavity > 0 {
		hull := tin.ConcaveHull(data.Concavity)
		var ring [][]float64
		for _, vi := range hull {
			ring = append(ring, []float64{tin.Points[vi].X, tin.Points[vi].Y})
		}
		result["hull"] = ring
	}
	c.JSON(200, result)
}

// 折线节点吸附到最近的输入点，相邻点对作为约束边
func snapBreaklines(points []*Tin.Point3D, lines [][]*Tin.Point2D) [][2]int {
	idx := SpatialIndex.BuildIndex(points, 0)
	var constraints [][2]int
	for _, line := range lines {
		prev := -1
		for _, pt := range line {
			ids, _ := idx.KNearest(pt.X, pt.Y, 1)
			if len(ids) == 0 {
				continue
			}
			cur := ids[0]
			if prev >= 0 && prev != cur {
				constraints = append(constraints, [2]int{prev, cur})
			}
			prev = cur
		}
	}
	return constraints
}

// TaskProgress 通过WebSocket推送任务进度
func (con *SurfaceController) TaskProgress(c *gin.Context) {
	taskid := c.Param("taskid")
	st := getTask(taskid)
	if st == nil {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		status, progress, message := st.get()
		msg := gin.H{"status": status, "progress": progress, "message": message}
		if status == "done" {
			st.mu.RLock()
			msg["result"] = st.Result
			st.mu.RUnlock()
		}
		if err := conn.WriteJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket write error: %v", err)
			}
			return
		}
		if status == "done" || status == "failed" {
			return
		}
	}
}

// TaskResult 查询任务结果
func (con *SurfaceController) TaskResult(c *gin.Context) {
	taskid := c.Param("taskid")
	st := getTask(taskid)
	if st == nil {
		c.JSON(404, gin.H{"error": "任务不存在"})
		return
	}
	status, progress, message := st.get()
	resp := gin.H{"status": status, "progress": progress, "message": message}
	if status == "done" {
		st.mu.RLock()
		resp["result"] = st.Result
		st.mu.RUnlock()
	}
	c.JSON(200, resp)
}

// ContourToDXF 等值线导出为DXF
func (con *SurfaceController) ContourToDXF(c *gin.Context) {
	var data ContourData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	contours, err := runContour(&data, nil)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	name := uuid.New().String()
	outPath := filepath.Join(config.Download, name+".dxf")
	if err := methods.ConvertContoursToDXF(contours, outPath); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	saveContourRecords(name, contours, outPath)
	c.JSON(200, gin.H{"url": "/surface/OutFile/" + name + ".dxf"})
}

// ContourToShp 等值线导出为SHP压缩包
func (con *SurfaceController) ContourToShp(c *gin.Context) {
	var data ContourData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	contours, err := runContour(&data, nil)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	name := uuid.New().String()
	outDir := filepath.Join(config.Download, name)
	zipPath, err := methods.ConvertContoursToShp(contours, outDir, "contour")
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	saveContourRecords(name, contours, zipPath)
	c.JSON(200, gin.H{"url": "/surface/OutFile/" + name + "/contour.zip"})
}

func saveContourRecords(taskid string, contours []*Contour.ContourLine, path string) {
	if models.DB == nil {
		return
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	for _, cl := range contours {
		rec := models.ContourRecord{
			TaskID:    taskid,
			Level:     cl.Level,
			LineCount: len(cl.Lines),
			FilePath:  path,
			CreatedAt: now,
		}
		models.DB.Create(&rec)
	}
}
