package views

import (
	"math"
	"sync"
	"time"

	"github.com/GrainArc/SurfaceMap/MeshEdit"
	"github.com/GrainArc/SurfaceMap/Tin"
	"github.com/GrainArc/SurfaceMap/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MeshController struct {
}

// 内存中的编辑会话，单会话串行编辑
type meshSession struct {
	mu   sync.Mutex
	mesh *MeshEdit.Mesh
}

var meshHub = struct {
	sync.RWMutex
	sessions map[string]*meshSession
}{sessions: make(map[string]*meshSession)}

func getSession(id string) *meshSession {
	meshHub.RLock()
	defer meshHub.RUnlock()
	return meshHub.sessions[id]
}

// CreateSession 由散点构建三角网并开启编辑会话
func (con *MeshController) CreateSession(c *gin.Context) {
	var data MeshSessionData
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

	sessionID := uuid.New().String()
	meshHub.Lock()
	meshHub.sessions[sessionID] = &meshSession{mesh: MeshEdit.BuildMesh(tin)}
	meshHub.Unlock()

	if models.DB != nil {
		models.DB.Create(&models.MeshSession{
			SessionID: sessionID,
			Username:  data.Username,
			Status:    "active",
			CreatedAt: time.Now().Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(200, gin.H{"session_id": sessionID, "count": tin.TriangleCount()})
}

// 公共的会话取用与编辑应答
func withSession(c *gin.Context, sessionID string, fn func(mesh *MeshEdit.Mesh) (bool, gin.H)) {
	ses := getSession(sessionID)
	if ses == nil {
		c.JSON(404, gin.H{"error": "会话不存在"})
		return
	}
	ses.mu.Lock()
	ok, extra := fn(ses.mesh)
	stats := ses.mesh.GetStats()
	ses.mu.Unlock()

	resp := gin.H{"ok": ok, "stats": stats}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(200, resp)
}

// SwapEdge 交换对角线
func (con *MeshController) SwapEdge(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.SwapEdge(data.A, data.B), nil
	})
}

// InsertPoint 插入新点并局部重构
func (con *MeshController) InsertPoint(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.InsertPoint(data.X, data.Y, data.Z), nil
	})
}

// DeletePoint 删除顶点并重连空腔
func (con *MeshController) DeletePoint(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.DeletePoint(data.Vertex), nil
	})
}

// DeleteTriangle 删除单个三角形
func (con *MeshController) DeleteTriangle(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.DeleteTriangle(data.Triangle), nil
	})
}

// FlattenTriangle 三角形置平
func (con *MeshController) FlattenTriangle(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.FlattenTriangle(data.Triangle), nil
	})
}

// ModifyVertexZ 修改顶点高程
func (con *MeshController) ModifyVertexZ(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.ModifyVertexZ(data.Vertex, data.Z), nil
	})
}

// LockTriangle 锁定或解锁三角形
func (con *MeshController) LockTriangle(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.LockTriangle(data.Triangle, data.Locked), nil
	})
}

// AddBreakline 在现有网格中嵌入特征线
func (con *MeshController) AddBreakline(c *gin.Context) {
	var data MeshBreaklineData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if len(data.Line) < 2 {
		c.JSON(400, gin.H{"error": "特征线至少需要两个点"})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		// 折线节点吸附到最近网格顶点
		var verts []int
		for _, pt := range data.Line {
			if len(pt) < 2 {
				return false, gin.H{"error": "点缺少坐标分量"}
			}
			vi := mesh.NearestVertex(pt[0], pt[1], math.Inf(1))
			if vi < 0 {
				return false, gin.H{"error": "网格中没有可用顶点"}
			}
			verts = append(verts, vi)
		}
		ok := true
		for i := 0; i+1 < len(verts); i++ {
			if verts[i] == verts[i+1] {
				continue
			}
			if !mesh.AddBreakline(verts[i], verts[i+1]) {
				ok = false
			}
		}
		return ok, nil
	})
}

// Undo 撤销上一次编辑
func (con *MeshController) Undo(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.Undo(), nil
	})
}

// Redo 重做
func (con *MeshController) Redo(c *gin.Context) {
	var data MeshOpData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	withSession(c, data.SessionID, func(mesh *MeshEdit.Mesh) (bool, gin.H) {
		return mesh.Redo(), nil
	})
}

// Stats 会话统计信息
func (con *MeshController) Stats(c *gin.Context) {
	sessionID := c.Query("session_id")
	ses := getSession(sessionID)
	if ses == nil {
		c.JSON(404, gin.H{"error": "会话不存在"})
		return
	}
	ses.mu.Lock()
	stats := ses.mesh.GetStats()
	canUndo := ses.mesh.CanUndo()
	canRedo := ses.mesh.CanRedo()
	ses.mu.Unlock()
	c.JSON(200, gin.H{"stats": stats, "can_undo": canUndo, "can_redo": canRedo})
}

// Export 导出当前网格为GeoJSON
func (con *MeshController) Export(c *gin.Context) {
	sessionID := c.Query("session_id")
	ses := getSession(sessionID)
	if ses == nil {
		c.JSON(404, gin.H{"error": "会话不存在"})
		return
	}
	ses.mu.Lock()
	fc := meshToGeojson(ses.mesh)
	ses.mu.Unlock()
	c.JSON(200, fc)
}

// CloseSession 关闭并释放会话
func (con *MeshController) CloseSession(c *gin.Context) {
	sessionID := c.Query("session_id")
	meshHub.Lock()
	_, ok := meshHub.sessions[sessionID]
	delete(meshHub.sessions, sessionID)
	meshHub.Unlock()
	if !ok {
		c.JSON(404, gin.H{"error": "会话不存在"})
		return
	}
	if models.DB != nil {
		models.DB.Model(&models.MeshSession{}).Where("session_id = ?", sessionID).
			Update("status", "closed")
	}
	c.JSON(200, gin.H{"ok": true})
}
