package routers

import (
	"github.com/GrainArc/SurfaceMap/config"
	"github.com/GrainArc/SurfaceMap/views"
	"github.com/gin-gonic/gin"
)

func SurfaceRouters(r *gin.Engine) {
	SurfaceController := &views.SurfaceController{}
	MeshController := &views.MeshController{}
	surfaceRouter := r.Group("/surface")
	{
		surfaceRouter.POST("/Interpolate", SurfaceController.Interpolate)
		surfaceRouter.POST("/Contour", SurfaceController.Contour)
		surfaceRouter.POST("/Triangulate", SurfaceController.Triangulate)
		surfaceRouter.GET("/TaskProgress/:taskid", SurfaceController.TaskProgress)
		surfaceRouter.GET("/TaskResult/:taskid", SurfaceController.TaskResult)
		surfaceRouter.POST("/ContourToDXF", SurfaceController.ContourToDXF)
		surfaceRouter.POST("/ContourToShp", SurfaceController.ContourToShp)
		surfaceRouter.Static("/OutFile", config.Download)
	}
	meshRouter := r.Group("/mesh")
	{
		meshRouter.POST("/CreateSession", MeshController.CreateSession)
		meshRouter.POST("/SwapEdge", MeshController.SwapEdge)
		meshRouter.POST("/InsertPoint", MeshController.InsertPoint)
		meshRouter.POST("/DeletePoint", MeshController.DeletePoint)
		meshRouter.POST("/DeleteTriangle", MeshController.DeleteTriangle)
		meshRouter.POST("/FlattenTriangle", MeshController.FlattenTriangle)
		meshRouter.POST("/ModifyVertexZ", MeshController.ModifyVertexZ)
		meshRouter.POST("/LockTriangle", MeshController.LockTriangle)
		meshRouter.POST("/AddBreakline", MeshController.AddBreakline)
		meshRouter.POST("/Undo", MeshController.Undo)
		meshRouter.POST("/Redo", MeshController.Redo)
		meshRouter.GET("/Stats", MeshController.Stats)
		meshRouter.GET("/Export", MeshController.Export)
		meshRouter.GET("/CloseSession", MeshController.CloseSession)
	}
}
