package main

import (
	"log"

	"github.com/GrainArc/SurfaceMap/config"
	"github.com/GrainArc/SurfaceMap/models"
	"github.com/GrainArc/SurfaceMap/routers"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := models.InitDB(); err != nil {
		log.Printf("数据库初始化失败，任务记录不可用: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	routers.SurfaceRouters(r)

	log.Printf("服务启动: %s", config.MainRouter)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
