package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/middleware"
)

func InitRouter(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	// 应用请求体大小限制中间件
	api.Use(middleware.BodyLimitMiddleware())

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	registerAuthRoutes(api)
	registerImageRoutes(api)
	registerCategoryRoutes(api)
}
