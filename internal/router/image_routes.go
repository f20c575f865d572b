package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/handler"
	"github.com/wqs576222103/image-viewer/internal/middleware"
)

func registerImageRoutes(api *gin.RouterGroup) {
	imageGroup := api.Group("/images")
	imageGroup.Use(middleware.JWTAuth())

	uploadBodyLimit := middleware.UploadBodyLimitMiddleware()

	imageGroup.GET("", handler.ListImages)
	imageGroup.GET("/:id", handler.GetImage)
	imageGroup.POST("", uploadBodyLimit, handler.UploadImage)
	imageGroup.PUT("/:id", uploadBodyLimit, handler.UpdateImage)
	imageGroup.DELETE("/:id", handler.DeleteImage)
	imageGroup.DELETE("", handler.BatchDeleteImages)
}
