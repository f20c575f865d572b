package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/handler"
	"github.com/wqs576222103/image-viewer/internal/middleware"
)

func registerCategoryRoutes(api *gin.RouterGroup) {
	categoryGroup := api.Group("/categories")
	categoryGroup.Use(middleware.JWTAuth())

	categoryGroup.GET("", handler.ListCategories)
	categoryGroup.POST("", handler.CreateCategory)
	categoryGroup.PUT("/:id", handler.UpdateCategory)
	categoryGroup.DELETE("/:id", handler.DeleteCategory)
}
