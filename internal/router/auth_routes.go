package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/handler"
	"github.com/wqs576222103/image-viewer/internal/middleware"
)

func registerAuthRoutes(api *gin.RouterGroup) {
	// 登录限流：防止暴力猜解
	loginLimiter := middleware.RateLimitMiddleware()

	api.POST("/login", loginLimiter, handler.Login)
	api.POST("/refresh", handler.Refresh)
	api.POST("/logout", handler.Logout)
}
