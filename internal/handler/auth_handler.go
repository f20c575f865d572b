package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/service"
)

// Login 用户名密码登录，成功后签发 Token。
func Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "用户名和密码不能为空"})
		return
	}

	token, user, err := service.LoginUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "用户名或密码错误"})
			return
		}
		log.Printf("登录错误: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Refresh 以仍然有效的 Token 换取一个新的过期窗口。
func Refresh(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "缺少token"})
		return
	}

	newToken, err := service.RefreshToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "无效的token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token刷新成功",
		"token":   newToken,
	})
}

// Logout 登出。Token 无服务端状态，客户端清除本地 Token 即可。
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "登出成功"})
}
