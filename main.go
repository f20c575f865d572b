package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/config"
	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/middleware"
	"github.com/wqs576222103/image-viewer/internal/router"
	"github.com/wqs576222103/image-viewer/internal/service"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	flag.Parse()

	config.InitConfig(*configDir)
	db.InitDB()

	if err := service.EnsureBootstrapUser(); err != nil {
		log.Fatal("❌ 初始账号创建失败: ", err)
	}

	uploadPath := config.Get().Upload.Path
	checkSecurePath(uploadPath)
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		log.Fatal("无法创建上传目录: ", err)
	}

	gin.SetMode(config.Get().Server.Mode)

	r := gin.Default()
	router.InitRouter(r)

	// 使用带缓存控制的静态文件服务
	r.Group(config.Get().Upload.URLPrefix, middleware.StaticCacheMiddleware()).
		StaticFS("", gin.Dir(uploadPath, false))

	// 可选的内嵌前端 (编译时 -tags embed)
	distFS := GetFrontendAssets()
	var indexData []byte
	if distFS != nil {
		indexData = setupFrontend(r, distFS)
	}

	r.NoRoute(getNoRouteHandler(distFS, indexData))

	// 停机配置
	srv := &http.Server{
		Addr:    ":" + config.Get().Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", config.Get().Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ 服务强制关闭:", err)
	}

	if err := service.CloseRedisClient(); err != nil {
		log.Printf("⚠️ 关闭 Redis 连接失败: %v", err)
	}
	log.Println("✅ 服务已退出")
}

// getNoRouteHandler 处理未命中路由：API 与上传路径返回 404，
// 内嵌前端存在时回退到 SPA index。
func getNoRouteHandler(distFS fs.FS, indexData []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{"error": "API not found"})
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, config.Get().Upload.URLPrefix) {
			c.JSON(404, gin.H{"error": "Upload not found"})
			return
		}

		if distFS == nil {
			c.JSON(404, gin.H{"error": "Not found"})
			return
		}

		// 尝试直接服务根目录下的静态文件 (如 favicon.ico)
		path := strings.TrimPrefix(c.Request.URL.Path, "/")
		if path == "" {
			c.Data(200, "text/html; charset=utf-8", indexData)
			return
		}

		f, err := distFS.Open(path)
		if err == nil {
			defer f.Close()
			stat, _ := f.Stat()
			if !stat.IsDir() {
				c.FileFromFS(path, http.FS(distFS))
				return
			}
		}

		// SPA 回退：服务 index.html 内容
		c.Data(200, "text/html; charset=utf-8", indexData)
	}
}

func checkSecurePath(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("❌ 路径解析失败: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ 无法获取当前工作目录: %v", err)
	}

	// 检查是否直接指向项目根目录
	if absPath == cwd {
		log.Fatalf("❌ 安全配置错误: 静态资源目录 '%s' 不能设置为项目根目录！这会导致源代码泄露。", path)
	}

	// 检查路径安全
	rel, err := filepath.Rel(cwd, absPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		// 统一路径分隔符为 / 方便匹配
		relSlash := filepath.ToSlash(rel)

		// 允许的安全目录列表
		// 只有位于这些目录下的路径才被允许作为静态资源目录
		allowedDirs := []string{
			"uploads",
			"public",
			"assets",
			"static",
			"tmp",
		}

		isAllowed := false
		firstComponent := strings.Split(relSlash, "/")[0]
		for _, allowed := range allowedDirs {
			if strings.EqualFold(firstComponent, allowed) {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			log.Fatalf("❌ 安全配置错误: 静态资源目录 '%s' (解析为: '%s') 必须位于项目根目录下的安全子目录中 (如 %v)。", path, relSlash, allowedDirs)
		}
	}
}
