package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/config"
	"github.com/wqs576222103/image-viewer/internal/testutils"
)

// setupTest 初始化测试环境：配置、内存数据库，并切换到临时工作目录
// 以便上传文件落在测试专属目录。
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("IMAGE_VIEWER_SERVER_MODE", "debug")
	t.Setenv("IMAGE_VIEWER_JWT_SECRET", "test_secret_for_handler")
	config.InitConfig(t.TempDir())

	testutils.SetupDB(t)

	tmp := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("获取工作目录失败: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("切换工作目录失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
}

// multipartBody 构造带可选文件与表单字段的 multipart 请求体。
func multipartBody(t *testing.T, fileField, filename string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("创建文件字段失败: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("写入文件内容失败: %v", err)
		}
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	_ = w.Close()
	return &body, w.FormDataContentType()
}

func doRequest(r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
