package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/model"
	"github.com/wqs576222103/image-viewer/internal/service"
	"github.com/wqs576222103/image-viewer/internal/testutils"
)

func newImageRouter() *gin.Engine {
	r := gin.New()
	r.GET("/api/images", ListImages)
	r.GET("/api/images/:id", GetImage)
	r.POST("/api/images", UploadImage)
	r.PUT("/api/images/:id", UpdateImage)
	r.DELETE("/api/images/:id", DeleteImage)
	r.DELETE("/api/images", BatchDeleteImages)
	return r
}

func uploadTestImage(t *testing.T, r *gin.Engine, fields map[string]string) model.Image {
	t.Helper()
	body, ct := multipartBody(t, "image", "photo.png", testutils.MinimalPNG(), fields)
	rec := doRequest(r, http.MethodPost, "/api/images", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload 期望 201，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
	var img model.Image
	if err := json.Unmarshal(rec.Body.Bytes(), &img); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return img
}

// 测试内容：验证上传成功后记录的 url 指向磁盘上真实存在的文件。
func TestUploadImage_FileOnDisk(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	img := uploadTestImage(t, r, map[string]string{
		"name":     "My Photo",
		"category": "nat",
		"remark":   "a test",
	})

	if img.ID == "" || img.Name != "My Photo" || img.Category != "nat" || img.Remark != "a test" {
		t.Fatalf("非预期记录: %+v", img)
	}
	if img.Width != 2 || img.Height != 3 {
		t.Fatalf("期望解析宽高 2x3，实际为 %dx%d", img.Width, img.Height)
	}

	full := service.ImageFullPath(img.URL)
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("期望文件存在于 %s: %v", full, err)
	}
}

// 测试内容：验证未携带文件的上传返回 400。
func TestUploadImage_MissingFile(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	body, ct := multipartBody(t, "", "", nil, map[string]string{"name": "x"})
	rec := doRequest(r, http.MethodPost, "/api/images", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
}

// 测试内容：验证文件内容与扩展名不符时上传被拒绝且不残留文件。
func TestUploadImage_ContentMismatch(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	body, ct := multipartBody(t, "image", "fake.png", []byte("this is not a png"), nil)
	rec := doRequest(r, http.MethodPost, "/api/images", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
}

// 测试内容：验证名称缺省时回退为上传文件名。
func TestUploadImage_NameDefaultsToFilename(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	img := uploadTestImage(t, r, nil)
	if img.Name != "photo.png" {
		t.Fatalf("期望名称回退为 photo.png，实际为 %q", img.Name)
	}
	if img.Category != "" || img.Remark != "" {
		t.Fatalf("期望 category/remark 默认为空，实际为 %+v", img)
	}
}

// 测试内容：验证列表接口返回分页结构。
func TestListImages_PaginationShape(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	for i := 0; i < 3; i++ {
		uploadTestImage(t, r, nil)
	}

	rec := doRequest(r, http.MethodGet, "/api/images?page=1&limit=2", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data       []model.Image `json:"data"`
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPages  int   `json:"totalPages"`
			TotalCount  int64 `json:"totalCount"`
			PageSize    int   `json:"pageSize"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("期望返回 2 条，实际为 %d", len(resp.Data))
	}
	if resp.Pagination.CurrentPage != 1 || resp.Pagination.TotalPages != 2 ||
		resp.Pagination.TotalCount != 3 || resp.Pagination.PageSize != 2 {
		t.Fatalf("非预期分页: %+v", resp.Pagination)
	}
}

// 测试内容：验证更新接口的字段回退与文件替换行为。
func TestUpdateImage(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	img := uploadTestImage(t, r, map[string]string{
		"name":     "Original",
		"category": "nat",
		"remark":   "before",
	})
	oldPath := service.ImageFullPath(img.URL)

	// 只更新 remark，其余字段保持
	body, ct := multipartBody(t, "", "", nil, map[string]string{"remark": "after"})
	rec := doRequest(r, http.MethodPut, "/api/images/"+img.ID, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
	var updated model.Image
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Name != "Original" || updated.Category != "nat" || updated.Remark != "after" {
		t.Fatalf("非预期更新结果: %+v", updated)
	}
	if updated.URL != img.URL {
		t.Fatalf("无新文件时 url 不应变化")
	}

	// 携带新文件：旧文件被删除，url 指向新文件
	body, ct = multipartBody(t, "image", "new.png", testutils.MinimalPNG(), nil)
	rec = doRequest(r, http.MethodPut, "/api/images/"+img.ID, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.URL == img.URL {
		t.Fatalf("期望 url 指向新文件")
	}
	if _, err := os.Stat(service.ImageFullPath(updated.URL)); err != nil {
		t.Fatalf("期望新文件存在: %v", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("期望旧文件被删除, err=%v", err)
	}
}

// 测试内容：验证更新不存在的图片返回 404。
func TestUpdateImage_NotFound(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	body, ct := multipartBody(t, "", "", nil, map[string]string{"name": "x"})
	rec := doRequest(r, http.MethodPut, "/api/images/no-such-id", body, ct)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
}

// 测试内容：验证删除图片会同时移除数据库记录和物理文件，再次获取返回 404。
func TestDeleteImage_RemovesRowAndFile(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	img := uploadTestImage(t, r, nil)
	full := service.ImageFullPath(img.URL)
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("期望文件存在: %v", err)
	}

	rec := doRequest(r, http.MethodDelete, "/api/images/"+img.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", rec.Code, rec.Body.String())
	}

	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("期望文件被删除, err=%v", err)
	}

	rec = doRequest(r, http.MethodGet, "/api/images/"+img.ID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("期望删除后获取返回 404，实际为 %d", rec.Code)
	}

	// 重复删除返回 404
	rec = doRequest(r, http.MethodDelete, "/api/images/"+img.ID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("期望重复删除返回 404，实际为 %d", rec.Code)
	}
}

// 测试内容：验证批量删除只统计实际存在的图片，全部不存在时返回 404。
func TestBatchDeleteImages(t *testing.T) {
	setupTest(t)
	r := newImageRouter()

	a := uploadTestImage(t, r, nil)
	b := uploadTestImage(t, r, nil)

	payload, _ := json.Marshal(gin.H{"ids": []string{a.ID, b.ID, "no-such-id"}})
	rec := doRequest(r, http.MethodDelete, "/api/images", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message      string `json:"message"`
		DeletedCount int    `json:"deletedCount"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.DeletedCount != 2 {
		t.Fatalf("期望 deletedCount 2，实际为 %d", resp.DeletedCount)
	}

	if _, err := os.Stat(service.ImageFullPath(a.URL)); !os.IsNotExist(err) {
		t.Fatalf("期望文件 a 被删除, err=%v", err)
	}
	if _, err := os.Stat(service.ImageFullPath(b.URL)); !os.IsNotExist(err) {
		t.Fatalf("期望文件 b 被删除, err=%v", err)
	}

	// 全部不存在 → 404
	payload, _ = json.Marshal(gin.H{"ids": []string{"x", "y"}})
	rec = doRequest(r, http.MethodDelete, "/api/images", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d body=%s", rec.Code, rec.Body.String())
	}

	// 空列表 → 400
	payload, _ = json.Marshal(gin.H{"ids": []string{}})
	rec = doRequest(r, http.MethodDelete, "/api/images", bytes.NewBuffer(payload), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d body=%s", rec.Code, rec.Body.String())
	}
}
