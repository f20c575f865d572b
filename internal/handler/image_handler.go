package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/service"
)

// isUploadValidationError 区分上传校验错误与系统错误
func isUploadValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "不支持的文件类型") ||
		strings.Contains(msg, "文件大小") ||
		strings.Contains(msg, "无法识别文件类型") ||
		strings.Contains(msg, "扩展名")
}

// ListImages 分页获取图片列表，支持按名称、备注、分类过滤。
func ListImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	images, total, page, limit, err := service.ListImages(service.ImageListParams{
		PaginationQuery: service.PaginationQuery{Page: page, Limit: limit},
		Name:            c.Query("name"),
		Remark:          c.Query("remark"),
		Category:        c.Query("category"),
	})
	if err != nil {
		log.Printf("Error fetching images: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch images"})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"data": images,
		"pagination": gin.H{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalCount":  total,
			"pageSize":    limit,
		},
	})
}

// GetImage 获取单个图片。
func GetImage(c *gin.Context) {
	image, err := service.GetImageByID(c.Param("id"))
	if err != nil {
		if service.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
			return
		}
		log.Printf("Error fetching image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
		return
	}
	c.JSON(http.StatusOK, image)
}

// UploadImage 上传图片并创建记录。
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	image, err := service.CreateImage(
		file,
		c.PostForm("name"),
		c.PostForm("category"),
		c.PostForm("remark"),
	)
	if err != nil {
		if isUploadValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error uploading image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, image)
}

// UpdateImage 更新图片信息，可选携带新文件替换原图。
func UpdateImage(c *gin.Context) {
	// 文件是可选的
	file, err := c.FormFile("image")
	if err != nil {
		file = nil
	}

	image, err := service.UpdateImage(
		c.Param("id"),
		c.PostForm("name"),
		c.PostForm("category"),
		c.PostForm("remark"),
		file,
	)
	if err != nil {
		if service.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		if isUploadValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error updating image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update image"})
		return
	}

	c.JSON(http.StatusOK, image)
}

// DeleteImage 删除单个图片（文件和记录）。
func DeleteImage(c *gin.Context) {
	image, err := service.GetImageByID(c.Param("id"))
	if err != nil {
		if service.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		log.Printf("Error fetching image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	if err := service.DeleteImage(image); err != nil {
		log.Printf("Error deleting image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// BatchDeleteImages 批量删除图片，返回实际删除数量。
func BatchDeleteImages(c *gin.Context) {
	var req struct {
		Ids []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid IDs provided"})
		return
	}

	images, err := service.GetImagesByIDs(req.Ids)
	if err != nil {
		log.Printf("Error fetching images: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete images"})
		return
	}

	if len(images) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No images found"})
		return
	}

	if err := service.BatchDeleteImages(images); err != nil {
		log.Printf("Error deleting images: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Successfully deleted " + strconv.Itoa(len(images)) + " images",
		"deletedCount": len(images),
	})
}
