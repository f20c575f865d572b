package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wqs576222103/image-viewer/internal/service"
)

// ListCategories 获取全部分类。
func ListCategories(c *gin.Context) {
	categories, err := service.ListCategories()
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory 创建分类，code 必须唯一。
func CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and code are required"})
		return
	}

	category, err := service.CreateCategory(req.Name, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrCodeExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code already exists"})
			return
		}
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory 更新分类，code 与其他分类冲突时拒绝。
func UpdateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and code are required"})
		return
	}

	category, err := service.UpdateCategory(c.Param("id"), req.Name, req.Code)
	if err != nil {
		if service.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		if errors.Is(err, service.ErrCodeExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code already exists"})
			return
		}
		log.Printf("Error updating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory 删除分类，仍被图片引用时拒绝。
func DeleteCategory(c *gin.Context) {
	err := service.DeleteCategory(c.Param("id"))
	if err != nil {
		if service.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		if errors.Is(err, service.ErrCategoryInUse) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete category because it is associated with one or more images"})
			return
		}
		log.Printf("Error deleting category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
