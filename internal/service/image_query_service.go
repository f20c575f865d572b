package service

import (
	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/model"
)

type PaginationQuery struct {
	Page  int
	Limit int
}

type ImageListParams struct {
	PaginationQuery
	Name     string
	Remark   string
	Category string
}

// normalizePagination 归一化分页参数，确保页码与页大小有最小值。
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// ListImages 分页查询图片列表，支持按名称、备注、分类模糊过滤，按创建时间倒序。
func ListImages(params ImageListParams) ([]model.Image, int64, int, int, error) {
	page, limit := normalizePagination(params.Page, params.Limit)

	var total int64
	images := []model.Image{}

	query := db.DB.Model(&model.Image{})
	if params.Name != "" {
		query = query.Where("name LIKE ?", "%"+params.Name+"%")
	}
	if params.Remark != "" {
		query = query.Where("remark LIKE ?", "%"+params.Remark+"%")
	}
	if params.Category != "" {
		query = query.Where("category LIKE ?", "%"+params.Category+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, page, limit, err
	}

	if err := query.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&images).Error; err != nil {
		return nil, 0, page, limit, err
	}

	return images, total, page, limit, nil
}

// GetImageByID 获取指定图片。
func GetImageByID(id string) (*model.Image, error) {
	var image model.Image
	if err := db.DB.First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// GetImagesByIDs 按 ID 列表获取图片（批量删除场景）。
func GetImagesByIDs(ids []string) ([]model.Image, error) {
	var images []model.Image
	if err := db.DB.Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
