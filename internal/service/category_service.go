package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/model"
)

// ListCategories 获取全部分类，按创建时间倒序。
func ListCategories() ([]model.Category, error) {
	categories := []model.Category{}
	if err := db.DB.Order("create_time desc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByID 获取指定分类。
func GetCategoryByID(id string) (*model.Category, error) {
	var category model.Category
	if err := db.DB.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory 创建分类，code 必须全局唯一。
func CreateCategory(name, code string) (*model.Category, error) {
	if exists, err := categoryCodeExists(code, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrCodeExists
	}

	category := model.Category{
		ID:   uuid.New().String(),
		Name: name,
		Code: code,
	}
	if err := db.DB.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory 更新分类。修改 code 时检查与其他分类的冲突。
// 注意：code 变更不会级联更新已打上旧 code 的图片记录（保持既有行为）。
func UpdateCategory(id, name, code string) (*model.Category, error) {
	var category model.Category
	if err := db.DB.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if code != category.Code {
		if exists, err := categoryCodeExists(code, id); err != nil {
			return nil, err
		} else if exists {
			return nil, ErrCodeExists
		}
	}

	if err := db.DB.Model(&category).Updates(map[string]interface{}{
		"name": name,
		"code": code,
	}).Error; err != nil {
		return nil, err
	}

	if err := db.DB.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory 删除分类。
// 只要有任意图片的 category 字段引用了该 code（完整值、首元素、
// 末元素或中间元素），删除即被拒绝。
func DeleteCategory(id string) error {
	var category model.Category
	if err := db.DB.First(&category, "id = ?", id).Error; err != nil {
		return err
	}

	inUse, err := categoryCodeInUse(category.Code)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	return db.DB.Delete(&category).Error
}

// categoryCodeExists 检查 code 是否已被其他分类占用，excludeID 用于更新场景排除自身。
func categoryCodeExists(code, excludeID string) (bool, error) {
	var existing model.Category
	query := db.DB.Where("code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// categoryCodeInUse 用四种字符串模式匹配逗号连接的 category 字段。
// 图片的 category 是反规范化的逗号列表，这里保持与既有存量数据兼容的
// 判断方式，而不是改成关联表查询。
func categoryCodeInUse(code string) (bool, error) {
	var count int64
	err := db.DB.Model(&model.Image{}).
		Where("category = ? OR category LIKE ? OR category LIKE ? OR category LIKE ?",
			code,
			code+",%",
			"%,"+code,
			"%,"+code+",%",
		).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
