package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrCodeExists 分类 code 与已有分类冲突
	ErrCodeExists = errors.New("code already exists")
	// ErrCategoryInUse 分类仍被图片引用，禁止删除
	ErrCategoryInUse = errors.New("category is associated with one or more images")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// IsRecordNotFound 判断错误是否为记录不存在。
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
