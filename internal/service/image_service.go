package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wqs576222103/image-viewer/internal/config"
	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/model"
	"github.com/wqs576222103/image-viewer/internal/utils"
)

// ValidateImageFile 验证上传的图片文件（大小、后缀、内容）
// 返回:
//   - bool: 是否合法
//   - string: 文件扩展名 (小写, 如 .jpg)
//   - error: 错误信息或原因
func ValidateImageFile(file *multipart.FileHeader) (bool, string, error) {
	cfg := config.Get()

	// 检查文件大小
	maxSizeMB := cfg.Upload.MaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if file.Size > int64(maxSizeMB)*1024*1024 {
		return false, "", fmt.Errorf("文件大小不能超过 %dMB", maxSizeMB)
	}

	// 检查文件扩展名
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return false, "", errors.New("无法识别文件类型")
	}

	allowExtsStr := cfg.Upload.AllowedExtensions
	if allowExtsStr == "" {
		allowExtsStr = ".jpg,.jpeg,.png,.gif,.webp,.bmp"
	}

	allowed := false
	for _, allowExt := range strings.Split(allowExtsStr, ",") {
		if strings.TrimSpace(strings.ToLower(allowExt)) == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, ext, fmt.Errorf("不支持的文件类型: %s", ext)
	}

	// 检查文件内容 (Magic Bytes)
	src, err := file.Open()
	if err != nil {
		return false, ext, errors.New("无法打开上传的文件")
	}
	defer func() { _ = src.Close() }()

	if valid, msg := utils.ValidateImageContent(src, ext); !valid {
		return false, ext, errors.New(msg)
	}

	return true, ext, nil
}

// uploadRoot 返回磁盘上传根目录。
func uploadRoot() string {
	root := config.Get().Upload.Path
	if root == "" {
		root = "uploads/imgs"
	}
	return root
}

// ImageFullPath 根据记录的公开 URL 计算物理文件路径。
func ImageFullPath(url string) string {
	prefix := config.Get().Upload.URLPrefix
	if prefix == "" {
		prefix = "/uploads/"
	}
	rel := strings.TrimPrefix(url, prefix)
	return filepath.Join(uploadRoot(), filepath.FromSlash(rel))
}

// saveUploadedFile 将上传文件落盘到 <root>/YYYY/MM/DD/<uuid><ext>。
// 返回相对上传根目录的路径（斜杠分隔）以及解析出的图片宽高。
func saveUploadedFile(file *multipart.FileHeader, ext string) (string, int, int, error) {
	now := time.Now()
	datePath := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	fullDir := filepath.Join(uploadRoot(), datePath)

	// 自动创建文件夹
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		log.Printf("MkdirAll error: %v\n", err)
		return "", 0, 0, errors.New("系统错误: 无法创建存储目录")
	}

	// 生成唯一文件名
	newFilename := uuid.New().String() + ext
	dst := filepath.Join(fullDir, newFilename)

	src, err := file.Open()
	if err != nil {
		return "", 0, 0, errors.New("无法读取上传文件")
	}
	defer func() { _ = src.Close() }()

	width, height := utils.DecodeImageSize(src)

	out, err := os.Create(dst)
	if err != nil {
		return "", 0, 0, errors.New("系统错误: 无法创建文件")
	}
	defer func() { _ = out.Close() }()

	if _, err = io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", 0, 0, errors.New("文件保存失败")
	}

	relPath := filepath.ToSlash(filepath.Join(datePath, newFilename))
	return relPath, width, height, nil
}

// CreateImage 处理图片上传：验证、落盘、写库。
// 数据库写入失败时删除刚落盘的文件，保证不残留孤儿文件。
func CreateImage(file *multipart.FileHeader, name, category, remark string) (*model.Image, error) {
	valid, ext, err := ValidateImageFile(file)
	if !valid {
		return nil, err
	}

	relPath, width, height, err := saveUploadedFile(file, ext)
	if err != nil {
		return nil, err
	}

	prefix := config.Get().Upload.URLPrefix
	if prefix == "" {
		prefix = "/uploads/"
	}

	if name == "" {
		name = file.Filename
	}

	imageRecord := model.Image{
		ID:       uuid.New().String(),
		Name:     name,
		URL:      prefix + relPath,
		Category: category,
		Remark:   remark,
		Width:    width,
		Height:   height,
	}

	if err := db.DB.Create(&imageRecord).Error; err != nil {
		// 回滚文件
		_ = os.Remove(filepath.Join(uploadRoot(), filepath.FromSlash(relPath)))
		log.Printf("Create image DB error: %v\n", err)
		return nil, errors.New("系统错误: 数据库记录失败")
	}

	return &imageRecord, nil
}

// UpdateImage 更新图片信息，file 为 nil 时仅更新元数据。
// 缺省的字段回退到已有值；携带新文件时先删除旧文件再指向新文件。
func UpdateImage(id, name, category, remark string, file *multipart.FileHeader) (*model.Image, error) {
	var image model.Image
	if err := db.DB.First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if name == "" {
		name = image.Name
	}
	if category == "" {
		category = image.Category
	}
	if remark == "" {
		remark = image.Remark
	}

	updates := map[string]interface{}{
		"name":     name,
		"category": category,
		"remark":   remark,
	}

	var newRelPath string
	if file != nil {
		valid, ext, err := ValidateImageFile(file)
		if !valid {
			return nil, err
		}

		relPath, width, height, err := saveUploadedFile(file, ext)
		if err != nil {
			return nil, err
		}
		newRelPath = relPath

		// 删除旧文件
		oldPath := ImageFullPath(image.URL)
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Remove old file error: %v, path: %s\n", err, oldPath)
		}

		prefix := config.Get().Upload.URLPrefix
		if prefix == "" {
			prefix = "/uploads/"
		}
		updates["url"] = prefix + relPath
		updates["width"] = width
		updates["height"] = height
	}

	if err := db.DB.Model(&image).Updates(updates).Error; err != nil {
		if newRelPath != "" {
			_ = os.Remove(filepath.Join(uploadRoot(), filepath.FromSlash(newRelPath)))
		}
		log.Printf("Update image DB error: %v\n", err)
		return nil, errors.New("系统错误: 数据库记录失败")
	}

	if err := db.DB.First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImage 删除图片记录和物理文件。
// 记录在事务内删除，事务提交后再清理文件。
func DeleteImage(image *model.Image) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(image).Error
	})
	if err != nil {
		return err
	}

	fullPath := ImageFullPath(image.URL)
	if err := os.Remove(fullPath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Delete file error: %v, path: %s\n", err, fullPath)
		}
	}

	return nil
}

// BatchDeleteImages 批量删除图片
func BatchDeleteImages(images []model.Image) error {
	if len(images) == 0 {
		return nil
	}

	var imageIDs []string
	var pathsToDelete []string
	for _, img := range images {
		imageIDs = append(imageIDs, img.ID)
		pathsToDelete = append(pathsToDelete, ImageFullPath(img.URL))
	}

	// 单一事务删除所有记录
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Where("id IN ?", imageIDs).Delete(&model.Image{}).Error
	})
	if err != nil {
		return err
	}

	// 事务成功提交后，清理物理文件
	for _, path := range pathsToDelete {
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Delete file error: %v, path: %s\n", err, path)
			}
		}
	}

	return nil
}
