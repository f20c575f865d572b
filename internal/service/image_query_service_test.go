package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/model"
	"github.com/wqs576222103/image-viewer/internal/testutils"
)

func seedImage(t *testing.T, name, remark, category string, createdAt time.Time) model.Image {
	t.Helper()
	img := model.Image{
		ID:        uuid.New().String(),
		Name:      name,
		URL:       "/uploads/" + name,
		Remark:    remark,
		Category:  category,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := db.DB.Create(&img).Error; err != nil {
		t.Fatalf("创建图片失败: %v", err)
	}
	return img
}

// 测试内容：验证图片列表的过滤、分页与倒序排序。
func TestListImages_FiltersAndPagination(t *testing.T) {
	testutils.SetupDB(t)

	base := time.Now().Add(-time.Hour)
	seedImage(t, "sunset.png", "evening shot", "nat", base)
	seedImage(t, "sunrise.png", "morning shot", "nat,sea", base.Add(time.Minute))
	seedImage(t, "building.png", "downtown", "city", base.Add(2*time.Minute))

	// 无过滤条件：全量，按创建时间倒序
	images, total, page, limit, err := ListImages(ImageListParams{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 3 || page != 1 || limit != 10 {
		t.Fatalf("非预期分页结果: total=%d page=%d limit=%d", total, page, limit)
	}
	if images[0].Name != "building.png" {
		t.Fatalf("期望最新图片在前，实际为 %q", images[0].Name)
	}

	// 名称模糊过滤
	images, total, _, _, err = ListImages(ImageListParams{Name: "sun"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 {
		t.Fatalf("期望 name 过滤出 2 张，实际为 %d", total)
	}

	// 备注模糊过滤
	_, total, _, _, err = ListImages(ImageListParams{Remark: "shot"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 {
		t.Fatalf("期望 remark 过滤出 2 张，实际为 %d", total)
	}

	// 分类子串过滤
	_, total, _, _, err = ListImages(ImageListParams{Category: "nat"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 {
		t.Fatalf("期望 category 过滤出 2 张，实际为 %d", total)
	}

	// 分页
	images, total, page, limit, err = ListImages(ImageListParams{PaginationQuery: PaginationQuery{Page: 2, Limit: 2}})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 3 || page != 2 || limit != 2 || len(images) != 1 {
		t.Fatalf("非预期分页: total=%d page=%d limit=%d len=%d", total, page, limit, len(images))
	}

	// 非法分页参数归一化
	_, _, page, limit, err = ListImages(ImageListParams{PaginationQuery: PaginationQuery{Page: -1, Limit: 0}})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if page != 1 || limit != 10 {
		t.Fatalf("期望归一化为 page=1 limit=10，实际为 page=%d limit=%d", page, limit)
	}
}

// 测试内容：验证按 ID 列表查询只返回存在的图片。
func TestGetImagesByIDs(t *testing.T) {
	testutils.SetupDB(t)

	a := seedImage(t, "a.png", "", "", time.Now())
	b := seedImage(t, "b.png", "", "", time.Now())

	images, err := GetImagesByIDs([]string{a.ID, b.ID, uuid.New().String()})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("期望 2 张图片，实际为 %d", len(images))
	}
}

// 测试内容：验证查询不存在的图片返回记录不存在。
func TestGetImageByID_NotFound(t *testing.T) {
	testutils.SetupDB(t)

	_, err := GetImageByID(uuid.New().String())
	if !IsRecordNotFound(err) {
		t.Fatalf("期望记录不存在错误，实际为 %v", err)
	}
}
