package utils

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ValidateImageContent checks if the file content matches the extension.
func ValidateImageContent(reader io.ReadSeeker, ext string) (bool, string) {
	buffer := make([]byte, 512)
	_, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return false, "读取文件内容失败"
	}

	// 重置读取位置
	if _, err := reader.Seek(0, 0); err != nil {
		return false, "重置文件读取位置失败"
	}

	contentType := http.DetectContentType(buffer)

	allowedTypes := map[string]map[string]bool{
		"image/jpeg":     {".jpg": true, ".jpeg": true},
		"image/png":      {".png": true},
		"image/gif":      {".gif": true},
		"image/webp":     {".webp": true},
		"image/bmp":      {".bmp": true},
		"image/x-ms-bmp": {".bmp": true},
	}

	if exts, ok := allowedTypes[contentType]; ok {
		if exts[ext] {
			return true, ""
		}
	}

	return false, "文件真实类型(" + contentType + ")与扩展名(" + ext + ")不匹配或不支持"
}

// DecodeImageSize 解析图片宽高。
// 解码失败时返回 0,0（宽高只是展示信息，不阻断上传）。
func DecodeImageSize(reader io.ReadSeeker) (int, int) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		_, _ = reader.Seek(0, 0)
		return 0, 0
	}
	if _, err := reader.Seek(0, 0); err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
