package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// MinimalPNG 返回一张 2x3 的合法 PNG 图片字节，用于上传相关测试。
func MinimalPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
