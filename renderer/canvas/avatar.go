package canvasrenderer

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
)

// LoadAvatar 读取头像图片（支持 imaging 能解码的格式）。
func LoadAvatar(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("读取头像 %s 失败: %w", path, err)
	}
	return img, nil
}

// circleAvatar 把图片居中裁剪为 size×size 并去掉内切圆以外的像素。
func circleAvatar(src image.Image, size int) *image.NRGBA {
	img := imaging.Fill(src, size, size, imaging.Center, imaging.Lanczos)
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if math.Hypot(dx, dy) > r {
				i := img.PixOffset(x, y)
				img.Pix[i+3] = 0
			}
		}
	}
	return img
}

// drawAvatar 在 (x, y) 处绘制直径为 size 的圆形头像。
func drawAvatar(ctx *canvas.Context, src image.Image, x, y, size float64) {
	px := int(math.Round(size))
	if px <= 0 {
		return
	}
	ctx.DrawImage(x, y, circleAvatar(src, px), canvas.DPMM(float64(px)/size))
}
