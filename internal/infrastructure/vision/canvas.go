package vision

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/font"

	"ui-assessment-bot/internal/domain/entity"
)

var (
	outlineColor = color.RGBA{R: 255, A: 255}
	labelColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	outlineWidth = 2
	labelPadding = 2

	// высота Hershey Simplex в пикселях при масштабе 1
	hersheyHeight = 22.0
)

// toRGB копирует изображение на непрозрачный RGB-холст с началом в (0,0).
// Прозрачные области ложатся на белый фон.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// pixelRect переводит рамку в целочисленный прямоугольник (края включительно)
func pixelRect(box entity.BoundingBox) image.Rectangle {
	return image.Rect(
		int(math.Round(box.XMin)),
		int(math.Round(box.YMin)),
		int(math.Round(box.XMax)),
		int(math.Round(box.YMax)),
	)
}

// chipRect прямоугольник под подпись: нижний край на верхней границе рамки.
// Если подпись вылезает за верх изображения, кладём её внутрь рамки.
func chipRect(r image.Rectangle, textW, textH int) image.Rectangle {
	top := r.Min.Y - textH - labelPadding
	if top < 0 {
		top = max(r.Min.Y, 0)
		return image.Rect(r.Min.X, top, r.Min.X+textW+1, top+textH+labelPadding+1)
	}
	return image.Rect(r.Min.X, top, r.Min.X+textW+1, r.Min.Y+1)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// strokeRect рисует контур толщиной w внутрь прямоугольника r (края включительно)
func strokeRect(dst *image.RGBA, r image.Rectangle, w int, c color.Color) {
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1
	fillRect(dst, image.Rect(x0, y0, x1, y0+w), c)
	fillRect(dst, image.Rect(x0, y1-w, x1, y1), c)
	fillRect(dst, image.Rect(x0, y0, x0+w, y1), c)
	fillRect(dst, image.Rect(x1-w, y0, x1, y1), c)
}

// labelScale масштаб шрифта OpenCV, при котором подпись той же высоты, что и у face
func labelScale(face font.Face, def float64) float64 {
	if face == nil {
		return def
	}
	h := face.Metrics().Height
	if h <= 0 {
		return def
	}
	return float64(h) / 64 / hersheyHeight
}

// discardDrawn переводит нарисованные детекции в Skipped, если размеченное изображение получить не удалось
func discardDrawn(out *entity.Annotation, drawn []int, err error) {
	for _, i := range drawn {
		out.Skipped = append(out.Skipped, entity.SkippedDetection{Index: i, Err: err})
	}
	sort.Slice(out.Skipped, func(a, b int) bool { return out.Skipped[a].Index < out.Skipped[b].Index })
	out.Drawn = 0
}
