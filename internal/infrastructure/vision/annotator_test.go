//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"ui-assessment-bot/internal/domain/entity"
)

var gray = color.RGBA{R: 100, G: 100, B: 100, A: 255}

func grayImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: gray}, image.Point{}, draw.Src)
	return img
}

func TestAnnotate_DrawsOutlineAndChip(t *testing.T) {
	src := grayImage(120, 120)
	a := NewAnnotator(basicfont.Face7x13)

	res := a.Annotate(src, []entity.Detection{
		{ClassName: "button", Confidence: 0.91, CenterX: 50, CenterY: 70, Width: 20, Height: 20},
	})

	require.Equal(t, 1, res.Drawn)
	require.False(t, res.Partial())
	require.Equal(t, src.Bounds(), res.Image.Bounds())

	// рамка 60..80 по Y, 40..60 по X, толщина 2 внутрь
	require.Equal(t, outlineColor, res.Image.RGBAAt(40, 70))
	require.Equal(t, outlineColor, res.Image.RGBAAt(41, 70))
	require.Equal(t, gray, res.Image.RGBAAt(42, 70))
	require.Equal(t, outlineColor, res.Image.RGBAAt(60, 70))
	require.Equal(t, outlineColor, res.Image.RGBAAt(59, 70))
	require.Equal(t, gray, res.Image.RGBAAt(50, 70))

	// нижняя строка плашки прямо над рамкой
	require.Equal(t, outlineColor, res.Image.RGBAAt(40, 59))

	// исходное изображение не тронуто
	require.Equal(t, gray, src.RGBAAt(40, 70))
}

func TestAnnotate_ChipFlipsInsideAtTopEdge(t *testing.T) {
	src := grayImage(200, 60)
	a := NewAnnotator(basicfont.Face7x13)

	res := a.Annotate(src, []entity.Detection{
		{ClassName: "button", Confidence: 0.8, CenterX: 50, CenterY: 20, Width: 20, Height: 40},
	})

	require.Equal(t, 1, res.Drawn)
	// плашка легла внутрь рамки
	require.NotEqual(t, gray, res.Image.RGBAAt(45, 5))
}

func TestAnnotate_SkipsMalformedDetection(t *testing.T) {
	src := grayImage(100, 100)
	a := NewAnnotator(basicfont.Face7x13)

	res := a.Annotate(src, []entity.Detection{
		{ClassName: "", Confidence: 0.5, CenterX: 10, CenterY: 10, Width: 5, Height: 5},
		{ClassName: "text", Confidence: 0.7, CenterX: 50, CenterY: 70, Width: 10, Height: 10},
	})

	require.Equal(t, 1, res.Drawn)
	require.True(t, res.Partial())
	require.Len(t, res.Skipped, 1)
	require.Equal(t, 0, res.Skipped[0].Index)

	var malformed *entity.MalformedDetectionError
	require.True(t, errors.As(res.Skipped[0].Err, &malformed))
	require.Equal(t, 0, malformed.Index)
}

func TestAnnotate_NoDetectionsReturnsCopy(t *testing.T) {
	src := grayImage(10, 10)
	res := NewAnnotator(basicfont.Face7x13).Annotate(src, nil)

	require.Equal(t, 0, res.Drawn)
	require.Equal(t, src.Pix, res.Image.Pix)
	require.NotSame(t, src, res.Image)
}

func TestAnnotate_TransparentBecomesWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 15))
	res := NewAnnotator(basicfont.Face7x13).Annotate(src, nil)

	require.Equal(t, image.Rect(0, 0, 10, 10), res.Image.Bounds())
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, res.Image.RGBAAt(0, 0))
}

func TestLoadFace_FallsBackToBuiltIn(t *testing.T) {
	require.Equal(t, basicfont.Face7x13, LoadFace("/nonexistent/font.ttf", 15))
	require.Equal(t, basicfont.Face7x13, LoadFace("", 15))
}
