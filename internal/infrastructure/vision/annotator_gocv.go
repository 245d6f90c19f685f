//go:build gocv
// +build gocv

package vision

import (
	"image"
	"log"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"

	"ui-assessment-bot/internal/domain/entity"
)

const (
	cvFont      = gocv.FontHersheySimplex
	cvFontScale = 0.5
	cvThickness = 1
)

// Annotator рисует рамки и подписи средствами OpenCV.
// У OpenCV свои Hershey-шрифты, от face берётся только высота подписи.
type Annotator struct {
	scale float64
}

// NewAnnotator создаёт разметчик на OpenCV
func NewAnnotator(face font.Face) *Annotator {
	return &Annotator{scale: labelScale(face, cvFontScale)}
}

// Annotate размечает копию изображения. Некорректные детекции пропускаются и попадают в Skipped.
func (a *Annotator) Annotate(src image.Image, detections []entity.Detection) *entity.Annotation {
	base := toRGB(src)
	out := &entity.Annotation{Image: base}

	mat, err := gocv.ImageToMatRGB(base)
	if err != nil {
		log.Printf("OpenCV conversion failed, returning unannotated copy: %v", err)
		all := make([]int, len(detections))
		for i := range detections {
			all[i] = i
		}
		discardDrawn(out, all, err)
		return out
	}
	defer mat.Close()

	var drawn []int
	for i, d := range detections {
		box, err := d.Box()
		if err != nil {
			if m, ok := err.(*entity.MalformedDetectionError); ok {
				m.Index = i
			}
			log.Printf("Skipping detection #%d: %v", i+1, err)
			out.Skipped = append(out.Skipped, entity.SkippedDetection{Index: i, Err: err})
			continue
		}

		r := pixelRect(box)
		gocv.Rectangle(&mat, image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1), outlineColor, outlineWidth)

		label := d.Label()
		size := gocv.GetTextSize(label, cvFont, a.scale, cvThickness)
		chip := chipRect(r, size.X, size.Y)
		gocv.Rectangle(&mat, chip, outlineColor, -1)
		gocv.PutText(&mat, label, image.Pt(chip.Min.X, chip.Min.Y+1+size.Y), cvFont, a.scale, labelColor, cvThickness)
		drawn = append(drawn, i)
		out.Drawn++
	}

	img, err := mat.ToImage()
	if err != nil {
		log.Printf("OpenCV export failed, returning unannotated copy: %v", err)
		discardDrawn(out, drawn, err)
		return out
	}
	out.Image = toRGB(img)
	return out
}
