//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"ui-assessment-bot/internal/domain/entity"
)

// Annotator рисует рамки детекций и подписи "class (NN%)" поверх копии изображения
type Annotator struct {
	face font.Face
}

// NewAnnotator создаёт разметчик с заданным шрифтом подписей
func NewAnnotator(face font.Face) *Annotator {
	return &Annotator{face: face}
}

// Annotate размечает копию изображения. Некорректные детекции пропускаются и попадают в Skipped.
func (a *Annotator) Annotate(src image.Image, detections []entity.Detection) *entity.Annotation {
	canvas := toRGB(src)
	out := &entity.Annotation{Image: canvas}

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
		strokeRect(canvas, r, outlineWidth, outlineColor)

		label := d.Label()
		bounds, advance := font.BoundString(a.face, label)
		textW := advance.Ceil()
		textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

		chip := chipRect(r, textW, textH)
		fillRect(canvas, chip, outlineColor)

		drawer := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(labelColor),
			Face: a.face,
			Dot:  fixed.Point26_6{X: fixed.I(chip.Min.X), Y: fixed.I(chip.Min.Y+1) - bounds.Min.Y},
		}
		drawer.DrawString(label)
		out.Drawn++
	}

	return out
}
