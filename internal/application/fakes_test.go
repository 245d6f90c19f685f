package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/report"
)

type fakeDetector struct {
	mu         sync.Mutex
	detections []entity.Detection
	err        error
	calls      int
	started    chan struct{} // сигнал о начале вызова, если задан
	release    chan struct{} // вызов ждёт закрытия, если задан
}

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	f.mu.Lock()
	f.calls++
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return f.detections, f.err
}

func (f *fakeDetector) Name() string { return "fake" }

// countingAnnotator возвращает копию без рисования
type countingAnnotator struct{}

func (countingAnnotator) Annotate(src image.Image, detections []entity.Detection) *entity.Annotation {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	out := &entity.Annotation{Image: dst}
	for i, d := range detections {
		if _, err := d.Box(); err != nil {
			out.Skipped = append(out.Skipped, entity.SkippedDetection{Index: i, Err: err})
			continue
		}
		out.Drawn++
	}
	return out
}

type captureRenderer struct {
	doc *report.Document
}

func (r *captureRenderer) Render(doc *report.Document) ([]byte, error) {
	r.doc = doc
	return []byte("%PDF-1.3 fake"), nil
}

func (r *captureRenderer) MimeType() string { return report.MimeTypePDF }

// reportTables все таблицы документа в порядке появления
func reportTables(doc *report.Document) []report.Table {
	var out []report.Table
	for _, b := range doc.Blocks {
		if t, ok := b.(report.Table); ok {
			out = append(out, t)
		}
	}
	return out
}

func screenshotPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 200, G: 200, B: 200, A: 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var twoButtons = []entity.Detection{
	{ClassName: "button", Confidence: 0.91, CenterX: 100, CenterY: 100, Width: 40, Height: 20},
	{ClassName: "button", Confidence: 0.80, CenterX: 300, CenterY: 100, Width: 40, Height: 20},
}
