package entity

import (
	"fmt"
	"math"
)

// Detection одна находка внешней модели: центр и размер рамки в пикселях
type Detection struct {
	ClassName  string  // класс UI-элемента ("button", "text", ...)
	Confidence float64 // уверенность модели, [0,1]
	CenterX    float64 // X центра рамки
	CenterY    float64 // Y центра рамки
	Width      float64 // ширина рамки
	Height     float64 // высота рамки
}

// BoundingBox рамка в угловых координатах
type BoundingBox struct {
	XMin, YMin, XMax, YMax float64
}

// Box переводит центр/размер в углы. Некорректная геометрия даёт MalformedDetectionError.
func (d Detection) Box() (BoundingBox, error) {
	if err := d.validate(); err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{
		XMin: d.CenterX - d.Width/2,
		YMin: d.CenterY - d.Height/2,
		XMax: d.CenterX + d.Width/2,
		YMax: d.CenterY + d.Height/2,
	}, nil
}

// Label подпись для рамки: "button (91%)"
func (d Detection) Label() string {
	return fmt.Sprintf("%s (%.0f%%)", d.ClassName, d.Confidence*100)
}

func (d Detection) validate() error {
	if d.ClassName == "" {
		return &MalformedDetectionError{Index: -1, Reason: "empty class name"}
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"x", d.CenterX},
		{"y", d.CenterY},
		{"width", d.Width},
		{"height", d.Height},
		{"confidence", d.Confidence},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &MalformedDetectionError{Index: -1, Reason: fmt.Sprintf("%s is missing or not finite", f.name)}
		}
	}
	if d.Width < 0 || d.Height < 0 {
		return &MalformedDetectionError{Index: -1, Reason: fmt.Sprintf("negative size %.1fx%.1f", d.Width, d.Height)}
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return &MalformedDetectionError{Index: -1, Reason: fmt.Sprintf("confidence %.3f out of range", d.Confidence)}
	}
	return nil
}

// Dx и Dy возвращают ширину и высоту рамки
func (b BoundingBox) Dx() float64 { return b.XMax - b.XMin }
func (b BoundingBox) Dy() float64 { return b.YMax - b.YMin }
