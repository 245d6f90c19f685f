package entity

import "image"

// SkippedDetection детекция, которую не удалось нарисовать
type SkippedDetection struct {
	Index int
	Err   error
}

// Annotation результат разметки изображения
type Annotation struct {
	Image   *image.RGBA        // новое изображение, исходное не меняется
	Drawn   int                // сколько рамок нарисовано
	Skipped []SkippedDetection // пропущенные записи
}

// Partial true, если нарисованы не все детекции
func (a *Annotation) Partial() bool {
	return len(a.Skipped) > 0
}
