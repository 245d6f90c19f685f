package port

import (
	"context"
	"image"

	"ui-assessment-bot/internal/domain/entity"
)

// Detector интерфейс внешнего сервиса детекции UI-элементов
type Detector interface {
	// Detect отправляет изображение модели и возвращает детекции в порядке ответа
	Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error)

	// Name имя провайдера для логов и сообщений об ошибках
	Name() string
}

// Annotator рисует рамки и подписи детекций
type Annotator interface {
	// Annotate возвращает новое изображение, исходное не меняется
	Annotate(src image.Image, detections []entity.Detection) *entity.Annotation
}
