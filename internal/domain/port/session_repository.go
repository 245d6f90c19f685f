package port

import (
	"context"

	"ui-assessment-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий оценки
type SessionRepository interface {
	// Get возвращает сессию по ключу, создаёт новую если не найдена
	Get(ctx context.Context, key int64) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error
}
