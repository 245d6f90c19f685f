package storage

import (
	"context"
	"sync"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий оценки
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает сессию по ключу, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, key int64) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[key]
	r.mu.RUnlock()

	if exists {
		return session, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Пока ждали блокировку, сессию мог создать другой запрос
	if session, exists := r.sessions[key]; exists {
		return session, nil
	}
	session = entity.NewSession(key)
	r.sessions[key] = session

	return session, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.Key] = session
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
