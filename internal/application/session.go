package app

import (
	"context"
	"sync"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/domain/port"
)

// SessionService доступ к сессиям. Все изменения сессии идут через Update под одной блокировкой.
type SessionService struct {
	repo port.SessionRepository
	mu   sync.Mutex
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// SessionView копия состояния сессии для отображения
type SessionView struct {
	Key          int64
	State        entity.SessionState
	ImageName    string
	Elements     []entity.Element
	Fields       map[string]string
	Submitted    bool
	PendingField string
	Busy         bool
}

// Update выполняет fn над сессией под блокировкой и сохраняет её, если fn не вернул ошибку
func (s *SessionService) Update(ctx context.Context, key int64, fn func(*entity.Session) error) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return session, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Cancel отменяет ожидание текста для поля и возвращает сессию в рабочее состояние
func (s *SessionService) Cancel(ctx context.Context, key int64) (*entity.Session, error) {
	return s.Update(ctx, key, func(session *entity.Session) error {
		session.PendingField = ""
		session.SetState(restingState(session))
		return nil
	})
}

// View возвращает копию сессии
func (s *SessionService) View(ctx context.Context, key int64) (*SessionView, error) {
	var view *SessionView
	_, err := s.Update(ctx, key, func(session *entity.Session) error {
		view = newView(session)
		return nil
	})
	return view, err
}

func newView(session *entity.Session) *SessionView {
	elements := make([]entity.Element, len(session.Detections))
	for i, d := range session.Detections {
		elements[i] = entity.Element{ID: session.ElementIDs[i], Detection: d}
	}
	return &SessionView{
		Key:          session.Key,
		State:        session.State,
		ImageName:    session.ImageName,
		Elements:     elements,
		Fields:       session.Store.Snapshot().Fields(),
		Submitted:    session.Submitted,
		PendingField: session.PendingField,
		Busy:         session.Busy,
	}
}

// restingState состояние сессии, когда никакой ввод не ожидается
func restingState(session *entity.Session) entity.SessionState {
	switch {
	case session.Busy:
		return entity.StateProcessing
	case session.Submitted:
		return entity.StateSubmitted
	case len(session.Detections) > 0:
		return entity.StateAssessing
	default:
		return entity.StateMainMenu
	}
}
