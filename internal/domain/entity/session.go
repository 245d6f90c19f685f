package entity

// SessionState состояние сессии оценки
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // Ждём скриншот
	StateProcessing    SessionState = "processing"     // Идёт запрос к детектору
	StateAssessing     SessionState = "assessing"      // Форма оценки открыта
	StateAwaitingField SessionState = "awaiting_field" // Ждём текст для выбранного поля
	StateSubmitted     SessionState = "submitted"      // Оценка отправлена, можно скачать отчёт
)

// Session одна активная оценка одного скриншота
type Session struct {
	Key   int64        // ID чата (или локальный ключ HTTP)
	State SessionState // Текущее состояние

	ImageName     string      // Имя загруженного файла
	Detections    []Detection // Детекции текущего изображения
	ElementIDs    []string    // Идентификаторы, параллельно Detections
	AnnotatedPath string      // Временный файл с размеченным изображением

	Store     *AssessmentStore
	Submitted bool
	Snapshot  *Snapshot // Снимок на момент отправки

	PendingField string // Поле, которое заполнит следующее текстовое сообщение
	Busy         bool   // Запрос к детектору в процессе
	Generation   int    // Растёт при каждом Reset, устаревшие результаты отбрасываются
}

// NewSession создаёт пустую сессию
func NewSession(key int64) *Session {
	return &Session{
		Key:   key,
		State: StateMainMenu,
		Store: NewAssessmentStore(),
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Reset очищает всё, что относится к прежнему изображению.
// Временный файл удаляет вызывающий: путь нужно прочитать до Reset.
func (s *Session) Reset() {
	s.ImageName = ""
	s.Detections = nil
	s.ElementIDs = nil
	s.AnnotatedPath = ""
	s.Store.Reset()
	s.Submitted = false
	s.Snapshot = nil
	s.PendingField = ""
	s.Busy = false
	s.Generation++
	s.State = StateMainMenu
}

// SeedForm заводит пустые поля формы: категории и пару assessment_/note_ на каждый элемент.
// Уже заполненные поля не трогает.
func (s *Session) SeedForm() {
	for _, c := range Categories {
		s.Store.Ensure(c)
	}
	for _, id := range s.ElementIDs {
		s.Store.Ensure(AssessmentKey(id))
		s.Store.Ensure(NoteKey(id))
	}
}

// HasElement проверяет, что идентификатор принадлежит текущему изображению
func (s *Session) HasElement(id string) bool {
	for _, e := range s.ElementIDs {
		if e == id {
			return true
		}
	}
	return false
}

// IsKnownField true для категорий и полей известных элементов
func (s *Session) IsKnownField(key string) bool {
	if IsCategory(key) {
		return true
	}
	id, ok := ElementIDFromKey(key)
	return ok && s.HasElement(id)
}
