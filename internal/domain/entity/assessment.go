package entity

import (
	"sort"
	"strings"
	"time"
)

// Фиксированные категории общей оценки
const (
	FieldFont  = "font"
	FieldColor = "color"
	FieldScale = "scale"
)

// Префиксы полей отдельных элементов
const (
	AssessmentPrefix = "assessment_"
	NotePrefix       = "note_"
)

// Categories фиксированные категории в порядке отчёта
var Categories = []string{FieldFont, FieldColor, FieldScale}

// AssessmentKey ключ основной оценки элемента
func AssessmentKey(elementID string) string { return AssessmentPrefix + elementID }

// NoteKey ключ дополнительной заметки к элементу
func NoteKey(elementID string) string { return NotePrefix + elementID }

// IsCategory true для font/color/scale
func IsCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

// ElementIDFromKey возвращает идентификатор элемента из ключа assessment_/note_
func ElementIDFromKey(key string) (string, bool) {
	for _, p := range []string{AssessmentPrefix, NotePrefix} {
		if id, ok := strings.CutPrefix(key, p); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// AssessmentStore введённые пользователем тексты по ключу поля.
// Не потокобезопасен, доступ сериализует сервис.
type AssessmentStore struct {
	fields map[string]string
}

// NewAssessmentStore создаёт пустое хранилище
func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{fields: make(map[string]string)}
}

// Set записывает текст поля как есть, без валидации
func (s *AssessmentStore) Set(key, text string) {
	s.fields[key] = text
}

// Ensure заводит пустое поле, если его ещё нет
func (s *AssessmentStore) Ensure(key string) {
	if _, ok := s.fields[key]; !ok {
		s.fields[key] = ""
	}
}

// Get возвращает текст поля и признак наличия
func (s *AssessmentStore) Get(key string) (string, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// GetOr возвращает текст поля или def, если поле не задано
func (s *AssessmentStore) GetOr(key, def string) string {
	if v, ok := s.fields[key]; ok {
		return v
	}
	return def
}

// Len количество заданных полей
func (s *AssessmentStore) Len() int { return len(s.fields) }

// Reset очищает все поля
func (s *AssessmentStore) Reset() {
	s.fields = make(map[string]string)
}

// Snapshot неизменяемая копия текущих полей
func (s *AssessmentStore) Snapshot() Snapshot {
	fields := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		fields[k] = v
	}
	return Snapshot{fields: fields, TakenAt: time.Now()}
}

// Snapshot зафиксированные при отправке оценки. Единственный вход генератора отчёта.
type Snapshot struct {
	fields  map[string]string
	TakenAt time.Time
}

// NewSnapshot собирает снимок из готовой карты (копирует её)
func NewSnapshot(fields map[string]string) Snapshot {
	s := NewAssessmentStore()
	for k, v := range fields {
		s.Set(k, v)
	}
	return s.Snapshot()
}

// Get возвращает текст поля и признак наличия
func (s Snapshot) Get(key string) (string, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// Text возвращает непустой текст поля или placeholder
func (s Snapshot) Text(key, placeholder string) string {
	if v, ok := s.fields[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return placeholder
}

// Len количество полей в снимке
func (s Snapshot) Len() int { return len(s.fields) }

// Fields копия всех полей
func (s Snapshot) Fields() map[string]string {
	out := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// ElementIDs уникальные идентификаторы элементов из ключей assessment_/note_, отсортированные
func (s Snapshot) ElementIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for key := range s.fields {
		id, ok := ElementIDFromKey(key)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
