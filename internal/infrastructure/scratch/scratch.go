// Package scratch временные файлы с размеченными изображениями.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/domain/port"
)

const filePrefix = "ui-assessment-"

// Store временные файлы в одном каталоге. Помнит, что создал, чтобы убрать всё при остановке.
type Store struct {
	dir   string
	mu    sync.Mutex
	files map[string]struct{}
}

// NewStore создаёт хранилище в dir; пустой dir означает системный временный каталог
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Store{dir: dir, files: make(map[string]struct{})}, nil
}

// Write сохраняет данные в новый файл и возвращает его путь
func (s *Store) Write(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	name := filePrefix + uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}

	s.mu.Lock()
	s.files[path] = struct{}{}
	s.mu.Unlock()
	return path, nil
}

// Read читает файл. Отсутствующий файл даёт *entity.AssetMissingError.
func (s *Store) Read(path string) ([]byte, error) {
	if path == "" {
		return nil, &entity.AssetMissingError{}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &entity.AssetMissingError{Path: path, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}
	return data, nil
}

// Remove удаляет файл. Ошибки только логируются: уборка не должна мешать пользователю.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	delete(s.files, path)
	s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to remove scratch file %s: %v", path, err)
	}
}

// RemoveAll удаляет все файлы, созданные этим хранилищем
func (s *Store) RemoveAll() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	s.mu.Unlock()

	for _, p := range paths {
		s.Remove(p)
	}
	if len(paths) > 0 {
		log.Printf("Removed %d scratch files", len(paths))
	}
}

// Проверка реализации интерфейса
var _ port.ScratchStore = (*Store)(nil)
