package port

import (
	"ui-assessment-bot/internal/report"
)

// DocumentRenderer превращает собранный документ в байты файла
type DocumentRenderer interface {
	Render(doc *report.Document) ([]byte, error)

	// MimeType тип итогового файла
	MimeType() string
}

// ScratchStore временные файлы с изображениями
type ScratchStore interface {
	Write(data []byte, ext string) (string, error)
	Read(path string) ([]byte, error)
	Remove(path string)
	RemoveAll()
}
