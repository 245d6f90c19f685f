package entity

import "fmt"

// ServiceError сбой внешнего сервиса детекции. Не фатален: сессия остаётся пустой, можно загрузить снова.
type ServiceError struct {
	Provider string
	Status   int // HTTP-статус, 0 если до ответа не дошло
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("detection service %s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("detection service %s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// MalformedDetectionError некорректная запись детекции; пропускается только она
type MalformedDetectionError struct {
	Index  int // позиция в списке детекций, -1 если неизвестна
	Reason string
}

func (e *MalformedDetectionError) Error() string {
	if e.Index < 0 {
		return "malformed detection: " + e.Reason
	}
	return fmt.Sprintf("malformed detection #%d: %s", e.Index+1, e.Reason)
}

// AssetMissingError нет временного файла с размеченным изображением
type AssetMissingError struct {
	Path string
	Err  error
}

func (e *AssetMissingError) Error() string {
	if e.Path == "" {
		return "annotated image is not available"
	}
	return fmt.Sprintf("annotated image %s is not available: %v", e.Path, e.Err)
}

func (e *AssetMissingError) Unwrap() error { return e.Err }
