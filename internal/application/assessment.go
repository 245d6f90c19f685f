package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/domain/port"
	"ui-assessment-bot/internal/report"
)

var (
	ErrDetectionInProgress = errors.New("detection is already in progress")
	ErrUnsupportedImage    = errors.New("unsupported or corrupt image")
	ErrUnknownField        = errors.New("unknown assessment field")
	ErrNothingToAssess     = errors.New("no detected elements to assess")
	ErrNoPendingField      = errors.New("no field is waiting for input")
	ErrNotSubmitted        = errors.New("assessment is not submitted yet")
	ErrStaleResult         = errors.New("image was replaced while detection was running")
)

// AssessmentService сценарий оценки: загрузка скриншота, заполнение полей, отправка, отчёт
type AssessmentService struct {
	sessions  *SessionService
	detector  port.Detector
	annotator port.Annotator
	scratch   port.ScratchStore
	renderer  port.DocumentRenderer
	now       func() time.Time
}

// UploadOutput результат детекции для показа пользователю
type UploadOutput struct {
	Elements  []entity.Element
	Annotated []byte // JPEG с рамками
	Drawn     int
	Skipped   []entity.SkippedDetection
}

// Download готовый файл отчёта
type Download struct {
	FileName string
	MimeType string
	Content  []byte
}

// NewAssessmentService создаёт сервис оценки
func NewAssessmentService(
	sessions *SessionService,
	detector port.Detector,
	annotator port.Annotator,
	scratch port.ScratchStore,
	renderer port.DocumentRenderer,
) *AssessmentService {
	return &AssessmentService{
		sessions:  sessions,
		detector:  detector,
		annotator: annotator,
		scratch:   scratch,
		renderer:  renderer,
		now:       time.Now,
	}
}

// OnUpload сбрасывает сессию и запускает детекцию нового изображения.
// Результат сохраняется, только если за время запроса сессию не сбросили.
func (s *AssessmentService) OnUpload(ctx context.Context, key int64, name string, data []byte) (*UploadOutput, error) {
	var (
		generation int
		oldPath    string
	)
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if session.Busy {
			return ErrDetectionInProgress
		}
		oldPath = session.AnnotatedPath
		session.Reset()
		session.ImageName = name
		session.Busy = true
		session.SetState(entity.StateProcessing)
		generation = session.Generation
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.scratch.Remove(oldPath)

	out, path, detections, detectErr := s.process(ctx, data)

	_, err = s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if session.Generation != generation {
			return ErrStaleResult
		}
		session.Busy = false
		if detectErr != nil {
			session.ImageName = ""
			session.SetState(entity.StateMainMenu)
			return nil
		}
		session.Detections = detections
		session.ElementIDs = entity.AssignIdentifiers(detections)
		session.AnnotatedPath = path
		if len(detections) > 0 {
			session.SeedForm()
		}
		session.SetState(restingState(session))
		return nil
	})
	if err != nil {
		s.scratch.Remove(path)
		if errors.Is(err, ErrStaleResult) {
			log.Printf("Session %d: discarding detection result for %q", key, name)
		}
		return nil, err
	}
	if detectErr != nil {
		return nil, detectErr
	}
	return out, nil
}

// process декодирует, отправляет детектору, размечает и кладёт размеченное изображение во временный файл
func (s *AssessmentService) process(ctx context.Context, data []byte) (*UploadOutput, string, []entity.Detection, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, "", nil, err
	}
	flat := flatten(img)

	payload, err := encodeJPEG(flat)
	if err != nil {
		return nil, "", nil, err
	}

	detections, err := s.detector.Detect(ctx, payload)
	if err != nil {
		log.Printf("Detection via %s failed: %v", s.detector.Name(), err)
		return nil, "", nil, err
	}

	annotation := s.annotator.Annotate(flat, detections)
	if annotation.Partial() {
		log.Printf("Annotated %d of %d detections", annotation.Drawn, len(detections))
	}

	annotated, err := encodeJPEG(annotation.Image)
	if err != nil {
		return nil, "", nil, err
	}

	// без временного файла отчёт выйдет с заглушкой вместо изображения
	path, err := s.scratch.Write(annotated, "jpeg")
	if err != nil {
		log.Printf("Warning: annotated image not stored: %v", err)
		path = ""
	}

	return &UploadOutput{
		Elements:  entity.Elements(detections),
		Annotated: annotated,
		Drawn:     annotation.Drawn,
		Skipped:   annotation.Skipped,
	}, path, detections, nil
}

// checkField проверяет, что поле можно заполнить в текущей сессии
func checkField(session *entity.Session, field string) error {
	if session.Busy {
		return ErrDetectionInProgress
	}
	if len(session.Detections) == 0 {
		return ErrNothingToAssess
	}
	if !session.IsKnownField(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// SetField записывает текст поля. После отправки правка разрешена, но снимок не меняет.
func (s *AssessmentService) SetField(ctx context.Context, key int64, field, text string) error {
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if err := checkField(session, field); err != nil {
			return err
		}
		session.Store.Set(field, text)
		session.PendingField = ""
		session.SetState(restingState(session))
		return nil
	})
	return err
}

// BeginField запоминает поле, которое заполнит следующее текстовое сообщение; возвращает текущий текст
func (s *AssessmentService) BeginField(ctx context.Context, key int64, field string) (string, error) {
	var current string
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if err := checkField(session, field); err != nil {
			return err
		}
		current = session.Store.GetOr(field, "")
		session.PendingField = field
		session.SetState(entity.StateAwaitingField)
		return nil
	})
	return current, err
}

// FillPending заполняет поле, выбранное через BeginField
func (s *AssessmentService) FillPending(ctx context.Context, key int64, text string) (string, error) {
	var field string
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if session.PendingField == "" {
			return ErrNoPendingField
		}
		field = session.PendingField
		if err := checkField(session, field); err != nil {
			return err
		}
		session.Store.Set(field, text)
		session.PendingField = ""
		session.SetState(restingState(session))
		return nil
	})
	return field, err
}

// Submit фиксирует снимок полей; повторная отправка делает новый снимок
func (s *AssessmentService) Submit(ctx context.Context, key int64) (entity.Snapshot, error) {
	var snap entity.Snapshot
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if session.Busy {
			return ErrDetectionInProgress
		}
		if len(session.Detections) == 0 {
			return ErrNothingToAssess
		}
		snap = session.Store.Snapshot()
		session.Snapshot = &snap
		session.Submitted = true
		session.PendingField = ""
		session.SetState(entity.StateSubmitted)
		return nil
	})
	return snap, err
}

// Download собирает и рендерит отчёт по снимку последней отправки
func (s *AssessmentService) Download(ctx context.Context, key int64) (*Download, error) {
	var (
		snap       entity.Snapshot
		path, name string
	)
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		if !session.Submitted || session.Snapshot == nil {
			return ErrNotSubmitted
		}
		snap = *session.Snapshot
		path = session.AnnotatedPath
		name = session.ImageName
		return nil
	})
	if err != nil {
		return nil, err
	}

	img, imgErr := s.loadAnnotated(path)
	if imgErr != nil {
		log.Printf("Session %d: report without image: %v", key, imgErr)
	}

	at := s.now()
	doc := report.Build(report.Input{
		Snapshot:    snap,
		Image:       img,
		ImageErr:    imgErr,
		SourceName:  name,
		GeneratedAt: at,
	})

	content, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return &Download{
		FileName: report.FileName(name, at),
		MimeType: s.renderer.MimeType(),
		Content:  content,
	}, nil
}

func (s *AssessmentService) loadAnnotated(path string) (image.Image, error) {
	data, err := s.scratch.Read(path)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Cancel отбрасывает изображение и все введённые тексты
func (s *AssessmentService) Cancel(ctx context.Context, key int64) error {
	var path string
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		path = session.AnnotatedPath
		session.Reset()
		return nil
	})
	s.scratch.Remove(path)
	return err
}

// AnnotatedImage возвращает размеченное изображение текущей сессии (JPEG)
func (s *AssessmentService) AnnotatedImage(ctx context.Context, key int64) ([]byte, error) {
	var path string
	_, err := s.sessions.Update(ctx, key, func(session *entity.Session) error {
		path = session.AnnotatedPath
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.scratch.Read(path)
}

// Close удаляет все временные файлы
func (s *AssessmentService) Close() {
	s.scratch.RemoveAll()
}
