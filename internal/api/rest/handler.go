package rest

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	app "ui-assessment-bot/internal/application"
	"ui-assessment-bot/internal/container"
	"ui-assessment-bot/internal/domain/entity"
)

// LocalSessionKey ключ единственной сессии HTTP API
const LocalSessionKey int64 = 0

// MaxUploadSize предел размера загружаемого скриншота
const MaxUploadSize = 20 << 20

type SessionHandler struct {
	sessions    *app.SessionService
	assessments *app.AssessmentService
}

func NewSessionHandler(c *container.Container) *SessionHandler {
	return &SessionHandler{sessions: c.SessionService, assessments: c.AssessmentService}
}

// GET /healthz
func (h *SessionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /session/image (multipart, поле file)
func (h *SessionHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "multipart field 'file' is required"})
		return
	}
	if fh.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("file is larger than %d bytes", MaxUploadSize)})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	out, err := h.assessments.OnUpload(c.Request.Context(), LocalSessionKey, fh.Filename, data)
	if err != nil {
		log.Printf("HTTP upload of %q failed: %v", fh.Filename, err)
		respondError(c, err)
		return
	}

	skipped := make([]skippedDTO, 0, len(out.Skipped))
	for _, s := range out.Skipped {
		skipped = append(skipped, skippedDTO{Index: s.Index, Error: s.Err.Error()})
	}
	c.JSON(http.StatusOK, uploadResponse{
		ImageName: fh.Filename,
		Elements:  toElements(out.Elements),
		Drawn:     out.Drawn,
		Skipped:   skipped,
	})
}

// GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.sessions.View(c.Request.Context(), LocalSessionKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSession(view))
}

// GET /session/image
func (h *SessionHandler) GetImage(c *gin.Context) {
	data, err := h.assessments.AnnotatedImage(c.Request.Context(), LocalSessionKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// PUT /session/fields/:key
func (h *SessionHandler) SetField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "body must be {\"text\": \"...\"}"})
		return
	}

	key := c.Param("key")
	if err := h.assessments.SetField(c.Request.Context(), LocalSessionKey, key, *req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "text": *req.Text})
}

// POST /session/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	snap, err := h.assessments.Submit(c.Request.Context(), LocalSessionKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResponse{Fields: snap.Fields(), SubmittedAt: snap.TakenAt})
}

// GET /session/report
func (h *SessionHandler) Report(c *gin.Context) {
	dl, err := h.assessments.Download(c.Request.Context(), LocalSessionKey)
	if err != nil {
		log.Printf("HTTP report failed: %v", err)
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, dl.FileName))
	c.Data(http.StatusOK, dl.MimeType, dl.Content)
}

// DELETE /session
func (h *SessionHandler) Reset(c *gin.Context) {
	if err := h.assessments.Cancel(c.Request.Context(), LocalSessionKey); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor HTTP-статус для ошибки сервиса
func statusFor(err error) int {
	var (
		svcErr  *entity.ServiceError
		missing *entity.AssetMissingError
	)
	switch {
	case errors.Is(err, app.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &svcErr):
		return http.StatusBadGateway
	case errors.As(err, &missing), errors.Is(err, app.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, app.ErrDetectionInProgress),
		errors.Is(err, app.ErrStaleResult),
		errors.Is(err, app.ErrNothingToAssess),
		errors.Is(err, app.ErrNotSubmitted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
