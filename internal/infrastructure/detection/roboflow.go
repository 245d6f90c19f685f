// Package detection клиенты внешних сервисов детекции UI-элементов.
package detection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ui-assessment-bot/internal/domain/entity"
)

const roboflowProvider = "roboflow"

// RoboflowConfig параметры хостед-модели Roboflow
type RoboflowConfig struct {
	APIURL     string        // https://serverless.roboflow.com
	APIKey     string        // ключ API
	ModelID    string        // "project/version"
	Confidence float64       // порог уверенности, 0 = по умолчанию сервиса
	Timeout    time.Duration // таймаут запроса
}

// Roboflow клиент serverless-инференса Roboflow
type Roboflow struct {
	cfg   RoboflowConfig
	httpc *http.Client
}

// NewRoboflow создаёт клиент
func NewRoboflow(cfg RoboflowConfig) *Roboflow {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Roboflow{
		cfg:   cfg,
		httpc: &http.Client{Timeout: timeout},
	}
}

func (r *Roboflow) Name() string { return roboflowProvider }

type roboflowResponse struct {
	Predictions []roboflowPrediction `json:"predictions"`
	Image       *struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"image,omitempty"`
}

// Поля указателями: отсутствующее значение отличается от нуля
type roboflowPrediction struct {
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Width      *float64 `json:"width"`
	Height     *float64 `json:"height"`
	Confidence *float64 `json:"confidence"`
	Class      string   `json:"class"`
}

// Detect отправляет изображение модели. Любой сбой сети или ответа возвращается как *entity.ServiceError.
func (r *Roboflow) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	if len(imageData) == 0 {
		return nil, r.fail(0, errors.New("empty image"))
	}

	endpoint, err := r.endpoint()
	if err != nil {
		return nil, r.fail(0, err)
	}

	body := base64.StdEncoding.EncodeToString(imageData)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, r.fail(0, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, r.fail(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode/100 != 2 {
		return nil, r.fail(resp.StatusCode, errors.New(snippet(raw)))
	}

	var out roboflowResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, r.fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	log.Printf("Roboflow %s returned %d predictions in %s", r.cfg.ModelID, len(out.Predictions), time.Since(start).Round(time.Millisecond))

	detections := make([]entity.Detection, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		detections = append(detections, entity.Detection{
			ClassName:  p.Class,
			Confidence: orNaN(p.Confidence),
			CenterX:    orNaN(p.X),
			CenterY:    orNaN(p.Y),
			Width:      orNaN(p.Width),
			Height:     orNaN(p.Height),
		})
	}
	return detections, nil
}

func (r *Roboflow) endpoint() (string, error) {
	base := strings.TrimRight(r.cfg.APIURL, "/")
	u, err := url.Parse(base + "/" + strings.Trim(r.cfg.ModelID, "/"))
	if err != nil {
		return "", fmt.Errorf("bad api url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", r.cfg.APIKey)
	if r.cfg.Confidence > 0 {
		q.Set("confidence", strconv.Itoa(int(math.Round(r.cfg.Confidence*100))))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Roboflow) fail(status int, err error) error {
	return &entity.ServiceError{Provider: roboflowProvider, Status: status, Err: err}
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	if s == "" {
		return "empty response"
	}
	return s
}
