package rest

import (
	"time"

	app "ui-assessment-bot/internal/application"
	"ui-assessment-bot/internal/domain/entity"
)

type boxDTO struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

type elementDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
	Box        *boxDTO `json:"box,omitempty"` // нет для некорректных детекций
}

type skippedDTO struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type uploadResponse struct {
	ImageName string       `json:"image_name"`
	Elements  []elementDTO `json:"elements"`
	Drawn     int          `json:"drawn"`
	Skipped   []skippedDTO `json:"skipped"`
}

type sessionResponse struct {
	State        entity.SessionState `json:"state"`
	ImageName    string              `json:"image_name"`
	Elements     []elementDTO        `json:"elements"`
	Fields       map[string]string   `json:"fields"`
	Submitted    bool                `json:"submitted"`
	PendingField string              `json:"pending_field,omitempty"`
	Busy         bool                `json:"busy"`
}

type fieldRequest struct {
	Text *string `json:"text"`
}

type submitResponse struct {
	Fields      map[string]string `json:"fields"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toElements(elements []entity.Element) []elementDTO {
	out := make([]elementDTO, 0, len(elements))
	for _, el := range elements {
		dto := elementDTO{
			ID:         el.ID,
			Name:       entity.DisplayName(el.ID),
			Class:      el.Detection.ClassName,
			Confidence: el.Detection.Confidence,
			Label:      el.Detection.Label(),
		}
		if box, err := el.Detection.Box(); err == nil {
			dto.Box = &boxDTO{XMin: box.XMin, YMin: box.YMin, XMax: box.XMax, YMax: box.YMax}
		}
		out = append(out, dto)
	}
	return out
}

func toSession(view *app.SessionView) sessionResponse {
	return sessionResponse{
		State:        view.State,
		ImageName:    view.ImageName,
		Elements:     toElements(view.Elements),
		Fields:       view.Fields,
		Submitted:    view.Submitted,
		PendingField: view.PendingField,
		Busy:         view.Busy,
	}
}
