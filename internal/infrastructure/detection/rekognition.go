package detection

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"ui-assessment-bot/internal/domain/entity"
)

const rekognitionProvider = "rekognition"

// LabelDetector часть клиента Rekognition, которая нужна детектору
type LabelDetector interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Rekognition детектор на AWS Rekognition DetectLabels.
// Берутся только метки с рамками (Instances); рамки переводятся из долей в пиксели.
type Rekognition struct {
	client        LabelDetector
	minConfidence float32 // в процентах, как в API
	maxLabels     int32
}

// NewRekognition создаёт детектор; minConfidence в долях [0,1]
func NewRekognition(client LabelDetector, minConfidence float64, maxLabels int32) *Rekognition {
	return &Rekognition{
		client:        client,
		minConfidence: float32(minConfidence * 100),
		maxLabels:     maxLabels,
	}
}

func (r *Rekognition) Name() string { return rekognitionProvider }

// Detect вызывает DetectLabels и возвращает детекции в порядке меток и экземпляров
func (r *Rekognition) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	if r.client == nil {
		return nil, r.fail(0, errors.New("rekognition client is not initialized"))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, r.fail(0, err)
	}

	input := &rekognition.DetectLabelsInput{
		Image: &types.Image{Bytes: imageData},
	}
	if r.minConfidence > 0 {
		input.MinConfidence = aws.Float32(r.minConfidence)
	}
	if r.maxLabels > 0 {
		input.MaxLabels = aws.Int32(r.maxLabels)
	}

	out, err := r.client.DetectLabels(ctx, input)
	if err != nil {
		return nil, r.fail(statusOf(err), err)
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	var detections []entity.Detection
	for _, label := range out.Labels {
		class := className(aws.ToString(label.Name))
		for _, inst := range label.Instances {
			if inst.BoundingBox == nil {
				continue
			}
			bb := inst.BoundingBox
			conf := inst.Confidence
			if conf == nil {
				conf = label.Confidence
			}
			bw := float64(aws.ToFloat32(bb.Width)) * w
			bh := float64(aws.ToFloat32(bb.Height)) * h
			detections = append(detections, entity.Detection{
				ClassName:  class,
				Confidence: float64(aws.ToFloat32(conf)) / 100,
				CenterX:    float64(aws.ToFloat32(bb.Left))*w + bw/2,
				CenterY:    float64(aws.ToFloat32(bb.Top))*h + bh/2,
				Width:      bw,
				Height:     bh,
			})
		}
	}

	log.Printf("Rekognition returned %d labels, %d with boxes", len(out.Labels), len(detections))
	return detections, nil
}

func (r *Rekognition) fail(status int, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		err = errors.New(apiErr.ErrorCode() + ": " + apiErr.ErrorMessage())
	}
	return &entity.ServiceError{Provider: rekognitionProvider, Status: status, Err: err}
}

func statusOf(err error) int {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

// className "Text Box" -> "text-box": без пробелов, чтобы id элемента оставался одним словом
func className(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
