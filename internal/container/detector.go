package container

import (
	"context"
	"fmt"
	"log"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"

	"ui-assessment-bot/config"
	"ui-assessment-bot/internal/domain/port"
	"ui-assessment-bot/internal/infrastructure/detection"
)

// NewDetector создаёт клиент выбранного провайдера детекции
func NewDetector(ctx context.Context, cfg *config.Config) (port.Detector, error) {
	switch cfg.DetectorProvider {
	case config.ProviderRoboflow:
		log.Printf("Using Roboflow model %s", cfg.RoboflowModelID)
		return detection.NewRoboflow(detection.RoboflowConfig{
			APIURL:     cfg.RoboflowAPIURL,
			APIKey:     cfg.RoboflowAPIKey,
			ModelID:    cfg.RoboflowModelID,
			Confidence: cfg.MinConfidence,
			Timeout:    cfg.DetectionTimeout,
		}), nil

	case config.ProviderRekognition:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		log.Printf("Using AWS Rekognition in %s", cfg.AWSRegion)
		client := rekognition.NewFromConfig(awsCfg, func(o *rekognition.Options) {
			o.HTTPClient = awshttp.NewBuildableClient().WithTimeout(cfg.DetectionTimeout)
		})
		return detection.NewRekognition(client, cfg.MinConfidence, cfg.AWSMaxLabels), nil

	default:
		return nil, fmt.Errorf("unknown detector provider %q", cfg.DetectorProvider)
	}
}
