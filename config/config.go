package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Провайдеры детекции
const (
	ProviderRoboflow    = "roboflow"
	ProviderRekognition = "rekognition"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string // пустая строка отключает HTTP API

	DetectorProvider string
	RoboflowAPIURL   string
	RoboflowAPIKey   string
	RoboflowModelID  string
	MinConfidence    float64
	DetectionTimeout time.Duration

	AWSRegion    string
	AWSMaxLabels int32

	FontPath   string
	FontSize   float64
	ScratchDir string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DetectorProvider: strings.ToLower(getEnv("DETECTOR_PROVIDER", ProviderRoboflow)),
		RoboflowAPIURL:   getEnv("ROBOFLOW_API_URL", "https://serverless.roboflow.com"),
		RoboflowAPIKey:   os.Getenv("ROBOFLOW_API_KEY"),
		RoboflowModelID:  getEnv("ROBOFLOW_MODEL_ID", "penilaian-ui-web-ax2rc/2"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		FontPath:         getEnv("FONT_PATH", "arial.ttf"),
		ScratchDir:       os.Getenv("SCRATCH_DIR"),
	}

	var err error
	if cfg.MinConfidence, err = getFloat("DETECTION_MIN_CONFIDENCE", 0.4); err != nil {
		return nil, err
	}
	if cfg.FontSize, err = getFloat("FONT_SIZE", 15); err != nil {
		return nil, err
	}
	if cfg.DetectionTimeout, err = getDuration("DETECTION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	maxLabels, err := getInt("AWS_MAX_LABELS", 50)
	if err != nil {
		return nil, err
	}
	cfg.AWSMaxLabels = int32(maxLabels)

	return cfg, nil
}

// Validate проверяет, что выбранный провайдер настроен и включена хотя бы одна поверхность
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" && c.HTTPAddr == "" {
		errs = append(errs, errors.New("either TELEGRAM_TOKEN or HTTP_ADDR is required"))
	}

	switch c.DetectorProvider {
	case ProviderRoboflow:
		if c.RoboflowAPIKey == "" {
			errs = append(errs, errors.New("ROBOFLOW_API_KEY is required for roboflow provider"))
		}
		if c.RoboflowModelID == "" {
			errs = append(errs, errors.New("ROBOFLOW_MODEL_ID is required for roboflow provider"))
		}
	case ProviderRekognition:
		if c.AWSRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required for rekognition provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DETECTOR_PROVIDER %q", c.DetectorProvider))
	}

	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("DETECTION_MIN_CONFIDENCE must be in [0,1], got %v", c.MinConfidence))
	}
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("FONT_SIZE must be positive, got %v", c.FontSize))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func getFloat(key string, def float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
