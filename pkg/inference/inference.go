package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"DentalPlanner/internal/entity"
	"DentalPlanner/pkg/detector"
	"github.com/sirupsen/logrus"
)

// httpDetector runs inference through a model service that accepts a
// multipart "file" upload and answers with detector.Response JSON.
type httpDetector struct {
	inferenceURL string
	client       *http.Client
	log          *logrus.Logger
}

func New(log *logrus.Logger) (detector.IDetector, error) {
	url := os.Getenv("INFERENCE_URL")
	if url == "" {
		return nil, errors.New("INFERENCE_URL is required for the http detector")
	}

	d := NewHTTPDetector(url, log)
	if err := d.CheckHealth(context.Background()); err != nil {
		log.Warnf("Inference service not available yet: %v", err)
	}

	return d, nil
}

func NewHTTPDetector(inferenceURL string, log *logrus.Logger) *httpDetector {
	return &httpDetector{
		inferenceURL: inferenceURL,
		client:       &http.Client{Timeout: 60 * time.Second},
		log:          log,
	}
}

func (d *httpDetector) Detect(ctx context.Context, image []byte) ([]entity.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.inferenceURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", detector.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: inference failed with status %d", detector.ErrUnavailable, resp.StatusCode)
	}

	var result detector.Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", detector.ErrUnavailable, result.Error)
	}

	d.log.Debugf("Inference service returned %d detections", len(result.Detections))

	return result.Detections, nil
}

// CheckHealth calls <base>/health, where base is the inference URL with
// its last path segment removed.
func (d *httpDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(d.inferenceURL), nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}

	return nil
}

func (d *httpDetector) Close() error {
	d.client.CloseIdleConnections()
	return nil
}

func healthURL(inferenceURL string) string {
	trimmed := strings.TrimSuffix(inferenceURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i > len("https://") {
		return trimmed[:i] + "/health"
	}
	return trimmed + "/health"
}
