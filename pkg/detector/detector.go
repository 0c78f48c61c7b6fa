// Package detector defines the boundary to the externally supplied object
// detection model. Backends live in their own packages.
package detector

import (
	"context"
	"errors"

	"DentalPlanner/internal/entity"
)

const (
	BackendWebsocket = "websocket"
	BackendHTTP      = "http"
	BackendGemini    = "gemini"
)

var ErrUnavailable = errors.New("detector unavailable")

type IDetector interface {
	Detect(ctx context.Context, image []byte) ([]entity.Detection, error)
	Close() error
}

// Response is the JSON payload model sidecars reply with.
type Response struct {
	Detections []entity.Detection `json:"detections"`
	Error      string             `json:"error,omitempty"`
}
