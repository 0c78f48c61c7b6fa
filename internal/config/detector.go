package config

import (
	"fmt"
	"os"
	"strings"

	"DentalPlanner/pkg/detector"
	"DentalPlanner/pkg/gemini"
	"DentalPlanner/pkg/inference"
	websocketPkg "DentalPlanner/pkg/websocket"
	"github.com/sirupsen/logrus"
)

// NewDetector connects the backend named by DETECTOR_BACKEND. The model is
// created once here and shared by every request.
func NewDetector(logger *logrus.Logger) (detector.IDetector, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("DETECTOR_BACKEND")))
	if backend == "" {
		backend = detector.BackendWebsocket
	}

	logger.WithField("backend", backend).Info("Initializing detector")

	switch backend {
	case detector.BackendWebsocket:
		return websocketPkg.New(logger)
	case detector.BackendHTTP:
		return inference.New(logger)
	case detector.BackendGemini:
		return gemini.New()
	default:
		return nil, fmt.Errorf("unknown detector backend %q", backend)
	}
}
