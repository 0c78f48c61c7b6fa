package annotationService

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"DentalPlanner/internal/api/annotation"
	"DentalPlanner/internal/entity"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/detector"
	"DentalPlanner/pkg/response"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/sirupsen/logrus"
)

func (s *annotationService) Annotate(ctx context.Context, imageData []byte) (*annotation.AnnotationResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode uploaded image")
		return nil, response.Wrap(annotation.ErrInvalidImage, err.Error())
	}

	inferenceData, err := s.utils.OptimizeImage(imageData, s.maxDimension)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to downscale image, sending original to detector")
		inferenceData = imageData
	}

	detections, err := s.detector.Detect(ctx, inferenceData)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Detector call failed")
		if errors.Is(err, detector.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			return nil, response.Wrap(annotation.ErrDetectorUnavailable, err.Error())
		}
		return nil, response.Wrap(annotation.ErrDetectionFailed, err.Error())
	}

	annotated, boxes, counts := render(img, detections)

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, annotated); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode annotated image")
		return nil, annotation.ErrEncodeImage
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"format":     format,
		"detections": len(detections),
		"caries":     counts[entity.CategoryCaries],
		"missing":    counts[entity.CategoryMissing],
		"lesion":     counts[entity.CategoryLesion],
	}).Info("Image annotated")

	bounds := annotated.Bounds()
	return &annotation.AnnotationResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Detections:  boxes,
		Counts:      counts,
		Caption:     annotation.Caption(counts),
	}, nil
}
