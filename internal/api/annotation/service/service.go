package annotationService

import (
	"context"
	"os"
	"strconv"

	"DentalPlanner/internal/api/annotation"
	"DentalPlanner/pkg/detector"
	"DentalPlanner/pkg/utils"
	"github.com/sirupsen/logrus"
)

type IAnnotationService interface {
	Annotate(ctx context.Context, imageData []byte) (*annotation.AnnotationResult, error)
}

type annotationService struct {
	log          *logrus.Logger
	detector     detector.IDetector
	utils        utils.IUtils
	maxDimension int
}

func NewAnnotationService(
	log *logrus.Logger,
	detector detector.IDetector,
	utils utils.IUtils,
) IAnnotationService {
	maxDimension := 1280
	if v, err := strconv.Atoi(os.Getenv("DETECTOR_MAX_DIMENSION")); err == nil {
		maxDimension = v
	}

	return &annotationService{
		log:          log,
		detector:     detector,
		utils:        utils,
		maxDimension: maxDimension,
	}
}
