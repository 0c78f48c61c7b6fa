package consultationService

import (
	"context"

	"DentalPlanner/internal/api/annotation"
	"DentalPlanner/internal/entity"
	contextPkg "DentalPlanner/pkg/context"
	"github.com/sirupsen/logrus"
)

// Analyze annotates every photograph in upload order, then the radiograph.
func (s *consultationService) Analyze(ctx context.Context, id string) ([]annotation.AnnotationResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if _, err := s.readyConsultation(ctx, id); err != nil {
		return nil, err
	}

	images, err := s.repo.Photos(ctx, id)
	if err != nil {
		return nil, err
	}

	radiograph, err := s.repo.Radiograph(ctx, id)
	if err != nil {
		return nil, err
	}
	images = append(images, radiograph)

	results := make([]annotation.AnnotationResult, 0, len(images))
	for _, img := range images {
		result, err := s.annotationService.Annotate(ctx, img.Data)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":      requestID,
				"consultation_id": id,
				"file_name":       img.FileName,
				"error":           err.Error(),
			}).Warn("Failed to annotate consultation image")
			return nil, err
		}
		result.Label = img.FileName
		results = append(results, *result)
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      requestID,
		"consultation_id": id,
		"images":          len(results),
	}).Info("Consultation analysis completed")

	return results, nil
}

func (s *consultationService) Plan(ctx context.Context, id string) (entity.TreatmentPlan, error) {
	if _, err := s.readyConsultation(ctx, id); err != nil {
		return entity.TreatmentPlan{}, err
	}
	return s.planService.Plan(), nil
}

// Export renders the plan for the consultation's patient and returns the
// document content. The local file is gone by the time Export returns.
func (s *consultationService) Export(ctx context.Context, id string) (*entity.ExportedDocument, []byte, error) {
	c, err := s.readyConsultation(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.exportService.Generate(ctx, c.Patient.Name, s.planService.Plan())
	if err != nil {
		return nil, nil, err
	}

	content, err := s.exportService.ReadAndRemove(ctx, doc)
	if err != nil {
		return nil, nil, err
	}

	return doc, content, nil
}
