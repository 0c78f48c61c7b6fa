package consultationService

import (
	"context"
	"mime/multipart"
	"os"
	"strconv"
	"time"

	"DentalPlanner/internal/api/annotation"
	annotationService "DentalPlanner/internal/api/annotation/service"
	"DentalPlanner/internal/api/consultation"
	consultationRepository "DentalPlanner/internal/api/consultation/repository"
	exportService "DentalPlanner/internal/api/export/service"
	planService "DentalPlanner/internal/api/plan/service"
	"DentalPlanner/internal/entity"
	"DentalPlanner/pkg/utils"
	"github.com/sirupsen/logrus"
)

type IConsultationService interface {
	Create(ctx context.Context, req consultation.PatientRequest) (*consultation.ConsultationStatus, error)
	Status(ctx context.Context, id string) (*consultation.ConsultationStatus, error)
	UpdatePatient(ctx context.Context, id string, req consultation.PatientRequest) (*consultation.ConsultationStatus, error)
	AddPhotos(ctx context.Context, id string, files []*multipart.FileHeader) (*consultation.ConsultationStatus, error)
	SetRadiograph(ctx context.Context, id string, file *multipart.FileHeader) (*consultation.ConsultationStatus, error)
	Analyze(ctx context.Context, id string) ([]annotation.AnnotationResult, error)
	Plan(ctx context.Context, id string) (entity.TreatmentPlan, error)
	Export(ctx context.Context, id string) (*entity.ExportedDocument, []byte, error)
	Approve(ctx context.Context, id string, approved bool) (*consultation.ApprovalResult, error)
	Delete(ctx context.Context, id string) error
}

type consultationService struct {
	log               *logrus.Logger
	repo              consultationRepository.Repository
	utils             utils.IUtils
	annotationService annotationService.IAnnotationService
	planService       planService.IPlanService
	exportService     exportService.IExportService
	maxPhotos         int
	now               func() time.Time
}

// NewConsultationService accepts at most MAX_PHOTOS photographs per
// consultation (default 10).
func NewConsultationService(
	log *logrus.Logger,
	repo consultationRepository.Repository,
	utils utils.IUtils,
	as annotationService.IAnnotationService,
	ps planService.IPlanService,
	es exportService.IExportService,
) IConsultationService {
	maxPhotos := 10
	if v, err := strconv.Atoi(os.Getenv("MAX_PHOTOS")); err == nil && v > 0 {
		maxPhotos = v
	}

	return &consultationService{
		log:               log,
		repo:              repo,
		utils:             utils,
		annotationService: as,
		planService:       ps,
		exportService:     es,
		maxPhotos:         maxPhotos,
		now:               time.Now,
	}
}

// SessionTTL reads SESSION_TTL as a Go duration, defaulting to 30 minutes.
func SessionTTL() time.Duration {
	if ttl, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && ttl > 0 {
		return ttl
	}
	return 30 * time.Minute
}
