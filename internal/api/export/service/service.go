package exportService

import (
	"context"
	"os"

	"DentalPlanner/internal/entity"
	"github.com/sirupsen/logrus"
)

type IExportService interface {
	Generate(ctx context.Context, patientName string, plan entity.TreatmentPlan) (*entity.ExportedDocument, error)
	ReadAndRemove(ctx context.Context, doc *entity.ExportedDocument) ([]byte, error)
	Remove(doc *entity.ExportedDocument) error
}

type exportService struct {
	log       *logrus.Logger
	exportDir string
}

// NewExportService writes documents below EXPORT_DIR, or the system temp
// directory when it is unset.
func NewExportService(log *logrus.Logger) IExportService {
	dir := os.Getenv("EXPORT_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return NewExportServiceWithDir(log, dir)
}

func NewExportServiceWithDir(log *logrus.Logger, exportDir string) IExportService {
	return &exportService{
		log:       log,
		exportDir: exportDir,
	}
}
