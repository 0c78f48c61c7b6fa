package exportService

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"DentalPlanner/internal/api/export"
	"DentalPlanner/internal/entity"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/response"
	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
)

const (
	tempDirPattern = "plan-export-*"

	cellWidth    = 190
	lineHeight   = 10
	titleSpacing = 10
	sectionGap   = 5
	fontFamily   = "Arial"
	fontSize     = 12
)

// Generate renders the plan to a PDF on local storage. Every call gets its
// own directory, so two exports for the same name never overwrite each
// other. The caller must hand the document to ReadAndRemove or Remove.
func (s *exportService) Generate(ctx context.Context, patientName string, plan entity.TreatmentPlan) (*entity.ExportedDocument, error) {
	requestID := contextPkg.GetRequestID(ctx)

	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return nil, export.ErrPatientNameNeeded
	}

	if err := os.MkdirAll(s.exportDir, 0o750); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to prepare export directory")
		return nil, response.Wrap(export.ErrExportFailed, err.Error())
	}

	dir, err := os.MkdirTemp(s.exportDir, tempDirPattern)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create export directory")
		return nil, response.Wrap(export.ErrExportFailed, err.Error())
	}

	fileName := export.FileName(patientName)
	path := filepath.Join(dir, fileName)

	if err := writePDF(path, patientName, plan); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to write treatment plan PDF")
		os.RemoveAll(dir)
		return nil, response.Wrap(export.ErrExportFailed, err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		os.RemoveAll(dir)
		return nil, response.Wrap(export.ErrExportFailed, err.Error())
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"file_name":  fileName,
		"size":       info.Size(),
	}).Info("Treatment plan exported")

	return &entity.ExportedDocument{
		Path:     path,
		FileName: fileName,
		Size:     info.Size(),
	}, nil
}

func writePDF(path, patientName string, plan entity.TreatmentPlan) error {
	return buildPDF(patientName, plan).OutputFileAndClose(path)
}

// buildPDF lays out export.Document on A4 pages: the title centred, then
// each section header and its bullets, with a gap before every header
// after the first.
func buildPDF(patientName string, plan entity.TreatmentPlan) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(export.Title(patientName), true)
	pdf.SetCreator("DentalPlanner", true)
	pdf.SetCreationDate(time.Now())
	pdf.SetAutoPageBreak(true, 15)

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", fontSize)

	headers := 0
	for _, line := range export.Document(patientName, plan) {
		switch line.Kind {
		case export.LineTitle:
			pdf.CellFormat(cellWidth, lineHeight, tr(line.Text), "", 1, "C", false, 0, "")
			pdf.Ln(titleSpacing)
		case export.LineHeader:
			if headers > 0 {
				pdf.Ln(sectionGap)
			}
			headers++
			pdf.CellFormat(cellWidth, lineHeight, tr(line.Text), "", 1, "L", false, 0, "")
		default:
			pdf.CellFormat(cellWidth, lineHeight, tr(line.Text), "", 1, "L", false, 0, "")
		}
	}

	return pdf
}

// ReadAndRemove returns the document content and deletes it from disk.
func (s *exportService) ReadAndRemove(ctx context.Context, doc *entity.ExportedDocument) ([]byte, error) {
	content, readErr := os.ReadFile(doc.Path)
	removeErr := s.Remove(doc)

	if readErr != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      readErr.Error(),
		}).Error("Failed to read exported document")
		return nil, response.Wrap(export.ErrExportFailed, readErr.Error())
	}
	if removeErr != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      removeErr.Error(),
		}).Warn("Failed to remove exported document")
	}

	return content, nil
}

// Remove deletes the document and its per-export directory.
func (s *exportService) Remove(doc *entity.ExportedDocument) error {
	if doc == nil || doc.Path == "" {
		return nil
	}

	dir := filepath.Dir(doc.Path)
	if filepath.Dir(dir) != filepath.Clean(s.exportDir) {
		return errors.New("refusing to remove a document outside the export directory")
	}

	return os.RemoveAll(dir)
}
