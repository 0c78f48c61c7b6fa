package consultationService

import (
	"context"
	"mime/multipart"

	"DentalPlanner/internal/api/consultation"
	"DentalPlanner/internal/entity"
	contextPkg "DentalPlanner/pkg/context"
	"github.com/sirupsen/logrus"
)

// AddPhotos appends photographs to the consultation. Every file is checked
// before any of them is stored, and the batch is stored as one unit.
func (s *consultationService) AddPhotos(ctx context.Context, id string, files []*multipart.FileHeader) (*consultation.ConsultationStatus, error) {
	if len(files) == 0 {
		return nil, consultation.ErrNoPhotos
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.PhotoCount+len(files) > s.maxPhotos {
		return nil, consultation.ErrTooManyPhotos
	}

	images := make([]entity.UploadedImage, 0, len(files))
	for _, file := range files {
		img, err := s.readUpload(file)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	count, err := s.repo.AddPhotos(ctx, id, images, s.maxPhotos)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      contextPkg.GetRequestID(ctx),
		"consultation_id": id,
		"added":           len(images),
		"photo_count":     count,
	}).Info("Photographs uploaded")

	return s.touch(ctx, id)
}

// SetRadiograph stores the panoramic radiograph, replacing any earlier one.
func (s *consultationService) SetRadiograph(ctx context.Context, id string, file *multipart.FileHeader) (*consultation.ConsultationStatus, error) {
	if file == nil {
		return nil, consultation.ErrNoRadiograph
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	img, err := s.readUpload(file)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRadiograph(ctx, id, img); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      contextPkg.GetRequestID(ctx),
		"consultation_id": id,
		"file_name":       img.FileName,
	}).Info("Radiograph uploaded")

	return s.touch(ctx, id)
}

func (s *consultationService) readUpload(file *multipart.FileHeader) (entity.UploadedImage, error) {
	if err := s.utils.ValidateImageFile(file); err != nil {
		return entity.UploadedImage{}, err
	}

	data, err := s.utils.ReadFile(file)
	if err != nil {
		return entity.UploadedImage{}, err
	}

	return entity.UploadedImage{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
		UploadedAt:  s.now(),
	}, nil
}
