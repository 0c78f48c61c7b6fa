package consultationRepository

import (
	"context"
	"time"

	"DentalPlanner/internal/entity"
	"DentalPlanner/pkg/redis"
	"github.com/sirupsen/logrus"
)

// Repository keeps the consultation record apart from its uploads. Photo
// count and radiograph presence are read from the upload keys themselves,
// so concurrent uploads never overwrite each other's progress.
type Repository interface {
	Create(ctx context.Context, c entity.Consultation) error
	Get(ctx context.Context, id string) (entity.Consultation, error)
	Update(ctx context.Context, id string, fn func(c *entity.Consultation) error) (entity.Consultation, error)
	AddPhotos(ctx context.Context, id string, imgs []entity.UploadedImage, limit int) (int, error)
	Photos(ctx context.Context, id string) ([]entity.UploadedImage, error)
	SetRadiograph(ctx context.Context, id string, img entity.UploadedImage) error
	Radiograph(ctx context.Context, id string) (entity.UploadedImage, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	redis redis.IRedis
	log   *logrus.Logger
	ttl   time.Duration
}

// New stores consultations in Redis. Every key of a consultation expires
// ttl after the consultation was last written.
func New(redis redis.IRedis, log *logrus.Logger, ttl time.Duration) Repository {
	return &repository{
		redis: redis,
		log:   log,
		ttl:   ttl,
	}
}
