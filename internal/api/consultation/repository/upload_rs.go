package consultationRepository

import (
	"context"
	"errors"

	"DentalPlanner/internal/api/consultation"
	"DentalPlanner/internal/entity"
	"DentalPlanner/pkg/redis"
)

// AddPhotos appends imgs to the consultation's photographs in one step and
// returns the new photo count. The batch is refused whole with
// ErrTooManyPhotos when it would take the count past limit.
func (r *repository) AddPhotos(ctx context.Context, id string, imgs []entity.UploadedImage, limit int) (int, error) {
	payloads := make([][]byte, 0, len(imgs))
	for _, img := range imgs {
		payload, err := json.Marshal(img)
		if err != nil {
			return 0, r.storeError(ctx, id, err, "Failed to marshal photograph")
		}
		payloads = append(payloads, payload)
	}

	count, err := r.redis.AppendBounded(ctx, photosKey(id), payloads, int64(limit), r.ttl)
	if errors.Is(err, redis.ErrLimitExceeded) {
		return 0, consultation.ErrTooManyPhotos
	} else if err != nil {
		return 0, r.storeError(ctx, id, err, "Failed to store photographs")
	}

	return int(count), nil
}

func (r *repository) Photos(ctx context.Context, id string) ([]entity.UploadedImage, error) {
	payloads, err := r.redis.ListRange(ctx, photosKey(id))
	if err != nil {
		return nil, r.storeError(ctx, id, err, "Failed to load photographs")
	}

	photos := make([]entity.UploadedImage, 0, len(payloads))
	for _, payload := range payloads {
		var img entity.UploadedImage
		if err := json.Unmarshal(payload, &img); err != nil {
			return nil, r.storeError(ctx, id, err, "Failed to unmarshal photograph")
		}
		photos = append(photos, img)
	}
	return photos, nil
}

// SetRadiograph replaces the radiograph with a single SET, so the last
// upload wins.
func (r *repository) SetRadiograph(ctx context.Context, id string, img entity.UploadedImage) error {
	payload, err := json.Marshal(img)
	if err != nil {
		return r.storeError(ctx, id, err, "Failed to marshal radiograph")
	}

	if err := r.redis.Set(ctx, radiographKey(id), payload, r.ttl); err != nil {
		return r.storeError(ctx, id, err, "Failed to store radiograph")
	}
	return nil
}

func (r *repository) Radiograph(ctx context.Context, id string) (entity.UploadedImage, error) {
	var img entity.UploadedImage

	payload, err := r.redis.Get(ctx, radiographKey(id))
	if errors.Is(err, redis.ErrNotFound) {
		// The record outlived its radiograph; treat the session as gone.
		return img, consultation.ErrConsultationNotFound
	} else if err != nil {
		return img, r.storeError(ctx, id, err, "Failed to load radiograph")
	}

	if err := json.Unmarshal(payload, &img); err != nil {
		return img, r.storeError(ctx, id, err, "Failed to unmarshal radiograph")
	}
	return img, nil
}
