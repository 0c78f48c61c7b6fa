package consultationRepository

import (
	"context"
	"errors"
	"time"

	"DentalPlanner/internal/api/consultation"
	"DentalPlanner/internal/entity"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/redis"
	"DentalPlanner/pkg/response"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record is the stored part of a consultation. Upload state is derived.
type record struct {
	ID        string         `json:"id"`
	Patient   entity.Patient `json:"patient"`
	Approved  *bool          `json:"approved,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toRecord(c entity.Consultation) record {
	return record{
		ID:        c.ID,
		Patient:   c.Patient,
		Approved:  c.Approved,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (rec record) consultation() entity.Consultation {
	return entity.Consultation{
		ID:        rec.ID,
		Patient:   rec.Patient,
		Approved:  rec.Approved,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (r *repository) Create(ctx context.Context, c entity.Consultation) error {
	payload, err := json.Marshal(toRecord(c))
	if err != nil {
		return r.storeError(ctx, c.ID, err, "Failed to marshal consultation")
	}

	if err := r.redis.Set(ctx, consultationKey(c.ID), payload, r.ttl); err != nil {
		return r.storeError(ctx, c.ID, err, "Failed to save consultation")
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (entity.Consultation, error) {
	payload, err := r.redis.Get(ctx, consultationKey(id))
	if errors.Is(err, redis.ErrNotFound) {
		return entity.Consultation{}, consultation.ErrConsultationNotFound
	} else if err != nil {
		return entity.Consultation{}, r.storeError(ctx, id, err, "Failed to load consultation")
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return entity.Consultation{}, r.storeError(ctx, id, err, "Failed to unmarshal consultation")
	}

	return r.withUploads(ctx, rec.consultation())
}

// Update applies fn to the stored record atomically and refreshes the
// lifetime of every key of the consultation. Changes fn makes to the
// upload fields are ignored.
func (r *repository) Update(ctx context.Context, id string, fn func(c *entity.Consultation) error) (entity.Consultation, error) {
	var updated record

	err := r.redis.Update(ctx, consultationKey(id), r.ttl, func(current []byte) ([]byte, error) {
		var rec record
		if err := json.Unmarshal(current, &rec); err != nil {
			return nil, err
		}

		c := rec.consultation()
		if err := fn(&c); err != nil {
			return nil, err
		}

		updated = toRecord(c)
		return json.Marshal(updated)
	})

	var domainErr *response.Error
	switch {
	case err == nil:
	case errors.Is(err, redis.ErrNotFound):
		return entity.Consultation{}, consultation.ErrConsultationNotFound
	case errors.As(err, &domainErr):
		return entity.Consultation{}, err
	default:
		return entity.Consultation{}, r.storeError(ctx, id, err, "Failed to update consultation")
	}

	if err := r.touch(ctx, id); err != nil {
		return entity.Consultation{}, err
	}
	return r.withUploads(ctx, updated.consultation())
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if err := r.redis.DeleteByPrefix(ctx, consultationKey(id)); err != nil {
		return r.storeError(ctx, id, err, "Failed to delete consultation")
	}
	return nil
}

func (r *repository) withUploads(ctx context.Context, c entity.Consultation) (entity.Consultation, error) {
	photos, err := r.redis.ListLen(ctx, photosKey(c.ID))
	if err != nil {
		return c, r.storeError(ctx, c.ID, err, "Failed to count photographs")
	}

	hasRadiograph, err := r.redis.Exists(ctx, radiographKey(c.ID))
	if err != nil {
		return c, r.storeError(ctx, c.ID, err, "Failed to check radiograph")
	}

	c.PhotoCount = int(photos)
	c.HasRadiograph = hasRadiograph
	return c, nil
}

// touch gives every key of the consultation a fresh ttl. Keys that do not
// exist yet are skipped by Redis.
func (r *repository) touch(ctx context.Context, id string) error {
	keys := append([]string{consultationKey(id)}, uploadKeys(id)...)
	if err := r.redis.Expire(ctx, r.ttl, keys...); err != nil {
		return r.storeError(ctx, id, err, "Failed to refresh consultation expiration")
	}
	return nil
}

func (r *repository) storeError(ctx context.Context, id string, err error, msg string) error {
	r.log.WithFields(logrus.Fields{
		"request_id":      contextPkg.GetRequestID(ctx),
		"consultation_id": id,
		"error":           err.Error(),
	}).Error(msg)
	return response.Wrap(consultation.ErrSessionStore, err.Error())
}
