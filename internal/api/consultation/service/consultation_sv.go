package consultationService

import (
	"context"
	"strings"

	"DentalPlanner/internal/api/consultation"
	"DentalPlanner/internal/entity"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/response"
	"github.com/sirupsen/logrus"
)

func (s *consultationService) Create(ctx context.Context, req consultation.PatientRequest) (*consultation.ConsultationStatus, error) {
	requestID := contextPkg.GetRequestID(ctx)
	now := s.now()

	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate consultation id")
		return nil, response.Wrap(consultation.ErrSessionStore, err.Error())
	}

	c := entity.Consultation{
		ID:        id,
		Patient:   patientFromRequest(req),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      requestID,
		"consultation_id": id,
	}).Info("Consultation started")

	status := consultation.NewConsultationStatus(c)
	return &status, nil
}

func (s *consultationService) Status(ctx context.Context, id string) (*consultation.ConsultationStatus, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := consultation.NewConsultationStatus(c)
	return &status, nil
}

func (s *consultationService) UpdatePatient(ctx context.Context, id string, req consultation.PatientRequest) (*consultation.ConsultationStatus, error) {
	patient := patientFromRequest(req)
	return s.update(ctx, id, func(c *entity.Consultation) error {
		c.Patient = patient
		return nil
	})
}

func (s *consultationService) Approve(ctx context.Context, id string, approved bool) (*consultation.ApprovalResult, error) {
	if _, err := s.readyConsultation(ctx, id); err != nil {
		return nil, err
	}

	// The name can be cleared between the gate check and this write.
	_, err := s.update(ctx, id, func(c *entity.Consultation) error {
		if c.Patient.Name == "" {
			return response.Wrap(consultation.ErrConsultationIncomplete, "missing "+entity.RequirementName)
		}
		c.Approved = &approved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      contextPkg.GetRequestID(ctx),
		"consultation_id": id,
		"approved":        approved,
	}).Info("Treatment plan decision recorded")

	return &consultation.ApprovalResult{
		Approved: approved,
		Message:  consultation.ApprovalMessage(approved),
	}, nil
}

func (s *consultationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":      contextPkg.GetRequestID(ctx),
		"consultation_id": id,
	}).Info("Consultation closed")

	return nil
}

// update changes the consultation record atomically and stamps UpdatedAt.
func (s *consultationService) update(ctx context.Context, id string, fn func(c *entity.Consultation) error) (*consultation.ConsultationStatus, error) {
	now := s.now()
	c, err := s.repo.Update(ctx, id, func(c *entity.Consultation) error {
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	status := consultation.NewConsultationStatus(c)
	return &status, nil
}

// touch records activity on the consultation without changing its fields.
func (s *consultationService) touch(ctx context.Context, id string) (*consultation.ConsultationStatus, error) {
	return s.update(ctx, id, func(*entity.Consultation) error { return nil })
}

// readyConsultation loads a consultation and fails with
// ErrConsultationIncomplete unless its gate is open.
func (s *consultationService) readyConsultation(ctx context.Context, id string) (entity.Consultation, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return c, err
	}

	gate := c.Gate()
	if !gate.Ready {
		return c, response.Wrap(consultation.ErrConsultationIncomplete, "missing "+strings.Join(gate.Missing, ", "))
	}

	return c, nil
}

func patientFromRequest(req consultation.PatientRequest) entity.Patient {
	return entity.Patient{
		Name:           strings.TrimSpace(req.Name),
		Age:            req.Age,
		ChiefComplaint: strings.TrimSpace(req.ChiefComplaint),
	}
}
