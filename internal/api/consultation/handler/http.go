package consultationHandler

import (
	consultationService "DentalPlanner/internal/api/consultation/service"
	"DentalPlanner/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ConsultationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	consultationService consultationService.IConsultationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs consultationService.IConsultationService,
) *ConsultationHandler {
	return &ConsultationHandler{
		log:                 log,
		validator:           validate,
		middleware:          middleware,
		consultationService: cs,
	}
}

func (h *ConsultationHandler) Start(srv fiber.Router) {
	consultations := srv.Group("/consultations")

	// Patient information
	consultations.Post("", h.CreateConsultation)
	consultations.Get("/:id", h.GetConsultation)
	consultations.Put("/:id/patient", h.UpdatePatient)
	consultations.Delete("/:id", h.DeleteConsultation)

	// Uploads
	consultations.Post("/:id/photos", h.AddPhotos)
	consultations.Put("/:id/radiograph", h.SetRadiograph)

	// Available once the consultation is complete
	consultations.Post("/:id/analysis", h.middleware.NewRateLimiter, h.AnalyzeConsultation)
	consultations.Get("/:id/plan", h.GetPlan)
	consultations.Get("/:id/export", h.ExportPlan)
	consultations.Post("/:id/approval", h.ApprovePlan)
}
