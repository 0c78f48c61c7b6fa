package exportHandler

import (
	exportService "DentalPlanner/internal/api/export/service"
	planService "DentalPlanner/internal/api/plan/service"
	"DentalPlanner/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ExportHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	exportService exportService.IExportService
	planService   planService.IPlanService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	es exportService.IExportService,
	ps planService.IPlanService,
) *ExportHandler {
	return &ExportHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		exportService: es,
		planService:   ps,
	}
}

func (h *ExportHandler) Start(srv fiber.Router) {
	srv.Post("/exports", h.ExportPlan)
}
