package planHandler

import (
	"DentalPlanner/internal/api/plan"
	planService "DentalPlanner/internal/api/plan/service"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PlanHandler struct {
	log         *logrus.Logger
	planService planService.IPlanService
}

func New(log *logrus.Logger, ps planService.IPlanService) *PlanHandler {
	return &PlanHandler{
		log:         log,
		planService: ps,
	}
}

func (h *PlanHandler) Start(srv fiber.Router) {
	srv.Get("/plan", h.GetPlan)
}

func (h *PlanHandler) GetPlan(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(plan.NewPlanResponse(h.planService.Plan()))
}
