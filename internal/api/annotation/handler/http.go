package annotationHandler

import (
	annotationService "DentalPlanner/internal/api/annotation/service"
	"DentalPlanner/internal/middleware"
	"DentalPlanner/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AnnotationHandler struct {
	log               *logrus.Logger
	middleware        middleware.Middleware
	annotationService annotationService.IAnnotationService
	utils             utils.IUtils
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	as annotationService.IAnnotationService,
	utils utils.IUtils,
) *AnnotationHandler {
	return &AnnotationHandler{
		log:               log,
		middleware:        middleware,
		annotationService: as,
		utils:             utils,
	}
}

// clientIPKey carries the caller's address across the websocket upgrade.
const clientIPKey = "client_ip"

func (h *AnnotationHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(clientIPKey, c.IP())
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	annotations := srv.Group("/annotations")
	annotations.Post("", h.middleware.NewRateLimiter, h.AnnotateImage)
	annotations.Use("/ws", wsMiddleware)
	annotations.Get("/ws", h.middleware.NewRateLimiter, websocket.New(h.handleAnnotationWebSocket))
}
