package consultationHandler

import (
	"time"

	"DentalPlanner/internal/api/consultation"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/handlerUtil"
	"DentalPlanner/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ConsultationHandler) AddPhotos(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	form, err := ctx.MultipartForm()
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	files := form.File["photos"]

	h.log.WithFields(log.Fields{
		"request_id":      requestID,
		"consultation_id": ctx.Params("id"),
		"files":           len(files),
	}).Debug("Processing photograph upload")

	status, err := h.consultationService.AddPhotos(c, ctx.Params("id"), files)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "add_photos")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, consultation.ConsultationResponse{
			Data: *status,
		})
	}
}

func (h *ConsultationHandler) SetRadiograph(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	form, err := ctx.MultipartForm()
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	files := form.File["radiograph"]
	if len(files) != 1 {
		return errHandler.Handle(ctx, requestID, consultation.ErrNoRadiograph, ctx.Path(), "set_radiograph")
	}

	status, err := h.consultationService.SetRadiograph(c, ctx.Params("id"), files[0])
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "set_radiograph")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, consultation.ConsultationResponse{
			Data: *status,
		})
	}
}
