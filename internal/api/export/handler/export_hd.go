package exportHandler

import (
	"strings"
	"time"

	"DentalPlanner/internal/api/export"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/handlerUtil"
	"DentalPlanner/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ExportHandler) ExportPlan(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req export.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	req.PatientName = strings.TrimSpace(req.PatientName)

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing plan export request")

	doc, err := h.exportService.Generate(c, req.PatientName, h.planService.Plan())
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "generate_pdf")
	}

	content, err := h.exportService.ReadAndRemove(c, doc)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_pdf")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleAttachment(ctx, doc.FileName, "application/pdf", content)
	}
}
