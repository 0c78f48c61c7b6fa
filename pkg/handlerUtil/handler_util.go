package handlerUtil

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"DentalPlanner/pkg/log"
	"DentalPlanner/pkg/response"
	"DentalPlanner/pkg/utils"
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		if respErr.Code >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}
		return c.Status(respErr.Code).JSON(ErrorResponse{Error: err.Error()})
	}

	// Upload errors
	if errors.Is(err, utils.ErrNoFile) {
		h.logger.WithFields(fields).Warn("No file uploaded")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "No file uploaded",
			Code:  "NO_FILE",
		})
	}

	if errors.Is(err, utils.ErrUnsupportedType) {
		h.logger.WithFields(fields).Warn("Invalid file type")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid file type. Only png, jpg and jpeg images are allowed.",
			Code:  "INVALID_FILE_TYPE",
		})
	}

	if errors.Is(err, utils.ErrFileTooLarge) {
		h.logger.WithFields(fields).Warn("File too large")
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(ErrorResponse{
			Error: "File too large",
			Code:  "FILE_TOO_LARGE",
		})
	}

	traceID := log.ErrorWithTraceID(h.logger, fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		Details: "trace_id=" + traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: fiberUtils.StatusMessage(fiber.StatusRequestTimeout),
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

// HandleAttachment sends content as a file download named fileName.
// Names outside printable ASCII get an RFC 6266 filename* parameter next to
// a plain filename fallback.
func (h *ErrorHandler) HandleAttachment(c *fiber.Ctx, fileName, contentType string, content []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, contentDisposition(fileName))
	return c.Status(fiber.StatusOK).Send(content)
}

func contentDisposition(fileName string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < ' ' || r > '~' || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, fileName)
	header := fmt.Sprintf(`attachment; filename="%s"`, fallback)

	nonASCII := strings.IndexFunc(fileName, func(r rune) bool { return r > '~' }) >= 0
	if !nonASCII {
		return header
	}

	// FormatMediaType percent-encodes such values as filename*=utf-8''...
	extended := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	if extended == "" {
		return header
	}
	return header + "; " + strings.TrimPrefix(extended, "attachment; ")
}
