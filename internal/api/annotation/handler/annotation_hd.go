package annotationHandler

import (
	"time"

	"DentalPlanner/internal/api/annotation"
	"DentalPlanner/internal/middleware"
	contextPkg "DentalPlanner/pkg/context"
	"DentalPlanner/pkg/handlerUtil"
	"DentalPlanner/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const annotateTimeout = 60 * time.Second

func (h *AnnotationHandler) AnnotateImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), annotateTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing annotation upload")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	data, err := h.utils.ReadFile(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	result, err := h.annotationService.Annotate(c, data)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "annotate_image")
	}
	result.Label = file.Filename

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, annotation.AnnotationResponse{
			Data: *result,
		})
	}
}

// handleAnnotationWebSocket annotates every binary frame it receives and
// replies with the result as JSON. Errors are reported in-band. Frames are
// capped at the upload size limit and count against the caller's rate limit.
func (h *AnnotationHandler) handleAnnotationWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	clientIP, _ := c.Locals(clientIPKey).(string)
	logger := h.log.WithFields(log.Fields{
		"request_id": requestID,
		"ip":         clientIP,
	})

	logger.Info("Annotation WebSocket client connected")
	defer logger.Info("Annotation WebSocket client disconnected")

	c.SetReadLimit(h.utils.MaxFileSize())
	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 120 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("Annotation WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var reply interface{}
		if h.middleware.AllowClient(clientIP) {
			reply = h.annotateFrame(requestID, message, logger)
		} else {
			logger.Warn("Rate limit exceeded")
			reply = annotation.StreamError{Error: middleware.ErrTooManyRequests.Error()}
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			logger.Errorf("Error setting write deadline: %v", err)
			break
		}
		if err := c.WriteJSON(reply); err != nil {
			logger.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}

func (h *AnnotationHandler) annotateFrame(requestID string, frame []byte, logger *logrus.Entry) interface{} {
	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), annotateTimeout)
	defer cancel()

	result, err := h.annotationService.Annotate(ctx, frame)
	if err != nil {
		logger.Errorf("Error annotating frame: %v", err)
		return annotation.StreamError{Error: err.Error()}
	}
	return result
}
