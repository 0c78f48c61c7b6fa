package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const RequestIDKey = "request_id"

const requestIDKey ctxKey = RequestIDKey

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// requestIDLocal is the Fiber locals key the request id middleware fills.
const requestIDLocal = "X-Request-ID"

// FromFiberCtx builds a context for service calls carrying the request id
// assigned by the request id middleware. Requests that skipped the
// middleware are tagged "unknown".
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, _ := c.Locals(requestIDLocal).(string)
	return WithRequestID(c.UserContext(), requestID)
}
