package middleware

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-ID"
	TraceIDLocalKey = "traceID"
)

// TraceID tags every request with a trace id, reusing the caller's X-Trace-ID
// when it is a UUID. The id is echoed in the response and carried in the
// user context for the loggers.
func (m *Middleware) TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := normalizeTraceID(c.Get(TraceIDHeader))

		c.Set(TraceIDHeader, traceID)
		c.Locals(TraceIDLocalKey, traceID)
		c.SetUserContext(logger.ContextWithTraceID(c.UserContext(), traceID))

		return c.Next()
	}
}

// normalizeTraceID keeps arbitrary client text out of log lines.
func normalizeTraceID(incoming string) string {
	if id, err := uuid.Parse(incoming); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func GetTraceID(c *fiber.Ctx) string {
	traceID, _ := c.Locals(TraceIDLocalKey).(string)
	return traceID
}
