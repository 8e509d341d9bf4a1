package requestcontext

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
)

type requestIdKey struct{}

// GetRequestId get requestId from context. If not found, return empty string
func GetRequestId(ctx context.Context) string {
	if id, ok := ctx.Value(requestIdKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestId reuses the incoming request id header when present,
// otherwise generates one, and binds it to the context logger.
func WithRequestId() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		requestId, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if !ok || requestId == "" {
			requestId = c.Get(requestid.ConfigDefault.Header, fiberutils.UUID())
			c.Set(requestid.ConfigDefault.Header, requestId)
			c.Locals(requestid.ConfigDefault.ContextKey, requestId)
		}

		ctx = context.WithValue(ctx, requestIdKey{}, requestId)
		ctx = logger.WithContext(ctx, "requestId", requestId)
		return ctx, nil
	}
}
