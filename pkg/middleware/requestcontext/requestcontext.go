// Package requestcontext enriches the request's context.Context before the
// handlers run: request id, client ip, request-scoped logger.
package requestcontext

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
)

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// New applies the options in order and installs the resulting context as
// the fiber user context.
func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for i, opt := range opts {
			next, err := opt(ctx, c)
			if err != nil {
				rErr := requestcontextError{}
				if errors.As(err, &rErr) {
					return c.Status(rErr.status).JSON(fiber.Map{"error": rErr.message})
				}
				logger.ErrorContext(ctx, "failed to extract request context",
					slogx.Error(err),
					slogx.Int("optionIndex", i),
				)
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
			}
			ctx = next
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

var _ error = requestcontextError{}

type requestcontextError struct {
	err     error
	status  int
	message string
}

func (r requestcontextError) Error() string {
	if r.err != nil {
		return r.err.Error()
	}
	return r.message
}

func (r requestcontextError) Unwrap() error {
	return r.err
}
