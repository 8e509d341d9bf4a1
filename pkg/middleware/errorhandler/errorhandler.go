// Package errorhandler maps domain error kinds to HTTP responses in one
// place so handlers can return bare errors.
package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
)

// statusOf maps an error to its HTTP status. Ordering matters: specific
// kinds before the generic 500 fallback.
func statusOf(err error) (int, string, bool) {
	switch {
	case errors.Is(err, errs.AuthRequired):
		return http.StatusUnauthorized, "authentication required", true
	case errors.Is(err, errs.Forbidden):
		return http.StatusForbidden, "access denied", true
	case errors.Is(err, errs.NotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, errs.InvalidArgument), errors.Is(err, errs.Unsupported):
		return http.StatusBadRequest, "invalid request", true
	case errors.Is(err, errs.Unavailable):
		return http.StatusServiceUnavailable, "upstream unavailable", true
	}
	return 0, "", false
}

// New setup error handler middleware
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": e.Message(),
			}))
		}
		if status, message, ok := statusOf(err); ok {
			// auth and access failures carry internal detail that must
			// not reach the client
			logger.DebugContext(ctx.UserContext(), "api request rejected",
				slogx.Int("status", status),
				slogx.Error(err),
			)
			return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
				"error": message,
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(fiber.Map{
				"error": e.Error(),
			}))
		}
		logger.ErrorContext(ctx.UserContext(), "Something went wrong, api error",
			slogx.String("event", "api_error"),
			slogx.Error(err),
		)
		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		}))
	}
}
