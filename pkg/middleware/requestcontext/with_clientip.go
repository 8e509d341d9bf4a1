package requestcontext

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedHeader is an optional header carrying the real client IP
	// (e.g. CF-Connecting-IP). Takes priority over X-Forwarded-For.
	TrustedHeader string `mapstructure:"trusted_header"`
}

// WithClientIP resolves the client IP: trusted header first, then the first
// X-Forwarded-For entry, then the direct remote address.
func WithClientIP(config WithClientIPConfig) Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		if config.TrustedHeader != "" {
			headerIP := c.Get(config.TrustedHeader)
			if ip := net.ParseIP(headerIP); ip != nil {
				return context.WithValue(ctx, clientIPKey{}, headerIP), nil
			}
		}
		if forwarded := c.IPs(); len(forwarded) > 0 {
			return context.WithValue(ctx, clientIPKey{}, forwarded[0]), nil
		}
		return context.WithValue(ctx, clientIPKey{}, c.IP()), nil
	}
}

// GetClientIP get clientIP from context. If not found, return empty string
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}
