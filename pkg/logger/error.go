package logger

import (
	"fmt"
	"log/slog"

	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
)

// errorAttrReplacer expands error attributes with their verbose
// representation so wrapped stack traces survive into the log output.
func errorAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != slogx.ErrorKey {
		return attr
	}
	err, ok := attr.Value.Any().(error)
	if !ok || err == nil {
		return attr
	}
	return slog.Group(slogx.ErrorKey,
		slog.String("message", err.Error()),
		slog.String("verbose", fmt.Sprintf("%+v", err)),
	)
}
