// Package automaxprocs aligns GOMAXPROCS with the container CPU quota and
// logs the outcome through the application logger.
package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

var undo func()

func Init() error {
	log := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.Int("prev_maxprocs", Current()),
	)

	setMaxProcsLogger := func(format string, v ...any) {
		log.LogAttrs(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
	}

	// no-op on non-Linux systems and in environments without a CPU quota
	revert, err := maxprocs.Set(maxprocs.Logger(setMaxProcsLogger), maxprocs.Min(1))
	if err != nil {
		return errors.WithStack(err)
	}
	undo = revert
	return nil
}

// Undo restores GOMAXPROCS to its previous value.
func Undo() {
	if undo != nil {
		undo()
	}
}

// Current returns the current value of GOMAXPROCS.
func Current() int {
	return runtime.GOMAXPROCS(0)
}
