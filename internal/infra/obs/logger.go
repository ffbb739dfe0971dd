package obs

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

const serviceName = "hotelbooking"

// NewLogger writes to stdout: colored tint output at debug level for dev and
// local, quiet tint output for test, and JSON with a service attribute
// anywhere else.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	var h slog.Handler
	switch env {
	case "dev", "local":
		h = tint.NewHandler(w, &tint.Options{Level: slog.LevelDebug, TimeFormat: time.Kitchen, AddSource: true})
	case "test":
		h = tint.NewHandler(w, &tint.Options{Level: slog.LevelWarn, NoColor: true})
	default:
		json := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})
		return slog.New(json).With("service", serviceName)
	}
	return slog.New(h)
}
