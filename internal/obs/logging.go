// Package obs contains observability utilities such as logging and counters.
package obs

import (
	"log/slog"
	"os"
)

// Logger is the global structured logger used by the service.
//
// Logger is exported to allow other packages to use it for logging.
var Logger = slog.Default()

// InitLogger initializes the global Logger with JSON handler at the given level.
//
// InitLogger is exported to allow other packages to initialize the Logger.
func InitLogger(level slog.Level) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	Logger = slog.New(h)
}
