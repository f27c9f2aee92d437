package logger

import (
	"os"

	"golang.org/x/exp/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// New создает логгер в зависимости от окружения
func New(env string) *slog.Logger {
	return NewWithLevel(env, "")
}

// NewWithLevel как New, но непустой level (debug, info, warn, error) заменяет уровень окружения
func NewWithLevel(env, level string) *slog.Logger {
	lvl := envLevel(env)
	if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			lvl = parsed
		}
	}

	if env == envLocal {
		return prettySlog(lvl)
	}

	return slog.New(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
	)
}

func envLevel(env string) slog.Level {
	switch env {
	case envLocal, envDev:
		return slog.LevelDebug
	case envProd:
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func setupPrettySlog() *slog.Logger {
	return prettySlog(slog.LevelDebug)
}

func prettySlog(level slog.Level) *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stderr)

	return slog.New(handler)
}
