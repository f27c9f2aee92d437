// Package types общие ключи контекста и помощники для команд клиента
package types

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/internal/app/client"
	"pettrack/internal/app/client/view"
)

type contextKey string

const (
	ClientAppKey contextKey = "client_app"
	OptionsKey   contextKey = "options"
)

// Options глобальные флаги, общие для всех команд
type Options struct {
	JSON  bool
	Retry int
}

// App достает приложение, созданное в корневой команде
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

func Opts(cmd *cobra.Command) Options {
	opts, _ := cmd.Context().Value(OptionsKey).(Options)
	return opts
}

// Load загружает экран и при ошибке повторяет загрузку до retries раз
func Load[T any](ctx context.Context, l *view.Loader[T], retries int) (T, error) {
	v, err := l.Load(ctx)
	for attempt := 1; err != nil && attempt <= retries; attempt++ {
		output.Warn("Не удалось загрузить данные: %v. Повтор %d/%d", err, attempt, retries)
		v, err = l.Retry(ctx)
	}
	return v, err
}
