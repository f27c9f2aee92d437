// Package kv хранилище ключ-значение для состояния клиента между запусками
package kv

import (
	"context"
	"errors"

	"golang.org/x/exp/slog"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open открывает sqlite хранилище по пути path.
// Если база недоступна, возвращает хранилище в памяти.
func Open(path string, log *slog.Logger) Store {
	store, err := NewSQLiteStore(path)
	if err != nil {
		log.Warn("Не удалось открыть SQLite хранилище, используется память",
			"path", path,
			"error", err,
		)
		return NewMemoryStore()
	}
	return store
}
