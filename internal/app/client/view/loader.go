// Package view цикл загрузки экрана: idle → loading → {success, error}
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"
	"pettrack/internal/app/client/state"
)

var (
	ErrClosed            = errors.New("loader is closed")
	ErrInvalidTransition = errors.New("invalid loader transition")
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FetchFunc один вызов слоя доступа к данным
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot то, что экран показывает в данный момент
type Snapshot[T any] struct {
	Status   Status
	Value    T
	HasValue bool
	Err      error
}

type binding[T any] struct {
	store    *state.Store
	domain   state.Domain
	toAction func(T) state.Action
}

type Option[T any] func(*Loader[T])

// Bind связывает загрузчик с разделом хранилища. Успешный результат попадает туда через Ticket.
func Bind[T any](store *state.Store, domain state.Domain, toAction func(T) state.Action) Option[T] {
	return func(l *Loader[T]) {
		l.bind = &binding[T]{store: store, domain: domain, toAction: toAction}
	}
}

// WithName имя экрана для логов
func WithName[T any](name string) Option[T] {
	return func(l *Loader[T]) {
		l.name = name
	}
}

// Loader машина состояний одного экрана. Параллельные загрузки допустимы,
// применяется только самый свежий результат.
type Loader[T any] struct {
	fetch FetchFunc[T]
	log   *slog.Logger
	name  string
	bind  *binding[T]

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	status     Status
	value      T
	hasValue   bool
	err        error
	gen        uint64
	appliedGen uint64
	closed     bool
}

// New создает загрузчик. Все запросы выполняются в дочернем контексте parent.
func New[T any](parent context.Context, fetch FetchFunc[T], log *slog.Logger, opts ...Option[T]) *Loader[T] {
	ctx, cancel := context.WithCancel(parent)
	l := &Loader[T]{
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		name:   "screen",
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = log.With(slog.String("component", "view"), slog.String("screen", l.name))
	return l
}

// Load первичная загрузка или pull-to-refresh
func (l *Loader[T]) Load(ctx context.Context) (T, error) {
	return l.run(ctx)
}

// Retry повторяет ту же загрузку после ошибки
func (l *Loader[T]) Retry(ctx context.Context) (T, error) {
	var zero T
	if err := l.require(StatusError); err != nil {
		return zero, err
	}
	return l.run(ctx)
}

// Refresh перезагружает уже показанный экран
func (l *Loader[T]) Refresh(ctx context.Context) (T, error) {
	var zero T
	if err := l.require(StatusSuccess, StatusError, StatusLoading); err != nil {
		return zero, err
	}
	return l.run(ctx)
}

func (l *Loader[T]) require(allowed ...Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	for _, s := range allowed {
		if l.status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: from %s", ErrInvalidTransition, l.status)
}

func (l *Loader[T]) run(ctx context.Context) (T, error) {
	var zero T

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return zero, ErrClosed
	}
	l.gen++
	gen := l.gen
	l.status = StatusLoading
	l.err = nil
	var ticket state.Ticket
	if l.bind != nil {
		ticket = l.bind.store.Begin(l.bind.domain)
	}
	l.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(l.ctx, cancel)
	defer stop()

	l.log.Debug("loading", slog.Uint64("gen", gen))
	value, err := l.fetch(fetchCtx)

	if l.ctx.Err() != nil {
		return zero, ErrClosed
	}

	if err != nil {
		l.mu.Lock()
		if gen == l.gen {
			l.status = StatusError
			l.err = err
		}
		l.mu.Unlock()

		l.log.Warn("load failed", slog.Uint64("gen", gen), slog.String("error", err.Error()))
		return zero, err
	}

	if l.bind != nil {
		if !l.bind.store.Commit(ticket, l.bind.toAction(value)) {
			l.log.Debug("stale response discarded by store", slog.Uint64("gen", gen))
		}
	}

	l.mu.Lock()
	if gen > l.appliedGen {
		l.value = value
		l.hasValue = true
		l.appliedGen = gen
	}
	if gen == l.gen {
		l.status = StatusSuccess
		l.err = nil
	}
	l.mu.Unlock()

	return value, nil
}

// Snapshot текущее состояние экрана
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{Status: l.status, Value: l.value, HasValue: l.hasValue, Err: l.err}
}

func (l *Loader[T]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Close отменяет запросы в полете. Завершения после Close ничего не меняют.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
}
