package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"pettrack/internal/app/client/config"
	"pettrack/internal/app/client/state"
	"pettrack/internal/domain/pet"
	"pettrack/internal/domain/user"
	"pettrack/internal/domain/visit"
	"pettrack/internal/domain/weight"
	"pettrack/internal/infrastructure/imagehost"
	"pettrack/internal/infrastructure/kv"
	"pettrack/internal/infrastructure/remote"
	"pettrack/internal/infrastructure/storage/rest"
)

// sessionKey ключ, под которым сессия лежит в локальном хранилище
const sessionKey = "auth.session"

var ErrRefreshFailed = errors.New("pet list refresh failed")

// App связывает конфигурацию, удаленный сервис, доменные сервисы и хранилище состояния
type App struct {
	config   *config.Config
	log      *slog.Logger
	remote   *remote.Client
	users    user.Servicer
	pets     pet.Servicer
	weights  weight.Servicer
	visits   visit.Servicer
	store    *state.Store
	kv       kv.Store
	uploader imagehost.Uploader
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	session *user.Session
}

type Option func(*App)

// WithKV подменяет локальное хранилище сессии
func WithKV(store kv.Store) Option {
	return func(a *App) {
		a.kv = store
	}
}

// WithUploader подменяет загрузчик изображений
func WithUploader(u imagehost.Uploader) Option {
	return func(a *App) {
		a.uploader = u
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// New создает клиентское приложение
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	log = log.With(slog.String("component", "app"))

	rc, err := remote.New(remote.Options{
		BaseURL: cfg.RemoteURL,
		APIKey:  cfg.AnonKey,
		Timeout: cfg.RequestTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации удаленного клиента: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	a := &App{
		config:  cfg,
		log:     log,
		remote:  rc,
		users:   user.NewService(rest.NewUserRepository(rc, log), user.NewCredentialsValidator(), log),
		pets:    pet.NewService(rest.NewPetRepository(rc, log), pet.NewFormValidator(), log),
		weights: weight.NewService(rest.NewWeightRepository(rc, log), log),
		visits:  visit.NewService(rest.NewVisitRepository(rc, log), visit.NewInputValidator(), log),
		store:   state.NewStore(),
		now:     time.Now,
		ctx:     appCtx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.kv == nil {
		store := kv.Open(cfg.SessionPath, log)
		if cfg.EncryptSession {
			sealed, err := kv.Seal(store, cfg.KeyPath)
			if err != nil {
				cancel()
				_ = store.Close()
				return nil, fmt.Errorf("ошибка инициализации ключа устройства: %w", err)
			}
			a.kv = sealed
		} else {
			a.kv = store
		}
	}
	if a.uploader == nil {
		a.uploader, err = imagehost.New(ctx, imagehost.Config{
			Driver:       cfg.Image.Driver,
			UploadURL:    cfg.Image.UploadURL,
			UploadPreset: cfg.Image.UploadPreset,
			Timeout:      cfg.RequestTimeout,
			S3: imagehost.S3Config{
				Bucket:          cfg.Image.S3Bucket,
				Region:          cfg.Image.S3Region,
				Endpoint:        cfg.Image.S3Endpoint,
				PublicURL:       cfg.Image.S3PublicURL,
				PathStyle:       cfg.Image.S3PathStyle,
				AccessKeyID:     cfg.Image.S3AccessKeyID,
				SecretAccessKey: cfg.Image.S3SecretAccessKey,
			},
		}, log)
		if err != nil {
			cancel()
			_ = a.kv.Close()
			return nil, fmt.Errorf("ошибка инициализации загрузчика изображений: %w", err)
		}
	}

	return a, nil
}

// Store хранилище состояния, на которое подписываются экраны
func (a *App) Store() *state.Store {
	return a.store
}

func (a *App) Config() *config.Config {
	return a.config
}

// Close отменяет запросы всех экранов и закрывает локальное хранилище
func (a *App) Close() error {
	a.cancel()
	if err := a.kv.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия хранилища: %w", err)
	}
	return nil
}

// UploadImage загружает изображение питомца и возвращает его адрес
func (a *App) UploadImage(ctx context.Context, img imagehost.Image) (string, error) {
	u, err := a.uploader.Upload(ctx, img)
	if err != nil {
		a.log.Warn("image upload failed", slog.String("error", err.Error()))
		return "", err
	}
	return u, nil
}
