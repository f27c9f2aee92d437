package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	envPath            = ".env"
	defaultRunAddress  = ":54321"
	defaultJWTSecret   = "devstore-secret"
	defaultAccessTTL   = time.Hour
	defaultRefreshTTL  = 30 * 24 * time.Hour
	defaultBcryptCost  = 10
	defaultShutdownTTL = 10 * time.Second
	defaultMigrations  = "migrations/devstore"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env    string
	Server server
	Auth   auth
	DB     db
	Logger logger
}

type server struct {
	RunAddress      string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

type auth struct {
	AnonKey             string
	JWTSecret           string
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	BcryptCost          int
	RequireConfirmation bool
}

// db хранилище учетных записей. Без DatabaseURI учетные записи живут в памяти процесса.
type db struct {
	DatabaseURI string
	Migrations  string
}

type logger struct {
	LogLevel string
}

// Load собирает конфигурацию dev-сервера из .env и переменных окружения
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", defaultRunAddress)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownTTL)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("ACCESS_TOKEN_TTL", defaultAccessTTL)
	v.SetDefault("REFRESH_TOKEN_TTL", defaultRefreshTTL)
	v.SetDefault("BCRYPT_COST", defaultBcryptCost)
	v.SetDefault("REQUIRE_EMAIL_CONFIRMATION", false)
	v.SetDefault("MIGRATIONS_PATH", defaultMigrations)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Env: strings.ToLower(v.GetString("APP_ENV")),
		Server: server{
			RunAddress:      v.GetString("RUN_ADDRESS"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		},
		Auth: auth{
			AnonKey:             v.GetString("REMOTE_ANON_KEY"),
			JWTSecret:           v.GetString("JWT_SECRET"),
			AccessTTL:           v.GetDuration("ACCESS_TOKEN_TTL"),
			RefreshTTL:          v.GetDuration("REFRESH_TOKEN_TTL"),
			BcryptCost:          v.GetInt("BCRYPT_COST"),
			RequireConfirmation: v.GetBool("REQUIRE_EMAIL_CONFIRMATION"),
		},
		DB: db{
			DatabaseURI: v.GetString("DATABASE_URI"),
			Migrations:  v.GetString("MIGRATIONS_PATH"),
		},
		Logger: logger{LogLevel: v.GetString("LOG_LEVEL")},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad загружает конфигурацию и паникует при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Server.RunAddress == "" {
		return fmt.Errorf("%w: run_address не может быть пустым", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: jwt_secret не может быть пустым", ErrInvalidConfig)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("%w: время жизни токенов должно быть положительным", ErrInvalidConfig)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("%w: bcrypt_cost должен быть в диапазоне 4..31", ErrInvalidConfig)
	}
	if c.DB.DatabaseURI != "" && c.DB.Migrations == "" {
		return fmt.Errorf("%w: migrations_path не может быть пустым", ErrInvalidConfig)
	}
	if c.Env == EnvProd && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("%w: в prod нужно задать JWT_SECRET", ErrInvalidConfig)
	}
	return nil
}
