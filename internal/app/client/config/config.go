package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
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
	defaultEnv            = EnvProd
	defaultRemoteURL      = "http://localhost:54321"
	defaultLogLevel       = "info"
	defaultConfigDir      = ".pettrack"
	defaultRequestTimeout = 30 * time.Second
	defaultImageDriver    = "preset"
	defaultUploadPreset   = "ml_default"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env            string        `mapstructure:"app_env"`
	RemoteURL      string        `mapstructure:"remote_url"`
	AnonKey        string        `mapstructure:"remote_anon_key"`
	LogLevel       string        `mapstructure:"log_level"`
	ConfigDir      string        `mapstructure:"config_dir"`
	SessionPath    string        `mapstructure:"session_path"`
	EncryptSession bool          `mapstructure:"session_encrypt"`
	KeyPath        string        `mapstructure:"key_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Image          ImageConfig   `mapstructure:"image"`
}

// ImageConfig настройки загрузки изображений питомцев
type ImageConfig struct {
	Driver       string `mapstructure:"driver"`
	UploadURL    string `mapstructure:"upload_url"`
	UploadPreset string `mapstructure:"upload_preset"`

	S3Bucket          string `mapstructure:"s3_bucket"`
	S3Region          string `mapstructure:"s3_region"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3PublicURL       string `mapstructure:"s3_public_url"`
	S3PathStyle       bool   `mapstructure:"s3_path_style"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

// Load читает конфигурацию из .env, переменных окружения и файла configFile (если задан)
func Load(configFile string) (*Config, error) {
	envPath := ".env"
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("REMOTE_URL", defaultRemoteURL)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("REQUEST_TIMEOUT", defaultRequestTimeout)
	v.SetDefault("IMAGE_DRIVER", defaultImageDriver)
	v.SetDefault("IMAGE_UPLOAD_PRESET", defaultUploadPreset)
	v.SetDefault("SESSION_ENCRYPT", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	sessionPath := v.GetString("SESSION_PATH")
	if sessionPath == "" {
		sessionPath = filepath.Join(configDir, "session.db")
	}

	keyPath := v.GetString("KEY_PATH")
	if keyPath == "" {
		keyPath = filepath.Join(configDir, "device.key")
	}

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		RemoteURL:      strings.TrimRight(v.GetString("REMOTE_URL"), "/"),
		AnonKey:        v.GetString("REMOTE_ANON_KEY"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		ConfigDir:      configDir,
		SessionPath:    sessionPath,
		EncryptSession: v.GetBool("SESSION_ENCRYPT"),
		KeyPath:        keyPath,
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		Image: ImageConfig{
			Driver:            v.GetString("IMAGE_DRIVER"),
			UploadURL:         v.GetString("IMAGE_UPLOAD_URL"),
			UploadPreset:      v.GetString("IMAGE_UPLOAD_PRESET"),
			S3Bucket:          v.GetString("IMAGE_S3_BUCKET"),
			S3Region:          v.GetString("IMAGE_S3_REGION"),
			S3Endpoint:        v.GetString("IMAGE_S3_ENDPOINT"),
			S3PublicURL:       v.GetString("IMAGE_S3_PUBLIC_URL"),
			S3PathStyle:       v.GetBool("IMAGE_S3_PATH_STYLE"),
			S3AccessKeyID:     v.GetString("IMAGE_S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: v.GetString("IMAGE_S3_SECRET_ACCESS_KEY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad загружает конфигурацию клиента и паникует при ошибке
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.RemoteURL == "" {
		return fmt.Errorf("%w: remote_url не может быть пустым", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.RemoteURL, "http://") && !strings.HasPrefix(c.RemoteURL, "https://") {
		return fmt.Errorf("%w: remote_url должен начинаться с http:// или https://", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout должен быть положительным", ErrInvalidConfig)
	}
	switch c.Image.Driver {
	case "", "preset", "none":
	case "s3":
		if c.Image.S3Bucket == "" {
			return fmt.Errorf("%w: image s3_bucket обязателен для драйвера s3", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: неизвестный драйвер изображений %q", ErrInvalidConfig, c.Image.Driver)
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}
