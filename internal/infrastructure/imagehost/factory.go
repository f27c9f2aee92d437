package imagehost

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const (
	DriverPreset = "preset"
	DriverS3     = "s3"
	DriverNone   = "none"
)

// Config выбор и настройки драйвера загрузки
type Config struct {
	Driver       string
	UploadURL    string
	UploadPreset string
	Timeout      time.Duration
	S3           S3Config
}

// New создает загрузчик по имени драйвера. Preset без адреса загрузки отключает загрузку.
func New(ctx context.Context, cfg Config, log *slog.Logger) (Uploader, error) {
	switch cfg.Driver {
	case "", DriverPreset:
		if cfg.UploadURL == "" {
			return disabled{}, nil
		}
		return NewPresetUploader(cfg.UploadURL, cfg.UploadPreset, cfg.Timeout, log), nil
	case DriverS3:
		return NewS3Uploader(ctx, cfg.S3, log)
	case DriverNone:
		return disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown image driver %q", cfg.Driver)
	}
}
