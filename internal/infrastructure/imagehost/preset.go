package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// PresetUploader загружает изображение одним POST запросом с upload preset
type PresetUploader struct {
	client   *http.Client
	endpoint string
	preset   string
	log      *slog.Logger
}

func NewPresetUploader(endpoint, preset string, timeout time.Duration, log *slog.Logger) *PresetUploader {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PresetUploader{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		preset:   preset,
		log:      log.With(slog.String("component", "image_uploader")),
	}
}

type presetRequest struct {
	UploadPreset string `json:"upload_preset"`
	File         string `json:"file"`
}

type presetResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload отправляет {upload_preset, file} и возвращает url из ответа
func (u *PresetUploader) Upload(ctx context.Context, img Image) (string, error) {
	file := img.SourceURL
	if file == "" {
		if len(img.Data) == 0 {
			return "", ErrEmptyImage
		}
		file = img.dataURI()
	}

	payload, err := json.Marshal(presetRequest{UploadPreset: u.preset, File: file})
	if err != nil {
		return "", fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	var out presetResponse
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		u.log.Warn("upload rejected", "status", resp.StatusCode, "message", msg)
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, msg)
	}

	if out.URL == "" {
		if out.SecureURL == "" {
			return "", fmt.Errorf("%w: response has no url", ErrUploadFailed)
		}
		return out.SecureURL, nil
	}

	u.log.Debug("image uploaded", "url", out.URL)
	return out.URL, nil
}
