// Package imagehost загрузка изображений питомцев на внешний хостинг
package imagehost

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"path"
	"strings"
)

var (
	ErrEmptyImage   = errors.New("image is empty")
	ErrUploadFailed = errors.New("image upload failed")
	ErrDisabled     = errors.New("image upload is disabled")
)

// Image изображение для загрузки: либо байты, либо адрес уже доступной картинки
type Image struct {
	Name        string
	ContentType string
	Data        []byte
	SourceURL   string
}

// Uploader загружает изображение и возвращает его публичный адрес
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

func (img Image) contentType() string {
	if img.ContentType != "" {
		return img.ContentType
	}
	if len(img.Data) > 0 {
		return http.DetectContentType(img.Data)
	}
	return "application/octet-stream"
}

// dataURI кодирует байты изображения в data URI
func (img Image) dataURI() string {
	return "data:" + img.contentType() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func (img Image) extension() string {
	if ext := path.Ext(img.Name); ext != "" {
		return strings.ToLower(ext)
	}
	switch img.contentType() {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

type disabled struct{}

func (disabled) Upload(context.Context, Image) (string, error) {
	return "", ErrDisabled
}
