package kv

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	deviceKeyVersion   = 1
	deviceKeyAlgorithm = "Argon2id"
	deviceSecretLen    = 32
	deviceSaltLen      = 16

	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32

	deviceKeyPermissions = 0600
)

// ErrCorrupt значение не удалось расшифровать
var ErrCorrupt = errors.New("kv: value is corrupted or sealed with another key")

// deviceKey файл ключа устройства
type deviceKey struct {
	Version   int       `json:"version"`
	Algorithm string    `json:"algorithm"`
	Salt      string    `json:"salt"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// SealedStore шифрует значения AES-256-GCM ключом, выведенным из ключа устройства
type SealedStore struct {
	inner Store
	aead  cipher.AEAD
}

// Seal оборачивает inner. Файл ключа создается при первом запуске.
func Seal(inner Store, keyPath string) (*SealedStore, error) {
	dk, err := loadDeviceKey(keyPath)
	if errors.Is(err, os.ErrNotExist) {
		dk, err = createDeviceKey(keyPath)
	}
	if err != nil {
		return nil, err
	}

	secret, err := hex.DecodeString(dk.Secret)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования ключа устройства: %w", err)
	}
	salt, err := hex.DecodeString(dk.Salt)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования соли: %w", err)
	}

	key := argon2.IDKey(secret, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания шифра: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &SealedStore{inner: inner, aead: aead}, nil
}

func loadDeviceKey(path string) (deviceKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return deviceKey{}, err
	}

	var dk deviceKey
	if err := json.Unmarshal(raw, &dk); err != nil {
		return deviceKey{}, fmt.Errorf("ошибка чтения файла ключа: %w", err)
	}
	if dk.Algorithm != deviceKeyAlgorithm {
		return deviceKey{}, fmt.Errorf("неподдерживаемый алгоритм: %s", dk.Algorithm)
	}
	return dk, nil
}

func createDeviceKey(path string) (deviceKey, error) {
	secret := make([]byte, deviceSecretLen)
	salt := make([]byte, deviceSaltLen)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return deviceKey{}, fmt.Errorf("ошибка генерации ключа: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return deviceKey{}, fmt.Errorf("ошибка генерации соли: %w", err)
	}

	dk := deviceKey{
		Version:   deviceKeyVersion,
		Algorithm: deviceKeyAlgorithm,
		Salt:      hex.EncodeToString(salt),
		Secret:    hex.EncodeToString(secret),
		CreatedAt: time.Now().UTC(),
	}

	raw, err := json.MarshalIndent(dk, "", "  ")
	if err != nil {
		return deviceKey{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return deviceKey{}, fmt.Errorf("ошибка создания директории ключа: %w", err)
	}
	if err := os.WriteFile(path, raw, deviceKeyPermissions); err != nil {
		return deviceKey{}, fmt.Errorf("ошибка записи файла ключа: %w", err)
	}

	return dk, nil
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	size := s.aead.NonceSize()
	if len(sealed) < size {
		return nil, ErrCorrupt
	}
	// ключ записи входит в additional data, значение нельзя переложить под другой ключ
	plain, err := s.aead.Open(nil, sealed[:size], sealed[size:], []byte(key))
	if err != nil {
		return nil, ErrCorrupt
	}
	return plain, nil
}

func (s *SealedStore) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("ошибка генерации nonce: %w", err)
	}
	return s.inner.Set(ctx, key, s.aead.Seal(nonce, nonce, value, []byte(key)))
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *SealedStore) Close() error {
	return s.inner.Close()
}
