package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pettrack-client/1.0"
	maxResponseBytes = 10 << 20
)

// Options параметры подключения к удаленному хранилищу
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	Transport http.RoundTripper
	UserAgent string
}

// Client HTTP клиент табличного API и API авторизации.
// Пока токен не задан, в Authorization уходит анонимный ключ.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	log       *slog.Logger

	mu    sync.RWMutex
	token string
}

// New создает клиент удаленного хранилища
func New(opts Options, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: userAgent,
		log:       log.With(slog.String("component", "remote")),
	}, nil
}

// SetToken устанавливает access token. Пустая строка возвращает анонимный доступ.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token возвращает текущий access token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) bearer() string {
	if token := c.Token(); token != "" {
		return token
	}
	return c.apiKey
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	bearer  string
}

func (c *Client) doRequest(ctx context.Context, r request) (*http.Response, error) {
	var reqBody io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	bearer := r.bearer
	if bearer == "" {
		bearer = c.bearer()
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	c.log.Debug("Отправка запроса",
		"method", r.method,
		"url", req.URL.String(),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	c.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, body)
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if raw, ok := result.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], body...)
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}
