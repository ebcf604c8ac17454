package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/config"
)

// HTTPClient abstracts HTTP operations for testing.
// This interface is satisfied by *http.Client and can be mocked in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient returns a configured HTTP client for production use.
func DefaultHTTPClient() HTTPClient {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// adapterOptions holds optional dependencies for backends.
type adapterOptions struct {
	httpClient HTTPClient
	getEnv     func(string) string
}

// AdapterOption configures optional backend dependencies.
type AdapterOption func(*adapterOptions)

// WithHTTPClient sets a custom HTTP client.
// Use this in tests to inject a mock HTTP client.
func WithHTTPClient(client HTTPClient) AdapterOption {
	return func(o *adapterOptions) {
		o.httpClient = client
	}
}

// WithEnvGetter sets a custom environment variable getter.
// Use this in tests to avoid depending on actual environment variables.
func WithEnvGetter(fn func(string) string) AdapterOption {
	return func(o *adapterOptions) {
		o.getEnv = fn
	}
}

func applyOptions(opts []AdapterOption) *adapterOptions {
	options := &adapterOptions{getEnv: os.Getenv}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// HTTPBackend posts effects as JSON to a docflow API.
type HTTPBackend struct {
	baseURL string
	token   string
	client  HTTPClient
	logger  *zap.Logger
}

// NewHTTPBackend creates an HTTP backend. The bearer token is read from the
// environment variable named by cfg.TokenEnv.
func NewHTTPBackend(cfg config.BackendConfig, logger *zap.Logger, opts ...AdapterOption) (*HTTPBackend, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http backend requires a url")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	options := applyOptions(opts)
	var token string
	if cfg.TokenEnv != "" {
		token = options.getEnv(cfg.TokenEnv)
		if token == "" {
			return nil, fmt.Errorf("backend token not found. Set %s environment variable", cfg.TokenEnv)
		}
	}

	client := options.httpClient
	if client == nil {
		client = DefaultHTTPClient()
		if cfg.Timeout > 0 {
			client = &http.Client{Timeout: cfg.Timeout}
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPBackend{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   token,
		client:  client,
		logger:  logger.With(zap.String("backend", "http")),
	}, nil
}

// Name returns the backend name.
func (b *HTTPBackend) Name() string {
	return "http"
}

// SubmitDecision posts d to /documents/{id}/decisions and decodes the receipt.
func (b *HTTPBackend) SubmitDecision(ctx context.Context, d Decision) (Receipt, error) {
	var receipt Receipt
	path := fmt.Sprintf("/documents/%s/decisions", url.PathEscape(d.DocumentID))
	if err := b.post(ctx, path, d, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("submit decision for %s: %w", d.DocumentID, err)
	}
	return receipt, nil
}

// ApplyBulkAction posts the ids to /bulk/{screen}/{action}.
func (b *HTTPBackend) ApplyBulkAction(ctx context.Context, req BulkRequest) error {
	path := fmt.Sprintf("/bulk/%s/%s", url.PathEscape(req.Screen), url.PathEscape(req.Action))
	payload := map[string][]string{"ids": req.IDs}
	if err := b.post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("%s on %s: %w", req.Action, req.Screen, err)
	}
	return nil
}

func (b *HTTPBackend) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		b.logger.Warn("Backend rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("API error: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
