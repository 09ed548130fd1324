// Package loader reads spec and mock documents from a local path or an
// http(s) URL and decodes them into plain JSON values.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls how URLs are fetched.
type Config struct {
	Attempts uint
	Delay    time.Duration
	Timeout  time.Duration
}

// DefaultConfig is used when no fetch settings are configured.
var DefaultConfig = Config{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	Timeout:  30 * time.Second,
}

// Loader loads documents. It is safe for concurrent use.
type Loader struct {
	cfg    Config
	client *http.Client
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the client used to fetch URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.client = c
	}
}

// New creates a Loader.
func New(cfg Config, opts ...Option) *Loader {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	l := &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsURL reports whether pathOrURL should be fetched over http rather than read from disk.
func IsURL(pathOrURL string) bool {
	lower := strings.ToLower(pathOrURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load reads and decodes the document at pathOrURL.
func (l *Loader) Load(ctx context.Context, pathOrURL string) (any, error) {
	data, err := l.Read(ctx, pathOrURL)
	if err != nil {
		return nil, err
	}
	return Decode(data, pathOrURL)
}

// Read returns the raw content at pathOrURL.
func (l *Loader) Read(ctx context.Context, pathOrURL string) ([]byte, error) {
	if IsURL(pathOrURL) {
		return l.fetch(ctx, pathOrURL)
	}
	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read file %q", pathOrURL)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

			resp, err := l.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				statusErr := &HTTPStatusError{URL: rawURL, StatusCode: resp.StatusCode}
				if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(l.cfg.Attempts),
		retry.Delay(l.cfg.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch %q", rawURL)
	}
	return body, nil
}

// Decode parses data as JSON, falling back to YAML. YAML values are
// normalised so that both formats produce the same shapes: objects as
// map[string]any, arrays as []any and numbers as float64.
func Decode(data []byte, pathOrURL string) (any, error) {
	var doc any
	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr == nil {
		return doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = jsonErr
		}
		return nil, &UndecodableDocumentError{PathOrURL: pathOrURL, Wrapped: err}
	}
	return normalise(doc), nil
}

func normalise(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = normalise(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalise(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = normalise(child)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}
