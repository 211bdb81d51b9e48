// Package genai wraps the Google Gen AI SDK for the non-critical copy
// features (event descriptions, icebreakers, support chat). Callers are
// expected to hold a deterministic fallback string and use it whenever a
// call fails or comes back empty.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gl "google.golang.org/genai"
)

// ErrUnavailable is returned for any configuration, transport or API
// failure. It is never fatal; callers degrade to their fallback copy.
var ErrUnavailable = errors.New("text generation unavailable")

type Client struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration

	once   sync.Once
	sdk    *gl.Client
	sdkErr error
}

// NewClient builds a client for the given model. timeout bounds every call;
// the zero value falls back to 30s. The underlying SDK client is built
// lazily on first use, so a missing key only surfaces as ErrUnavailable at
// call time and never blocks startup.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{apiKey: apiKey, model: model, timeout: timeout}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *Client) client(ctx context.Context) (*gl.Client, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: no api key configured", ErrUnavailable)
	}
	c.once.Do(func() {
		c.sdk, c.sdkErr = gl.NewClient(ctx, &gl.ClientConfig{
			APIKey:  c.apiKey,
			Backend: gl.BackendGeminiAPI,
			HTTPOptions: gl.HTTPOptions{
				BaseURL: c.baseURL,
				Timeout: &c.timeout,
			},
		})
	})
	if c.sdkErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, c.sdkErr)
	}
	return c.sdk, nil
}

type requestOption func(*gl.GenerateContentConfig)

// WithSystemInstruction pins a system prompt onto the request.
func WithSystemInstruction(s string) requestOption {
	return func(cfg *gl.GenerateContentConfig) {
		cfg.SystemInstruction = &gl.Content{Parts: []*gl.Part{{Text: s}}}
	}
}

// WithGoogleMaps enables the maps grounding tool.
func WithGoogleMaps() requestOption {
	return func(cfg *gl.GenerateContentConfig) {
		cfg.Tools = append(cfg.Tools, &gl.Tool{GoogleMaps: &gl.GoogleMaps{}})
	}
}

// GenerateText sends a single-turn prompt and returns the generated text.
// An empty string with a nil error means the model returned nothing; the
// caller decides whether that warrants the fallback.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts ...requestOption) (string, error) {
	contents := []*gl.Content{{Role: string(RoleUser), Parts: []*gl.Part{{Text: prompt}}}}
	return c.generate(ctx, contents, opts...)
}

func (c *Client) generate(ctx context.Context, contents []*gl.Content, opts ...requestOption) (string, error) {
	sdk, err := c.client(ctx)
	if err != nil {
		return "", err
	}
	cfg := &gl.GenerateContentConfig{}
	for _, o := range opts {
		o(cfg)
	}
	resp, err := sdk.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// Text is empty when the model returned no candidates; not an error.
	return strings.TrimSpace(resp.Text()), nil
}
