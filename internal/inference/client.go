package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/djimit/PhishLens/internal/model"
)

// Inferer classifies content. Implementations must be safe for concurrent use.
type Inferer interface {
	Infer(ctx context.Context, content string, cfg model.ScanConfig) (model.ScanResult, error)
}

// InfererFunc adapts a function to Inferer.
type InfererFunc func(ctx context.Context, content string, cfg model.ScanConfig) (model.ScanResult, error)

// Infer implements Inferer.
func (f InfererFunc) Infer(ctx context.Context, content string, cfg model.ScanConfig) (model.ScanResult, error) {
	return f(ctx, content, cfg)
}

const (
	// DefaultEndpoint is the Gemini REST base URL.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model asked to classify content.
	DefaultModel = "gemini-3-flash-preview"

	// DefaultTemperature keeps the classification close to deterministic.
	DefaultTemperature = 0.1

	// DefaultTimeout bounds one generateContent call.
	DefaultTimeout = 60 * time.Second

	// APIKeyHeader carries the API key.
	APIKeyHeader = "x-goog-api-key"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey       string
	endpoint     string
	model        string
	temperature  float64
	timeout      time.Duration
	proxyAddress string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ Inferer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the REST base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithModel sets the model name.
func WithModel(name string) Option {
	return func(c *Client) {
		c.model = name
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithProxy routes calls through the SOCKS5 proxy at host:port.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithHTTPClient replaces the HTTP client. WithProxy and WithTimeout are
// ignored when it is set.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. A missing API key is not an error here;
// Infer reports it as KindConfig so the failure surfaces like any other.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:      apiKey,
		endpoint:    DefaultEndpoint,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	base := c.httpClient
	if base == nil {
		hc, err := newHTTPClient(c.proxyAddress, c.timeout)
		if err != nil {
			return nil, newError(KindConfig, err)
		}
		base = hc
	}

	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	c.httpClient = &http.Client{
		Transport:     &apiKeyTransport{base: transport, header: APIKeyHeader, key: apiKey},
		Timeout:       base.Timeout,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
	}

	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Role  string        `json:"role"`
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
	Temperature      float64        `json:"temperature"`
}

// apiError is the error body returned by Google APIs.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Infer implements Inferer.
func (c *Client) Infer(ctx context.Context, content string, cfg model.ScanConfig) (model.ScanResult, error) {
	if c.apiKey == "" {
		return model.ScanResult{}, newError(KindConfig, ErrMissingAPIKey)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{
			Role:  "user",
			Parts: []requestPart{{Text: BuildPrompt(content, cfg)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
			Temperature:      c.temperature,
		},
	})
	if err != nil {
		return model.ScanResult{}, newError(KindConfig, fmt.Errorf("marshal request: %w", err))
	}

	endpoint := c.endpoint + "/models/" + url.PathEscape(c.model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return model.ScanResult{}, newError(KindConfig, fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	c.logger.Debug("inference request", "model", c.model, "chars", len([]rune(content)),
		"adversarial", cfg.AdversarialEnabled)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ScanResult{}, newError(KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return model.ScanResult{}, statusError(resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.ScanResult{}, newError(KindNetwork, fmt.Errorf("read response: %w", err))
	}

	result, err := DecodeResponse(raw, content)
	if err != nil {
		c.logger.Debug("inference response rejected", "error", err)
		return model.ScanResult{}, err
	}

	c.logger.Debug("inference completed", "duration", time.Since(start),
		"phishing", result.IsPhishing, "probability", result.Probability)
	return result, nil
}

func statusError(resp *http.Response) *Error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best-effort detail

	detail := strings.TrimSpace(string(payload))
	var apiErr apiError
	if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error.Message != "" {
		detail = apiErr.Error.Message
	}
	if detail == "" {
		detail = resp.Status
	}

	return &Error{
		Kind:   KindStatus,
		Status: resp.StatusCode,
		Err:    errors.New(detail),
	}
}
