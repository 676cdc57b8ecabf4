// Package transcription is a client for the whisper transcription service,
// which turns an audio file on shared storage into a word-level transcript.
package transcription

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/listenupapp/listenup-narration/internal/normalize"
	"github.com/listenupapp/listenup-narration/internal/ratelimit"
)

const (
	defaultBaseURL  = "http://localhost:8005"
	defaultTimeout  = 5 * time.Minute
	defaultLanguage = "en"
	defaultRPS      = 2.0
	defaultBurst    = 2

	// limiterKey is the single bucket all outbound calls share.
	limiterKey = "whisper"

	// maxErrorBody caps how much of a failed response is read for its detail.
	maxErrorBody = 4 << 10
)

// Config configures a Client. Zero values select defaults.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Language string
	RPS      float64
}

// Client is a rate-limited whisper service client.
type Client struct {
	http     *http.Client
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
	baseURL  string
	language string
}

// New creates a transcription client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:  ratelimit.New(cfg.RPS, defaultBurst),
		logger:   logger,
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Transcribe asks the service to transcribe the audio file at audioPath.
// The path must be readable by the service. language may be a code, locale or
// English name; unknown or empty values fall back to the client default.
func (c *Client) Transcribe(ctx context.Context, audioPath, language string) (*Transcript, error) {
	lang := normalize.LanguageCode(language)
	if lang == "" {
		lang = c.language
	}

	var body bytes.Buffer
	if err := json.MarshalWrite(&body, transcribeRequest{AudioPath: audioPath, Language: lang}); err != nil {
		return nil, wrapError("transcribe", audioPath, fmt.Errorf("encode request: %w", err))
	}

	start := time.Now()
	var transcript Transcript
	if err := c.do(ctx, http.MethodPost, "/transcribe", &body, &transcript); err != nil {
		return nil, wrapError("transcribe", audioPath, err)
	}

	c.logger.Debug("transcription complete",
		"audio_path", audioPath,
		"language", transcript.Language,
		"words", len(transcript.Words),
		"duration_sec", transcript.Duration,
		"took", time.Since(start),
	)
	return &transcript, nil
}

// Health fetches the service's health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, wrapError("health", "", err)
	}
	return &health, nil
}

// do executes a rate-limited request and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("transcription request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.UnmarshalRead(resp.Body, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return nil
	}

	detail := readDetail(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return withDetail(ErrAudioNotFound, detail)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return withDetail(ErrModelNotLoaded, detail)
	case resp.StatusCode == http.StatusTooManyRequests:
		return withDetail(ErrRateLimited, detail)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		return withDetail(ErrBadRequest, detail)
	case resp.StatusCode >= 500:
		return withDetail(ErrServer, detail)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

// readDetail extracts the "detail" field of an error body, or the raw body
// when it is not JSON.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var resp errorResponse
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Detail != "" {
		return resp.Detail
	}
	return string(bytes.TrimSpace(raw))
}

func withDetail(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}
