package translator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rudderlabs/rudder-go-kit/logger"
)

// ============================================================================
// GOOGLE TRANSLATE — REST v2 client
// ============================================================================
// POST {endpoint}/language/translate/v2         q, target, source, format
// POST {endpoint}/language/translate/v2/detect  q
//
// Requests go through a retrying client; 5xx and 429 are retried, other
// non-200 replies fail immediately. This is the only file that makes
// external calls.
// ============================================================================

const (
	translatePath = "/language/translate/v2"
	detectPath    = "/language/translate/v2/detect"
)

// Google implements Service using the Google Translate v2 REST API.
type Google struct {
	config Config
	client *retryablehttp.Client
	log    logger.Logger
}

// NewGoogle creates a Google Translate client. A missing API key is not an
// error here; calls fail and the translator falls back.
func NewGoogle(cfg Config, log logger.Logger) *Google {
	def := DefaultGoogleConfig(cfg.APIKey)
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if log == nil {
		log = logger.NOP
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	client.Logger = nil
	client.RetryMax = cfg.RetryMax

	return &Google{config: cfg, client: client, log: log}
}

// Name implements Service.
func (g *Google) Name() string { return "Google Translate" }

// Translate implements Service.
func (g *Google) Translate(ctx context.Context, text, target, source string) (string, error) {
	form := url.Values{}
	form.Set("q", text)
	form.Set("target", target)
	form.Set("format", "text")
	if source != "" && source != AutoDetect {
		form.Set("source", source)
	}

	body, err := g.post(ctx, translatePath, form)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return parseTranslation(body)
}

// Detect implements Service.
func (g *Google) Detect(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("q", text)

	body, err := g.post(ctx, detectPath, form)
	if err != nil {
		return "", fmt.Errorf("detect: %w", err)
	}
	return parseDetection(body)
}

// post sends a form-encoded request and returns the body of a 200 reply.
func (g *Google) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	endpoint := g.config.Endpoint + path
	if g.config.APIKey != "" {
		endpoint += "?key=" + url.QueryEscape(g.config.APIKey)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, []byte(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if perr := parseError(body); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("google translate returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	g.log.Debugn("google translate call",
		logger.NewStringField("path", path),
		logger.NewIntField("bytes", int64(len(body))),
	)
	return body, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
