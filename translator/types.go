package translator

import (
	"context"
	"errors"
	"time"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// TRANSLATOR — Boundary to an external translation service
// ============================================================================
// Service is the only thing that talks to a provider. Translator wraps it
// with the per-value rules, label detection, throttling, a breaker and
// progress reporting. A nil or failed Service puts the Translator into
// degraded mode: values come back wrapped with UnavailablePrefix.
// ============================================================================

// UnavailablePrefix marks values that could not be translated.
const UnavailablePrefix = "[Translation unavailable] "

// AutoDetect asks the provider to detect the source language.
const AutoDetect = "auto"

var (
	// ErrUnsupportedLanguage is returned for target codes outside SupportedLanguages.
	ErrUnsupportedLanguage = errors.New("unsupported target language")
	// ErrUnavailable is returned by Probe when no service is configured.
	ErrUnavailable = errors.New("translation service unavailable")
)

// Service translates and detects the language of text.
// Implementations: Google (REST v2).
type Service interface {
	// Translate converts text into target. source may be AutoDetect.
	Translate(ctx context.Context, text, target, source string) (string, error)
	// Detect returns the provider's language code for text.
	Detect(ctx context.Context, text string) (string, error)
	// Name identifies the provider in logs and status messages.
	Name() string
}

// ProgressFunc receives the number of processed cells out of the total
// number of non-null cells across all selected columns.
type ProgressFunc func(done, total int)

// Result is the outcome of translating a table.
type Result struct {
	// Table is a copy of the input with selected columns translated and
	// a "<name>_original" column appended per translated column.
	Table *table.Table `json:"-"`

	// Originals maps each translated column to the column holding its
	// untouched values.
	Originals map[string]string `json:"originals"`

	// Labels maps original column names to translated labels for columns
	// whose names looked like natural-language prompts.
	Labels map[string]string `json:"labels"`

	Columns    []string `json:"columns"` // columns actually processed
	Missing    []string `json:"missing"` // selected but not found
	Target     string   `json:"target"`
	Translated int      `json:"translated"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
}

// OriginalColumnName returns the name under which untouched source values
// of a translated column are kept.
func OriginalColumnName(column string) string {
	return column + "_original"
}

// Config holds provider configuration.
type Config struct {
	APIKey   string        // Provider API key
	Endpoint string        // API base URL override (empty = default)
	Timeout  time.Duration // Per-request timeout
	RetryMax int           // Retries on 5xx / 429 responses
}

// DefaultGoogleConfig returns a Config with Google Translate defaults.
func DefaultGoogleConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		Endpoint: "https://translation.googleapis.com",
		Timeout:  10 * time.Second,
		RetryMax: 2,
	}
}
