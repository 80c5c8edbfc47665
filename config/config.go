// Package config reads csvlens settings from the environment, an optional
// .env file and an optional config.yaml.
package config

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rudderlabs/rudder-go-kit/bytesize"
	kitconfig "github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
	"github.com/spektr-org/csvlens/translator"
)

// ============================================================================
// CONFIG — Settings resolved from rudder-go-kit config
// ============================================================================
// Keys are looked up as CSVLENS_<SNAKE_CASE_KEY> in the environment, e.g.
// Translator.targetLanguage → CSVLENS_TRANSLATOR_TARGET_LANGUAGE.
// The API key also honours GOOGLE_TRANSLATE_API_KEY.
// ============================================================================

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CSVLENS"

// Settings is the resolved configuration.
type Settings struct {
	Translator TranslatorSettings
	Analyzer   schema.Options
	Table      TableSettings
	Server     ServerSettings
}

// TableSettings configures file loading.
type TableSettings struct {
	NAValues []string // Cell values read as missing
}

// LoadOptions returns the loader options for these settings.
func (s TableSettings) LoadOptions() []table.Option {
	return []table.Option{table.WithNAValues(s.NAValues...)}
}

// TranslatorSettings configures the translation service and orchestration.
type TranslatorSettings struct {
	TargetLanguage  string
	APIKey          string
	Endpoint        string
	Timeout         time.Duration
	RetryMax        int
	CallInterval    time.Duration
	LabelKeywords   []string
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// ServerSettings configures the HTTP shell.
type ServerSettings struct {
	Addr          string
	MaxUploadSize int64
	MaxSessions   int
}

// Load reads the given .env files (a missing default .env is not an error)
// and returns a config bound to the CSVLENS prefix.
func Load(envFiles ...string) (*kitconfig.Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, err
	}
	return kitconfig.New(kitconfig.WithEnvPrefix(EnvPrefix)), nil
}

// New resolves Settings from conf.
func New(conf *kitconfig.Config) Settings {
	google := translator.DefaultGoogleConfig("")
	analyzer := schema.DefaultOptions()
	threshold := conf.GetFloat64("Analyzer.dateMatchThreshold", analyzer.DateMatchThreshold)
	if threshold == 0 {
		threshold = schema.DateMatchAny
	}

	return Settings{
		Translator: TranslatorSettings{
			TargetLanguage:  conf.GetStringVar("en", "Translator.targetLanguage"),
			APIKey:          conf.GetStringVar("", "Translator.apiKey", "GOOGLE_TRANSLATE_API_KEY"),
			Endpoint:        conf.GetStringVar(google.Endpoint, "Translator.endpoint"),
			Timeout:         conf.GetDurationVar(int64(google.Timeout/time.Second), time.Second, "Translator.timeout"),
			RetryMax:        conf.GetIntVar(google.RetryMax, 1, "Translator.retryMax"),
			CallInterval:    conf.GetDurationVar(100, time.Millisecond, "Translator.callInterval"),
			LabelKeywords:   conf.GetStringSlice("Translator.labelKeywords", translator.DefaultLabelKeywords),
			BreakerFailures: conf.GetIntVar(5, 1, "Translator.breakerFailures"),
			BreakerTimeout:  conf.GetDurationVar(30, time.Second, "Translator.breakerTimeout"),
		},
		Analyzer: schema.Options{
			DateSampleSize:     conf.GetIntVar(analyzer.DateSampleSize, 1, "Analyzer.dateSampleSize"),
			DateMatchThreshold: threshold,
			SampleValues:       conf.GetIntVar(analyzer.SampleValues, 1, "Analyzer.sampleValues"),
			LanguageSample:     conf.GetIntVar(analyzer.LanguageSample, 1, "Analyzer.languageSample"),
		},
		Table: TableSettings{
			NAValues: conf.GetStringSlice("Table.naValues", table.DefaultNAValues),
		},
		Server: ServerSettings{
			Addr:          conf.GetStringVar(":8080", "Server.addr"),
			MaxUploadSize: conf.GetInt64Var(32*bytesize.MB, 1, "Server.maxUploadSize"),
			MaxSessions:   conf.GetIntVar(100, 1, "Server.maxSessions"),
		},
	}
}

// GoogleConfig returns the provider configuration.
func (s TranslatorSettings) GoogleConfig() translator.Config {
	cfg := translator.DefaultGoogleConfig(s.APIKey)
	if s.Endpoint != "" {
		cfg.Endpoint = s.Endpoint
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	cfg.RetryMax = s.RetryMax
	return cfg
}

// Options returns the translator options derived from the settings.
func (s TranslatorSettings) Options(log logger.Logger, st stats.Stats) []translator.Option {
	return []translator.Option{
		translator.WithLogger(log),
		translator.WithStats(st),
		translator.WithLabelKeywords(s.LabelKeywords),
		translator.WithCallInterval(s.CallInterval),
		translator.WithBreaker(s.BreakerFailures, s.BreakerTimeout),
	}
}

// NewTranslator builds a Translator backed by Google Translate when an API
// key is configured, and probes it. Without a key, or when the probe
// fails, the Translator runs in degraded mode.
func (s TranslatorSettings) NewTranslator(ctx context.Context, log logger.Logger, st stats.Stats) *translator.Translator {
	var svc translator.Service
	if s.APIKey != "" {
		svc = translator.NewGoogle(s.GoogleConfig(), log)
	}
	tr := translator.New(svc, s.Options(log, st)...)
	if err := tr.Probe(ctx); err != nil {
		log.Warnn("Translation service not available",
			logger.NewErrorField(err),
		)
	}
	return tr
}
