package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mgpai22/subplay/internal/translate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SUBPLAY_METRICS_ADDR or SUBPLAY_TRANSLATE_TO.
const EnvPrefix = "SUBPLAY"

// keys shared by flags, environment variables and the config file
const (
	KeySubtitles      = "subtitles"
	KeyTimeout        = "timeout"
	KeyKeepTextCommas = "keep-text-commas"
	KeyBGRColors      = "bgr-colors"
	KeyMetricsAddr    = "metrics-addr"
	KeyVideo          = "video"
	KeyDuration       = "duration"
	KeyTick           = "tick"
	KeySpeed          = "speed"
	KeyANSI           = "ansi"

	KeyTranslateTo    = "translate-to"
	KeySourceLanguage = "source-language"
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyAPIKey         = "api-key"
	KeyOverlay        = "overlay"
	KeyConcurrency    = "concurrency"
	KeyBatchSize      = "batch-size"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// caption translation settings; disabled when Target is empty
type Translation struct {
	Target         string
	SourceLanguage string
	Provider       translate.Provider
	Model          string
	APIKey         string
	Overlay        bool
	Concurrency    int
	BatchSize      int
}

func (t Translation) Enabled() bool {
	return t.Target != ""
}

// Options converts the settings into translator options.
func (t Translation) Options() translate.Options {
	return translate.Options{
		InputLanguage:  t.SourceLanguage,
		TargetLanguage: t.Target,
		Model:          t.Model,
		BatchSize:      t.BatchSize,
		Concurrency:    t.Concurrency,
	}
}

type Config struct {
	// Subtitles is a file path, an http(s) URL, "embedded", or empty for
	// the default chain.
	Subtitles      string
	Timeout        time.Duration
	KeepTextCommas bool
	BGRColors      bool
	MetricsAddr    string

	Video    string
	Duration time.Duration
	Tick     time.Duration
	Speed    float64
	ANSI     string // auto, always or never

	Translation Translation
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyTick, 250*time.Millisecond)
	v.SetDefault(KeySpeed, 1.0)
	v.SetDefault(KeyANSI, "auto")
	v.SetDefault(KeyProvider, string(translate.ProviderGemini))
	v.SetDefault(KeyConcurrency, translate.DefaultConcurrency)
	v.SetDefault(KeyBatchSize, translate.DefaultBatchSize)

	return v
}

// Bind makes the flags in fs visible through v under their own names.
// Flags set on the command line win over environment and file values.
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	return nil
}

// Load reads the optional config file and resolves the final settings.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Subtitles:      v.GetString(KeySubtitles),
		Timeout:        v.GetDuration(KeyTimeout),
		KeepTextCommas: v.GetBool(KeyKeepTextCommas),
		BGRColors:      v.GetBool(KeyBGRColors),
		MetricsAddr:    v.GetString(KeyMetricsAddr),
		Video:          v.GetString(KeyVideo),
		Duration:       v.GetDuration(KeyDuration),
		Tick:           v.GetDuration(KeyTick),
		Speed:          v.GetFloat64(KeySpeed),
		ANSI:           strings.ToLower(v.GetString(KeyANSI)),
		Translation: Translation{
			Target:         strings.TrimSpace(v.GetString(KeyTranslateTo)),
			SourceLanguage: strings.TrimSpace(v.GetString(KeySourceLanguage)),
			Provider:       translate.Provider(strings.ToLower(v.GetString(KeyProvider))),
			Model:          v.GetString(KeyModel),
			APIKey:         v.GetString(KeyAPIKey),
			Overlay:        v.GetBool(KeyOverlay),
			Concurrency:    v.GetInt(KeyConcurrency),
			BatchSize:      v.GetInt(KeyBatchSize),
		},
	}

	if cfg.Translation.Enabled() && cfg.Translation.APIKey == "" {
		cfg.Translation.APIKey = os.Getenv(cfg.Translation.Provider.APIKeyEnv())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %v", ErrInvalidConfig, c.Tick)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidConfig, c.Speed)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidConfig)
	}
	switch c.ANSI {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: ansi must be auto, always or never, got %q", ErrInvalidConfig, c.ANSI)
	}

	t := c.Translation
	if !t.Enabled() {
		return nil
	}
	if t.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, t.Concurrency)
	}
	if t.BatchSize <= 0 {
		return fmt.Errorf("%w: batch-size must be positive, got %d", ErrInvalidConfig, t.BatchSize)
	}
	if t.SourceLanguage != "" && strings.EqualFold(t.SourceLanguage, t.Target) {
		return fmt.Errorf(
			"%w: source language %q and target language %q cannot be the same",
			ErrInvalidConfig,
			t.SourceLanguage,
			t.Target,
		)
	}
	if t.APIKey == "" {
		return fmt.Errorf(
			"%w: API key is required: use --api-key flag or set %s environment variable",
			ErrInvalidConfig,
			t.Provider.APIKeyEnv(),
		)
	}
	return nil
}
