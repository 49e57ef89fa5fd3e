package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mgpai22/subplay/internal/config"
	"github.com/mgpai22/subplay/internal/metrics"
	"github.com/mgpai22/subplay/internal/playback"
	"github.com/mgpai22/subplay/internal/source"
	"github.com/mgpai22/subplay/internal/subtitle"
	"github.com/mgpai22/subplay/internal/translate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const embeddedName = "embedded"

func addSourceFlags(fs *pflag.FlagSet) {
	fs.StringP(config.KeySubtitles, "s", "",
		`Subtitle script: file path, http(s) URL, or "embedded" (default: built-in sample)`)
	fs.Duration(config.KeyTimeout, 10*time.Second, "Timeout per subtitle source")
	fs.Bool(config.KeyKeepTextCommas, false,
		"Keep commas inside dialogue text instead of cutting the line at the first one")
}

func addTranslateFlags(fs *pflag.FlagSet) {
	fs.StringP(config.KeyTranslateTo, "t", "", "Translate captions to this language before use")
	fs.StringP(config.KeySourceLanguage, "l", "", "Language of the captions (e.g., en, es, fr)")
	fs.String(config.KeyProvider, string(translate.ProviderGemini), "Translation provider (gemini, openai, anthropic)")
	fs.String(config.KeyModel, "", "Model to use for translation (provider-specific, uses sensible defaults)")
	fs.StringP(config.KeyAPIKey, "k", "",
		"API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	fs.Bool(config.KeyOverlay, false, "Show translated text with the original below it")
	fs.Int(config.KeyConcurrency, translate.DefaultConcurrency, "Number of parallel translation workers")
	fs.Int(config.KeyBatchSize, translate.DefaultBatchSize, "Number of captions per API request")
}

func addRenderFlags(fs *pflag.FlagSet) {
	fs.Bool(config.KeyBGRColors, false, `Read \c&H..& colours as blue-green-red`)
	fs.String(config.KeyANSI, "auto", "Colour output: auto, always, never")
}

// loadConfig merges the command's flags with the environment and the
// optional config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := config.Bind(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.Load(v, configFile)
}

// sourceOptions maps the --subtitles value onto the default chain.
func sourceOptions(subtitles string, cfg *config.Config) source.Options {
	opts := source.Options{Timeout: cfg.Timeout}
	switch {
	case strings.EqualFold(subtitles, embeddedName):
		opts.EmbeddedOnly = true
	case strings.HasPrefix(subtitles, "http://"), strings.HasPrefix(subtitles, "https://"):
		opts.URL = subtitles
	default:
		opts.AssetPath = subtitles
	}
	return opts
}

// loadEvents runs the source chain, parses the script and, when asked,
// translates the captions.
func loadEvents(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
) ([]subtitle.DialogueEvent, error) {
	chain := source.NewDefaultChain(logger, sourceOptions(cfg.Subtitles, cfg))
	doc, err := chain.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtitles: %w", err)
	}

	events := subtitle.ParseWithOptions(doc.Text, subtitle.ParseOptions{
		KeepTextCommas: cfg.KeepTextCommas,
	})
	m.DocumentLoaded(doc.Source, len(events))

	logger.Infow("Loaded subtitles",
		"source", doc.Source,
		"events", len(events),
	)

	if !cfg.Translation.Enabled() || len(events) == 0 {
		return events, nil
	}

	opts := cfg.Translation.Options()
	opts.OnBatch = func(p translate.Provider, err error) {
		m.TranslationBatch(string(p), err)
	}

	translator, err := translate.Factory(ctx, cfg.Translation.Provider, cfg.Translation.APIKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Translating captions",
		"provider", cfg.Translation.Provider,
		"target_language", cfg.Translation.Target,
		"overlay", cfg.Translation.Overlay,
	)

	events, err = translate.TranslateEvents(ctx, translator, events, cfg.Translation.Overlay)
	if err != nil {
		return nil, err
	}

	logger.Infow("Translation complete", "events", len(events))
	return events, nil
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *playback.TerminalRenderer {
	out := cmd.OutOrStdout()

	ansi := cfg.ANSI == "always"
	if cfg.ANSI == "auto" {
		if f, ok := out.(*os.File); ok {
			ansi = playback.IsTerminal(f)
		}
	}

	return playback.NewTerminalRenderer(out, playback.TerminalOptions{
		ANSI:       ansi,
		SwapColors: cfg.BGRColors,
	})
}
