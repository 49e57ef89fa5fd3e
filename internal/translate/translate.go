package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mgpai22/subplay/internal/subtitle"
)

// single caption text to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated caption text
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for caption translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// environment variable holding the provider's API key
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
	Concurrency    int // parallel requests (default 3)

	// OnBatch, when set, is called after every batch request.
	OnBatch func(provider Provider, err error)
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s video captions to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following video captions to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Preserve line breaks (\\N) in the same positions.\n")
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt))
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

// TranslateEvents returns a copy of events with the plain text of every
// line translated. Control blocks are moved ahead of the translated text so
// the decoded style is unchanged. With overlay set, the original text
// follows the translation on a second line.
func TranslateEvents(
	ctx context.Context,
	translator Translator,
	events []subtitle.DialogueEvent,
	overlay bool,
) ([]subtitle.DialogueEvent, error) {
	out := make([]subtitle.DialogueEvent, len(events))
	copy(out, events)

	blocks := make([]string, len(events))
	plains := make([]string, len(events))
	var items []TranslationItem

	for i, e := range events {
		blocks[i], plains[i] = subtitle.SplitControlBlocks(e.Text)
		plain := strings.TrimSpace(plains[i])
		if plain == "" {
			continue
		}
		plains[i] = plain
		items = append(items, TranslationItem{Index: i, Text: plain})
	}

	if len(items) == 0 {
		return out, nil
	}

	results, err := translator.Translate(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	for _, r := range results {
		if r.Index < 0 || r.Index >= len(events) {
			continue
		}
		translated := strings.ReplaceAll(strings.TrimSpace(r.Text), "\n", "\\N")
		if overlay {
			translated += "\\N" + plains[r.Index]
		}
		out[r.Index].Text = blocks[r.Index] + translated
	}

	return out, nil
}
