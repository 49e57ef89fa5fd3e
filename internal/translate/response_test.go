package translate

import (
	"strings"
	"testing"
)

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"index": 0, "text": "こんにちは"},
				{"index": 1, "text": "さようなら"}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here is the translation:
			[
				{"index": 0, "text": "Bonjour"},
				{"index": 1, "text": "Au revoir"}
			]`,
			wantCount: 2,
		},
		{
			name: "valid array with trailing text",
			input: `[
				{"index": 0, "text": "Hola"}
			]
			I hope this helps!`,
			wantCount: 1,
		},
		{
			name: "wrapper object with results key",
			input: `{"results": [
				{"index": 0, "text": "Translated"}
			]}`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with unknown key",
			input:     `{"captions": [{"index": 0, "text": "Übersetzt"}]}`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"index": 0, "text": "incomplete"`,
			wantErr: true,
		},
		{
			name:    "array with empty text",
			input:   `[{"index": 0, "text": ""}]`,
			wantErr: true,
		},
		{
			name: "line break escape in text",
			input: `[
				{"index": 0, "text": "Top line\Nbottom line"}
			]`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractTranslationResults(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestFixInvalidEscapesKeepsLineBreak(t *testing.T) {
	results, err := extractTranslationResults(`[{"index": 3, "text": "a\Nb \"q\""}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Index != 3 || results[0].Text != `a\Nb "q"` {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"index": 0, "text": "hello"}]`,
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[{\"index\": 0}]\n```\n\n  ",
			want:  `[{"index": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	if _, err := decodeResponse(ProviderOpenAI, "", 1); err == nil ||
		!strings.Contains(err.Error(), "no text in openai response") {
		t.Errorf("expected empty response error, got %v", err)
	}

	if _, err := decodeResponse(ProviderOpenAI, `[{"index":0,"text":"x"}]`, 2); err == nil ||
		!strings.Contains(err.Error(), "expected 2 results, got 1") {
		t.Errorf("expected count mismatch error, got %v", err)
	}

	results, err := decodeResponse(ProviderGemini, "```json\n[{\"index\":0,\"text\":\"x\"}]\n```", 1)
	if err != nil || len(results) != 1 {
		t.Errorf("unexpected result %v, %v", results, err)
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "English",
		TargetLanguage: "Japanese",
		Prompt:         "keep it casual",
	}
	items := []TranslationItem{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Goodbye"},
	}

	prompt := BuildPrompt(opts, items)

	for _, want := range []string{
		"English video captions",
		"to Japanese",
		"Hello world",
		`"index": 0`,
		"Additional instructions: keep it casual",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	prompt := BuildPrompt(Options{TargetLanguage: "Spanish"}, []TranslationItem{{Index: 0, Text: "Hello"}})

	if strings.Contains(prompt, "English") {
		t.Error("prompt should not contain input language when not specified")
	}
	if !strings.Contains(prompt, "to Spanish") {
		t.Error("prompt should contain target language")
	}
	if strings.Contains(prompt, "Additional instructions") {
		t.Error("prompt should not contain additional instructions")
	}
}
