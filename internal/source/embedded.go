package source

import (
	"context"
	_ "embed"
)

//go:embed fallback.ass
var fallbackScript string

// FallbackScript returns the built-in sample script.
func FallbackScript() string {
	return fallbackScript
}

// built-in script used when nothing else loads
type EmbeddedSource struct{}

func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

func (s *EmbeddedSource) Name() string {
	return "embedded"
}

func (s *EmbeddedSource) Fetch(ctx context.Context) (string, error) {
	return fallbackScript, nil
}
