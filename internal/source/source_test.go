package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/subplay/internal/subtitle"
)

const remoteScript = `[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:00.50,0:00:02.00,Default,,0,0,0,,remote line
`

type failingSource struct {
	name string
}

func (s failingSource) Name() string { return s.name }

func (s failingSource) Fetch(ctx context.Context) (string, error) {
	return "", fmt.Errorf("%s is down", s.name)
}

type slowSource struct{}

func (slowSource) Name() string { return "slow" }

func (slowSource) Fetch(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(5 * time.Second):
		return "too late", nil
	}
}

func TestChainPrefersLocalAsset(t *testing.T) {
	tmpDir := t.TempDir()
	assetPath := filepath.Join(tmpDir, "local.ass")
	if err := os.WriteFile(assetPath, []byte("local"), 0644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}

	chain := NewDefaultChain(nil, Options{
		AssetPath: assetPath,
		URL:       "http://127.0.0.1:0/never",
	})
	doc, err := chain.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Source != "file" || doc.Text != "local" {
		t.Errorf("expected local asset, got %+v", doc)
	}
}

func TestChainFallsBackToRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remoteScript))
	}))
	defer server.Close()

	chain := NewDefaultChain(nil, Options{
		AssetPath: filepath.Join(t.TempDir(), "missing.ass"),
		URL:       server.URL,
	})
	doc, err := chain.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Source != "remote" {
		t.Fatalf("expected remote source, got %q", doc.Source)
	}

	events := subtitle.Parse(doc.Text)
	if len(events) != 1 || events[0].Text != "remote line" {
		t.Errorf("unexpected events from remote document: %+v", events)
	}
}

func TestChainFallsBackToEmbedded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	chain := NewDefaultChain(nil, Options{
		AssetPath: filepath.Join(t.TempDir(), "missing.ass"),
		URL:       server.URL,
	})
	doc, err := chain.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Source != "embedded" {
		t.Errorf("expected embedded source, got %q", doc.Source)
	}
}

func TestEmbeddedOnlySkipsOtherSources(t *testing.T) {
	chain := NewDefaultChain(nil, Options{
		AssetPath:    "/definitely/not/here.ass",
		EmbeddedOnly: true,
	})
	doc, err := chain.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Source != "embedded" {
		t.Errorf("expected embedded source, got %q", doc.Source)
	}
}

func TestChainTimeoutFallsThrough(t *testing.T) {
	chain := NewChain(nil, 20*time.Millisecond, slowSource{}, NewEmbeddedSource())
	doc, err := chain.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Source != "embedded" {
		t.Errorf("expected embedded source after timeout, got %q", doc.Source)
	}
}

func TestChainExhausted(t *testing.T) {
	chain := NewChain(nil, 0, failingSource{name: "a"}, failingSource{name: "b"})
	_, err := chain.Load(context.Background())
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if !strings.Contains(err.Error(), "a is down") || !strings.Contains(err.Error(), "b is down") {
		t.Errorf("expected both failures in error, got %v", err)
	}

	if _, err := NewChain(nil, 0).Load(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource for empty chain, got %v", err)
	}
}

func TestChainHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultChain(nil, Options{}).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFallbackScriptParses(t *testing.T) {
	events := subtitle.Parse(FallbackScript())
	if len(events) != 19 {
		t.Fatalf("expected 19 events in fallback script, got %d", len(events))
	}

	first := events[0]
	if first.StartMs() != 1000 || first.EndMs() != 4000 {
		t.Errorf("first event: expected 1000-4000ms, got %d-%d", first.StartMs(), first.EndMs())
	}

	segments := subtitle.Decode(first.Text)
	if len(segments) != 1 || segments[0].Text != "Welcome to the Video Player" {
		t.Errorf("unexpected first segment: %+v", segments)
	}

	// commas in dialogue text are cut by the naive column split
	var green subtitle.DialogueEvent
	for _, e := range events {
		if e.StartMs() == 20500 {
			green = e
		}
	}
	segments = subtitle.Decode(green.Text)
	if len(segments) != 1 || segments[0].Text != "Bold" {
		t.Fatalf("expected truncated text %q, got %+v", "Bold", segments)
	}
	if !segments[0].Style.IsBold() || !segments[0].Style.IsItalic() {
		t.Errorf("expected bold italic style, got %+v", segments[0].Style)
	}
	if c := segments[0].Style.Color; c == nil || c.String() != "#00FF00" {
		t.Errorf("expected colour #00FF00, got %v", c)
	}
}
