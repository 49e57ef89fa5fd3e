package video

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const probeJSON = `{
	"streams": [
		{"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720, "r_frame_rate": "30000/1001"},
		{"codec_type": "audio", "codec_name": "aac"}
	],
	"format": {"duration": "76.500000"}
}`

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestGetInfo(t *testing.T) {
	path := writeVideo(t)
	prober := NewProber(func(string) (string, error) { return probeJSON, nil })

	info, err := prober.GetInfo(context.Background(), path)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}

	if info.Path != path {
		t.Errorf("expected path %q, got %q", path, info.Path)
	}
	if info.Duration != 76500*time.Millisecond {
		t.Errorf("expected duration 76.5s, got %v", info.Duration)
	}
	if info.Width != 1280 || info.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", info.Width, info.Height)
	}
	if math.Abs(info.FrameRate-29.97) > 0.01 {
		t.Errorf("expected ~29.97 fps, got %v", info.FrameRate)
	}
	if info.Codec != "h264" || !info.HasAudio {
		t.Errorf("unexpected codec/audio: %q %v", info.Codec, info.HasAudio)
	}
}

func TestGetInfoErrors(t *testing.T) {
	ctx := context.Background()

	prober := NewProber(func(string) (string, error) { return probeJSON, nil })
	if _, err := prober.GetInfo(ctx, filepath.Join(t.TempDir(), "missing.mp4")); err == nil ||
		!strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}

	path := writeVideo(t)

	failing := NewProber(func(string) (string, error) { return "", errors.New("exit status 1") })
	if _, err := failing.GetInfo(ctx, path); err == nil || !strings.Contains(err.Error(), "ffprobe failed") {
		t.Errorf("expected ffprobe error, got %v", err)
	}

	audioOnly := NewProber(func(string) (string, error) {
		return `{"streams":[{"codec_type":"audio"}],"format":{"duration":"3.0"}}`, nil
	})
	if _, err := audioOnly.GetInfo(ctx, path); err == nil {
		t.Error("expected error for file without video stream")
	}

	garbage := NewProber(func(string) (string, error) { return "{", nil })
	if _, err := garbage.GetInfo(ctx, path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
		{"x/1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFrameRate(tt.input); got != tt.want {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
