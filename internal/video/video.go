package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// video file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
}

// ProbeFunc runs ffprobe on a file and returns its JSON report.
type ProbeFunc func(path string) (string, error)

// JSON output from ffprobe -show_format -show_streams
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Prober reads playback metadata, the duration and natural size a player
// reports once a video has loaded.
type Prober struct {
	probe ProbeFunc
}

func NewProber(probe ProbeFunc) *Prober {
	if probe == nil {
		probe = func(path string) (string, error) {
			return ffmpeg.Probe(path)
		}
	}
	return &Prober{probe: probe}
}

// Probe reads video information with ffprobe from PATH.
func Probe(ctx context.Context, videoPath string) (*Info, error) {
	return NewProber(nil).GetInfo(ctx, videoPath)
}

// retrieves video file information
func (p *Prober) GetInfo(ctx context.Context, videoPath string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	out, err := p.probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbeOutput(out)
	if err != nil {
		return nil, err
	}
	info.Path = videoPath
	return info, nil
}

func parseProbeOutput(out string) (*Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{}
	if probe.Format.Duration != "" {
		seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	videoFound := false
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if videoFound {
				continue
			}
			videoFound = true
			info.Codec = stream.CodecName
			info.Width = stream.Width
			info.Height = stream.Height
			info.FrameRate = parseFrameRate(stream.RFrameRate)
		case "audio":
			info.HasAudio = true
		}
	}

	if !videoFound {
		return nil, fmt.Errorf("no video stream found")
	}

	return info, nil
}

// "30000/1001" → 29.97
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, _ := strconv.ParseFloat(rate, 64)
		return v
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
