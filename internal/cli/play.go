package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgpai22/subplay/internal/config"
	"github.com/mgpai22/subplay/internal/metrics"
	"github.com/mgpai22/subplay/internal/playback"
	"github.com/mgpai22/subplay/internal/video"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play subtitles in the terminal against a playback clock",
		Long: `Play a subtitle script in real time. A clock advances the playback
position and a line is printed whenever the active subtitle changes.

The playback length comes from --duration, else from the video given with
--video (probed with ffprobe), else from the last subtitle line.

Examples:
  subplay play
  subplay play -s movie.ass --video movie.mp4
  subplay play -s movie.ass --speed 4 --translate-to spanish --overlay
  subplay play --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: runPlay,
	}

	addSourceFlags(cmd.Flags())
	addTranslateFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())

	cmd.Flags().String(config.KeyVideo, "", "Video file whose duration bounds playback")
	cmd.Flags().Duration(config.KeyDuration, 0, "Playback length (overrides --video)")
	cmd.Flags().Duration(config.KeyTick, 250*time.Millisecond, "Interval between position updates")
	cmd.Flags().Float64(config.KeySpeed, 1, "Playback speed multiplier")
	cmd.Flags().String(config.KeyMetricsAddr, "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Warnw("Metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		logger.Infow("Serving metrics", "addr", cfg.MetricsAddr)
	}

	events, err := loadEvents(ctx, cfg, m)
	if err != nil {
		return err
	}

	duration, err := playbackDuration(ctx, cfg, lastEnd(events))
	if err != nil {
		return err
	}

	session := playback.NewSession(events,
		playback.WithLogger(logger),
		playback.WithMetrics(m),
	)

	clock := playback.Clock{
		Duration: duration,
		Tick:     cfg.Tick,
		Speed:    cfg.Speed,
	}

	logger.Infow("Starting playback",
		"session", session.ID,
		"duration", duration,
		"speed", cfg.Speed,
		"events", len(events),
	)

	err = session.Run(ctx, clock.Run(ctx), newRenderer(cmd, cfg))
	if errors.Is(err, context.Canceled) {
		logger.Infow("Playback interrupted")
		return nil
	}
	return err
}

// playbackDuration picks the clock length: explicit flag, probed video,
// then the end of the last subtitle.
func playbackDuration(
	ctx context.Context,
	cfg *config.Config,
	fallback time.Duration,
) (time.Duration, error) {
	if cfg.Duration > 0 {
		return cfg.Duration, nil
	}
	if cfg.Video == "" {
		return fallback, nil
	}

	info, err := video.Probe(ctx, cfg.Video)
	if err != nil {
		return 0, fmt.Errorf("failed to probe video: %w", err)
	}

	logger.Infow("Video loaded",
		"path", info.Path,
		"duration", info.Duration,
		"width", info.Width,
		"height", info.Height,
	)
	return info.Duration, nil
}
