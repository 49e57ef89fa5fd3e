package cli

import (
	"fmt"

	"github.com/mgpai22/subplay/internal/video"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe [video_file]",
		Short: "Show the duration and size of a video file",
		Long: `Read the duration, natural size, frame rate and codec of a video file
with ffprobe. ffprobe must be on PATH.

Examples:
  subplay probe movie.mp4`,
		Args: cobra.ExactArgs(1),
		RunE: runProbe,
	}
}

func runProbe(cmd *cobra.Command, args []string) error {
	info, err := video.Probe(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to probe video: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", info.Path)
	fmt.Fprintf(out, "  Duration: %s\n", info.Duration)
	fmt.Fprintf(out, "  Size: %dx%d\n", info.Width, info.Height)
	fmt.Fprintf(out, "  Frame rate: %.3f fps\n", info.FrameRate)
	fmt.Fprintf(out, "  Codec: %s\n", info.Codec)
	fmt.Fprintf(out, "  Audio: %t\n", info.HasAudio)

	return nil
}
