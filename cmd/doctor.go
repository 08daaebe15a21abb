package cmd

import (
	"context"
	"fmt"

	"mashup/infrastructure/ffmpeg"
	"mashup/infrastructure/ytdlp"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorInstall bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ffmpeg, ffprobe and yt-dlp are available",
	Long: `Runs each external tool the pipeline needs and reports what is missing.

With --install, a missing yt-dlp is downloaded into the user cache directory.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorInstall, "install", false, "download yt-dlp if it is missing")
}

// ToolCheck is one external dependency to verify
type ToolCheck struct {
	Name   string
	Verify func(ctx context.Context) error
}

func runDoctor(cmd *cobra.Command, args []string) error {
	conf, err := GetConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if doctorInstall && conf.Download.YTDLPPath == "" {
		if err := ytdlp.Install(ctx); err != nil {
			return err
		}
	}

	downloader := ytdlp.NewDownloader(ytdlp.WithExecutable(conf.Download.YTDLPPath))
	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorFFmpegPath(conf.Audio.FFmpegPath))
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(conf.Audio.FFprobePath))

	checks := []ToolCheck{
		{Name: "yt-dlp", Verify: downloader.VerifyInstalled},
		{Name: "ffmpeg", Verify: extractor.VerifyInstalled},
		{Name: "ffprobe", Verify: prober.VerifyInstalled},
	}

	return RunDoctorWithDependencies(ctx, checks, DefaultOutput)
}

// RunDoctorWithDependencies runs every check and fails if any did
func RunDoctorWithDependencies(ctx context.Context, checks []ToolCheck, out OutputWriter) error {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	failed := 0
	for _, c := range checks {
		if err := c.Verify(ctx); err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", bad("MISSING"), c.Name, err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", ok("OK"), c.Name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tools unavailable", failed, len(checks))
	}
	return nil
}
