package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	appmashup "mashup/application/mashup"
	"mashup/domain/mashup"
	"mashup/infrastructure/config"
	"mashup/infrastructure/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

// OutputWriter is where commands print user-facing lines
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the default output writer for commands
var DefaultOutput OutputWriter = os.Stdout

var rootCmd = &cobra.Command{
	Use:   "mashup <SingerName> <NumberOfVideos> <AudioDuration> <OutputFileName>",
	Short: "Build an audio mashup of a singer's songs",
	Long: `mashup searches YouTube for a singer's songs and builds one MP3 from them:

  - Download NumberOfVideos search results for "<SingerName> official song"
  - Extract the audio track of each video
  - Keep the first AudioDuration seconds of each track
  - Merge the clips into OutputFileName

Example:
  mashup "Sharry Maan" 20 30 output.mp3

A singer named like a subcommand (serve, setup, doctor, config, help) must
follow "--" so it is not taken as that command:
  mashup -- doctor 20 30 output.mp3`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMashup,
}

// Execute runs the root command and exits with status 1 on any error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		cfg = nil
		return
	}

	if err := logging.SetupGlobal(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		cfgErr = fmt.Errorf("invalid log settings: %w", err)
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// Runner runs the pipeline for one request
type Runner interface {
	Run(ctx context.Context, req *mashup.Request) (*appmashup.Result, error)
}

func runMashup(cmd *cobra.Command, args []string) error {
	// Validate before touching config or external tools
	req, err := mashup.ParseArgs(args)
	if err != nil {
		return err
	}

	conf, err := GetConfig()
	if err != nil {
		return err
	}

	if err := prepareDownloader(cmd.Context(), conf); err != nil {
		return err
	}

	return RunMashupWithDependencies(cmd.Context(), newPipeline(conf, DefaultOutput), req, DefaultOutput)
}

// RunMashupWithDependencies runs batch mode with injected dependencies (for testing)
func RunMashupWithDependencies(ctx context.Context, runner Runner, req *mashup.Request, out io.Writer) error {
	result, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(out, "Skipped %d item(s):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(out, "  %s\n", f.Error())
		}
	}

	color.New(color.FgGreen).Fprintf(out, "Mashup created successfully: %s\n", result.OutputPath)
	return nil
}
