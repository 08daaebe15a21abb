package cmd

import (
	"fmt"
	"os"
	"strconv"

	"mashup/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

Every question has a default, so pressing enter throughout writes the
same settings mashup uses without a config file.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to mashup setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}
	if err := promptEmail(prompter, cfg); err != nil {
		return err
	}
	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

// ask prompts with the current value as default and stores a non-empty answer
func ask(prompter Prompter, message string, field *string) error {
	value, err := prompter.Input(message, *field)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if value != "" {
		*field = value
	}
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	if err := ask(prompter, "Working directory for downloads?", &cfg.Paths.WorkRoot); err != nil {
		return err
	}
	if err := ask(prompter, "Video download folder name?", &cfg.Paths.VideosDir); err != nil {
		return err
	}
	return ask(prompter, "Audio clip folder name?", &cfg.Paths.AudioDir)
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	if err := ask(prompter, "Audio bitrate for mp3 encoding?", &cfg.Audio.Bitrate); err != nil {
		return err
	}
	if err := ask(prompter, "yt-dlp format selector?", &cfg.Download.Format); err != nil {
		return err
	}

	install, err := prompter.Confirm("Download yt-dlp automatically if it is missing?", cfg.Download.AutoInstall)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Download.AutoInstall = install
	return nil
}

func promptEmail(prompter Prompter, cfg *config.Config) error {
	transport, err := prompter.Select("How should mashups be emailed?",
		[]string{config.TransportSMTP, config.TransportGmail}, cfg.Email.Transport)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Email.Transport = transport

	if err := ask(prompter, "Display name for outgoing emails?", &cfg.Email.FromName); err != nil {
		return err
	}

	if transport == config.TransportGmail {
		if err := ask(prompter, "Gmail address to send from?", &cfg.Email.FromAddress); err != nil {
			return err
		}
		if cfg.Email.FromAddress == "" {
			return fmt.Errorf("from address is required for gmail")
		}
		cfg.Email.CredentialsFile = "credentials.json"
		cfg.Email.TokenFile = "token.json"
		if err := ask(prompter, "Path to Google OAuth credentials file?", &cfg.Email.CredentialsFile); err != nil {
			return err
		}
		return ask(prompter, "Where should the OAuth token be stored?", &cfg.Email.TokenFile)
	}

	if err := ask(prompter, "SMTP host?", &cfg.Email.SMTPHost); err != nil {
		return err
	}

	port := strconv.Itoa(cfg.Email.SMTPPort)
	if err := ask(prompter, "SMTP port (implicit TLS)?", &port); err != nil {
		return err
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("SMTP port must be a number")
	}
	cfg.Email.SMTPPort = n

	if err := ask(prompter, "Environment variable holding the sender address?", &cfg.Email.UserEnv); err != nil {
		return err
	}
	return ask(prompter, "Environment variable holding the sender password?", &cfg.Email.PassEnv)
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	return ask(prompter, "Address for 'mashup serve' to listen on?", &cfg.Server.Addr)
}
