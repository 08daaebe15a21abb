package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration file
const DefaultPath = "config/config.yaml"

// Email transports
const (
	TransportSMTP  = "smtp"
	TransportGmail = "gmail"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Download DownloadConfig `yaml:"download"`
	Audio    AudioConfig    `yaml:"audio"`
	Email    EmailConfig    `yaml:"email"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// PathsConfig contains the working directories of a run
type PathsConfig struct {
	WorkRoot  string `yaml:"work_root"`
	VideosDir string `yaml:"videos_dir"`
	AudioDir  string `yaml:"audio_dir"`
}

// DownloadConfig contains yt-dlp settings
type DownloadConfig struct {
	Format      string `yaml:"format"`
	YTDLPPath   string `yaml:"ytdlp_path,omitempty"`
	AutoInstall bool   `yaml:"auto_install"`
}

// AudioConfig contains ffmpeg settings
type AudioConfig struct {
	Bitrate     string `yaml:"bitrate"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// EmailConfig contains delivery settings. Passwords are never stored here;
// SMTP credentials come from UserEnv and PassEnv at send time
type EmailConfig struct {
	Transport       string `yaml:"transport"`
	FromName        string `yaml:"from_name"`
	FromAddress     string `yaml:"from_address,omitempty"`
	SMTPHost        string `yaml:"smtp_host"`
	SMTPPort        int    `yaml:"smtp_port"`
	UserEnv         string `yaml:"user_env"`
	PassEnv         string `yaml:"pass_env"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	TokenFile       string `yaml:"token_file,omitempty"`
}

// ServerConfig contains HTTP service settings
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	OutputFile  string `yaml:"output_file"`
	ArchiveFile string `yaml:"archive_file"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			WorkRoot:  ".",
			VideosDir: "videos",
			AudioDir:  "audios",
		},
		Download: DownloadConfig{
			Format: "best",
		},
		Audio: AudioConfig{
			Bitrate:     "192k",
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Email: EmailConfig{
			Transport: TransportSMTP,
			FromName:  "Mashup",
			SMTPHost:  "smtp.gmail.com",
			SMTPPort:  465,
			UserEnv:   "EMAIL_USER",
			PassEnv:   "EMAIL_PASS",
		},
		Server: ServerConfig{
			Addr:        ":5000",
			OutputFile:  "mashup.mp3",
			ArchiveFile: "mashup.zip",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, so a partial file
// only overrides the keys it names
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default()
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks enumerated and numeric settings
func (c *Config) Validate() error {
	switch c.Email.Transport {
	case TransportSMTP, TransportGmail:
	default:
		return fmt.Errorf("%w: email.transport %q (want smtp or gmail)", ErrInvalidValue, c.Email.Transport)
	}
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("%w: email.smtp_port %d", ErrInvalidValue, c.Email.SMTPPort)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalidValue, c.Log.Format)
	}
	if c.Paths.VideosDir == "" || c.Paths.AudioDir == "" {
		return fmt.Errorf("%w: paths.videos_dir and paths.audio_dir are required", ErrInvalidValue)
	}
	if c.Paths.VideosDir == c.Paths.AudioDir {
		return fmt.Errorf("%w: paths.videos_dir and paths.audio_dir must differ", ErrInvalidValue)
	}
	return nil
}

// VideosPath is the videos directory under WorkRoot
func (c *Config) VideosPath() string {
	return filepath.Join(c.Paths.WorkRoot, c.Paths.VideosDir)
}

// AudioPath is the audio directory under WorkRoot
func (c *Config) AudioPath() string {
	return filepath.Join(c.Paths.WorkRoot, c.Paths.AudioDir)
}
