package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// setting binds a dotted key to a field of Config
type setting struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringSetting(field func(c *Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intSetting(field func(c *Config) *int) setting {
	return setting{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolSetting(field func(c *Config) *bool) setting {
	return setting{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
			}
			*field(c) = b
			return nil
		},
	}
}

var settings = map[string]setting{
	"paths.work_root":        stringSetting(func(c *Config) *string { return &c.Paths.WorkRoot }),
	"paths.videos_dir":       stringSetting(func(c *Config) *string { return &c.Paths.VideosDir }),
	"paths.audio_dir":        stringSetting(func(c *Config) *string { return &c.Paths.AudioDir }),
	"download.format":        stringSetting(func(c *Config) *string { return &c.Download.Format }),
	"download.ytdlp_path":    stringSetting(func(c *Config) *string { return &c.Download.YTDLPPath }),
	"download.auto_install":  boolSetting(func(c *Config) *bool { return &c.Download.AutoInstall }),
	"audio.bitrate":          stringSetting(func(c *Config) *string { return &c.Audio.Bitrate }),
	"audio.ffmpeg_path":      stringSetting(func(c *Config) *string { return &c.Audio.FFmpegPath }),
	"audio.ffprobe_path":     stringSetting(func(c *Config) *string { return &c.Audio.FFprobePath }),
	"email.transport":        stringSetting(func(c *Config) *string { return &c.Email.Transport }),
	"email.from_name":        stringSetting(func(c *Config) *string { return &c.Email.FromName }),
	"email.from_address":     stringSetting(func(c *Config) *string { return &c.Email.FromAddress }),
	"email.smtp_host":        stringSetting(func(c *Config) *string { return &c.Email.SMTPHost }),
	"email.smtp_port":        intSetting(func(c *Config) *int { return &c.Email.SMTPPort }),
	"email.user_env":         stringSetting(func(c *Config) *string { return &c.Email.UserEnv }),
	"email.pass_env":         stringSetting(func(c *Config) *string { return &c.Email.PassEnv }),
	"email.credentials_file": stringSetting(func(c *Config) *string { return &c.Email.CredentialsFile }),
	"email.token_file":       stringSetting(func(c *Config) *string { return &c.Email.TokenFile }),
	"server.addr":            stringSetting(func(c *Config) *string { return &c.Server.Addr }),
	"server.output_file":     stringSetting(func(c *Config) *string { return &c.Server.OutputFile }),
	"server.archive_file":    stringSetting(func(c *Config) *string { return &c.Server.ArchiveFile }),
	"log.level":              stringSetting(func(c *Config) *string { return &c.Log.Level }),
	"log.format":             stringSetting(func(c *Config) *string { return &c.Log.Format }),
}

// Entry is one key/value pair of the configuration
type Entry struct {
	Key   string
	Value string
}

// ConfigManager reads and updates single settings by dotted key
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Get returns the current value of key
func (m *ConfigManager) Get(key string) (string, error) {
	s, ok := settings[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.get(m.config), nil
}

// Set updates key, validates the result and saves the file. On any error
// the in-memory config is left unchanged
func (m *ConfigManager) Set(key, value string) error {
	s, ok := settings[normalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	updated := *m.config
	if err := s.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	if err := Save(&updated, m.configPath); err != nil {
		return err
	}

	*m.config = updated
	return nil
}

// List returns every setting sorted by key
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, 0, len(settings))
	for key, s := range settings {
		entries = append(entries, Entry{Key: key, Value: s.get(m.config)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
