package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appmashup "mashup/application/mashup"
	"mashup/domain/mashup"
	"mashup/infrastructure/config"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

type mockRunner struct {
	result *appmashup.Result
	err    error
	reqs   []*mashup.Request
}

func (m *mockRunner) Run(ctx context.Context, req *mashup.Request) (*appmashup.Result, error) {
	m.reqs = append(m.reqs, req)
	return m.result, m.err
}

func TestRunMashupWithDependencies_Success(t *testing.T) {
	runner := &mockRunner{result: &appmashup.Result{
		OutputPath: "out.mp3",
		Failures: []mashup.ItemFailure{
			{Stage: mashup.StageExtract, Path: "videos/bad.webm", Err: errors.New("invalid data")},
		},
	}}
	req, err := mashup.ParseArgs([]string{"TestArtist", "11", "21", "out.mp3"})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := RunMashupWithDependencies(context.Background(), runner, req, &out); err != nil {
		t.Fatalf("RunMashupWithDependencies() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Mashup created successfully: out.mp3") {
		t.Errorf("output missing success line: %q", got)
	}
	if !strings.Contains(got, "extract videos/bad.webm: invalid data") {
		t.Errorf("output missing skipped item: %q", got)
	}
}

func TestRunMashupWithDependencies_Failure(t *testing.T) {
	runner := &mockRunner{err: mashup.ErrAcquisition}
	req, _ := mashup.ParseArgs([]string{"TestArtist", "11", "21", "out.mp3"})

	var out bytes.Buffer
	err := RunMashupWithDependencies(context.Background(), runner, req, &out)
	if !errors.Is(err, mashup.ErrAcquisition) {
		t.Fatalf("error = %v, want ErrAcquisition", err)
	}
	if strings.Contains(out.String(), "successfully") {
		t.Error("success line printed on failure")
	}
}

func TestRootCommand_ValidationMessages(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, mashup.MsgUsage},
		{"too few", []string{"A", "11", "21"}, mashup.MsgUsage},
		{"not integers", []string{"A", "x", "21", "out.mp3"}, mashup.MsgNotIntegers},
		{"count", []string{"A", "10", "21", "out.mp3"}, mashup.MsgCountTooLow},
		{"duration", []string{"A", "11", "20", "out.mp3"}, mashup.MsgDurationTooLow},
		{"extension", []string{"A", "11", "21", "out.wav"}, mashup.MsgBadOutputFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			wd, _ := os.Getwd()
			if err := os.Chdir(dir); err != nil {
				t.Fatal(err)
			}
			defer os.Chdir(wd)

			err := runMashup(rootCmd, tt.args)
			if err == nil || err.Error() != tt.want {
				t.Fatalf("runMashup() error = %v, want %q", err, tt.want)
			}

			for _, d := range []string{"videos", "audios"} {
				if _, err := os.Stat(filepath.Join(dir, d)); !os.IsNotExist(err) {
					t.Errorf("%s created on validation failure", d)
				}
			}
		})
	}
}

func TestRootCommand_DashDashKeepsSubcommandNamesAsSinger(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"doctor", "11", "21", "out.mp3"}, "doctor"},
		{[]string{"--", "doctor", "11", "21", "out.mp3"}, rootCmd.Name()},
		{[]string{"--", "serve", "11", "21", "out.mp3"}, rootCmd.Name()},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			found, _, err := rootCmd.Find(tt.args)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if found.Name() != tt.want {
				t.Errorf("Find() = %q, want %q", found.Name(), tt.want)
			}
		})
	}
}

func TestNewEmailSender_GmailDefersCredentials(t *testing.T) {
	conf := config.Default()
	conf.Email.Transport = config.TransportGmail
	conf.Email.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")

	if sender := newEmailSender(conf); sender == nil {
		t.Fatal("newEmailSender() returned nil for gmail transport")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	conf := config.Default()

	var out bytes.Buffer
	if err := RunConfigSetWithDependencies(conf, path, "log.format", "json", &out); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if !strings.Contains(out.String(), "Set log.format = json") {
		t.Errorf("set output = %q", out.String())
	}

	out.Reset()
	if err := RunConfigGetWithDependencies(conf, path, "log.format", &out); err != nil {
		t.Fatalf("get error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "json" {
		t.Errorf("get output = %q", out.String())
	}

	out.Reset()
	if err := RunConfigListWithDependencies(conf, path, &out); err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out.String(), "server.addr") || !strings.Contains(out.String(), ":5000") {
		t.Errorf("list output = %q", out.String())
	}

	if err := RunConfigSetWithDependencies(conf, path, "log.format", "xml", &out); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("set invalid error = %v", err)
	}
}

// mockPrompter answers known prompts and accepts the default otherwise
type mockPrompter struct {
	inputs   map[string]string
	confirms map[string]bool
	selects  map[string]string
}

func (p *mockPrompter) Input(message, defaultValue string) (string, error) {
	if v, ok := p.inputs[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (p *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if v, ok := p.confirms[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (p *mockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if v, ok := p.selects[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func TestRunSetupWithPrompter_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")

	var out bytes.Buffer
	if err := RunSetupWithPrompter(&mockPrompter{}, path, &out); err != nil {
		t.Fatalf("setup error = %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *config.Default() {
		t.Errorf("setup with defaults = %+v, want %+v", loaded, config.Default())
	}
}

func TestRunSetupWithPrompter_Gmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &mockPrompter{
		inputs: map[string]string{
			"Audio bitrate for mp3 encoding?": "256k",
			"Gmail address to send from?":     "bot@example.com",
		},
		selects: map[string]string{
			"How should mashups be emailed?": config.TransportGmail,
		},
	}

	var out bytes.Buffer
	if err := RunSetupWithPrompter(prompter, path, &out); err != nil {
		t.Fatalf("setup error = %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Email.Transport != config.TransportGmail || loaded.Email.FromAddress != "bot@example.com" {
		t.Errorf("email = %+v", loaded.Email)
	}
	if loaded.Email.CredentialsFile != "credentials.json" || loaded.Email.TokenFile != "token.json" {
		t.Errorf("oauth files = %q/%q", loaded.Email.CredentialsFile, loaded.Email.TokenFile)
	}
	if loaded.Audio.Bitrate != "256k" {
		t.Errorf("bitrate = %q", loaded.Audio.Bitrate)
	}
}

func TestRunSetupWithPrompter_KeepExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := RunSetupWithPrompter(&mockPrompter{}, path, &out); err != nil {
		t.Fatalf("setup error = %v", err)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("output = %q", out.String())
	}

	data, _ := os.ReadFile(path)
	if string(data) != "log:\n  level: debug\n" {
		t.Errorf("existing config overwritten: %q", data)
	}
}

func TestRunDoctorWithDependencies(t *testing.T) {
	checks := []ToolCheck{
		{Name: "yt-dlp", Verify: func(ctx context.Context) error { return nil }},
		{Name: "ffmpeg", Verify: func(ctx context.Context) error { return errors.New("executable file not found") }},
	}

	var out bytes.Buffer
	err := RunDoctorWithDependencies(context.Background(), checks, &out)
	if err == nil || err.Error() != "1 of 2 tools unavailable" {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(out.String(), "OK yt-dlp") || !strings.Contains(out.String(), "MISSING ffmpeg") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunServeWithDependencies_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- RunServeWithDependencies(ctx, "127.0.0.1:0", nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunServeWithDependencies() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
