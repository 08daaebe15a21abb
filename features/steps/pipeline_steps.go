//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	appmashup "mashup/application/mashup"
	"mashup/domain/mashup"
	"mashup/infrastructure/filesystem"
	"mashup/infrastructure/ytdlp"

	"github.com/cucumber/godog"
)

// Fake media holds its audio length in seconds as text, which the audio
// fakes below read and write in place of real encoding.

type fakeAudio struct {
	corrupt map[string]bool
}

func (f *fakeAudio) Extract(ctx context.Context, mediaPath, outputPath string) error {
	if f.corrupt[filepath.Base(mediaPath)] {
		return errors.New("invalid data found when processing input")
	}
	data, err := os.ReadFile(mediaPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func (f *fakeAudio) Trim(ctx context.Context, path string, d time.Duration) error {
	length, err := fakeLength(path)
	if err != nil {
		return err
	}
	if length > d {
		length = d
	}
	return writeFakeLength(path, length)
}

func (f *fakeAudio) Probe(ctx context.Context, path string) (time.Duration, error) {
	return fakeLength(path)
}

func (f *fakeAudio) Concat(ctx context.Context, inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		return os.WriteFile(outputPath, nil, 0644)
	}
	var total time.Duration
	for _, in := range inputs {
		d, err := fakeLength(in)
		if err != nil {
			return err
		}
		total += d
	}
	return writeFakeLength(outputPath, total)
}

func fakeLength(path string) (time.Duration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, mashup.ErrNoAudio
	}
	return time.Duration(n) * time.Second, nil
}

func writeFakeLength(path string, d time.Duration) error {
	return os.WriteFile(path, []byte(strconv.Itoa(int(d.Seconds()))), 0644)
}

type pipelineContext struct {
	songs      int
	songLength int
	backendErr error
	audio      *fakeAudio
	target     string
	output     *bytes.Buffer
	result     *appmashup.Result
	err        error
}

// SharedPipelineContext is reset before each scenario via Before hook
var SharedPipelineContext *pipelineContext

func InitializePipelineScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedPipelineContext = &pipelineContext{
			audio:  &fakeAudio{corrupt: make(map[string]bool)},
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.Step(`^the search returns (\d+) songs of (\d+) seconds$`, theSearchReturnsSongs)
	ctx.Step(`^the song "([^"]*)" is corrupt$`, theSongIsCorrupt)
	ctx.Step(`^the search backend fails with "([^"]*)"$`, theSearchBackendFailsWith)
	ctx.Step(`^I build a mashup of "([^"]*)" with (\d+) clips of (\d+) seconds into "([^"]*)"$`, iBuildAMashup)
	ctx.Step(`^the mashup should succeed$`, theMashupShouldSucceed)
	ctx.Step(`^the mashup should fail with "([^"]*)"$`, theMashupShouldFailWith)
	ctx.Step(`^the search query should be "([^"]*)"$`, theSearchQueryShouldBe)
	ctx.Step(`^the progress output should contain:$`, theProgressOutputShouldContain)
	ctx.Step(`^"([^"]*)" should be (\d+) seconds long$`, fileShouldBeSecondsLong)
	ctx.Step(`^"([^"]*)" should be empty$`, fileShouldBeEmpty)
	ctx.Step(`^(\d+) items? should have failed during "([^"]*)"$`, itemsShouldHaveFailedDuring)
	ctx.Step(`^(\d+) clips should have been merged$`, clipsShouldHaveBeenMerged)
}

func theSearchReturnsSongs(count, seconds int) error {
	p := SharedPipelineContext
	p.songs = count
	p.songLength = seconds
	return nil
}

func theSongIsCorrupt(name string) error {
	SharedPipelineContext.audio.corrupt[name] = true
	return nil
}

func theSearchBackendFailsWith(message string) error {
	SharedPipelineContext.backendErr = errors.New(message)
	return nil
}

// runSearch stands in for yt-dlp, writing one fake video per result
func (p *pipelineContext) runSearch(ctx context.Context, req ytdlp.RunRequest) error {
	p.target = req.Target
	if p.backendErr != nil {
		return p.backendErr
	}
	dir := filepath.Dir(req.OutputTmpl)
	for i := 1; i <= p.songs; i++ {
		name := fmt.Sprintf("Song %02d.mp4", i)
		if err := writeFakeLength(filepath.Join(dir, name), time.Duration(p.songLength)*time.Second); err != nil {
			return err
		}
	}
	return nil
}

func iBuildAMashup(performer string, count, seconds int, output string) error {
	p := SharedPipelineContext

	req, err := mashup.NewRequest(performer, count, seconds, workPath(output), "")
	if err != nil {
		return err
	}

	svc := appmashup.NewService(
		ytdlp.NewDownloader(ytdlp.WithRunFunc(p.runSearch)),
		p.audio,
		p.audio,
		p.audio,
		p.audio,
		filesystem.NewLister(),
		filesystem.NewWorkspaceOpener(SharedWorkspace.root, "", ""),
		p.output,
	)

	p.result, p.err = svc.Run(context.Background(), req)
	return nil
}

func theMashupShouldSucceed() error {
	if err := SharedPipelineContext.err; err != nil {
		return fmt.Errorf("expected success, got %v", err)
	}
	return nil
}

func theMashupShouldFailWith(message string) error {
	p := SharedPipelineContext
	if p.err == nil {
		return fmt.Errorf("expected failure %q, got success", message)
	}
	if p.err.Error() != message {
		return fmt.Errorf("expected %q, got %q", message, p.err.Error())
	}
	return nil
}

func theSearchQueryShouldBe(query string) error {
	p := SharedPipelineContext
	if !strings.HasSuffix(p.target, ":"+query) {
		return fmt.Errorf("expected search target for %q, got %q", query, p.target)
	}
	return nil
}

func theProgressOutputShouldContain(table *godog.Table) error {
	out := SharedPipelineContext.output.String()
	for _, row := range table.Rows[1:] {
		line := row.Cells[0].Value
		if !strings.Contains(out, line) {
			return fmt.Errorf("progress output missing %q in:\n%s", line, out)
		}
	}
	return nil
}

func fileShouldBeSecondsLong(name string, seconds int) error {
	d, err := fakeLength(workPath(name))
	if err != nil {
		return err
	}
	if d != time.Duration(seconds)*time.Second {
		return fmt.Errorf("expected %s to be %ds, got %v", name, seconds, d)
	}
	if SharedPipelineContext.result.Duration != d {
		return fmt.Errorf("result duration %v does not match output %v", SharedPipelineContext.result.Duration, d)
	}
	return nil
}

func fileShouldBeEmpty(name string) error {
	info, err := os.Stat(workPath(name))
	if err != nil {
		return err
	}
	if info.Size() != 0 {
		return fmt.Errorf("expected %s to be empty, got %d bytes", name, info.Size())
	}
	return nil
}

func itemsShouldHaveFailedDuring(count int, stage string) error {
	n := 0
	for _, f := range SharedPipelineContext.result.Failures {
		if string(f.Stage) == stage {
			n++
		}
	}
	if n != count {
		return fmt.Errorf("expected %d %s failures, got %d (%v)", count, stage, n, SharedPipelineContext.result.Failures)
	}
	return nil
}

func clipsShouldHaveBeenMerged(count int) error {
	if got := len(SharedPipelineContext.result.Merged); got != count {
		return fmt.Errorf("expected %d merged clips, got %d", count, got)
	}
	return nil
}
