//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
)

// workspaceContext is the temp directory a scenario runs in
type workspaceContext struct {
	root string
}

// SharedWorkspace is reset before each scenario via Before hook
var SharedWorkspace *workspaceContext

func InitializeWorkspaceScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		root, err := os.MkdirTemp("", "mashup-features-*")
		if err != nil {
			return c, err
		}
		SharedWorkspace = &workspaceContext{root: root}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedWorkspace != nil {
			os.RemoveAll(SharedWorkspace.root)
			SharedWorkspace = nil
		}
		return c, nil
	})

	ctx.Step(`^a clean working directory$`, aCleanWorkingDirectory)
	ctx.Step(`^no working directories should exist$`, noWorkingDirectoriesShouldExist)
}

func workPath(name string) string {
	return filepath.Join(SharedWorkspace.root, name)
}

func aCleanWorkingDirectory() error {
	entries, err := os.ReadDir(SharedWorkspace.root)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("expected empty working directory, found %d entries", len(entries))
	}
	return nil
}

func noWorkingDirectoriesShouldExist() error {
	for _, dir := range []string{"videos", "audios"} {
		if _, err := os.Stat(workPath(dir)); !os.IsNotExist(err) {
			return fmt.Errorf("working directory %s still exists", dir)
		}
	}
	return nil
}
