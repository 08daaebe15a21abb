//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"mashup/cmd"
	"mashup/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	configPath string
	output     *bytes.Buffer
	err        error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedConfigContext = &configContext{
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.Step(`^a default configuration file$`, aDefaultConfigurationFile)
	ctx.Step(`^no configuration file$`, noConfigurationFile)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, iSetTo)
	ctx.Step(`^I get "([^"]*)"$`, iGet)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, theConfigCommandShouldFailWith)
	ctx.Step(`^the config output should be "([^"]*)"$`, theConfigOutputShouldBe)
	ctx.Step(`^the saved configuration should have "([^"]*)" set to "([^"]*)"$`, theSavedConfigurationShouldHave)
}

func configPath() string {
	if SharedConfigContext.configPath == "" {
		SharedConfigContext.configPath = workPath("config/config.yaml")
	}
	return SharedConfigContext.configPath
}

func aDefaultConfigurationFile() error {
	return config.Save(config.Default(), configPath())
}

func noConfigurationFile() error {
	if err := os.Remove(configPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(configPath())
}

func iSetTo(key, value string) error {
	c := SharedConfigContext
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigSetWithDependencies(cfg, configPath(), key, value, c.output)
	return nil
}

func iGet(key string) error {
	c := SharedConfigContext
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigGetWithDependencies(cfg, configPath(), key, c.output)
	return nil
}

func theConfigCommandShouldFailWith(message string) error {
	c := SharedConfigContext
	if c.err == nil {
		return fmt.Errorf("expected error containing %q, got success", message)
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.err.Error())
	}
	return nil
}

func theConfigOutputShouldBe(expected string) error {
	c := SharedConfigContext
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	if got := strings.TrimSpace(c.output.String()); got != expected {
		return fmt.Errorf("expected output %q, got %q", expected, got)
	}
	return nil
}

func theSavedConfigurationShouldHave(key, expected string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	got, err := config.NewConfigManager(cfg, configPath()).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s = %q, got %q", key, expected, got)
	}
	return nil
}
