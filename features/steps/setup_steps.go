//go:build integration

package steps

import (
	"bytes"

	"mashup/cmd"

	"github.com/cucumber/godog"
)

// MockPrompter implements cmd.Prompter by accepting every default
type MockPrompter struct {
	asked []string
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	m.asked = append(m.asked, message)
	return defaultValue, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	m.asked = append(m.asked, message)
	return defaultValue, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	m.asked = append(m.asked, message)
	return defaultValue, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run setup accepting every default$`, iRunSetupAcceptingEveryDefault)
}

func iRunSetupAcceptingEveryDefault() error {
	var out bytes.Buffer
	return cmd.RunSetupWithPrompter(&MockPrompter{}, configPath(), &out)
}

var _ cmd.Prompter = (*MockPrompter)(nil)
