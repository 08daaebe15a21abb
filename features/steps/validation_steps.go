//go:build integration

package steps

import (
	"context"
	"fmt"
	"strings"

	"mashup/domain/mashup"

	"github.com/cucumber/godog"
)

type validationContext struct {
	err      error
	emailErr error
}

// SharedValidationContext is reset before each scenario via Before hook
var SharedValidationContext *validationContext

func InitializeValidationScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedValidationContext = &validationContext{}
		return c, nil
	})

	ctx.Step(`^I run mashup with arguments "([^"]*)"$`, iRunMashupWithArguments)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^I validate the email "([^"]*)"$`, iValidateTheEmail)
	ctx.Step(`^the email should be (accepted|rejected)$`, theEmailShouldBe)
}

func iRunMashupWithArguments(args string) error {
	v := SharedValidationContext
	_, v.err = mashup.ParseArgs(strings.Fields(args))
	return nil
}

func theCommandShouldFailWith(message string) error {
	v := SharedValidationContext
	if v.err == nil {
		return fmt.Errorf("expected failure %q, got success", message)
	}
	if !mashup.IsValidationError(v.err) {
		return fmt.Errorf("expected validation error, got %T: %v", v.err, v.err)
	}
	if v.err.Error() != message {
		return fmt.Errorf("expected %q, got %q", message, v.err.Error())
	}
	return nil
}

func iValidateTheEmail(email string) error {
	SharedValidationContext.emailErr = mashup.ValidateEmail(email)
	return nil
}

func theEmailShouldBe(outcome string) error {
	err := SharedValidationContext.emailErr
	switch outcome {
	case "accepted":
		if err != nil {
			return fmt.Errorf("expected email accepted, got %v", err)
		}
	case "rejected":
		if err == nil || err.Error() != mashup.MsgInvalidEmail {
			return fmt.Errorf("expected %q, got %v", mashup.MsgInvalidEmail, err)
		}
	}
	return nil
}
