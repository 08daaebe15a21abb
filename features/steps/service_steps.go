//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	appmashup "mashup/application/mashup"
	appnotif "mashup/application/notification"
	"mashup/domain/mashup"
	"mashup/infrastructure/web"

	"github.com/cucumber/godog"
)

type recordingPipeline struct {
	runs []*mashup.Request
}

func (p *recordingPipeline) Run(ctx context.Context, req *mashup.Request) (*appmashup.Result, error) {
	p.runs = append(p.runs, req)
	return &appmashup.Result{OutputPath: req.OutputFile, Merged: make([]string, req.ItemCount)}, nil
}

type recordingDeliverer struct {
	deliveries []appnotif.DeliverRequest
	err        error
}

func (d *recordingDeliverer) Deliver(ctx context.Context, req appnotif.DeliverRequest) error {
	d.deliveries = append(d.deliveries, req)
	return d.err
}

type serviceContext struct {
	pipeline  *recordingPipeline
	deliverer *recordingDeliverer
	response  *httptest.ResponseRecorder
}

// SharedServiceContext is reset before each scenario via Before hook
var SharedServiceContext *serviceContext

func InitializeServiceScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedServiceContext = &serviceContext{
			pipeline:  &recordingPipeline{},
			deliverer: &recordingDeliverer{},
		}
		return c, nil
	})

	ctx.Step(`^email delivery fails with "([^"]*)"$`, emailDeliveryFailsWith)
	ctx.Step(`^I submit the form with singer "([^"]*)", number "([^"]*)", duration "([^"]*)" and email "([^"]*)"$`, iSubmitTheForm)
	ctx.Step(`^the response should be "([^"]*)"$`, theResponseShouldBe)
	ctx.Step(`^the mashup should have been emailed to "([^"]*)"$`, theMashupShouldHaveBeenEmailedTo)
	ctx.Step(`^the pipeline should not have run$`, thePipelineShouldNotHaveRun)
}

func emailDeliveryFailsWith(message string) error {
	SharedServiceContext.deliverer.err = errors.New(message)
	return nil
}

func iSubmitTheForm(singer, number, duration, email string) error {
	s := SharedServiceContext
	srv := web.NewServer(s.pipeline, s.deliverer)

	form := url.Values{
		"singer":   {singer},
		"number":   {number},
		"duration": {duration},
		"email":    {email},
	}
	req := httptest.NewRequest(nethttp.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	s.response = httptest.NewRecorder()
	srv.Handler().ServeHTTP(s.response, req)
	return nil
}

func theResponseShouldBe(body string) error {
	if got := SharedServiceContext.response.Body.String(); got != body {
		return fmt.Errorf("expected response %q, got %q", body, got)
	}
	return nil
}

func theMashupShouldHaveBeenEmailedTo(address string) error {
	d := SharedServiceContext.deliverer
	if len(d.deliveries) != 1 {
		return fmt.Errorf("expected 1 delivery, got %d", len(d.deliveries))
	}
	got := d.deliveries[0]
	if got.To.Address != address {
		return fmt.Errorf("expected delivery to %q, got %q", address, got.To.Address)
	}
	if got.ArchivePath != "mashup.zip" || got.OutputPath != "mashup.mp3" {
		return fmt.Errorf("unexpected files %q/%q", got.OutputPath, got.ArchivePath)
	}
	return nil
}

func thePipelineShouldNotHaveRun() error {
	s := SharedServiceContext
	if len(s.pipeline.runs) != 0 || len(s.deliverer.deliveries) != 0 {
		return fmt.Errorf("pipeline ran %d times, delivered %d times", len(s.pipeline.runs), len(s.deliverer.deliveries))
	}
	return nil
}
