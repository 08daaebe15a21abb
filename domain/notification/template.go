package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
)

// TemplateData contains all the fields available for email template rendering
type TemplateData struct {
	Greeting    string
	Performer   string
	ClipCount   int
	ClipSeconds int
	Attachment  string // Attachment file name, without directory
}

// EmailTemplate contains the templates for rendering emails
type EmailTemplate struct {
	SubjectFormat string
	PlainText     string
	HTML          string
}

// DefaultTemplate is the standard mashup delivery email
var DefaultTemplate = EmailTemplate{
	SubjectFormat: "Your Mashup File",
	PlainText: `{{.Greeting}}

Your mashup is attached.
{{- if .Performer}}

Performer: {{.Performer}}
{{- end}}
{{- if .ClipCount}}
Clips: {{.ClipCount}} x {{.ClipSeconds}}s
{{- end}}

File: {{.Attachment}}`,
	HTML: `<div dir="ltr">{{.Greeting}}<br><br>
Your mashup is attached.<br>
{{- if .Performer}}<br>Performer: <b>{{.Performer}}</b>{{end}}
{{- if .ClipCount}}<br>Clips: {{.ClipCount}} x {{.ClipSeconds}}s{{end}}
<br><br>File: {{.Attachment}}</div>`,
}

// FormatGreeting greets the recipient by first name when one is known
func FormatGreeting(to Recipient) string {
	name := getFirstName(to.Name)
	if name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hi %s,", name)
}

// getFirstName extracts the first name from a full name
func getFirstName(fullName string) string {
	for i, c := range fullName {
		if c == ' ' {
			return fullName[:i]
		}
	}
	return fullName
}

// RenderSubject renders the email subject using the template
func (t *EmailTemplate) RenderSubject(data TemplateData) (string, error) {
	return renderTemplate("subject", t.SubjectFormat, data)
}

// RenderPlainText renders the plain text email body
func (t *EmailTemplate) RenderPlainText(data TemplateData) (string, error) {
	return renderTemplate("plaintext", t.PlainText, data)
}

// RenderHTML renders the HTML email body. Fields are HTML-escaped because
// the performer name comes straight from the web form.
func (t *EmailTemplate) RenderHTML(data TemplateData) (string, error) {
	tmpl, err := htmltemplate.New("html").Parse(t.HTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func renderTemplate(name, tmplStr string, data TemplateData) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
