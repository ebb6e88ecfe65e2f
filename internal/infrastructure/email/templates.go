// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

// TemplateSet holds the HTML and plain-text versions of a template. The text
// version is parsed with text/template: running it through html/template
// would entity-escape the plain-text part of the email (a leading + in a
// phone number becomes &#43;).
type TemplateSet struct {
	HTML *template.Template
	Text *texttemplate.Template
}

// Templates holds all notification templates
type Templates struct {
	NewCall        TemplateSet
	EmployeeInvite TemplateSet
	TaskAssigned   TemplateSet
}

// loadTemplates loads every notification template from the embedded FS.
func loadTemplates() (Templates, error) {
	var templates Templates

	sets := map[string]*TemplateSet{
		"new_call":        &templates.NewCall,
		"employee_invite": &templates.EmployeeInvite,
		"task_assigned":   &templates.TaskAssigned,
	}

	for name, set := range sets {
		htmlTmpl, err := loadHTMLTemplate(name)
		if err != nil {
			return Templates{}, err
		}
		textTmpl, err := loadTextTemplate(name)
		if err != nil {
			return Templates{}, err
		}
		set.HTML = htmlTmpl
		set.Text = textTmpl
	}

	return templates, nil
}

// templateFuncs is the function map shared by the HTML and text templates.
func templateFuncs() map[string]any {
	return map[string]any{
		"formatCallDuration": formatCallDuration,
		"formatDate":         formatDate,
		"joinTags":           joinTags,
		"newLineToBreakLine": newLineToBreakLine,
	}
}

// loadHTMLTemplate loads the HTML version of a template.
func loadHTMLTemplate(name string) (*template.Template, error) {
	fileName := name + ".html"
	tmpl, err := template.New(fileName).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", fileName, err)
	}
	return tmpl, nil
}

// loadTextTemplate loads the plain-text version of a template.
func loadTextTemplate(name string) (*texttemplate.Template, error) {
	fileName := name + ".txt"
	tmpl, err := texttemplate.New(fileName).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", fileName, err)
	}
	return tmpl, nil
}

// executableTemplate is satisfied by both html/template and text/template.
type executableTemplate interface {
	Execute(wr io.Writer, data any) error
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl executableTemplate, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatCallDuration formats a call duration as "m:ss min", or "N/A" for
// calls without a recorded duration.
func formatCallDuration(d time.Duration) string {
	if d <= 0 {
		return "N/A"
	}
	totalSeconds := int(d.Seconds())
	return fmt.Sprintf("%d:%02d min", totalSeconds/60, totalSeconds%60)
}

// formatDate formats a time for display in emails
func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// joinTags renders a tag list as a comma-separated string
func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// newLineToBreakLine converts newlines to HTML break tags for proper email formatting
func newLineToBreakLine(s string) template.HTML {
	// Replace newlines with <br> tags
	escaped := template.HTMLEscapeString(s)
	replaced := strings.ReplaceAll(escaped, "\n", "<br>")
	// Return as template.HTML to prevent double escaping
	return template.HTML(replaced)
}
