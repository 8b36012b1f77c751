package mailer

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// TemplateSet renders the HTML body and plain-text alternative for a
// named email. Every name has a matching .html and .txt file.
type TemplateSet struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewTemplateSet() (*TemplateSet, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &TemplateSet{html: html, text: text}, nil
}

// Render executes <name>.html and <name>.txt with the same data and
// returns both bodies.
func (t *TemplateSet) Render(name string, data any) (htmlBody, textBody string, err error) {
	var hb strings.Builder
	if err := t.html.ExecuteTemplate(&hb, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s.html: %w", name, err)
	}
	var tb strings.Builder
	if err := t.text.ExecuteTemplate(&tb, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("render %s.txt: %w", name, err)
	}
	return hb.String(), tb.String(), nil
}
