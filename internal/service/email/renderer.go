package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"consul-mailer/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

// RenderMarkdown converts user supplied markdown into sanitised HTML.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return template.HTML(policy.Sanitize(template.HTMLEscapeString(source)))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

var funcs = template.FuncMap{
	"t":        i18n.T,
	"markdown": RenderMarkdown,
}

// Renderer turns a Message into an HTML body using the embedded layout and
// the message's content template.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	names := []string{
		TemplateConfirmation,
		TemplateResetPassword,
		TemplateComment,
		TemplateReply,
		TemplateDirectMessage,
		TemplateDirectMessageSent,
		TemplateProposalDigest,
		TemplateUnfeasibleProposal,
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(msg Message) (string, error) {
	tmpl, ok := r.templates[msg.Template]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", msg.Template)
	}

	data := make(map[string]interface{}, len(msg.Variables)+1)
	for k, v := range msg.Variables {
		data[k] = v
	}
	data["Subject"] = msg.Subject
	if _, ok := data["Locale"]; !ok {
		data["Locale"] = i18n.DefaultLocale
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}
