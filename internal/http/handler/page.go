package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"codepad/internal/language"
	"codepad/internal/shell"
)

//go:embed templates/index.html
var templatesFS embed.FS

type languageOption struct {
	Name     string
	Selected bool
}

type pageData struct {
	Languages []languageOption
	Code      string
	Extension string
	Outcome   *shell.Outcome
}

// Page renders the form page. It holds the parsed template and the registry
// the language picker is built from.
type Page struct {
	tmpl     *template.Template
	registry *language.Registry
}

// NewPage parses the embedded page template.
func NewPage(registry *language.Registry) (*Page, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Page{tmpl: tmpl, registry: registry}, nil
}

// render writes the page with code and lang prefilled. Names outside the
// registry select the default language.
func (p *Page) render(c *fiber.Ctx, code, lang string, out *shell.Outcome) error {
	if _, ok := p.registry.Lookup(lang); !ok {
		lang = p.registry.DefaultName()
	}

	entries := p.registry.Entries()
	data := pageData{
		Languages: make([]languageOption, 0, len(entries)),
		Code:      code,
		Extension: p.registry.ExtensionFor(lang),
		Outcome:   out,
	}
	for _, e := range entries {
		data.Languages = append(data.Languages, languageOption{Name: e.Name, Selected: e.Name == lang})
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return c.Type("html", "utf-8").Send(buf.Bytes())
}
