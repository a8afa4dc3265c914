package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates
var templateFS embed.FS

const templateExtension = ".gohtml"

// View pairs a parsed template set with the layout it renders through.
type View struct {
	Template *template.Template
	Layout   string
}

var viewFuncs = template.FuncMap{
	// inc turns range indexes into 1-based ranks.
	"inc": func(i int) int { return i + 1 },
}

// NewView parses the named layout and page template from the embedded
// set. Each page owns its template set, so every page can define its
// own content block.
func NewView(layout, page string) (*View, error) {
	t, err := template.New(page).Funcs(viewFuncs).ParseFS(templateFS,
		"templates/layouts/"+layout+templateExtension,
		"templates/"+page+templateExtension,
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", page, err)
	}
	return &View{Template: t, Layout: layout}, nil
}

// Render executes the view's layout with the given data.
func (v *View) Render(w io.Writer, data interface{}) error {
	return v.Template.ExecuteTemplate(w, v.Layout, data)
}
