package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/sushihentaime/blogist/internal/blogservice"
)

//go:embed templates/*
var templateFS embed.FS

var funcs = template.FuncMap{
	"queryEscape": func(id blogservice.ID) string {
		return url.QueryEscape(id.String())
	},
}

type Renderer struct {
	t *template.Template
}

// NewRenderer parses the embedded templates once.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("blogist").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

func (r *Renderer) Page(p Page) (*bytes.Buffer, error) {
	return r.execute("page", p)
}

func (r *Renderer) List(l ListView) (*bytes.Buffer, error) {
	return r.execute("list", l)
}

func (r *Renderer) Detail(d DetailView) (*bytes.Buffer, error) {
	return r.execute("detail", d)
}

func (r *Renderer) execute(name string, data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	err := r.t.ExecuteTemplate(buf, name, data)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
