package handler

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

const (
	templatesDir = "templates"
	baseTemplate = "base.html"
)

// Templates renders each page inside the base layout.
type Templates struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Templates)(nil)

func NewTemplates(fsys fs.FS) (*Templates, error) {
	files, err := fs.Glob(fsys, path.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, err
	}
	funcs := template.FuncMap{
		"date": formatDate,
	}
	t := &Templates{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := path.Base(file)
		if name == baseTemplate {
			continue
		}
		page, err := template.New(name).Funcs(funcs).ParseFS(fsys, path.Join(templatesDir, baseTemplate), file)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		t.pages[name] = page
	}
	return t, nil
}

func MustTemplates(fsys fs.FS) *Templates {
	t, err := NewTemplates(fsys)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	page, ok := t.pages[name]
	if !ok {
		return errors.Errorf("template %s not found", name)
	}
	return page.ExecuteTemplate(w, baseTemplate, data)
}

func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format(model.DateLayout)
	case *time.Time:
		return model.FormatDate(d)
	default:
		return ""
	}
}
