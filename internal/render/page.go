package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/debemdeboas/recipe-archive/internal/cache"
)

// Renderer executes a page template inside the shared layout. Output is
// buffered, so a failing template never leaves a half-written response.
type Renderer struct {
	fsys   fs.FS
	dir    string
	layout string
	minify bool

	templates *cache.Cache[string, *template.Template]
}

func NewRenderer(fsys fs.FS, dir, layout string, minify bool) *Renderer {
	return &Renderer{
		fsys:      fsys,
		dir:       dir,
		layout:    layout,
		minify:    minify,
		templates: cache.NewCache[string, *template.Template](),
	}
}

func (r *Renderer) template(page string) (*template.Template, error) {
	if tmpl, ok := r.templates.Get(page); ok {
		return tmpl, nil
	}

	tmpl, err := template.New(r.layout).ParseFS(r.fsys, path.Join(r.dir, r.layout), path.Join(r.dir, page))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", page, err)
	}
	r.templates.Set(page, tmpl)
	return tmpl, nil
}

// Render executes page with data and returns the finished document.
func (r *Renderer) Render(page string, data interface{}) ([]byte, error) {
	tmpl, err := r.template(page)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, r.layout, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", page, err)
	}

	if !r.minify {
		return buf.Bytes(), nil
	}

	out, err := MinifyHTML(buf.Bytes())
	if err != nil {
		renderLogger.Warn().Err(err).Str("page", page).Msg("Minification failed, serving unminified page")
		return buf.Bytes(), nil
	}
	return out, nil
}
