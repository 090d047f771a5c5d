// Package render resolves HTML templates by name and renders them into memory.
package render

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"sync"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithReload disables the parsed-template cache so edits show up on the next render.
func WithReload(enabled bool) Option {
	return func(r *Renderer) {
		r.reload = enabled
	}
}

// Renderer renders templates stored in a filesystem.
type Renderer struct {
	fsys   fs.FS
	reload bool

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// New returns a Renderer reading templates from fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys:  fsys,
		cache: make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the named template with data and returns the complete output.
// Nothing is returned on failure, so callers never send a partially rendered page.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &TemplateRenderError{Name: name, Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if !r.reload {
		r.mu.RLock()
		tmpl, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return tmpl, nil
		}
	}

	tmpl, err := r.parse(name)
	if err != nil {
		return nil, err
	}

	if !r.reload {
		r.mu.Lock()
		r.cache[name] = tmpl
		r.mu.Unlock()
	}
	return tmpl, nil
}

func (r *Renderer) parse(name string) (*template.Template, error) {
	if r.fsys == nil {
		return nil, &TemplateRenderError{Name: name, Err: ErrTemplateNotFound}
	}

	info, err := fs.Stat(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, &TemplateRenderError{Name: name, Err: ErrTemplateNotFound}
		}
		return nil, &TemplateRenderError{Name: name, Err: err}
	}
	if info.IsDir() {
		return nil, &TemplateRenderError{Name: name, Err: ErrTemplateNotFound}
	}

	tmpl, err := template.ParseFS(r.fsys, name)
	if err != nil {
		return nil, &TemplateRenderError{Name: name, Err: err}
	}
	return tmpl, nil
}
