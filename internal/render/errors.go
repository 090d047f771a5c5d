package render

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound indicates the requested template does not exist in the template filesystem.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateRenderError reports a template that could not be located, parsed or executed.
type TemplateRenderError struct {
	Name string
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("render template %q: %v", e.Name, e.Err)
}

func (e *TemplateRenderError) Unwrap() error {
	return e.Err
}
