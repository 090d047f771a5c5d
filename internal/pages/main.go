// Package pages holds the site's page handlers, grouped into route collections.
package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eugenenazirov/hello-site/internal/routes"
)

const (
	// MainCollection is the name of the collection serving the site root.
	MainCollection = "main"
	// IndexTemplate is rendered for GET /.
	IndexTemplate = "index.html"
)

// Renderer renders a named template into a complete response body.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

// Handler wires the renderer into page handlers.
type Handler struct {
	renderer Renderer
	logger   *zap.Logger
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(renderer Renderer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{renderer: renderer, logger: logger}
}

// NewMain returns the "main" collection: GET / renders the index template.
func NewMain(renderer Renderer, logger *zap.Logger) *routes.Collection {
	h := NewHandler(renderer, logger)
	return routes.NewCollection(MainCollection).GET("/", h.handleIndex)
}

func (h *Handler) handleIndex(c *gin.Context) {
	h.renderPage(c, IndexTemplate, nil)
}

func (h *Handler) renderPage(c *gin.Context, name string, data any) {
	body, err := h.renderer.Render(name, data)
	if err != nil {
		h.logger.Error("template render failed",
			zap.String("template", name),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
