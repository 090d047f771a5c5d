// Package routes defines named, attachable groups of HTTP routes.
//
// A Collection is built up front and has no effect until it is attached to a
// gin router, which keeps route registration an explicit step of application
// construction.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrInvalidCollection indicates a collection that cannot be attached as defined.
var ErrInvalidCollection = errors.New("invalid route collection")

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

// Route binds one method and path to its handler chain.
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// Option configures a Collection.
type Option func(*Collection)

// WithPrefix mounts every route of the collection below prefix.
func WithPrefix(prefix string) Option {
	return func(c *Collection) {
		c.prefix = prefix
	}
}

// Collection is a named group of routes sharing a prefix and middleware.
type Collection struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []Route
}

// NewCollection creates an empty collection.
func NewCollection(name string, opts ...Option) *Collection {
	c := &Collection{name: name}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection) Name() string   { return c.name }
func (c *Collection) Prefix() string { return c.prefix }

// Use adds middleware that runs before every handler in the collection.
func (c *Collection) Use(middleware ...gin.HandlerFunc) *Collection {
	c.middleware = append(c.middleware, middleware...)
	return c
}

// GET is a shortcut for Handle(http.MethodGet, path, handlers...).
func (c *Collection) GET(path string, handlers ...gin.HandlerFunc) *Collection {
	return c.Handle(http.MethodGet, path, handlers...)
}

// Handle records a route. Validation is deferred to Attach.
func (c *Collection) Handle(method, path string, handlers ...gin.HandlerFunc) *Collection {
	c.routes = append(c.routes, Route{
		Method:   strings.ToUpper(method),
		Path:     path,
		Handlers: handlers,
	})
	return c
}

// Routes returns a copy of the recorded routes.
func (c *Collection) Routes() []Route {
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// Attach registers every route of the collection on r. Nothing is registered
// when the collection fails validation; a conflict reported by gin while
// registering is returned as an error.
func (c *Collection) Attach(r gin.IRouter) (err error) {
	if err := c.validate(); err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %q: %v", ErrInvalidCollection, c.name, rec)
		}
	}()

	group := r.Group(c.prefix, c.middleware...)
	for _, route := range c.routes {
		group.Handle(route.Method, route.Path, route.Handlers...)
	}
	return nil
}

func (c *Collection) validate() error {
	if strings.TrimSpace(c.name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCollection)
	}
	if c.prefix != "" && !strings.HasPrefix(c.prefix, "/") {
		return fmt.Errorf("%w: %q: prefix %q must start with /", ErrInvalidCollection, c.name, c.prefix)
	}
	if len(c.routes) == 0 {
		return fmt.Errorf("%w: %q has no routes", ErrInvalidCollection, c.name)
	}
	for _, route := range c.routes {
		if _, ok := knownMethods[route.Method]; !ok {
			return fmt.Errorf("%w: %q: unsupported method %q", ErrInvalidCollection, c.name, route.Method)
		}
		if !strings.HasPrefix(route.Path, "/") {
			return fmt.Errorf("%w: %q: path %q must start with /", ErrInvalidCollection, c.name, route.Path)
		}
		if len(route.Handlers) == 0 {
			return fmt.Errorf("%w: %q: %s %s has no handler", ErrInvalidCollection, c.name, route.Method, route.Path)
		}
		for _, h := range route.Handlers {
			if h == nil {
				return fmt.Errorf("%w: %q: %s %s has a nil handler", ErrInvalidCollection, c.name, route.Method, route.Path)
			}
		}
	}
	return nil
}
