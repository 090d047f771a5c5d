package application

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/eugenenazirov/hello-site/internal/routes"
)

var (
	// ErrContextInactive is returned when a Context is used after its scope ended.
	ErrContextInactive = errors.New("application context is not active")
	// ErrDuplicateCollection is returned when a collection name is attached twice.
	ErrDuplicateCollection = errors.New("route collection already registered")
)

// Context is the scope in which startup code may modify an App. It is only
// valid inside the function passed to App.WithContext.
type Context struct {
	app    *App
	active bool
}

// App returns the application this context belongs to.
func (c *Context) App() *App {
	return c.app
}

// Active reports whether the context's scope is still open.
func (c *Context) Active() bool {
	return c.active
}

// Register attaches a route collection to the application's engine.
func (c *Context) Register(collection *routes.Collection) error {
	if !c.active {
		return ErrContextInactive
	}
	if collection == nil {
		return fmt.Errorf("%w: nil collection", routes.ErrInvalidCollection)
	}

	name := collection.Name()
	if slices.Contains(c.app.collections, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateCollection, name)
	}
	if err := collection.Attach(c.app.engine); err != nil {
		return fmt.Errorf("attach collection %q: %w", name, err)
	}

	c.app.collections = append(c.app.collections, name)
	c.app.logger.Debug("route collection registered",
		zap.String("collection", name),
		zap.String("prefix", collection.Prefix()),
		zap.Int("routes", len(collection.Routes())),
	)
	return nil
}

// WithContext runs fn with an active Context for a. The context is released
// when fn returns, whether it succeeds, fails or panics.
func (a *App) WithContext(fn func(*Context) error) error {
	ctx := &Context{app: a, active: true}
	a.contexts = append(a.contexts, ctx)
	defer func() {
		ctx.active = false
		a.contexts = a.contexts[:len(a.contexts)-1]
	}()

	return fn(ctx)
}

// InContext reports whether a WithContext scope is currently open.
func (a *App) InContext() bool {
	return len(a.contexts) > 0
}
