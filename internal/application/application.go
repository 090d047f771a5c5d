package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eugenenazirov/hello-site/internal/config"
	"github.com/eugenenazirov/hello-site/internal/metrics"
	"github.com/eugenenazirov/hello-site/internal/middleware"
	"github.com/eugenenazirov/hello-site/internal/pages"
	"github.com/eugenenazirov/hello-site/internal/render"
	"github.com/eugenenazirov/hello-site/web"
)

// SecretKeySetting is the settings key holding the application secret.
const SecretKeySetting = "SECRET_KEY"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	settings    map[string]string
	engine      *gin.Engine
	renderer    *render.Renderer
	recorder    *metrics.Recorder
	collections []string
	contexts    []*Context
	logger      *zap.Logger

	server        *http.Server
	metricsServer *http.Server
}

// New initializes the application from the provided configuration: it builds
// the engine and middleware, stores the secret key, and registers the route
// collections. Any registration failure aborts construction.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("secret key must not be empty")
	}
	if cfg.UsesPlaceholderSecret() {
		logger.Warn("using the placeholder secret key; set SECRET_KEY before deploying")
	}

	templatesFS, err := resolveFS(cfg.TemplatesDir, web.Templates())
	if err != nil {
		return nil, fmt.Errorf("failed to locate templates: %w", err)
	}
	staticFS, err := resolveFS(cfg.StaticDir, web.Static())
	if err != nil {
		return nil, fmt.Errorf("failed to locate static assets: %w", err)
	}

	ginMode := cfg.GinMode
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)

	recorder := metrics.NewRecorder()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(middleware.Stack(logger,
		middleware.WithLogging(cfg.EnableRequestLogging),
		middleware.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		middleware.WithSecureHeaders(cfg.SSLRedirect),
		middleware.WithMetrics(recorder.Middleware()),
	)...)

	app := &App{
		settings: map[string]string{
			SecretKeySetting: cfg.SecretKey,
		},
		engine:   engine,
		renderer: render.New(templatesFS, render.WithReload(ginMode == gin.DebugMode)),
		recorder: recorder,
		logger:   logger,
	}

	mountStatic(engine, staticFS)

	err = app.WithContext(func(ctx *Context) error {
		return ctx.Register(pages.NewMain(app.renderer, logger))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	app.server = NewServer(cfg, engine)
	if cfg.MetricsAddr != "" {
		app.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           recorder.Handler(),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		}
	}

	return app, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Setting returns a configuration value by key.
func (a *App) Setting(key string) (string, bool) {
	value, ok := a.settings[key]
	return value, ok
}

// Settings returns a copy of the configuration mapping.
func (a *App) Settings() map[string]string {
	return maps.Clone(a.settings)
}

// Collections lists the attached route collections in registration order.
func (a *App) Collections() []string {
	return slices.Clone(a.collections)
}

// Routes returns the engine's route table.
func (a *App) Routes() gin.RoutesInfo {
	return a.engine.Routes()
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Metrics returns the request metrics recorder.
func (a *App) Metrics() *metrics.Recorder {
	return a.recorder
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// MetricsServer returns the metrics listener, or nil when metrics are disabled.
func (a *App) MetricsServer() *http.Server {
	return a.metricsServer
}

// Start binds the configured listeners and serves them in background goroutines.
// Bind failures are returned before any request is accepted. Each server's Addr
// is updated to the bound address, so a ":0" port resolves to the chosen one.
func (a *App) Start() error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}

	var metricsListener net.Listener
	if a.metricsServer != nil {
		metricsListener, err = net.Listen("tcp", a.metricsServer.Addr)
		if err != nil {
			_ = listener.Close()
			return fmt.Errorf("listen on %s: %w", a.metricsServer.Addr, err)
		}
		a.metricsServer.Addr = metricsListener.Addr().String()
	}
	a.server.Addr = listener.Addr().String()

	a.serve(a.server, listener, "server listening")
	if metricsListener != nil {
		a.serve(a.metricsServer, metricsListener, "metrics listening")
	}
	return nil
}

func (a *App) serve(server *http.Server, listener net.Listener, msg string) {
	a.logger.Info(msg, zap.String("addr", server.Addr))
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("server error", zap.String("addr", server.Addr), zap.Error(err))
		}
	}()
}

// Shutdown gracefully stops every server the App owns.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	for _, server := range a.Servers() {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", server.Addr, err))
		}
	}
	return errors.Join(errs...)
}

// Servers lists the HTTP servers owned by the App.
func (a *App) Servers() []*http.Server {
	servers := []*http.Server{a.server}
	if a.metricsServer != nil {
		servers = append(servers, a.metricsServer)
	}
	return servers
}

// resolveFS returns fallback when dir is empty, otherwise the directory located via resolveProjectPath.
func resolveFS(dir string, fallback fs.FS) (fs.FS, error) {
	if dir == "" {
		return fallback, nil
	}
	path, err := resolveProjectPath(dir)
	if err != nil {
		return nil, err
	}
	return os.DirFS(path), nil
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	if filepath.IsAbs(relative) {
		if _, err := os.Stat(relative); err != nil {
			return "", fmt.Errorf("unable to locate %s: %w", relative, err)
		}
		return relative, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
