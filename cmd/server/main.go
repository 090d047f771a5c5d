package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/hello-site/internal/application"
	"github.com/eugenenazirov/hello-site/internal/config"
	"github.com/eugenenazirov/hello-site/internal/logging"
)

// version is set during build using ldflags.
var version = "dev"

var signalNotify = signal.Notify

func main() {
	overrides, err := parseFlags(os.Args[1:])
	kingpin.FatalIfError(err, "invalid arguments")

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Servers(), cfg.ShutdownGracePeriod, logger)
}

func newCLI() *kingpin.Application {
	return kingpin.New("hello-site", "Hello Site - serves the rendered index page").Version(version)
}

// parseFlags maps command-line flags onto config overrides. Unset flags stay
// nil so lower-precedence sources keep their values.
func parseFlags(args []string) (*config.CLIOverrides, error) {
	cli := newCLI()
	configFile := cli.Flag("config", "Path to YAML configuration file").String()
	envFile := cli.Flag("env-file", "Path to a .env file with environment defaults").String()
	port := cli.Flag("port", "HTTP port exposed by the service").String()
	templatesDir := cli.Flag("templates-dir", "Directory holding page templates (default: embedded)").String()
	staticDir := cli.Flag("static-dir", "Directory holding static assets (default: embedded)").String()
	ginMode := cli.Flag("gin-mode", "Router mode").Enum("debug", "release", "test")
	logLevel := cli.Flag("log-level", "Minimum log level").String()
	metricsAddr := cli.Flag("metrics-addr", "Listen address for Prometheus metrics (disabled when empty)").String()
	rateLimitRPS := cli.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurst := cli.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	if _, err := cli.Parse(args); err != nil {
		return nil, err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		EnvFile:    *envFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *templatesDir != "" {
		overrides.TemplatesDir = templatesDir
	}

	if *staticDir != "" {
		overrides.StaticDir = staticDir
	}

	if *ginMode != "" {
		overrides.GinMode = ginMode
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *metricsAddr != "" {
		overrides.MetricsAddr = metricsAddr
	}

	if *rateLimitRPS >= 0 {
		overrides.RateLimitRPS = rateLimitRPS
	}

	if *rateLimitBurst >= 0 {
		overrides.RateLimitBurst = rateLimitBurst
	}

	return overrides, nil
}

func shutdown(servers []*http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.String("addr", server.Addr), zap.Error(err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("forced close failed", zap.String("addr", server.Addr), zap.Error(closeErr))
			}
		}
	}
}
