// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, an optional .env file, CLI flags) with precedence:
// CLI flags > Environment variables > YAML config > Defaults. It exposes
// strongly typed settings, including the application secret key, to the rest
// of the application.
package config
