// Package application provides the application factory and dependency wiring.
// New builds the gin engine and middleware, stores the secret key setting,
// and attaches route collections inside a scoped application Context, making
// the main package cleaner and more focused on CLI parsing and orchestration.
package application
