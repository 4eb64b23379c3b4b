// Package api provides the HTTP API server for generation, feedback, and
// history over the artifact store.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}
