package httpapi

import (
	"time"

	"github.com/rs/zerolog"
)

// defaultMaxBodyBytes is used when Config.MaxBodyBytes is unset.
const defaultMaxBodyBytes int64 = 1 << 20

// Config configures the router and the server lifecycle.
type Config struct {
	// Addr is the listen address used by Serve, e.g. ":8080".
	Addr string
	// MaxBodyBytes bounds JSON request bodies. Zero selects 1 MiB.
	MaxBodyBytes int64
	// RAGTimeout bounds a /v1/rag request. Zero disables the extra timeout.
	RAGTimeout time.Duration
	// ShutdownTimeout is the graceful shutdown deadline. Zero selects 10s.
	ShutdownTimeout time.Duration
	// CORS is opt-in. If disabled, no CORS middleware is added.
	CORS CORSOptions
	// Version is reported by GET /version.
	Version string
	Logger  *zerolog.Logger
}

// CORSOptions mirrors the CORS section of the service configuration.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func (c *Config) applyDefaults() {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.RAGTimeout < 0 {
		c.RAGTimeout = 0
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Logger == nil {
		l := zerolog.Nop()
		c.Logger = &l
	}
}
