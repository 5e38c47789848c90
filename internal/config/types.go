// internal/config/types.go
package config

import (
	"net/url"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	// Server holds HTTP server configuration
	Server struct {
		// Address is the address to listen on
		Address string
		// ShutdownTimeout is the maximum time to wait for a graceful shutdown
		ShutdownTimeout time.Duration
	}

	// Metrics holds metrics server configuration
	Metrics struct {
		// Address is the address to listen on for the metrics server
		Address string
	}

	// Upstream holds the wrapped application configuration
	Upstream struct {
		// URL is the upstream service base URL
		URL *url.URL
		// Timeout is the timeout for upstream responses
		Timeout time.Duration
	}

	// Membership holds remote membership service configuration
	Membership struct {
		// Server is the membership service base URL
		Server string
		// AdminName is the privileged admin username, read from the admin
		// info file at load time
		AdminName string
		// AdminPassword is the privileged admin password, read from the
		// admin info file at load time
		AdminPassword string
		// Timeout bounds each remote membership round trip
		Timeout time.Duration
		// CacheTTL is how long membership lookups stay fresh
		CacheTTL time.Duration
	}

	// Auth holds authentication filter configuration
	Auth struct {
		// LoginURI is where 401 responses are redirected
		LoginURI string
		// HomepageURI is where 403 responses are redirected
		HomepageURI string
		// ProfileURI is the member profile URL template; must contain
		// exactly one %s placeholder
		ProfileURI string
		// Secret is the cookie signing secret, read from the secret file
		// at load time
		Secret []byte
		// TrustedUserHeader names a header carrying an externally-asserted
		// username; empty disables header assertion
		TrustedUserHeader string
	}

	// Observability holds logging configuration
	Observability struct {
		// LogLevel is the logging level
		LogLevel string
	}
}
