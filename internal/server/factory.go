// internal/server/factory.go
package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	"cookiegate/internal/config"
	"cookiegate/internal/filter"
	"cookiegate/internal/membership"
	"cookiegate/internal/observability"
	"cookiegate/internal/observability/logging"

	"github.com/gorilla/mux"
)

// NewFromConfig creates a new server from configuration
func NewFromConfig(cfg *config.Config) (*Server, error) {
	// Initialize observability
	obs, err := observability.NewProvider(cfg.Observability.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	// Initialize the membership client
	membershipClient := membership.New(membership.Config{
		Server: cfg.Membership.Server,
		Admin: membership.Credentials{
			Name:     cfg.Membership.AdminName,
			Password: cfg.Membership.AdminPassword,
		},
		Timeout:  cfg.Membership.Timeout,
		CacheTTL: cfg.Membership.CacheTTL,
	}, logger, obs.Metrics)

	logger.Info("Membership service configured",
		"server", logging.RedactStringURL(cfg.Membership.Server),
		"admin", cfg.Membership.AdminName,
		"cache_ttl", cfg.Membership.CacheTTL,
	)

	// The wrapped application is the upstream service behind a reverse proxy.
	proxy := httputil.NewSingleHostReverseProxy(cfg.Upstream.URL)
	proxy.Transport = &http.Transport{
		ResponseHeaderTimeout: cfg.Upstream.Timeout,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// Wrap the proxy in the authentication filter
	authFilter, err := filter.New(filter.Config{
		Secret:            cfg.Auth.Secret,
		LoginURI:          cfg.Auth.LoginURI,
		HomepageURI:       cfg.Auth.HomepageURI,
		ProfileURI:        cfg.Auth.ProfileURI,
		TrustedUserHeader: cfg.Auth.TrustedUserHeader,
	}, membershipClient, proxy, logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authentication filter: %w", err)
	}

	// Main router: liveness endpoint plus everything else through the filter
	router := mux.NewRouter()
	router.Path("/healthz").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.PathPrefix("/").Handler(authFilter)

	// Metrics router
	metricsRouter := mux.NewRouter()
	metricsRouter.Path("/metrics").Handler(obs.MetricsHandler())

	serverConfig := Config{
		Address:         cfg.Server.Address,
		MetricsAddress:  cfg.Metrics.Address,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	// Complete middleware chain: observability -> filter -> upstream proxy
	handler := obs.Middleware(router)

	return New(serverConfig, handler, metricsRouter, logger), nil
}
