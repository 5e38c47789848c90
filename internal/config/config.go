// internal/config/config.go
package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from all sources and returns the merged
// result. Credential and secret files are read here so that a bad deployment
// fails at startup, never at request time.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	Settings.PopulateViperDefaults(v)

	// Set up environment variable handling
	v.SetEnvPrefix("COOKIEGATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Load from config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	config := &Config{}

	// Populate server configuration
	config.Server.Address = v.GetString("SERVER_ADDR")
	shutdownTimeout, err := time.ParseDuration(v.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	config.Server.ShutdownTimeout = shutdownTimeout

	// Populate metrics configuration
	config.Metrics.Address = v.GetString("METRICS_ADDR")

	// Populate upstream configuration
	upstreamURL, err := url.Parse(v.GetString("UPSTREAM_URL"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}
	config.Upstream.URL = upstreamURL

	upstreamTimeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream timeout: %w", err)
	}
	config.Upstream.Timeout = upstreamTimeout

	// Populate membership configuration
	config.Membership.Server = v.GetString("MEMBERSHIP_URL")

	membershipTimeout, err := time.ParseDuration(v.GetString("MEMBERSHIP_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid membership timeout: %w", err)
	}
	config.Membership.Timeout = membershipTimeout

	cacheTTL, err := time.ParseDuration(v.GetString("MEMBERSHIP_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid membership cache TTL: %w", err)
	}
	config.Membership.CacheTTL = cacheTTL

	if adminFile := v.GetString("MEMBERSHIP_ADMIN_FILE"); adminFile != "" {
		name, password, err := readAdminInfo(adminFile)
		if err != nil {
			return nil, err
		}
		config.Membership.AdminName = name
		config.Membership.AdminPassword = password
	}

	// Populate authentication configuration
	config.Auth.LoginURI = v.GetString("AUTH_LOGIN_URI")
	config.Auth.HomepageURI = v.GetString("AUTH_HOMEPAGE_URI")
	config.Auth.ProfileURI = v.GetString("AUTH_PROFILE_URI")
	config.Auth.TrustedUserHeader = v.GetString("AUTH_TRUSTED_USER_HEADER")

	if secretFile := v.GetString("AUTH_SECRET_FILE"); secretFile != "" {
		secret, err := readSecret(secretFile)
		if err != nil {
			return nil, err
		}
		config.Auth.Secret = secret
	}

	// Populate observability configuration
	config.Observability.LogLevel = v.GetString("LOG_LEVEL")

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig performs validation on the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Upstream.URL == nil || cfg.Upstream.URL.String() == "" {
		return fmt.Errorf("upstream URL is required")
	}

	if cfg.Membership.Server == "" {
		return fmt.Errorf("membership service URL is required")
	}
	if _, err := url.Parse(cfg.Membership.Server); err != nil {
		return fmt.Errorf("invalid membership service URL: %w", err)
	}
	if cfg.Membership.AdminName == "" {
		return fmt.Errorf("membership admin info file is required")
	}

	if cfg.Auth.LoginURI == "" {
		return fmt.Errorf("login URI is required")
	}
	if cfg.Auth.HomepageURI == "" {
		return fmt.Errorf("homepage URI is required")
	}
	if err := ValidateProfileURI(cfg.Auth.ProfileURI); err != nil {
		return err
	}
	if len(cfg.Auth.Secret) == 0 {
		return fmt.Errorf("cookie signing secret is required")
	}

	return nil
}

// ValidateProfileURI checks that the member profile URL template carries
// exactly one %s substitution placeholder.
func ValidateProfileURI(profileURI string) error {
	if strings.Count(profileURI, "%s") != 1 {
		return fmt.Errorf("badly formatted profile URI %q: must include a single %%s", profileURI)
	}
	return nil
}

// readAdminInfo reads and parses an admin_username:admin_password file.
func readAdminInfo(path string) (name, password string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading admin info file: %w", err)
	}

	name, password, ok := strings.Cut(strings.TrimSpace(string(raw)), ":")
	if !ok || name == "" || password == "" {
		return "", "", fmt.Errorf("bad format in admin info file %s: want admin_username:admin_password", path)
	}
	return name, password, nil
}

// readSecret reads the cookie signing secret: the first line of the file,
// trimmed.
func readSecret(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading secret file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading secret file: %w", err)
		}
		return nil, fmt.Errorf("secret file %s is empty", path)
	}

	secret := strings.TrimSpace(scanner.Text())
	if secret == "" {
		return nil, fmt.Errorf("secret file %s is empty", path)
	}
	return []byte(secret), nil
}
