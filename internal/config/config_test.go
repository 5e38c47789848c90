// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("COOKIEGATE_UPSTREAM_URL", "http://app.internal:8080")
	t.Setenv("COOKIEGATE_MEMBERSHIP_URL", "http://admin.internal:9080")
	t.Setenv("COOKIEGATE_MEMBERSHIP_ADMIN_FILE", writeFile(t, "admin", "admin:hunter2\n"))
	t.Setenv("COOKIEGATE_AUTH_LOGIN_URI", "https://www.example.com/login")
	t.Setenv("COOKIEGATE_AUTH_HOMEPAGE_URI", "https://www.example.com/")
	t.Setenv("COOKIEGATE_AUTH_PROFILE_URI", "https://www.example.com/people/%s")
	t.Setenv("COOKIEGATE_AUTH_SECRET_FILE", writeFile(t, "secret", "s3cret\nsecond line ignored\n"))
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address != ":8000" {
		t.Errorf("server address = %q, want default :8000", cfg.Server.Address)
	}
	if cfg.Upstream.URL.String() != "http://app.internal:8080" {
		t.Errorf("upstream = %q", cfg.Upstream.URL)
	}
	if cfg.Membership.AdminName != "admin" || cfg.Membership.AdminPassword != "hunter2" {
		t.Errorf("admin = %q/%q, want admin/hunter2", cfg.Membership.AdminName, cfg.Membership.AdminPassword)
	}
	if string(cfg.Auth.Secret) != "s3cret" {
		t.Errorf("secret = %q, want first line only", cfg.Auth.Secret)
	}
	if cfg.Membership.CacheTTL != 120*time.Second {
		t.Errorf("cache TTL = %v, want default 120s", cfg.Membership.CacheTTL)
	}
	if cfg.Membership.Timeout != 10*time.Second {
		t.Errorf("membership timeout = %v, want default 10s", cfg.Membership.Timeout)
	}
}

func TestLoadRejectsBadProfileURI(t *testing.T) {
	setRequiredEnv(t)

	for _, bad := range []string{"no placeholder", "https://x/%s/%s"} {
		t.Setenv("COOKIEGATE_AUTH_PROFILE_URI", bad)
		if _, err := Load(""); err == nil {
			t.Errorf("Load accepted profile URI %q", bad)
		}
	}
}

func TestLoadRejectsBadAdminFile(t *testing.T) {
	setRequiredEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"no separator", "adminhunter2\n"},
		{"empty name", ":hunter2\n"},
		{"empty password", "admin:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COOKIEGATE_MEMBERSHIP_ADMIN_FILE", writeFile(t, "admin", tt.content))
			if _, err := Load(""); err == nil {
				t.Error("Load accepted a bad admin info file")
			} else if !strings.Contains(err.Error(), "admin info file") {
				t.Errorf("err = %v, want admin info file complaint", err)
			}
		})
	}
}

func TestLoadRejectsEmptySecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COOKIEGATE_AUTH_SECRET_FILE", writeFile(t, "secret", "\n"))

	if _, err := Load(""); err == nil {
		t.Error("Load accepted an empty secret file")
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COOKIEGATE_AUTH_LOGIN_URI", "")

	if _, err := Load(""); err == nil {
		t.Error("Load accepted a configuration without a login URI")
	}
}

func TestValidateProfileURI(t *testing.T) {
	if err := ValidateProfileURI("https://x/people/%s"); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := ValidateProfileURI("https://x/people"); err == nil {
		t.Error("template without placeholder accepted")
	}
}
