// internal/config/settings.go
package config

import "github.com/spf13/viper"

// SettingType represents the type of a setting
type SettingType string

const (
	// String type for string settings
	String SettingType = "string"
	// Bool type for boolean settings
	Bool SettingType = "bool"
)

// Setting defines a configuration setting
type Setting struct {
	// Name is the name of the setting
	Name string
	// Short is a short description of the setting
	Short string
	// Type is the type of the setting
	Type SettingType
	// Default is the default value of the setting
	Default interface{}
	// Env is the environment variable name for the setting
	Env string
	// Required indicates whether the setting is required
	Required bool
}

// SettingList is a list of settings
type SettingList []Setting

// PopulateViperDefaults sets default values for all settings in Viper
func (sl SettingList) PopulateViperDefaults(v *viper.Viper) {
	for _, s := range sl {
		v.SetDefault(s.Name, s.Default)
	}
}

// Settings defines all application settings
var Settings = SettingList{
	// Server settings
	{
		Name:    "SERVER_ADDR",
		Short:   "Address on which the server listens",
		Type:    String,
		Default: ":8000",
		Env:     "SERVER_ADDR",
	},
	{
		Name:    "METRICS_ADDR",
		Short:   "Address on which the metrics server listens",
		Type:    String,
		Default: ":9090",
		Env:     "METRICS_ADDR",
	},
	{
		Name:    "SHUTDOWN_TIMEOUT",
		Short:   "Maximum time to wait for graceful shutdown",
		Type:    String,
		Default: "30s",
		Env:     "SHUTDOWN_TIMEOUT",
	},

	// Upstream settings
	{
		Name:     "UPSTREAM_URL",
		Short:    "URL of the wrapped application",
		Type:     String,
		Default:  "",
		Env:      "UPSTREAM_URL",
		Required: true,
	},
	{
		Name:    "UPSTREAM_TIMEOUT",
		Short:   "Timeout for upstream responses",
		Type:    String,
		Default: "30s",
		Env:     "UPSTREAM_TIMEOUT",
	},

	// Membership service settings
	{
		Name:     "MEMBERSHIP_URL",
		Short:    "Base URL of the remote membership service",
		Type:     String,
		Default:  "",
		Env:      "MEMBERSHIP_URL",
		Required: true,
	},
	{
		Name:     "MEMBERSHIP_ADMIN_FILE",
		Short:    "Path to a file holding admin_username:admin_password",
		Type:     String,
		Default:  "",
		Env:      "MEMBERSHIP_ADMIN_FILE",
		Required: true,
	},
	{
		Name:    "MEMBERSHIP_TIMEOUT",
		Short:   "Timeout for membership service round trips",
		Type:    String,
		Default: "10s",
		Env:     "MEMBERSHIP_TIMEOUT",
	},
	{
		Name:    "MEMBERSHIP_CACHE_TTL",
		Short:   "How long membership lookups stay fresh",
		Type:    String,
		Default: "120s",
		Env:     "MEMBERSHIP_CACHE_TTL",
	},

	// Authentication settings
	{
		Name:     "AUTH_LOGIN_URI",
		Short:    "Login page URI for 401 redirects",
		Type:     String,
		Default:  "",
		Env:      "AUTH_LOGIN_URI",
		Required: true,
	},
	{
		Name:     "AUTH_HOMEPAGE_URI",
		Short:    "Homepage URI for 403 redirects",
		Type:     String,
		Default:  "",
		Env:      "AUTH_HOMEPAGE_URI",
		Required: true,
	},
	{
		Name:     "AUTH_PROFILE_URI",
		Short:    "Member profile URL template with a single %s placeholder",
		Type:     String,
		Default:  "",
		Env:      "AUTH_PROFILE_URI",
		Required: true,
	},
	{
		Name:     "AUTH_SECRET_FILE",
		Short:    "Path to a file whose first line is the cookie signing secret",
		Type:     String,
		Default:  "",
		Env:      "AUTH_SECRET_FILE",
		Required: true,
	},
	{
		Name:    "AUTH_TRUSTED_USER_HEADER",
		Short:   "Header carrying an externally-asserted username (empty disables)",
		Type:    String,
		Default: "",
		Env:     "AUTH_TRUSTED_USER_HEADER",
	},

	// Observability
	{
		Name:    "LOG_LEVEL",
		Short:   "Logging level",
		Type:    String,
		Default: "info",
		Env:     "LOG_LEVEL",
	},
}
