// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
// Two distinct secrets are required at process start: one signs access
// tokens, the other refresh tokens.
type AuthConfig struct {
	AccessTokenSecret  string `mapstructure:"access_token_secret"  validate:"required,min=32"`
	RefreshTokenSecret string `mapstructure:"refresh_token_secret" validate:"required,min=32"`

	// AccessTokenLifetimeMinutes is the validity window of access tokens.
	AccessTokenLifetimeMinutes int `mapstructure:"access_token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the validity window of refresh tokens.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshCookieMaxAgeDays controls the Max-Age of the refresh cookie.
	// May exceed the refresh token lifetime; an expired token inside a live
	// cookie is rejected at validation.
	RefreshCookieMaxAgeDays int `mapstructure:"refresh_cookie_max_age_days" validate:"required,gt=0"`

	// LoginRateLimit is the number of login attempts allowed per client IP
	// within LoginRateWindowSeconds.
	LoginRateLimit         int `mapstructure:"login_rate_limit"          validate:"required,gt=0"`
	LoginRateWindowSeconds int `mapstructure:"login_rate_window_seconds" validate:"required,gt=0"`

	// BcryptCost is the work factor for password hashing. Zero selects the
	// library default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}
