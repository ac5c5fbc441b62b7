package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DevelopmentOrigin is the only origin allowed outside production.
const DevelopmentOrigin = "http://localhost:3000"

const defaultPort = "5000"

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Email         EmailConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port       string
	GinMode    string
	AppEnv     string
	SiteOrigin string
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnectAttempts int
}

type EmailConfig struct {
	Service     string
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	To          string
	CompanyName string
}

type CacheConfig struct {
	ContactsTTLSeconds int // 0 disables the contacts list cache
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("DB_CONNECT_ATTEMPTS", 3)
	v.SetDefault("EMAIL_PORT", 0) // 0 = take the port from EMAIL_SERVICE
	v.SetDefault("COMPANY_NAME", "Your Company")
	v.SetDefault("CONTACTS_CACHE_TTL", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "logistics-site-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "logistics-site")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "logistics-site-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:       v.GetString("PORT"),
			GinMode:    v.GetString("GIN_MODE"),
			AppEnv:     v.GetString("APP_ENV"),
			SiteOrigin: v.GetString("SITE_ORIGIN"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxConns:        v.GetInt32("DB_MAX_CONNS"),
			MinConns:        v.GetInt32("DB_MIN_CONNS"),
			ConnectAttempts: v.GetInt("DB_CONNECT_ATTEMPTS"),
		},
		Email: EmailConfig{
			Service:     v.GetString("EMAIL_SERVICE"),
			Host:        v.GetString("EMAIL_HOST"),
			Port:        v.GetInt("EMAIL_PORT"),
			User:        v.GetString("EMAIL_USER"),
			Password:    v.GetString("EMAIL_PASS"),
			From:        v.GetString("EMAIL_FROM"),
			To:          v.GetString("EMAIL_TO"),
			CompanyName: v.GetString("COMPANY_NAME"),
		},
		Cache: CacheConfig{
			ContactsTTLSeconds: v.GetInt("CONTACTS_CACHE_TTL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultPort
	}
	if cfg.Database.ConnectAttempts < 1 {
		cfg.Database.ConnectAttempts = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// Problems lists settings that leave a feature degraded. None of them stop
// the service; main logs each one at startup.
func (c *Config) Problems() []string {
	var problems []string

	if c.IsProduction() && c.Server.SiteOrigin == "" {
		problems = append(problems, "SITE_ORIGIN is not set in production; cross-origin requests will be rejected")
	}

	if c.Email.Service == "" && c.Email.Host == "" {
		problems = append(problems, "EMAIL_SERVICE or EMAIL_HOST is not set; notifications cannot be sent")
	}
	if c.Email.To == "" {
		problems = append(problems, "EMAIL_TO is not set; notifications cannot be sent")
	}
	if c.Email.From == "" {
		problems = append(problems, "EMAIL_FROM is not set; notifications cannot be sent")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		problems = append(problems, "O11Y_PROFILING_ENDPOINT is not set; profiling stays off")
	}

	return problems
}

// AllowedOrigin returns the single origin permitted by CORS
func (c *Config) AllowedOrigin() string {
	if c.IsProduction() {
		return strings.TrimRight(c.Server.SiteOrigin, "/")
	}
	return DevelopmentOrigin
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
