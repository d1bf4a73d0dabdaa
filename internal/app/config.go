package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvironmentProduction forbids the development signing secret.
const EnvironmentProduction = "production"

// Config represents the runtime configuration for the verification service.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Verification VerificationConfig `mapstructure:"verification"`
	Admin        AdminConfig        `mapstructure:"admin"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
	Render       RenderConfig       `mapstructure:"render"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	LogLevel    string `mapstructure:"log_level"`
	Environment string `mapstructure:"environment"`
}

// IsProduction reports whether the server runs with production safeguards.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvironmentProduction)
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string        `mapstructure:"driver"`
	Path     string        `mapstructure:"path"`
	DSN      string        `mapstructure:"dsn"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Postgres DBAuthConfig  `mapstructure:"postgres"`
	MySQL    DBAuthConfig  `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// VerificationConfig controls credential issuance and the public verify endpoints.
type VerificationConfig struct {
	Secret    string        `mapstructure:"secret"`
	BaseURL   string        `mapstructure:"base_url"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Mode      string        `mapstructure:"mode"`
	RateLimit int           `mapstructure:"rate_limit"`
}

// AdminConfig configures bearer authentication of the admin API.
type AdminConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	AuthEnabled bool          `mapstructure:"auth_enabled"`
}

// CacheConfig describes cache backends.
type CacheConfig struct {
	Redis RedisCacheConfig `mapstructure:"redis"`
}

// RedisCacheConfig holds Redis connection options.
type RedisCacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// RenderConfig sizes rendered credentials.
type RenderConfig struct {
	QRSize int `mapstructure:"qr_size"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("STAFFVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, fmt.Errorf("config: bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "development")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/registry.sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.timeout", "5s")
	for _, engine := range []string{"postgres", "mysql"} {
		v.SetDefault("database."+engine+".host", "")
		v.SetDefault("database."+engine+".port", 0)
		v.SetDefault("database."+engine+".database", "")
		v.SetDefault("database."+engine+".username", "")
		v.SetDefault("database."+engine+".password", "")
	}

	v.SetDefault("verification.secret", "")
	v.SetDefault("verification.base_url", "http://localhost:3000/verify")
	v.SetDefault("verification.token_ttl", "720h") // 30 days
	v.SetDefault("verification.mode", "token")
	v.SetDefault("verification.rate_limit", 60)

	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.issuer", "staffverify")
	v.SetDefault("admin.token_ttl", "12h")
	v.SetDefault("admin.auth_enabled", true)

	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.url", "redis://127.0.0.1:6379/0")
	v.SetDefault("cache.redis.timeout", "5s")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)

	v.SetDefault("render.qr_size", 256)
}

// bindLegacyEnv keeps the variable names older deployments already export.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":           {"STAFFVERIFY_SERVER_PORT", "PORT"},
		"verification.base_url": {"STAFFVERIFY_VERIFICATION_BASE_URL", "BASE_VERIFY_URL"},
		"verification.secret":   {"STAFFVERIFY_VERIFICATION_SECRET", "SECRET"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
