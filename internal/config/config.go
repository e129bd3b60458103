// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blog/internal/middleware"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port string `mapstructure:"PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags    string `mapstructure:"FEATURE_FLAGS"`
	RateLimitWrites int    `mapstructure:"RATE_LIMIT_WRITES"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

var keys = map[string]any{
	"APP_ENV":              "development",
	"PORT":                 "8080",
	"DB_DRIVER":            DriverPostgres,
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "user",
	"DB_PASSWORD":          "password",
	"DB_NAME":              "blog",
	"DB_SSLMODE":           "disable",
	"SQLITE_PATH":          "blog.db",
	"MONGO_URI":            "mongodb://localhost:27017",
	"MONGO_DATABASE":       "blog",
	"REDIS_URL":            "localhost:6379",
	"JWT_SECRET":           defaultJWTSecret,
	"JWT_TTL":              "168h",
	"ALLOWED_ORIGINS":      "http://localhost:5173,http://localhost:3000",
	"FEATURE_FLAGS":        "",
	"RATE_LIMIT_WRITES":    30,
	"TRACING_ENABLED":      false,
	"TRACING_EXPORTER":     "stdout",
	"OTLP_ENDPOINT":        "localhost:4318",
	"TRACING_SAMPLE_RATIO": 1.0,
}

// LoadConfig reads .env (if present), config.yml, the optional config.<env>.yml
// profile and the environment, in increasing precedence.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables always win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	for k, def := range keys {
		v.SetDefault(k, def)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config.yml: %w", err)
		}
	}

	env := v.GetString("APP_ENV")
	if env != "development" && env != "" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config.%s.yml: %w", env, err)
			}
		} else {
			middleware.Logger.Info("Loaded profile-specific configuration", slog.String("file", "config."+env+".yml"))
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.DBDriver = strings.ToLower(strings.TrimSpace(config.DBDriver))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// IsProduction reports whether the app runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Origins returns ALLOWED_ORIGINS as a trimmed list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == DriverPostgres && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBDriver == DriverSQLite {
			middleware.Logger.Warn("DB_DRIVER is sqlite in production")
		}
		if c.DBDriver == DriverPostgres && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			middleware.Logger.Warn("DB_SSLMODE is 'disable' in production")
		}
		if c.AllowedOrigins == "*" {
			middleware.Logger.Warn("ALLOWED_ORIGINS is '*' in production")
		}
	} else if len(c.JWTSecret) < 32 {
		middleware.Logger.Warn("JWT_SECRET is shorter than 32 characters")
	}

	return nil
}
