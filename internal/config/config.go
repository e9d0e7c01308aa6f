package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Tracing    TracingConfig `mapstructure:"tracing"`
	Redis      RedisConfig
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Diagnostic DiagnosticConfig `mapstructure:"diagnostic"`

	// set from command line flags, not from the config file
	MigrateOnly bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	TemplateTTL time.Duration `mapstructure:"template_ttl"`
	ContentTTL  time.Duration `mapstructure:"content_ttl"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

// ThresholdConfig holds the lower bounds (inclusive) of the basic,
// intermediate and advanced maturity bands.
type ThresholdConfig struct {
	Basic        float64 `mapstructure:"basic"`
	Intermediate float64 `mapstructure:"intermediate"`
	Advanced     float64 `mapstructure:"advanced"`
}

type DiagnosticConfig struct {
	Thresholds          ThresholdConfig `mapstructure:"thresholds"`
	RecommendationsFile string          `mapstructure:"recommendations_file"`
	ContentPerArea      int             `mapstructure:"content_per_area"`
	ContentFallback     int             `mapstructure:"content_fallback"`
	PlanAreasPerLevel   int             `mapstructure:"plan_areas_per_level"`
	PlanContentPerStep  int             `mapstructure:"plan_content_per_step"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("tracing.service_name", "bizdiag-backend")
	v.SetDefault("cache.template_ttl", "10m")
	v.SetDefault("cache.content_ttl", "5m")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("rate_limit.max_requests", 300)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("diagnostic.thresholds.basic", 40)
	v.SetDefault("diagnostic.thresholds.intermediate", 60)
	v.SetDefault("diagnostic.thresholds.advanced", 80)
	v.SetDefault("diagnostic.content_per_area", 5)
	v.SetDefault("diagnostic.content_fallback", 3)
	v.SetDefault("diagnostic.plan_areas_per_level", 2)
	v.SetDefault("diagnostic.plan_content_per_step", 2)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BIZDIAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	t := c.Diagnostic.Thresholds
	if !(0 < t.Basic && t.Basic < t.Intermediate && t.Intermediate < t.Advanced && t.Advanced <= 100) {
		return fmt.Errorf("diagnostic thresholds must be strictly increasing within (0,100], got %v/%v/%v",
			t.Basic, t.Intermediate, t.Advanced)
	}
	if c.Diagnostic.ContentPerArea <= 0 || c.Diagnostic.ContentFallback <= 0 {
		return fmt.Errorf("diagnostic content limits must be positive")
	}
	if c.Diagnostic.PlanAreasPerLevel <= 0 || c.Diagnostic.PlanContentPerStep <= 0 {
		return fmt.Errorf("diagnostic plan limits must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.Charset, c.ParseTime)
}
