package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Refresh  RefreshConfig  `yaml:"refresh" mapstructure:"refresh"`
	Landmark LandmarkConfig `yaml:"landmark" mapstructure:"landmark"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Notify   NotifyConfig   `yaml:"notify" mapstructure:"notify"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the watcher's data source.
type SourceConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// Timeout returns the per-request timeout.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// RefreshConfig sets the per-feed refresh periods.
type RefreshConfig struct {
	WatchIntervalSecs   int `yaml:"watch_interval_secs" mapstructure:"watch_interval_secs"`
	NewsIntervalSecs    int `yaml:"news_interval_secs" mapstructure:"news_interval_secs"`
	OutletsIntervalSecs int `yaml:"outlets_interval_secs" mapstructure:"outlets_interval_secs"`
	NotificationTTLSecs int `yaml:"notification_ttl_secs" mapstructure:"notification_ttl_secs"`
}

func (r RefreshConfig) WatchInterval() time.Duration {
	return time.Duration(r.WatchIntervalSecs) * time.Second
}

func (r RefreshConfig) NewsInterval() time.Duration {
	return time.Duration(r.NewsIntervalSecs) * time.Second
}

func (r RefreshConfig) OutletsInterval() time.Duration {
	return time.Duration(r.OutletsIntervalSecs) * time.Second
}

func (r RefreshConfig) NotificationTTL() time.Duration {
	return time.Duration(r.NotificationTTLSecs) * time.Second
}

// LandmarkConfig is the reference point distances are measured from.
type LandmarkConfig struct {
	Name      string  `yaml:"name" mapstructure:"name"`
	Latitude  float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude float64 `yaml:"longitude" mapstructure:"longitude"`
}

// StoreConfig configures the reading journal.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the local status API. Port 0 disables it.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// NotifyConfig configures notification sinks beyond the log.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PIZZAWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.base_url", "http://localhost:5000")
	v.SetDefault("source.timeout_secs", 30)
	v.SetDefault("source.user_agent", "pizzawatch/1.0")
	v.SetDefault("source.rate_per_sec", 2.0)
	v.SetDefault("source.burst", 6)
	v.SetDefault("refresh.watch_interval_secs", 300)
	v.SetDefault("refresh.news_interval_secs", 600)
	v.SetDefault("refresh.outlets_interval_secs", 300)
	v.SetDefault("refresh.notification_ttl_secs", 5)
	v.SetDefault("landmark.name", "The Pentagon")
	v.SetDefault("landmark.latitude", 38.8719)
	v.SetDefault("landmark.longitude", -77.0563)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("server.port", 8090)
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is one of "watch",
// "outlets" or "history".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "watch":
		errs = append(errs, c.validateSource()...)
		errs = append(errs, c.validateRefresh()...)
		errs = append(errs, c.validateLandmark()...)
		errs = append(errs, c.validateStore(false)...)
		if c.Server.Port < 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 0 and 65535")
		}
		if c.Notify.WebhookURL != "" && !isHTTPURL(c.Notify.WebhookURL) {
			errs = append(errs, "notify.webhook_url must be an http(s) URL")
		}
	case "outlets":
		errs = append(errs, c.validateSource()...)
		errs = append(errs, c.validateLandmark()...)
	case "history":
		errs = append(errs, c.validateStore(true)...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateSource() []string {
	var errs []string
	if !isHTTPURL(c.Source.BaseURL) {
		errs = append(errs, "source.base_url must be an http(s) URL")
	}
	if c.Source.TimeoutSecs <= 0 {
		errs = append(errs, "source.timeout_secs must be > 0")
	}
	if c.Source.RatePerSec <= 0 {
		errs = append(errs, "source.rate_per_sec must be > 0")
	}
	if c.Source.Burst < 1 {
		errs = append(errs, "source.burst must be >= 1")
	}
	return errs
}

func (c *Config) validateRefresh() []string {
	var errs []string
	if c.Refresh.WatchIntervalSecs <= 0 {
		errs = append(errs, "refresh.watch_interval_secs must be > 0")
	}
	if c.Refresh.NewsIntervalSecs <= 0 {
		errs = append(errs, "refresh.news_interval_secs must be > 0")
	}
	if c.Refresh.OutletsIntervalSecs <= 0 {
		errs = append(errs, "refresh.outlets_interval_secs must be > 0")
	}
	if c.Refresh.NotificationTTLSecs <= 0 {
		errs = append(errs, "refresh.notification_ttl_secs must be > 0")
	}
	return errs
}

func (c *Config) validateLandmark() []string {
	var errs []string
	if c.Landmark.Latitude < -90 || c.Landmark.Latitude > 90 {
		errs = append(errs, "landmark.latitude must be between -90 and 90")
	}
	if c.Landmark.Longitude < -180 || c.Landmark.Longitude > 180 {
		errs = append(errs, "landmark.longitude must be between -180 and 180")
	}
	return errs
}

func (c *Config) validateStore(required bool) []string {
	switch strings.ToLower(c.Store.Driver) {
	case "", "none":
		if required {
			return []string{"store.driver must be sqlite or postgres"}
		}
		return nil
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
		return nil
	default:
		return []string{"store.driver must be none, sqlite or postgres"}
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
