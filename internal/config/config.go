package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"skyblock-prices/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logging     logging.Config    `mapstructure:"logging"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Hypixel     HypixelConfig     `mapstructure:"hypixel"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Spikes      SpikesConfig      `mapstructure:"spikes"`
	Alerting    AlertingConfig    `mapstructure:"alerting"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Export      ExportConfig      `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SchedulerConfig governs polling cadence.
type SchedulerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
}

// HypixelConfig covers upstream feed access.
type HypixelConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	PageConcurrency int           `mapstructure:"page_concurrency"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
}

// CatalogConfig locates the item catalog file.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// DiagnosticsConfig controls the skipped-name dump.
type DiagnosticsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	AuctionDumpPath string `mapstructure:"auction_dump_path"`
}

// SpikeViewConfig parameterises one ranking view.
type SpikeViewConfig struct {
	BaselineCount int `mapstructure:"baseline_count"`
	TopK          int `mapstructure:"top_k"`
}

// SpikesConfig holds both ranking views and the shared recency window.
type SpikesConfig struct {
	RecencyWindow time.Duration   `mapstructure:"recency_window"`
	Alert         SpikeViewConfig `mapstructure:"alert"`
	Movers        SpikeViewConfig `mapstructure:"movers"`
}

// AlertingConfig defines alert thresholds and routing.
type AlertingConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	ThresholdPct float64        `mapstructure:"threshold_pct"`
	Channels     []string       `mapstructure:"channels"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// MetricsConfig toggles the Prometheus listener.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SBWATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sbwatcher")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("scheduler.interval", "1h")
	v.SetDefault("scheduler.align_to_bucket", false)
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("hypixel.base_url", "https://api.hypixel.net/v2")
	v.SetDefault("hypixel.page_concurrency", 10)
	v.SetDefault("hypixel.request_timeout", "10s")
	v.SetDefault("hypixel.user_agent", "sbwatcher/1.0")

	v.SetDefault("catalog.path", "items.json")

	v.SetDefault("diagnostics.enabled", true)
	v.SetDefault("diagnostics.auction_dump_path", "skipped_items_auction.json")

	v.SetDefault("spikes.recency_window", "2h")
	v.SetDefault("spikes.alert.baseline_count", 5)
	v.SetDefault("spikes.alert.top_k", 5)
	v.SetDefault("spikes.movers.baseline_count", 100)
	v.SetDefault("spikes.movers.top_k", 20)

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.threshold_pct", 20.0)
	v.SetDefault("alerting.channels", []string{"telegram"})
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", ":9109")

	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
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

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Hypixel.PageConcurrency <= 0 {
		return fmt.Errorf("hypixel.page_concurrency must be greater than zero")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if c.Spikes.RecencyWindow <= 0 {
		return fmt.Errorf("spikes.recency_window must be greater than zero")
	}
	if c.Spikes.Alert.BaselineCount <= 0 || c.Spikes.Movers.BaselineCount <= 0 {
		return fmt.Errorf("spikes baseline_count must be greater than zero")
	}
	if c.Spikes.Alert.TopK <= 0 || c.Spikes.Movers.TopK <= 0 {
		return fmt.Errorf("spikes top_k must be greater than zero")
	}
	if c.Alerting.ThresholdPct < 0 {
		return fmt.Errorf("alerting.threshold_pct cannot be negative")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token 必须配置")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id 必须配置")
		}
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
