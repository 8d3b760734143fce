package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// supportedIntervals are the aggregation buckets the candle pipeline accepts.
var supportedIntervals = map[time.Duration]bool{
	time.Second:      true,
	5 * time.Second:  true,
	10 * time.Second: true,
	30 * time.Second: true,
	time.Minute:      true,
	5 * time.Minute:  true,
	15 * time.Minute: true,
	time.Hour:        true,
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Feed struct {
		WebSocketURL      string        `yaml:"websocket_url"`
		APIKey            string        `yaml:"api_key"`
		Symbols           []string      `yaml:"symbols"`
		HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
		PongTimeout       time.Duration `yaml:"pong_timeout"`
		BackoffBase       time.Duration `yaml:"backoff_base"`
		BackoffCap        time.Duration `yaml:"backoff_cap"`
		MaxReconnects     int           `yaml:"max_reconnects"`
	} `yaml:"feed"`
	Aggregation struct {
		Interval   time.Duration `yaml:"interval"`
		BufferSize int           `yaml:"buffer_size"`
	} `yaml:"aggregation"`
	Signals struct {
		Interval           time.Duration `yaml:"interval"` // generation cycle period
		TTL                time.Duration `yaml:"ttl"`
		MaxActivePerSymbol int           `yaml:"max_active_per_symbol"`
		MinScore           float64       `yaml:"min_score"`
		ConfidenceMin      float64       `yaml:"confidence_min"`
		ConfidenceMax      float64       `yaml:"confidence_max"`
		Weights            struct {
			WinRate float64 `yaml:"win_rate"`
			Score   float64 `yaml:"score"`
			Regime  float64 `yaml:"regime"`
			Sharpe  float64 `yaml:"sharpe"`
		} `yaml:"weights"`
	} `yaml:"signals"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		CandleTopic  string   `yaml:"candle_topic"`
		SignalTopic  string   `yaml:"signal_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		Table        string        `yaml:"table"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"redis"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Load reads and parses a YAML configuration file, applies defaults,
// and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Feed.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("FEED_WS_URL"); v != "" {
		c.Feed.WebSocketURL = v
	}
	if v := os.Getenv("FEED_API_KEY"); v != "" {
		c.Feed.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Feed.HeartbeatInterval == 0 {
		c.Feed.HeartbeatInterval = 30 * time.Second
	}
	if c.Feed.PongTimeout == 0 {
		c.Feed.PongTimeout = 10 * time.Second
	}
	if c.Feed.BackoffBase == 0 {
		c.Feed.BackoffBase = time.Second
	}
	if c.Feed.BackoffCap == 0 {
		c.Feed.BackoffCap = time.Minute
	}
	if c.Feed.MaxReconnects == 0 {
		c.Feed.MaxReconnects = 10
	}
	if c.Aggregation.Interval == 0 {
		c.Aggregation.Interval = time.Minute
	}
	if c.Aggregation.BufferSize == 0 {
		c.Aggregation.BufferSize = 10000
	}
	if c.Signals.Interval == 0 {
		c.Signals.Interval = 5 * time.Minute
	}
	if c.Signals.TTL == 0 {
		c.Signals.TTL = 8 * time.Hour
	}
	if c.Signals.MaxActivePerSymbol == 0 {
		c.Signals.MaxActivePerSymbol = 2
	}
	if c.Signals.MinScore == 0 {
		c.Signals.MinScore = 0.3
	}
	if c.Signals.ConfidenceMin == 0 {
		c.Signals.ConfidenceMin = 25
	}
	if c.Signals.ConfidenceMax == 0 {
		c.Signals.ConfidenceMax = 85
	}
	if c.Signals.Weights.WinRate == 0 {
		c.Signals.Weights.WinRate = 40
	}
	if c.Signals.Weights.Score == 0 {
		c.Signals.Weights.Score = 30
	}
	if c.Signals.Weights.Regime == 0 {
		c.Signals.Weights.Regime = 20
	}
	if c.Signals.Weights.Sharpe == 0 {
		c.Signals.Weights.Sharpe = 10
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 15 * time.Second
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "candles"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid. Invalid configuration
// is the only hard failure in the system; everything past startup
// degrades instead of stopping.
func (c *Config) Validate() error {
	if len(c.Feed.Symbols) == 0 {
		return fmt.Errorf("feed.symbols cannot be empty")
	}
	if !supportedIntervals[c.Aggregation.Interval] {
		return fmt.Errorf("aggregation.interval %s is not supported", c.Aggregation.Interval)
	}
	if c.Feed.BackoffBase > c.Feed.BackoffCap {
		return fmt.Errorf("feed.backoff_base must not exceed feed.backoff_cap")
	}
	if c.Feed.MaxReconnects < 1 {
		return fmt.Errorf("feed.max_reconnects must be at least 1")
	}
	if c.Signals.TTL <= 0 {
		return fmt.Errorf("signals.ttl must be positive")
	}
	if c.Signals.MaxActivePerSymbol < 1 {
		return fmt.Errorf("signals.max_active_per_symbol must be at least 1")
	}
	if c.Signals.ConfidenceMin >= c.Signals.ConfidenceMax {
		return fmt.Errorf("signals.confidence_min must be below confidence_max")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host required when clickhouse is enabled")
	}
	return nil
}
