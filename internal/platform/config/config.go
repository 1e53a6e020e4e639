package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConnectAttempts = 5
	defaultConnectDelay    = time.Second
	defaultCacheSize       = 10_000
	defaultLogLevel        = "info"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnectAttempts    int           `yaml:"connect_attempts"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnectDelay       time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
	ConnectDelayRaw    string        `yaml:"connect_delay"`
}

// CacheConfig は KPI レコードのプロセス内キャッシュ設定です。TTL が 0 の場合は無効です。
type CacheConfig struct {
	Size   int           `yaml:"size"`
	TTL    time.Duration `yaml:"-"`
	TTLRaw string        `yaml:"ttl"`
}

// Enabled はキャッシュを利用するかを返します。
func (c CacheConfig) Enabled() bool {
	return c.TTL > 0
}

// LoggingConfig はログ出力の設定です。
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// PathFromEnv は CONFIG_PATH 環境変数、なければ既定のパスを返します。
func PathFromEnv() string {
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Cache.validateAndNormalize(); err != nil {
		return err
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.ConnectAttempts < 0 {
		return fmt.Errorf("config: database.connect_attempts must not be negative")
	}
	if d.ConnectAttempts == 0 {
		d.ConnectAttempts = defaultConnectAttempts
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	delay, err := parseDurationAllowEmpty(d.ConnectDelayRaw)
	if err != nil {
		return fmt.Errorf("config: database.connect_delay: %w", err)
	}
	if delay == 0 {
		delay = defaultConnectDelay
	}
	d.ConnectDelay = delay

	return nil
}

func (c *CacheConfig) validateAndNormalize() error {
	if c.Size < 0 {
		return fmt.Errorf("config: cache.size must not be negative")
	}
	if c.Size == 0 {
		c.Size = defaultCacheSize
	}

	ttl, err := parseDurationAllowEmpty(c.TTLRaw)
	if err != nil {
		return fmt.Errorf("config: cache.ttl: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("config: cache.ttl must not be negative")
	}
	c.TTL = ttl

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
