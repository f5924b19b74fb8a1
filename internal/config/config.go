package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout"`
}

func (s ServerConfig) Address() string { return s.Host + ":" + strconv.FormatInt(int64(s.Port), 10) }

// Driver: mysql | postgres
type DatabaseConfig struct {
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	MaxOpenConns   int    `yaml:"max_open_conns"`
	MaxIdleConns   int    `yaml:"max_idle_conns"`
	ConnMaxLifeSec int    `yaml:"conn_max_lifetime"`
}

// Mode: single | cluster | sentinel
type RedisConfig struct {
	Mode           string   `yaml:"mode"`
	Addresses      []string `yaml:"addresses"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	DB             int      `yaml:"db"`
	SentinelMaster string   `yaml:"sentinel_master"`

	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`

	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type NotifyConfig struct {
	// Pause inserted after every successful send.
	SendInterval time.Duration `yaml:"send_interval"`
	// Base URL used for the "Open list" link in emails.
	AppURL string `yaml:"app_url"`
}

type PresenceConfig struct {
	// A peer without a heartbeat for this long is dropped from snapshots.
	TTL time.Duration `yaml:"ttl"`
}

// Output: stdout | stderr | file | <path>
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json | console
	Output     string `yaml:"output"`
	Dir        string `yaml:"dir"`
	Filename   string `yaml:"filename"`
	Rotate     bool   `yaml:"rotate"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Mail     MailConfig     `yaml:"mail"`
	Notify   NotifyConfig   `yaml:"notify"`
	Presence PresenceConfig `yaml:"presence"`
	Logging  LoggingConfig  `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig(), nil // fallback to defaults if file missing
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080, GracefulTimeout: 10 * time.Second},
		Database: DatabaseConfig{Driver: "mysql", DSN: "root:root@tcp(127.0.0.1:3306)/quicktask?parseTime=true&loc=Local", MaxOpenConns: 50, MaxIdleConns: 10, ConnMaxLifeSec: 300},
		Redis: RedisConfig{
			Mode:        "single",
			Addresses:   []string{"127.0.0.1:6379"},
			PoolSize:    10,
			DialTimeout: 5 * time.Second,
		},
		Mail:     MailConfig{Host: "127.0.0.1", Port: 587, From: "TaskApp <noreply@quicktask.click>"},
		Notify:   NotifyConfig{SendInterval: 600 * time.Millisecond, AppURL: "https://quicktask.click"},
		Presence: PresenceConfig{TTL: 45 * time.Second},
		Logging:  LoggingConfig{Level: "INFO", Format: "json", Output: "stdout"},
	}
}
