package config

import (
	"errors"
	"flag"
	"fmt"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"time"
)

const (
	configPathFlag    = "c"
	configPathEnv     = "CONFIG_PATH"
	configPathDefault = "configs/config.yaml"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Bot     BotConfig     `yaml:"bot"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type BotConfig struct {
	Token             string        `yaml:"token" env:"BOT_TOKEN"`
	AdminIDs          []int64       `yaml:"admin_ids" env:"ADMIN_IDS" envSeparator:","`
	APIURL            string        `yaml:"api_url" env:"TELEGRAM_API_URL"`
	PageSize          int           `yaml:"page_size" env:"BOT_PAGE_SIZE"`
	PollTimeout       time.Duration `yaml:"poll_timeout" env:"BOT_POLL_TIMEOUT"`
	PollInterval      time.Duration `yaml:"poll_interval" env:"BOT_POLL_INTERVAL"`
	ErrorBackoff      time.Duration `yaml:"error_backoff" env:"BOT_ERROR_BACKOFF"`
	NotifyConcurrency int           `yaml:"notify_concurrency" env:"BOT_NOTIFY_CONCURRENCY"`
}

type StorageConfig struct {
	Path string `yaml:"path" env:"DB_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Bot: BotConfig{
			APIURL:            "https://api.telegram.org",
			PageSize:          5,
			PollTimeout:       30 * time.Second,
			PollInterval:      time.Second,
			ErrorBackoff:      5 * time.Second,
			NotifyConcurrency: 4,
		},
		Storage: StorageConfig{
			Path: "data/orders.json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the file named by -c, CONFIG_PATH or the default path and then
// applies environment overrides.
func Load() (*Config, error) {
	path := flag.String(configPathFlag, "", "Path to the YAML config file")
	flag.Parse()

	if *path == "" {
		*path = os.Getenv(configPathEnv)
	}
	if *path == "" {
		*path = configPathDefault
	}
	return LoadFile(*path)
}

// LoadFile builds the config from defaults, the YAML file at path (a missing
// file is skipped) and the environment, in that order.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot.token is required")
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if c.Bot.PageSize <= 0 {
		return errors.New("bot.page_size must be positive")
	}
	if c.Bot.PollTimeout <= 0 {
		return errors.New("bot.poll_timeout must be positive")
	}
	return nil
}
