// Package config loads the settings of a session from an optional YAML file,
// then from QRISK_* environment variables.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"qrisk/meta"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Game    GameConfig    `mapstructure:"game"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" env:"QRISK_LOG_LEVEL"`
	File       string `mapstructure:"file" env:"QRISK_LOG_FILE"` // rotated log file, none when empty
	MaxSize    int    `mapstructure:"max_size"`                  // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

type GameConfig struct {
	World        string        `mapstructure:"world" env:"QRISK_WORLD"` // built-in world when empty
	Seed         uint64        `mapstructure:"seed" env:"QRISK_SEED"`   // time-based when 0
	SharedBasis  bool          `mapstructure:"shared_basis" env:"QRISK_SHARED_BASIS"`
	PollInterval time.Duration `mapstructure:"poll_interval" env:"QRISK_POLL_INTERVAL"`
	Bots         []int         `mapstructure:"bots" env:"QRISK_BOTS"` // seats played by the computer
}

type ServerConfig struct {
	Listen string `mapstructure:"listen" env:"QRISK_LISTEN"` // no server when empty
}

type MetricsConfig struct {
	Dir string `mapstructure:"dir" env:"QRISK_METRICS_DIR"` // no metrics written when empty
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("game.poll_interval", meta.POLL_INTERVAL)
}

// Loader reads one configuration file and can watch it for changes.
type Loader struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	}
	return &Loader{v: v, path: path}
}

// Load reads the file, if any, and applies the environment on top.
func (l *Loader) Load() (Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.path != "" {
		if _, err := os.Stat(l.path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("viper unmarshal config: %w", err)
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch calls onChange with the reloaded configuration every time the file
// changes. It does nothing without a file.
func (l *Loader) Watch(onChange func(Config)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Msgf("config file changed: %s (%s)", e.Name, e.Op)
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()
		if err != nil {
			log.Error().Err(err).Msg("keeping the previous config")
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// ParseEnv loads configuration from environment variables. Unset variables
// leave the fields untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load is a shortcut for NewLoader(path).Load().
func Load(path string) (Config, error) {
	return NewLoader(path).Load()
}
