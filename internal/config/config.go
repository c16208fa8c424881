package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PORTFOLIO"

// Storage backends for theme preferences.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Port    string         `mapstructure:"port"`
	Log     LogConfig      `mapstructure:"log"`
	Storage string         `mapstructure:"storage"`
	DB      DBConfig       `mapstructure:"db"`
	Theme   ThemeConfig    `mapstructure:"theme"`
	Clock   ClockConfig    `mapstructure:"clock"`
	Profile models.Profile `mapstructure:"profile"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type ThemeConfig struct {
	Default      string `mapstructure:"default"`
	CookieMaxAge int    `mapstructure:"cookie_max_age"` // seconds
}

type ClockConfig struct {
	OffsetHours int           `mapstructure:"offset_hours"`
	Interval    time.Duration `mapstructure:"interval"`
	HourCycle   int           `mapstructure:"hour_cycle"` // 12 or 24
	Location    string        `mapstructure:"location"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("theme.default", string(models.ThemeSystem))
	v.SetDefault("theme.cookie_max_age", 365*24*60*60)
	v.SetDefault("clock.offset_hours", 5)
	v.SetDefault("clock.interval", 10*time.Second)
	v.SetDefault("clock.hour_cycle", 24)
	v.SetDefault("clock.location", "Almaty, Kazakhstan")
}

// Load reads configs/config.yml (or whatever lives under dir), applies
// PORTFOLIO_* environment overrides and validates the result. A missing
// config file is not an error; defaults apply.
func Load(dir string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the services cannot work with.
func (c Config) Validate() error {
	if _, err := models.ParseTheme(c.Theme.Default); err != nil {
		return fmt.Errorf("theme.default: %w", err)
	}
	if c.Clock.Interval <= 0 {
		return fmt.Errorf("clock.interval must be positive, got %s", c.Clock.Interval)
	}
	if c.Clock.HourCycle != 12 && c.Clock.HourCycle != 24 {
		return fmt.Errorf("clock.hour_cycle must be 12 or 24, got %d", c.Clock.HourCycle)
	}
	switch c.Storage {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageSQLite, StorageMemory, c.Storage)
	}
	return nil
}

// DefaultTheme returns the validated default theme.
func (c Config) DefaultTheme() models.Theme {
	t, err := models.ParseTheme(c.Theme.Default)
	if err != nil {
		return models.ThemeSystem
	}
	return t
}
