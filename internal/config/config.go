package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Export   ExportConfig   `mapstructure:"export"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// DefaultDBPath is used when neither a config file nor the environment names a database.
const DefaultDBPath = "bytebank.db"

// Load reads configuration from an optional .env file, an optional TOML file
// at path and the environment. Env var overrides use prefix BYTEBANK_; the
// plain DB_PATH variable is honoured as well.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("log.level", "warn")
	v.SetDefault("export.dir", ".")

	v.SetEnvPrefix("BYTEBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.path", "BYTEBANK_DATABASE_PATH", "DB_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if path == "" {
		path = os.Getenv("BYTEBANK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate validates the configuration and returns an error if invalid
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database path cannot be empty"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	if c.Export.Dir != "" {
		if info, err := os.Stat(c.Export.Dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("export dir %q is not a directory", c.Export.Dir))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}
