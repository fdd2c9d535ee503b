// Package config resolves runtime settings from defaults, an optional YAML
// file, CHORECAL_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "CHORECAL"

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

type Config struct {
	Port            int           `mapstructure:"port"`
	Storage         string        `mapstructure:"storage"`
	DBPath          string        `mapstructure:"db_path"`
	DataFile        string        `mapstructure:"data_file"`
	LogLevel        string        `mapstructure:"log_level"`
	LogColor        bool          `mapstructure:"log_color"`
	HorizonMonths   int           `mapstructure:"horizon_months"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Backup          Backup        `mapstructure:"backup"`
}

// Backup configures encrypted snapshots in S3-compatible storage.
type Backup struct {
	Endpoint   string `mapstructure:"endpoint"`
	Bucket     string `mapstructure:"bucket"`
	Region     string `mapstructure:"region"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	Prefix     string `mapstructure:"prefix"`
	Passphrase string `mapstructure:"passphrase"`
	Keep       int    `mapstructure:"keep"`
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("db_path", "chorecal.db")
	v.SetDefault("data_file", "chorecal.json")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_color", false)
	v.SetDefault("horizon_months", 3)
	v.SetDefault("refresh_interval", 24*time.Hour)
	for _, key := range []string{"endpoint", "bucket", "region", "access_key", "secret_key", "prefix", "passphrase"} {
		v.SetDefault("backup."+key, "")
	}
	v.SetDefault("backup.keep", 14)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.Storage {
	case StorageSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db_path is required for sqlite storage"))
		}
	case StorageFile:
		if c.DataFile == "" {
			errs = append(errs, errors.New("data_file is required for file storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage must be %q or %q, got %q", StorageSQLite, StorageFile, c.Storage))
	}
	if c.HorizonMonths < 1 {
		errs = append(errs, fmt.Errorf("horizon_months must be at least 1, got %d", c.HorizonMonths))
	}
	if c.RefreshInterval < 0 {
		errs = append(errs, errors.New("refresh_interval must not be negative"))
	}
	if c.Backup.Keep < 1 {
		errs = append(errs, fmt.Errorf("backup.keep must be at least 1, got %d", c.Backup.Keep))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
