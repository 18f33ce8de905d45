// Package config loads meter settings from ~/.meter/config.yaml and
// METER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/keyring"
)

const (
	KeyDatabase      = "database"
	KeyInvoiceDir    = "invoice_dir"
	KeyInvoiceFormat = "invoice_format"
	KeyTickInterval  = "tick_interval"
	KeyDebug         = "debug"

	// KeyringDatabase as the database value reads the connection string from the OS keyring
	KeyringDatabase = "keyring"
)

type Config struct {
	Dir           string
	Database      string
	InvoiceDir    string
	InvoiceFormat string
	TickInterval  time.Duration
	Debug         bool
	// File is the config file that was read, empty if none
	File string
}

type Options struct {
	// File overrides the config file search
	File string
	// Dir overrides ~/.meter
	Dir string
}

// Load reads configuration. A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	dir := opts.Dir
	if dir == "" {
		dir = os.Getenv("METER_CONFIG_PATH")
	}
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config dir: %w", err)
	}

	v.SetDefault(KeyDatabase, constants.DefaultDBPath)
	v.SetDefault(KeyInvoiceDir, constants.DefaultInvoiceDir)
	v.SetDefault(KeyInvoiceFormat, constants.InvoiceFormatPDF)
	v.SetDefault(KeyTickInterval, constants.DefaultTickInterval)
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix("METER")
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Dir:           dir,
		Database:      v.GetString(KeyDatabase),
		InvoiceFormat: v.GetString(KeyInvoiceFormat),
		TickInterval:  v.GetDuration(KeyTickInterval),
		Debug:         v.GetBool(KeyDebug),
		File:          v.ConfigFileUsed(),
	}

	if cfg.InvoiceDir, err = homedir.Expand(v.GetString(KeyInvoiceDir)); err != nil {
		return nil, fmt.Errorf("failed to expand invoice dir: %w", err)
	}
	if cfg.Database != KeyringDatabase {
		if cfg.Database, err = homedir.Expand(cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to expand database path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.InvoiceFormat {
	case constants.InvoiceFormatPDF, constants.InvoiceFormatText:
	default:
		return fmt.Errorf("invalid %s %q (want %q or %q)", KeyInvoiceFormat, c.InvoiceFormat, constants.InvoiceFormatPDF, constants.InvoiceFormatText)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("invalid %s %v: must be positive", KeyTickInterval, c.TickInterval)
	}
	return nil
}

// DatabaseTarget returns the SQLite path or PostgreSQL connection string to
// open, consulting the OS keyring when configured to.
func (c *Config) DatabaseTarget() (string, error) {
	if c.Database != KeyringDatabase {
		return c.Database, nil
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		return "", fmt.Errorf("database is set to %q: %w", KeyringDatabase, err)
	}
	return connStr, nil
}
