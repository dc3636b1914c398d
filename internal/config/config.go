// Package config loads cakeshop.yaml and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/cake"
	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
)

const (
	// DefaultPath is read when no path is given.
	DefaultPath = "cakeshop.yaml"

	LedgerDriverEnv = "CAKESHOP_LEDGER_DRIVER"
	LedgerDSNEnv    = "CAKESHOP_LEDGER_DSN"
	AuditLevelEnv   = "CAKESHOP_AUDIT_LEVEL"
)

const (
	LedgerNone     = "none"
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

// ErrInvalidConfig wraps every validation failure in cakeshop.yaml or the environment.
var ErrInvalidConfig = errors.New("invalid configuration")

// AuditConfig controls the audit sink.
type AuditConfig struct {
	Level string `yaml:"level"`
}

// LedgerConfig selects the ledger backend.
type LedgerConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

// AdminConfig controls price administration.
type AdminConfig struct {
	// PolicyPath points at a Rego module; empty means the built-in policy.
	PolicyPath string `yaml:"policy_path,omitempty"`
}

// Config models cakeshop.yaml.
type Config struct {
	Prices     map[string]map[string]string `yaml:"prices,omitempty"`
	Surcharges map[string]string            `yaml:"surcharges,omitempty"`
	Audit      AuditConfig                  `yaml:"audit"`
	Ledger     LedgerConfig                 `yaml:"ledger"`
	Admin      AdminConfig                  `yaml:"admin"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Audit:  AuditConfig{Level: "INFO"},
		Ledger: LedgerConfig{Driver: LedgerNone},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides file values with CAKESHOP_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(LedgerDriverEnv)); v != "" {
		c.Ledger.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv(LedgerDSNEnv)); v != "" {
		c.Ledger.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(AuditLevelEnv)); v != "" {
		c.Audit.Level = v
	}
}

// Validate checks the ledger settings.
func (c *Config) Validate() error {
	driver := strings.ToLower(strings.TrimSpace(c.Ledger.Driver))
	switch driver {
	case "", LedgerNone:
		c.Ledger.Driver = LedgerNone
	case LedgerSQLite, LedgerPostgres:
		c.Ledger.Driver = driver
		if c.Ledger.DSN == "" {
			return fmt.Errorf("%w: ledger driver %s requires a dsn", ErrInvalidConfig, driver)
		}
	default:
		return fmt.Errorf("%w: unknown ledger driver %q", ErrInvalidConfig, c.Ledger.Driver)
	}

	return nil
}

// PriceTable overlays configured prices on the compiled-in table.
func (c *Config) PriceTable() (catalog.PriceTable, error) {
	table := catalog.DefaultPrices()

	for kindName, sizes := range c.Prices {
		var kind cake.Kind
		if err := kind.UnmarshalText([]byte(kindName)); err != nil {
			return nil, fmt.Errorf("%w: prices: %w", ErrInvalidConfig, err)
		}

		for sizeName, raw := range sizes {
			var size cake.Size
			if err := size.UnmarshalText([]byte(sizeName)); err != nil {
				return nil, fmt.Errorf("%w: prices.%s: %w", ErrInvalidConfig, kind, err)
			}

			price, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: prices.%s.%s: %q is not a price", ErrInvalidConfig, kind, size, raw)
			}

			if err := table.Set(kind, size, price); err != nil {
				return nil, fmt.Errorf("%w: prices.%s.%s: %w", ErrInvalidConfig, kind, size, err)
			}
		}
	}

	return table, nil
}

// SurchargeTable overlays configured surcharges on the compiled-in ones.
func (c *Config) SurchargeTable() (cake.SurchargeTable, error) {
	table := cake.DefaultSurcharges()

	for name, raw := range c.Surcharges {
		var d cake.Decoration
		if err := d.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("%w: surcharges: %w", ErrInvalidConfig, err)
		}

		surcharge, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: surcharges.%s: %q is not a price", ErrInvalidConfig, d, raw)
		}

		if surcharge.IsNegative() {
			return nil, fmt.Errorf("%w: surcharges.%s: %w", ErrInvalidConfig, d, catalog.ErrNegativePrice)
		}

		table[d] = surcharge
	}

	return table, nil
}
