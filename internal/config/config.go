package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/wincap-dev/wincap/internal/qoe"
)

// Config represents the top-level wincap.yaml configuration.
type Config struct {
	Engagement EngagementConfig `yaml:"engagement"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Ratios     RatiosConfig     `yaml:"ratios"`
	QoE        qoe.Config       `yaml:"qoe"`
}

// EngagementConfig identifies the target company under analysis.
type EngagementConfig struct {
	CompanyName string `yaml:"company_name"`
	Currency    string `yaml:"currency"`
}

// LedgerConfig controls file ingestion.
type LedgerConfig struct {
	// ImbalanceThreshold upgrades the unbalanced-file warning to an
	// error when the absolute imbalance exceeds it. Zero disables the
	// escalation; unbalanced files then parse with a warning only.
	ImbalanceThreshold decimal.Decimal `yaml:"imbalance_threshold"`
}

// RatiosConfig feeds the cycle-ratio calculations.
type RatiosConfig struct {
	// VATRate is a gross-up multiplier, e.g. 1.20 for French 20% VAT.
	VATRate decimal.Decimal `yaml:"vat_rate"`
	// AgingThresholds are the day boundaries of the aged-balance
	// buckets, ascending, starting at 0.
	AgingThresholds []int `yaml:"aging_thresholds,omitempty"`
}

// envOverrides mirrors the settings that may be overridden through
// WINCAP_* environment variables.
type envOverrides struct {
	Currency           string  `envconfig:"CURRENCY"`
	VATRate            float64 `envconfig:"VAT_RATE"`
	OwnerCompBenchmark float64 `envconfig:"OWNER_COMP_BENCHMARK"`
}

// Load reads a wincap.yaml file from disk and applies WINCAP_*
// environment overrides on top.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("wincap", &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.Currency != "" {
		c.Engagement.Currency = env.Currency
	}
	if env.VATRate > 0 {
		c.Ratios.VATRate = decimal.NewFromFloat(env.VATRate)
	}
	if env.OwnerCompBenchmark > 0 {
		c.QoE.OwnerCompBenchmark = decimal.NewFromFloat(env.OwnerCompBenchmark)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new engagement.
func Default(companyName string) *Config {
	return &Config{
		Engagement: EngagementConfig{
			CompanyName: companyName,
			Currency:    "EUR",
		},
		Ratios: RatiosConfig{
			VATRate:         decimal.NewFromFloat(1.20),
			AgingThresholds: []int{0, 30, 60, 90, 120},
		},
		QoE: qoe.DefaultConfig(),
	}
}
