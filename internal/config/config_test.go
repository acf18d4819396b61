package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Target SAS")
	cfg.Ledger.ImbalanceThreshold = decimal.NewFromInt(100)
	cfg.QoE.OwnerCompBenchmark = decimal.NewFromInt(90000)

	path := filepath.Join(t.TempDir(), "wincap.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Engagement.CompanyName, got.Engagement.CompanyName)
	assert.Equal(t, cfg.Engagement.Currency, got.Engagement.Currency)
	assert.True(t, got.Ratios.VATRate.Equal(decimal.NewFromFloat(1.20)))
	assert.Equal(t, []int{0, 30, 60, 90, 120}, got.Ratios.AgingThresholds)
	assert.True(t, got.Ledger.ImbalanceThreshold.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.QoE.OwnerCompBenchmark.Equal(decimal.NewFromInt(90000)))
}

func TestDefaults(t *testing.T) {
	cfg := Default("Cible SARL")

	assert.Equal(t, "Cible SARL", cfg.Engagement.CompanyName)
	assert.Equal(t, "EUR", cfg.Engagement.Currency)
	assert.True(t, cfg.Ratios.VATRate.Equal(decimal.NewFromFloat(1.20)))
	assert.True(t, cfg.Ledger.ImbalanceThreshold.IsZero())
	assert.True(t, cfg.QoE.NonRecurringMin.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.QoE.RelatedPartyMin.Equal(decimal.NewFromInt(5000)))
	assert.True(t, cfg.QoE.EnCoursMin.Equal(decimal.NewFromInt(50000)))
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WINCAP_CURRENCY", "CHF")
	t.Setenv("WINCAP_VAT_RATE", "1.081")
	t.Setenv("WINCAP_OWNER_COMP_BENCHMARK", "150000")

	path := filepath.Join(t.TempDir(), "wincap.yaml")
	require.NoError(t, Save(path, Default("Target SAS")))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "CHF", got.Engagement.Currency)
	assert.True(t, got.Ratios.VATRate.Equal(decimal.NewFromFloat(1.081)))
	assert.True(t, got.QoE.OwnerCompBenchmark.Equal(decimal.NewFromInt(150000)))
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Target SAS")
	path := filepath.Join(t.TempDir(), "wincap.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "company_name: Target SAS")
	assert.Contains(t, contents, "currency: EUR")
	assert.Contains(t, contents, "vat_rate:")
	assert.Contains(t, contents, "owner_comp_benchmark:")
}
