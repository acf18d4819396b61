package pcg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTable() *Table {
	return NewTable(DefaultMappings())
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	table := defaultTable()

	tests := []struct {
		account    string
		category   Category
		pnlSection string
		balSection string
	}{
		// Sub-prefix carve-outs take precedence over their parent class.
		{"611000", CategorySubcontracting, "sous_traitance", ""},
		{"615000", CategoryExternalCharges, "autres_achats", ""},
		{"622600", CategoryExternalCharges, "autres_achats", ""},
		{"691000", CategoryProfitSharing, "participation", ""},
		{"695000", CategoryIncomeTax, "impot_societes", ""},
		{"409100", CategoryAdvancesPaid, "", "avances_versees"},
		{"409800", CategoryOtherReceivables, "", "autres_creances"},
		{"401000", CategoryPayables, "", "fournisseurs"},
		{"411000", CategoryReceivables, "", "clients"},
		{"419000", CategoryOtherPayables, "", "autres_dettes"},
		{"455000", CategoryFinancialDebt, "", "comptes_courants_associes"},
		{"451000", CategoryOtherReceivables, "", "autres_creances"},
		{"519000", CategoryBankOverdraft, "", "tresorerie_passif"},
		{"512000", CategoryCash, "", "disponibilites"},
		{"486000", CategoryPrepaidExpenses, "", "charges_constatees_avance"},
		{"487000", CategoryDeferredIncome, "", "produits_constates_avance"},
		{"481000", CategoryOtherPayables, "", "autres_dettes"},
		{"106000", CategoryEquity, "", "reserves"},
		{"101000", CategoryEquity, "", "capital"},
		{"161000", CategoryFinancialDebt, "", "emprunts_obligataires"},
		{"164000", CategoryFinancialDebt, "", "emprunts_etablissements"},
		{"707000", CategoryRevenue, "chiffre_affaires", ""},
		// Offsetting income classes land on the expense section.
		{"750000", CategoryOtherCharges, "autres_charges", ""},
		{"781000", CategoryDepreciation, "dotations", ""},
	}
	for _, tt := range tests {
		m, ok := table.Classify(tt.account)
		require.True(t, ok, "account %s should classify", tt.account)
		assert.Equal(t, tt.category, m.Category, "account %s", tt.account)
		assert.Equal(t, tt.pnlSection, m.PnLSection, "account %s", tt.account)
		assert.Equal(t, tt.balSection, m.BalanceSection, "account %s", tt.account)
	}
}

func TestClassify_Unmapped(t *testing.T) {
	table := defaultTable()
	// Contra accounts (amortization/depreciation) are handled by the
	// balance engine's pairing, not the mapping table.
	_, ok := table.Classify("281000")
	assert.False(t, ok)
	_, ok = table.Classify("")
	assert.False(t, ok)
}

func TestLoad_OverridesWin(t *testing.T) {
	content := `- prefix: "41"
  category: autres_creances
  balance_section: autres_creances
- prefix: "467"
  category: autres_dettes
  balance_section: autres_dettes
`
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := Load(path)
	require.NoError(t, err)

	m, ok := table.Classify("411000")
	require.True(t, ok)
	assert.Equal(t, "autres_creances", m.BalanceSection, "file entry wins over the default 41 mapping")

	m, ok = table.Classify("467000")
	require.True(t, ok)
	assert.Equal(t, "autres_dettes", m.BalanceSection)

	// Untouched defaults survive the merge, including the 419 carve-out.
	m, ok = table.Classify("419000")
	require.True(t, ok)
	assert.Equal(t, "autres_dettes", m.BalanceSection)
	m, ok = table.Classify("707000")
	require.True(t, ok)
	assert.Equal(t, "chiffre_affaires", m.PnLSection)
}

func TestLoad_EmptyPrefixRejected(t *testing.T) {
	content := "- category: autres_dettes\n"
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestDebitPositive(t *testing.T) {
	assert.True(t, DebitPositive("607000"), "expenses are debit-normal")
	assert.True(t, DebitPositive("411000"), "assets are debit-normal")
	assert.False(t, DebitPositive("707000"), "income is credit-normal")
	assert.False(t, DebitPositive("101000"), "equity is credit-normal")
}
